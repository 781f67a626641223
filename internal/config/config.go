package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every externally supplied tunable. Values come from environment
// variables with sensible local-development defaults.
type Config struct {
	AppPort             string
	MongoURI            string
	MongoDatabase       string
	RabbitMQURL         string
	UploadDir           string
	WhatsAppAdminPhone  string
	DownloadTokenSecret string
	SessionIdleTimeout  time.Duration
	EnableDevSeed       bool
}

// Load reads configuration from the environment via Viper.
func Load() Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "retroverse")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("UPLOAD_DIR", "./wwwroot")
	viper.SetDefault("WA_ADMIN_PHONE", "6281388209195")
	viper.SetDefault("DOWNLOAD_TOKEN_SECRET", "dev-download-secret")
	viper.SetDefault("SESSION_IDLE_MINUTES", 30)
	viper.SetDefault("ENABLE_DEV_SEED", false)
	viper.AutomaticEnv()

	return Config{
		AppPort:             viper.GetString("APP_PORT"),
		MongoURI:            viper.GetString("MONGO_URI"),
		MongoDatabase:       viper.GetString("MONGO_DB"),
		RabbitMQURL:         viper.GetString("RABBITMQ_URL"),
		UploadDir:           viper.GetString("UPLOAD_DIR"),
		WhatsAppAdminPhone:  viper.GetString("WA_ADMIN_PHONE"),
		DownloadTokenSecret: viper.GetString("DOWNLOAD_TOKEN_SECRET"),
		SessionIdleTimeout:  time.Duration(viper.GetInt("SESSION_IDLE_MINUTES")) * time.Minute,
		EnableDevSeed:       viper.GetBool("ENABLE_DEV_SEED"),
	}
}
