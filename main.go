package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	amqp "github.com/streadway/amqp"

	"retroverse/internal/config"
	"retroverse/internal/database"
	"retroverse/internal/handlers"
	"retroverse/internal/middleware"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
	"retroverse/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- MongoDB ---
	store, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancelIndex()

	// --- RabbitMQ (optional) ---
	// Order events are a side channel; the shop runs fine without a broker.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		// The consumer only records placed orders for now; fulfillment
		// hooks would attach here.
		err = mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			var event rabbitmq.OrderPlacedEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				return fmt.Errorf("failed to decode order event: %w", err)
			}
			log.Printf("Order event: order %s for customer %s, total %.0f", event.OrderID, event.CustomerID, event.TotalAmount)
			return nil
		})
		if err != nil {
			log.Printf("Failed to start order event consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(store)
	gameRepo := repositories.NewMongoGameRepository(store)
	cartRepo := repositories.NewMongoCartRepository(store)
	orderRepo := repositories.NewMongoOrderRepository(store)

	// --- Services ---
	authService := services.NewAuthService(userRepo)
	catalogService := services.NewCatalogService(gameRepo, userRepo)
	cartService := services.NewCartService(cartRepo, gameRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, gameRepo, mqClient, cfg.WhatsAppAdminPhone)
	downloadService := services.NewDownloadService(userRepo, gameRepo, cfg.DownloadTokenSecret)
	adminService := services.NewAdminService(gameRepo, userRepo, orderRepo)

	// --- Sessions ---
	sessionStore := session.New(session.Config{
		Expiration:     cfg.SessionIdleTimeout,
		CookieHTTPOnly: true,
	})

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.LoadCaller(sessionStore))

	// Uploaded covers and avatars are served from the upload directory.
	app.Static("/img", cfg.UploadDir+"/img")

	api := app.Group("/api/v1")

	handlers.NewAuthHandler(authService, orderService, sessionStore, cfg.UploadDir).RegisterRoutes(api)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(api)
	handlers.NewCartHandler(cartService).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, downloadService).RegisterRoutes(api)
	handlers.NewAdminHandler(adminService, cfg.UploadDir).RegisterRoutes(api)

	if cfg.EnableDevSeed {
		log.Println("Development seeding endpoints enabled")
		seedService := services.NewSeedService(userRepo, gameRepo)
		handlers.NewDevHandler(seedService).RegisterRoutes(api)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
