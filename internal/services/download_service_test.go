package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

func TestDownloadService(t *testing.T) {
	ctx := context.Background()
	secret := "test-download-secret"

	setup := func(t *testing.T) (*services.DownloadService, models.User, models.Game, *repositories.MockUserRepository) {
		userRepo := repositories.NewMockUserRepository()
		gameRepo := repositories.NewMockGameRepository()
		downloadService := services.NewDownloadService(userRepo, gameRepo, secret)

		user := models.User{Username: "c", Email: "c@example.com", Role: models.RoleCustomer}
		assert.NoError(t, userRepo.Create(ctx, &user))
		game := seedGame(t, gameRepo, models.Game{
			Title: "Hades", Price: 135000, Stock: 5,
			DownloadURL: "https://cdn.example.com/hades.zip",
		})
		return downloadService, user, game, userRepo
	}

	t.Run("authorize and redeem round trip", func(t *testing.T) {
		downloadService, user, game, userRepo := setup(t)
		assert.NoError(t, userRepo.AddToLibrary(ctx, user.ID, []primitive.ObjectID{game.ID}))

		grant, err := downloadService.Authorize(ctx, user.ID, game.ID)
		assert.NoError(t, err)
		assert.NotEmpty(t, grant.Token)
		assert.Equal(t, game.ID, grant.Game.ID)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), grant.ExpiresAt, 5*time.Second)

		redeemed, err := downloadService.Redeem(ctx, grant.Token)
		assert.NoError(t, err)
		assert.Equal(t, game.ID, redeemed.ID)
		assert.Equal(t, "https://cdn.example.com/hades.zip", redeemed.DownloadURL)
	})

	t.Run("not owned", func(t *testing.T) {
		downloadService, user, game, _ := setup(t)
		_, err := downloadService.Authorize(ctx, user.ID, game.ID)
		assert.ErrorIs(t, err, services.ErrNotOwned)
	})

	t.Run("garbage token", func(t *testing.T) {
		downloadService, _, _, _ := setup(t)
		_, err := downloadService.Redeem(ctx, "not.a.token")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		downloadService, _, game, _ := setup(t)

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"game_id": game.ID.Hex(),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		expired, err := token.SignedString([]byte(secret))
		assert.NoError(t, err)

		_, err = downloadService.Redeem(ctx, expired)
		assert.Error(t, err)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		downloadService, _, game, _ := setup(t)

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"game_id": game.ID.Hex(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		forged, err := token.SignedString([]byte("other-secret"))
		assert.NoError(t, err)

		_, err = downloadService.Redeem(ctx, forged)
		assert.Error(t, err)
	})
}
