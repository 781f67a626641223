package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

func seedGame(t *testing.T, repo repositories.GameRepository, game models.Game) models.Game {
	t.Helper()
	err := repo.Create(context.Background(), &game)
	assert.NoError(t, err)
	return game
}

func TestCartService_AddToCart(t *testing.T) {
	ctx := context.Background()
	customerID := primitive.NewObjectID()

	t.Run("snapshots game fields", func(t *testing.T) {
		cartRepo := repositories.NewMockCartRepository()
		gameRepo := repositories.NewMockGameRepository()
		cartService := services.NewCartService(cartRepo, gameRepo)

		game := seedGame(t, gameRepo, models.Game{
			Title: "Elden Ring", Price: 859000, Stock: 10, ImageURL: "/img/er.jpg",
		})

		err := cartService.AddToCart(ctx, customerID, game.ID, 2)
		assert.NoError(t, err)

		cart, err := cartService.GetCart(ctx, customerID)
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, "Elden Ring", cart.Items[0].GameTitle)
		assert.Equal(t, 859000.0, cart.Items[0].Price)
		assert.Equal(t, "/img/er.jpg", cart.Items[0].ImageURL)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})

	t.Run("same game merges into one line", func(t *testing.T) {
		cartRepo := repositories.NewMockCartRepository()
		gameRepo := repositories.NewMockGameRepository()
		cartService := services.NewCartService(cartRepo, gameRepo)

		game := seedGame(t, gameRepo, models.Game{Title: "Hades", Price: 135000, Stock: 10})

		assert.NoError(t, cartService.AddToCart(ctx, customerID, game.ID, 1))
		assert.NoError(t, cartService.AddToCart(ctx, customerID, game.ID, 3))

		cart, err := cartService.GetCart(ctx, customerID)
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 4, cart.Items[0].Quantity)
	})

	t.Run("quantity below one is clamped to one", func(t *testing.T) {
		cartRepo := repositories.NewMockCartRepository()
		gameRepo := repositories.NewMockGameRepository()
		cartService := services.NewCartService(cartRepo, gameRepo)

		game := seedGame(t, gameRepo, models.Game{Title: "Celeste", Price: 85000, Stock: 5})

		assert.NoError(t, cartService.AddToCart(ctx, customerID, game.ID, 0))
		cart, _ := cartService.GetCart(ctx, customerID)
		assert.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("stock below requested quantity is rejected", func(t *testing.T) {
		cartRepo := repositories.NewMockCartRepository()
		gameRepo := repositories.NewMockGameRepository()
		cartService := services.NewCartService(cartRepo, gameRepo)

		game := seedGame(t, gameRepo, models.Game{Title: "Rare Item", Price: 50000, Stock: 1})

		err := cartService.AddToCart(ctx, customerID, game.ID, 2)
		assert.ErrorIs(t, err, services.ErrInsufficientStock)
	})

	t.Run("stock check ignores quantity already in cart", func(t *testing.T) {
		cartRepo := repositories.NewMockCartRepository()
		gameRepo := repositories.NewMockGameRepository()
		cartService := services.NewCartService(cartRepo, gameRepo)

		game := seedGame(t, gameRepo, models.Game{Title: "Scarce", Price: 10000, Stock: 3})

		// Each individual add passes the advisory check against stock 3,
		// even though the cart ends up with more than the stock.
		assert.NoError(t, cartService.AddToCart(ctx, customerID, game.ID, 3))
		assert.NoError(t, cartService.AddToCart(ctx, customerID, game.ID, 3))

		cart, _ := cartService.GetCart(ctx, customerID)
		assert.Equal(t, 6, cart.Items[0].Quantity)
	})

	t.Run("unknown game is rejected", func(t *testing.T) {
		cartRepo := repositories.NewMockCartRepository()
		gameRepo := repositories.NewMockGameRepository()
		cartService := services.NewCartService(cartRepo, gameRepo)

		err := cartService.AddToCart(ctx, customerID, primitive.NewObjectID(), 1)
		assert.ErrorIs(t, err, services.ErrInsufficientStock)
	})

	t.Run("concurrent adds are not lost", func(t *testing.T) {
		cartRepo := repositories.NewMockCartRepository()
		gameRepo := repositories.NewMockGameRepository()
		cartService := services.NewCartService(cartRepo, gameRepo)

		game := seedGame(t, gameRepo, models.Game{Title: "Portal 2", Price: 65000, Stock: 100})

		// Racing adds for the same game must end up on a single line, never
		// as duplicate lines pushed by requests that both missed the
		// increment.
		const adds = 16
		var wg sync.WaitGroup
		for i := 0; i < adds; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, cartService.AddToCart(ctx, customerID, game.ID, 1))
			}()
		}
		wg.Wait()

		cart, err := cartService.GetCart(ctx, customerID)
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, adds, cart.Items[0].Quantity)
	})
}

func TestCartService_GetCart_Empty(t *testing.T) {
	cartService := services.NewCartService(repositories.NewMockCartRepository(), repositories.NewMockGameRepository())

	cart, err := cartService.GetCart(context.Background(), primitive.NewObjectID())
	assert.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total())
}

func TestCartService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	customerID := primitive.NewObjectID()

	cartRepo := repositories.NewMockCartRepository()
	gameRepo := repositories.NewMockGameRepository()
	cartService := services.NewCartService(cartRepo, gameRepo)

	game := seedGame(t, gameRepo, models.Game{Title: "Stardew Valley", Price: 105000, Stock: 50})
	assert.NoError(t, cartService.AddToCart(ctx, customerID, game.ID, 2))

	// Verbatim set, not an increment.
	assert.NoError(t, cartService.UpdateItem(ctx, customerID, game.ID, 5))
	cart, _ := cartService.GetCart(ctx, customerID)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// Zero removes the line.
	assert.NoError(t, cartService.UpdateItem(ctx, customerID, game.ID, 0))
	cart, _ = cartService.GetCart(ctx, customerID)
	assert.Empty(t, cart.Items)
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	customerID := primitive.NewObjectID()

	cartRepo := repositories.NewMockCartRepository()
	gameRepo := repositories.NewMockGameRepository()
	cartService := services.NewCartService(cartRepo, gameRepo)

	first := seedGame(t, gameRepo, models.Game{Title: "A", Price: 1000, Stock: 5})
	second := seedGame(t, gameRepo, models.Game{Title: "B", Price: 2000, Stock: 5})
	assert.NoError(t, cartService.AddToCart(ctx, customerID, first.ID, 1))
	assert.NoError(t, cartService.AddToCart(ctx, customerID, second.ID, 1))

	assert.NoError(t, cartService.RemoveItem(ctx, customerID, first.ID))
	cart, _ := cartService.GetCart(ctx, customerID)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "B", cart.Items[0].GameTitle)
}
