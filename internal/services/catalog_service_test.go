package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

type catalogFixture struct {
	gameRepo *repositories.MockGameRepository
	userRepo *repositories.MockUserRepository

	catalogService *services.CatalogService
	viewer         models.User
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		gameRepo: repositories.NewMockGameRepository(),
		userRepo: repositories.NewMockUserRepository(),
	}
	f.catalogService = services.NewCatalogService(f.gameRepo, f.userRepo)
	f.viewer = models.User{Username: "viewer", Email: "viewer@example.com", Role: models.RoleCustomer}
	assert.NoError(t, f.userRepo.Create(context.Background(), &f.viewer))
	return f
}

func TestCatalogService_ListGames(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	owned := seedGame(t, f.gameRepo, models.Game{Title: "Hades", Genre: "Roguelike", Price: 135000, Stock: 5})
	wished := seedGame(t, f.gameRepo, models.Game{Title: "Celeste", Genre: "Platformer", Price: 85000, Stock: 5})
	seedGame(t, f.gameRepo, models.Game{Title: "Tetris", Genre: "Puzzle", Price: 50000, Stock: 5})

	assert.NoError(t, f.userRepo.AddToLibrary(ctx, f.viewer.ID, []primitive.ObjectID{owned.ID}))
	assert.NoError(t, f.userRepo.AddToWishlist(ctx, f.viewer.ID, wished.ID))

	page, err := f.catalogService.ListGames(ctx, repositories.GameFilter{}, f.viewer.ID)
	assert.NoError(t, err)
	assert.Len(t, page.Games, 3)
	assert.ElementsMatch(t, []string{"Roguelike", "Platformer", "Puzzle"}, page.Genres)

	flags := make(map[string][2]bool)
	for _, game := range page.Games {
		flags[game.Title] = [2]bool{game.Owned, game.Wishlisted}
	}
	assert.Equal(t, [2]bool{true, false}, flags["Hades"])
	assert.Equal(t, [2]bool{false, true}, flags["Celeste"])
	assert.Equal(t, [2]bool{false, false}, flags["Tetris"])
}

func TestCatalogService_ListGames_Anonymous(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	seedGame(t, f.gameRepo, models.Game{Title: "Hades", Genre: "Roguelike", Price: 135000, Stock: 5})

	page, err := f.catalogService.ListGames(ctx, repositories.GameFilter{}, primitive.NilObjectID)
	assert.NoError(t, err)
	assert.Len(t, page.Games, 1)
	assert.False(t, page.Games[0].Owned)
	assert.False(t, page.Games[0].Wishlisted)
}

func TestCatalogService_ListGames_GenreFilter(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	seedGame(t, f.gameRepo, models.Game{Title: "Hades", Genre: "Roguelike", Price: 135000, Stock: 5})
	seedGame(t, f.gameRepo, models.Game{Title: "Tetris", Genre: "Puzzle", Price: 50000, Stock: 5})

	page, err := f.catalogService.ListGames(ctx, repositories.GameFilter{Genre: "Puzzle"}, primitive.NilObjectID)
	assert.NoError(t, err)
	assert.Len(t, page.Games, 1)
	assert.Equal(t, "Tetris", page.Games[0].Title)
	assert.Equal(t, "Puzzle", page.SelectedGenre)
	// The genre list always covers the whole catalog, not the filtered slice.
	assert.ElementsMatch(t, []string{"Roguelike", "Puzzle"}, page.Genres)
}

func TestCatalogService_GameDetail(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	game := seedGame(t, f.gameRepo, models.Game{Title: "Hades", Genre: "Roguelike", Price: 135000, Stock: 5})
	assert.NoError(t, f.userRepo.AddToLibrary(ctx, f.viewer.ID, []primitive.ObjectID{game.ID}))

	detail, err := f.catalogService.GameDetail(ctx, game.ID, f.viewer.ID)
	assert.NoError(t, err)
	assert.True(t, detail.Owned)
	assert.False(t, detail.Wishlisted)

	_, err = f.catalogService.GameDetail(ctx, primitive.NewObjectID(), f.viewer.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCatalogService_ToggleWishlist(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	game := seedGame(t, f.gameRepo, models.Game{Title: "Hades", Genre: "Roguelike", Price: 135000, Stock: 5})

	wishlisted, err := f.catalogService.ToggleWishlist(ctx, f.viewer.ID, game.ID)
	assert.NoError(t, err)
	assert.True(t, wishlisted)

	games, err := f.catalogService.Wishlist(ctx, f.viewer.ID)
	assert.NoError(t, err)
	assert.Len(t, games, 1)

	wishlisted, err = f.catalogService.ToggleWishlist(ctx, f.viewer.ID, game.ID)
	assert.NoError(t, err)
	assert.False(t, wishlisted)

	games, err = f.catalogService.Wishlist(ctx, f.viewer.ID)
	assert.NoError(t, err)
	assert.Empty(t, games)
}

func TestCatalogService_AddToWishlist_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	game := seedGame(t, f.gameRepo, models.Game{Title: "Hades", Genre: "Roguelike", Price: 135000, Stock: 5})

	assert.NoError(t, f.catalogService.AddToWishlist(ctx, f.viewer.ID, game.ID))
	assert.NoError(t, f.catalogService.AddToWishlist(ctx, f.viewer.ID, game.ID))

	games, err := f.catalogService.Wishlist(ctx, f.viewer.ID)
	assert.NoError(t, err)
	assert.Len(t, games, 1)
}
