package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
)

// AnnotatedGame is a catalog entry carrying the viewer's ownership and
// wishlist flags.
type AnnotatedGame struct {
	models.Game
	Owned      bool `json:"owned"`
	Wishlisted bool `json:"wishlisted"`
}

// CatalogPage is a catalog listing plus the distinct genres for the filter UI.
type CatalogPage struct {
	Games         []AnnotatedGame `json:"games"`
	Genres        []string        `json:"genres"`
	SelectedGenre string          `json:"selected_genre,omitempty"`
	SearchQuery   string          `json:"search_query,omitempty"`
}

// CatalogService handles storefront browsing.
type CatalogService struct {
	gameRepo repositories.GameRepository
	userRepo repositories.UserRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(gameRepo repositories.GameRepository, userRepo repositories.UserRepository) *CatalogService {
	return &CatalogService{gameRepo: gameRepo, userRepo: userRepo}
}

// viewerSets returns the viewer's owned and wishlisted game id sets from the
// derived fields on the user document; both empty for an anonymous viewer.
func (s *CatalogService) viewerSets(ctx context.Context, viewerID primitive.ObjectID) (owned, wishlisted map[primitive.ObjectID]bool, err error) {
	owned = make(map[primitive.ObjectID]bool)
	wishlisted = make(map[primitive.ObjectID]bool)
	if viewerID.IsZero() {
		return owned, wishlisted, nil
	}

	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return owned, wishlisted, nil
		}
		return nil, nil, fmt.Errorf("failed to load viewer: %w", err)
	}
	for _, id := range user.Library {
		owned[id] = true
	}
	for _, id := range user.Wishlist {
		wishlisted[id] = true
	}
	return owned, wishlisted, nil
}

// ListGames lists the catalog narrowed by the filter, annotated for the
// viewer. A zero viewerID means anonymous browsing.
func (s *CatalogService) ListGames(ctx context.Context, filter repositories.GameFilter, viewerID primitive.ObjectID) (*CatalogPage, error) {
	games, err := s.gameRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	genres, err := s.gameRepo.Genres(ctx)
	if err != nil {
		return nil, err
	}
	owned, wishlisted, err := s.viewerSets(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedGame, 0, len(games))
	for _, game := range games {
		annotated = append(annotated, AnnotatedGame{
			Game:       game,
			Owned:      owned[game.ID],
			Wishlisted: wishlisted[game.ID],
		})
	}

	return &CatalogPage{
		Games:         annotated,
		Genres:        genres,
		SelectedGenre: filter.Genre,
		SearchQuery:   filter.Search,
	}, nil
}

// GameDetail fetches one game annotated for the viewer.
func (s *CatalogService) GameDetail(ctx context.Context, id, viewerID primitive.ObjectID) (*AnnotatedGame, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owned, wishlisted, err := s.viewerSets(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return &AnnotatedGame{
		Game:       *game,
		Owned:      owned[game.ID],
		Wishlisted: wishlisted[game.ID],
	}, nil
}

// Wishlist lists the viewer's wishlisted games with one batched lookup.
func (s *CatalogService) Wishlist(ctx context.Context, viewerID primitive.ObjectID) ([]models.Game, error) {
	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(user.Wishlist) == 0 {
		return []models.Game{}, nil
	}
	return s.gameRepo.GetByIDs(ctx, user.Wishlist)
}

// AddToWishlist is idempotent: adding the same game twice keeps one entry.
func (s *CatalogService) AddToWishlist(ctx context.Context, viewerID, gameID primitive.ObjectID) error {
	return s.userRepo.AddToWishlist(ctx, viewerID, gameID)
}

// RemoveFromWishlist is a no-op when the game was never wishlisted.
func (s *CatalogService) RemoveFromWishlist(ctx context.Context, viewerID, gameID primitive.ObjectID) error {
	return s.userRepo.RemoveFromWishlist(ctx, viewerID, gameID)
}

// ToggleWishlist adds the game when absent and removes it when present,
// reporting whether the game ended up wishlisted.
func (s *CatalogService) ToggleWishlist(ctx context.Context, viewerID, gameID primitive.ObjectID) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return false, err
	}
	for _, id := range user.Wishlist {
		if id == gameID {
			return false, s.userRepo.RemoveFromWishlist(ctx, viewerID, gameID)
		}
	}
	return true, s.userRepo.AddToWishlist(ctx, viewerID, gameID)
}
