package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// GameFilter narrows catalog listings. Empty fields mean no filter; Genre is
// an exact match, Search a case-insensitive substring match against title or
// publisher, combined with Genre by logical AND.
type GameFilter struct {
	Genre  string
	Search string
}

// GameRepository defines the interface for game data access.
type GameRepository interface {
	GetAll(ctx context.Context, filter GameFilter) ([]models.Game, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Game, error)
	GetByTitle(ctx context.Context, title, platform string) (*models.Game, error)
	Genres(ctx context.Context) ([]string, error)
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
	UpdateImage(ctx context.Context, title, imageURL string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}
