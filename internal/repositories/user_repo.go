package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// ProfileUpdate carries the profile fields a customer may edit themselves.
// An empty ProfilePictureURL keeps the stored picture.
type ProfileUpdate struct {
	FullName          string
	PhoneNumber       string
	Address           string
	ProfilePictureURL string
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddToWishlist(ctx context.Context, userID, gameID primitive.ObjectID) error
	RemoveFromWishlist(ctx context.Context, userID, gameID primitive.ObjectID) error
	AddToLibrary(ctx context.Context, userID primitive.ObjectID, gameIDs []primitive.ObjectID) error
}
