package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// OrderRepository defines the interface for order data access. Listings come
// back newest first. Orders are never deleted.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// GetByIDForCustomer scopes the lookup to one customer; not-found and
	// not-owned are indistinguishable to the caller.
	GetByIDForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Order, error)
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	Count(ctx context.Context) (int64, error)
	CountNotCompleted(ctx context.Context) (int64, error)
}
