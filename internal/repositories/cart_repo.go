package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// CartRepository defines the interface for cart data access. Mutations are
// per-item operations keyed by (customer id, game id) so that concurrent
// requests never lose each other's updates.
type CartRepository interface {
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error)
	// AddItem increments the quantity of an existing line for item's game id,
	// or appends the line (creating the cart if needed).
	AddItem(ctx context.Context, customerID primitive.ObjectID, item models.CartItem) error
	// SetItemQuantity sets a line's quantity verbatim; quantity <= 0 removes it.
	SetItemQuantity(ctx context.Context, customerID, gameID primitive.ObjectID, quantity int) error
	RemoveItem(ctx context.Context, customerID, gameID primitive.ObjectID) error
	DeleteByCustomer(ctx context.Context, customerID primitive.ObjectID) error
}
