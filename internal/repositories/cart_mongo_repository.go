package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"retroverse/internal/database"
	"retroverse/internal/models"
)

// MongoCartRepository is a MongoDB implementation of CartRepository. Every
// mutation is an atomic field-level update; the cart document is never
// read-modify-written as a whole. One cart per customer is enforced by the
// unique customerId index the store creates at startup.
type MongoCartRepository struct {
	store *database.Store
}

// NewMongoCartRepository creates a new instance of MongoCartRepository.
func NewMongoCartRepository(store *database.Store) *MongoCartRepository {
	return &MongoCartRepository{store: store}
}

// GetByCustomer returns the single cart of a customer.
func (r *MongoCartRepository) GetByCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.store.Carts().FindOne(ctx, bson.M{"customerId": customerID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("cart for customer %s: %w", customerID.Hex(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// AddItem increments the matching line in place, or pushes a new line,
// upserting the cart document when the customer has none yet. The push is
// guarded so it only matches a cart without a line for this game; when a
// concurrent request wins either race, the loop retries as an increment.
func (r *MongoCartRepository) AddItem(ctx context.Context, customerID primitive.ObjectID, item models.CartItem) error {
	now := time.Now()

	for {
		res, err := r.store.Carts().UpdateOne(ctx,
			bson.M{"customerId": customerID, "items.gameId": item.GameID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": item.Quantity},
				"$set": bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return fmt.Errorf("failed to increment cart item: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		res, err = r.store.Carts().UpdateOne(ctx,
			bson.M{"customerId": customerID, "items.gameId": bson.M{"$ne": item.GameID}},
			bson.M{
				"$push": bson.M{"items": item},
				"$set":  bson.M{"updatedAt": now},
			},
			options.Update().SetUpsert(true),
		)
		if mongo.IsDuplicateKeyError(err) {
			// The unique customerId index rejected a racing upsert; the
			// winner's cart document exists now.
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		if res.MatchedCount > 0 || res.UpsertedCount > 0 {
			return nil
		}
		// A cart exists but already holds a line for this game, pushed by a
		// concurrent request between the two updates.
	}
}

// SetItemQuantity sets a line's quantity verbatim, or pulls the line when the
// quantity is not positive.
func (r *MongoCartRepository) SetItemQuantity(ctx context.Context, customerID, gameID primitive.ObjectID, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, customerID, gameID)
	}
	_, err := r.store.Carts().UpdateOne(ctx,
		bson.M{"customerId": customerID, "items.gameId": gameID},
		bson.M{
			"$set": bson.M{
				"items.$.quantity": quantity,
				"updatedAt":        time.Now(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to set cart item quantity: %w", err)
	}
	return nil
}

// RemoveItem pulls every line matching the game id.
func (r *MongoCartRepository) RemoveItem(ctx context.Context, customerID, gameID primitive.ObjectID) error {
	_, err := r.store.Carts().UpdateOne(ctx,
		bson.M{"customerId": customerID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"gameId": gameID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// DeleteByCustomer removes the customer's cart wholesale (checkout).
func (r *MongoCartRepository) DeleteByCustomer(ctx context.Context, customerID primitive.ObjectID) error {
	_, err := r.store.Carts().DeleteOne(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
