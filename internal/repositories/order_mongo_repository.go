package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"retroverse/internal/database"
	"retroverse/internal/models"
)

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	store *database.Store
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(store *database.Store) *MongoOrderRepository {
	return &MongoOrderRepository{store: store}
}

// Create inserts the order as a single document.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, err := r.store.Orders().InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) findOne(ctx context.Context, filter bson.M, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.store.Orders().FindOne(ctx, filter).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("order with ID %s: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id.Hex(), err)
	}
	return &order, nil
}

// GetByID retrieves a single order.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

// GetByIDForCustomer retrieves an order only when owned by the customer.
func (r *MongoOrderRepository) GetByIDForCustomer(ctx context.Context, id, customerID primitive.ObjectID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id, "customerId": customerID}, id)
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"orderDate": -1})
	cursor, err := r.store.Orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// GetByCustomer lists a customer's orders, newest first.
func (r *MongoOrderRepository) GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"customerId": customerID})
}

// GetAll lists every order, newest first.
func (r *MongoOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

// UpdateStatus sets an order's status.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	res, err := r.store.Orders().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// Count returns the total number of orders.
func (r *MongoOrderRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Orders().CountDocuments(ctx, bson.M{})
}

// CountNotCompleted counts orders still awaiting completion.
func (r *MongoOrderRepository) CountNotCompleted(ctx context.Context) (int64, error) {
	return r.store.Orders().CountDocuments(ctx, bson.M{"status": bson.M{"$ne": models.StatusCompleted}})
}
