package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[string]models.Order)}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID.Hex()] = *order
	return nil
}

// GetByID returns an order by its id.
func (r *MockOrderRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id.Hex()]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return &order, nil
}

// GetByIDForCustomer returns an order only when it belongs to the customer.
func (r *MockOrderRepository) GetByIDForCustomer(_ context.Context, id, customerID primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id.Hex()]
	if !ok || order.CustomerID != customerID {
		return nil, fmt.Errorf("order with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return &order, nil
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}

// GetByCustomer lists a customer's orders, newest first.
func (r *MockOrderRepository) GetByCustomer(_ context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

// GetAll lists every order, newest first.
func (r *MockOrderRepository) GetAll(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	sortNewestFirst(orders)
	return orders, nil
}

// UpdateStatus sets the status of an order.
func (r *MockOrderRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id.Hex()]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id.Hex(), ErrNotFound)
	}
	order.Status = status
	r.orders[id.Hex()] = order
	return nil
}

// Count returns the number of orders.
func (r *MockOrderRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

// CountNotCompleted counts orders whose status is not Completed.
func (r *MockOrderRepository) CountNotCompleted(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, order := range r.orders {
		if order.Status != models.StatusCompleted {
			n++
		}
	}
	return n, nil
}
