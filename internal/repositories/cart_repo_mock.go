package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// AddItem mirrors the MongoDB implementation's two step protocol, increment
// then guarded push, releasing the lock between the steps so concurrent adds
// hit the same interleavings the real store allows.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by customer id
	mu    sync.Mutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{carts: make(map[string]models.Cart)}
}

// GetByCustomer returns the customer's cart.
func (r *MockCartRepository) GetByCustomer(_ context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[customerID.Hex()]
	if !ok {
		return nil, fmt.Errorf("cart for customer %s: %w", customerID.Hex(), ErrNotFound)
	}
	return &cart, nil
}

// AddItem increments an existing line or appends a new one, creating the cart
// when the customer has none. A push that loses the race to a concurrent add
// retries as an increment.
func (r *MockCartRepository) AddItem(_ context.Context, customerID primitive.ObjectID, item models.CartItem) error {
	for {
		if r.incrementItem(customerID, item) {
			return nil
		}
		if r.pushItem(customerID, item) {
			return nil
		}
	}
}

func (r *MockCartRepository) incrementItem(customerID primitive.ObjectID, item models.CartItem) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[customerID.Hex()]
	if !ok {
		return false
	}
	for i := range cart.Items {
		if cart.Items[i].GameID == item.GameID {
			cart.Items[i].Quantity += item.Quantity
			cart.UpdatedAt = time.Now()
			r.carts[customerID.Hex()] = cart
			return true
		}
	}
	return false
}

func (r *MockCartRepository) pushItem(customerID primitive.ObjectID, item models.CartItem) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[customerID.Hex()]
	if !ok {
		cart = models.Cart{
			ID:         primitive.NewObjectID(),
			CustomerID: customerID,
		}
	}
	for _, line := range cart.Items {
		if line.GameID == item.GameID {
			return false
		}
	}
	cart.Items = append(cart.Items, item)
	cart.UpdatedAt = time.Now()
	r.carts[customerID.Hex()] = cart
	return true
}

// SetItemQuantity sets a line's quantity verbatim; non-positive removes it.
func (r *MockCartRepository) SetItemQuantity(_ context.Context, customerID, gameID primitive.ObjectID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[customerID.Hex()]
	if !ok {
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].GameID == gameID {
			if quantity <= 0 {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			} else {
				cart.Items[i].Quantity = quantity
			}
			break
		}
	}
	cart.UpdatedAt = time.Now()
	r.carts[customerID.Hex()] = cart
	return nil
}

// RemoveItem removes every line matching the game id.
func (r *MockCartRepository) RemoveItem(_ context.Context, customerID, gameID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[customerID.Hex()]
	if !ok {
		return nil
	}
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.GameID != gameID {
			items = append(items, item)
		}
	}
	cart.Items = items
	cart.UpdatedAt = time.Now()
	r.carts[customerID.Hex()] = cart
	return nil
}

// DeleteByCustomer removes the customer's cart wholesale.
func (r *MockCartRepository) DeleteByCustomer(_ context.Context, customerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, customerID.Hex())
	return nil
}
