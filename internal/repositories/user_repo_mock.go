package repositories

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]models.User)}
}

// Create adds a new user.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID.Hex()] = *user
	return nil
}

// GetByID returns a user by id.
func (r *MockUserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id.Hex()]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
}

// GetAll returns all users.
func (r *MockUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		userList = append(userList, user)
	}
	return userList, nil
}

// Count returns the number of users.
func (r *MockUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// UpdateProfile sets the customer-editable fields.
func (r *MockUserRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, update ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id.Hex()]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	user.FullName = update.FullName
	user.PhoneNumber = update.PhoneNumber
	user.Address = update.Address
	if update.ProfilePictureURL != "" {
		user.ProfilePictureURL = update.ProfilePictureURL
	}
	r.users[id.Hex()] = user
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *MockUserRepository) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id.Hex()]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	user.Password = passwordHash
	r.users[id.Hex()] = user
	return nil
}

// UpdateRole sets the user's role.
func (r *MockUserRepository) UpdateRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id.Hex()]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	user.Role = role
	r.users[id.Hex()] = user
	return nil
}

// Delete removes a user.
func (r *MockUserRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id.Hex()]; !ok {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	delete(r.users, id.Hex())
	return nil
}

// AddToWishlist adds a game id with set semantics.
func (r *MockUserRepository) AddToWishlist(_ context.Context, userID, gameID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID.Hex()]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", userID.Hex(), ErrNotFound)
	}
	for _, id := range user.Wishlist {
		if id == gameID {
			return nil
		}
	}
	user.Wishlist = append(user.Wishlist, gameID)
	r.users[userID.Hex()] = user
	return nil
}

// RemoveFromWishlist pulls a game id; absent ids are a no-op.
func (r *MockUserRepository) RemoveFromWishlist(_ context.Context, userID, gameID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID.Hex()]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", userID.Hex(), ErrNotFound)
	}
	for i, id := range user.Wishlist {
		if id == gameID {
			user.Wishlist = append(user.Wishlist[:i], user.Wishlist[i+1:]...)
			break
		}
	}
	r.users[userID.Hex()] = user
	return nil
}

// AddToLibrary records owned game ids with set semantics.
func (r *MockUserRepository) AddToLibrary(_ context.Context, userID primitive.ObjectID, gameIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID.Hex()]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", userID.Hex(), ErrNotFound)
	}
	for _, gameID := range gameIDs {
		present := false
		for _, id := range user.Library {
			if id == gameID {
				present = true
				break
			}
		}
		if !present {
			user.Library = append(user.Library, gameID)
		}
	}
	r.users[userID.Hex()] = user
	return nil
}
