package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"retroverse/internal/database"
	"retroverse/internal/models"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	store *database.Store
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(store *database.Store) *MongoUserRepository {
	return &MongoUserRepository{store: store}
}

// Create inserts a new user document.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.store.Users().InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, desc string) (*models.User, error) {
	var user models.User
	err := r.store.Users().FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user with %s: %w", desc, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", desc, err)
	}
	return &user, nil
}

// GetByID retrieves a user by id.
func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "ID "+id.Hex())
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email "+email)
}

// GetByUsername retrieves a user by username.
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, "username "+username)
}

// GetAll returns every user.
func (r *MongoUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	cursor, err := r.store.Users().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Count returns the total number of users.
func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Users().CountDocuments(ctx, bson.M{})
}

// UpdateProfile sets the customer-editable profile fields. The stored profile
// picture is kept when the update carries none.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error {
	set := bson.M{
		"fullName":    update.FullName,
		"phoneNumber": update.PhoneNumber,
		"address":     update.Address,
	}
	if update.ProfilePictureURL != "" {
		set["profilePictureUrl"] = update.ProfilePictureURL
	}
	res, err := r.store.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.store.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": passwordHash}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// UpdateRole sets the user's role.
func (r *MongoUserRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	res, err := r.store.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// Delete removes a user document.
func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.store.Users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// AddToWishlist adds a game id with set semantics; adding twice is a no-op.
func (r *MongoUserRepository) AddToWishlist(ctx context.Context, userID, gameID primitive.ObjectID) error {
	_, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"wishlist": gameID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

// RemoveFromWishlist pulls a game id; removing an absent id is a no-op.
func (r *MongoUserRepository) RemoveFromWishlist(ctx context.Context, userID, gameID primitive.ObjectID) error {
	_, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"wishlist": gameID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

// AddToLibrary records owned game ids with set semantics.
func (r *MongoUserRepository) AddToLibrary(ctx context.Context, userID primitive.ObjectID, gameIDs []primitive.ObjectID) error {
	if len(gameIDs) == 0 {
		return nil
	}
	_, err := r.store.Users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"library": bson.M{"$each": gameIDs}}},
	)
	if err != nil {
		return fmt.Errorf("failed to add to library: %w", err)
	}
	return nil
}
