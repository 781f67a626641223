package repositories

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"retroverse/internal/database"
	"retroverse/internal/models"
)

// MongoGameRepository is a MongoDB implementation of GameRepository.
type MongoGameRepository struct {
	store *database.Store
}

// NewMongoGameRepository creates a new instance of MongoGameRepository.
func NewMongoGameRepository(store *database.Store) *MongoGameRepository {
	return &MongoGameRepository{store: store}
}

// GetAll lists games matching the filter.
func (r *MongoGameRepository) GetAll(ctx context.Context, filter GameFilter) ([]models.Game, error) {
	query := bson.M{}
	if filter.Genre != "" {
		query["genre"] = filter.Genre
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"publisher": pattern},
		}
	}

	cursor, err := r.store.Games().Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	var games []models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}

// GetByID retrieves a single game by id.
func (r *MongoGameRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var game models.Game
	err := r.store.Games().FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("game with ID %s: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID %s: %w", id.Hex(), err)
	}
	return &game, nil
}

// GetByIDs fetches a batch of games in one query.
func (r *MongoGameRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.store.Games().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get games by IDs: %w", err)
	}
	var games []models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}

// GetByTitle looks up a game by exact title, optionally narrowed by platform.
// Used by the dev seeding paths to keep them idempotent.
func (r *MongoGameRepository) GetByTitle(ctx context.Context, title, platform string) (*models.Game, error) {
	filter := bson.M{"title": title}
	if platform != "" {
		filter["platform"] = platform
	}
	var game models.Game
	err := r.store.Games().FindOne(ctx, filter).Decode(&game)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("game with title %q: %w", title, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by title %q: %w", title, err)
	}
	return &game, nil
}

// Genres returns the distinct genre values for the catalog filter UI.
func (r *MongoGameRepository) Genres(ctx context.Context) ([]string, error) {
	values, err := r.store.Games().Distinct(ctx, "genre", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	genres := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			genres = append(genres, s)
		}
	}
	return genres, nil
}

// Create inserts a new game document.
func (r *MongoGameRepository) Create(ctx context.Context, game *models.Game) error {
	if game.ID.IsZero() {
		game.ID = primitive.NewObjectID()
	}
	if _, err := r.store.Games().InsertOne(ctx, game); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// Update replaces the whole game document by id.
func (r *MongoGameRepository) Update(ctx context.Context, game *models.Game) error {
	res, err := r.store.Games().ReplaceOne(ctx, bson.M{"_id": game.ID}, game)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("game with ID %s: %w", game.ID.Hex(), ErrNotFound)
	}
	return nil
}

// UpdateImage sets the image path of the game matching a title.
func (r *MongoGameRepository) UpdateImage(ctx context.Context, title, imageURL string) error {
	res, err := r.store.Games().UpdateOne(ctx, bson.M{"title": title}, bson.M{"$set": bson.M{"imageUrl": imageURL}})
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("game with title %q: %w", title, ErrNotFound)
	}
	return nil
}

// Delete removes a game document by id.
func (r *MongoGameRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.store.Games().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("game with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// Count returns the total number of games.
func (r *MongoGameRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Games().CountDocuments(ctx, bson.M{})
}
