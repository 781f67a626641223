package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// MockGameRepository is an in-memory implementation of GameRepository.
type MockGameRepository struct {
	games map[string]models.Game
	mu    sync.RWMutex
}

// NewMockGameRepository creates a new instance of MockGameRepository.
func NewMockGameRepository() *MockGameRepository {
	return &MockGameRepository{games: make(map[string]models.Game)}
}

func matchesFilter(game models.Game, filter GameFilter) bool {
	if filter.Genre != "" && game.Genre != filter.Genre {
		return false
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(game.Title), search) &&
			!strings.Contains(strings.ToLower(game.Publisher), search) {
			return false
		}
	}
	return true
}

// GetAll lists games matching the filter.
func (r *MockGameRepository) GetAll(_ context.Context, filter GameFilter) ([]models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gameList := make([]models.Game, 0, len(r.games))
	for _, game := range r.games {
		if matchesFilter(game, filter) {
			gameList = append(gameList, game)
		}
	}
	return gameList, nil
}

// GetByID returns a game by id.
func (r *MockGameRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[id.Hex()]
	if !ok {
		return nil, fmt.Errorf("game with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return &game, nil
}

// GetByIDs returns the games whose ids are in the given set.
func (r *MockGameRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var games []models.Game
	for _, id := range ids {
		if game, ok := r.games[id.Hex()]; ok {
			games = append(games, game)
		}
	}
	return games, nil
}

// GetByTitle looks up a game by exact title and optional platform.
func (r *MockGameRepository) GetByTitle(_ context.Context, title, platform string) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, game := range r.games {
		if game.Title == title && (platform == "" || game.Platform == platform) {
			g := game
			return &g, nil
		}
	}
	return nil, fmt.Errorf("game with title %q: %w", title, ErrNotFound)
}

// Genres returns the distinct genre values.
func (r *MockGameRepository) Genres(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var genres []string
	for _, game := range r.games {
		if game.Genre != "" && !seen[game.Genre] {
			seen[game.Genre] = true
			genres = append(genres, game.Genre)
		}
	}
	return genres, nil
}

// Create adds a new game.
func (r *MockGameRepository) Create(_ context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if game.ID.IsZero() {
		game.ID = primitive.NewObjectID()
	}
	r.games[game.ID.Hex()] = *game
	return nil
}

// Update replaces an existing game.
func (r *MockGameRepository) Update(_ context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[game.ID.Hex()]; !ok {
		return fmt.Errorf("game with ID %s: %w", game.ID.Hex(), ErrNotFound)
	}
	r.games[game.ID.Hex()] = *game
	return nil
}

// UpdateImage sets the image path of the game matching a title.
func (r *MockGameRepository) UpdateImage(_ context.Context, title, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, game := range r.games {
		if game.Title == title {
			game.ImageURL = imageURL
			r.games[key] = game
			return nil
		}
	}
	return fmt.Errorf("game with title %q: %w", title, ErrNotFound)
}

// Delete removes a game by id.
func (r *MockGameRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[id.Hex()]; !ok {
		return fmt.Errorf("game with ID %s: %w", id.Hex(), ErrNotFound)
	}
	delete(r.games, id.Hex())
	return nil
}

// Count returns the number of games.
func (r *MockGameRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.games)), nil
}
