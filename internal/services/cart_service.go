package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
)

// ErrInsufficientStock is returned when the requested game is missing or its
// stored stock is below the requested quantity. The check is advisory: stock
// is never decremented anywhere, and it only considers the single request's
// quantity, never the quantity already in the cart.
var ErrInsufficientStock = errors.New("insufficient stock")

// CartService handles the customer's single cart.
type CartService struct {
	cartRepo repositories.CartRepository
	gameRepo repositories.GameRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, gameRepo repositories.GameRepository) *CartService {
	return &CartService{cartRepo: cartRepo, gameRepo: gameRepo}
}

// GetCart returns the customer's cart, or a transient empty cart value when
// none has been persisted yet.
func (s *CartService) GetCart(ctx context.Context, customerID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return &models.Cart{CustomerID: customerID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// AddToCart snapshots the game's title, price and image into a cart line.
// An existing line for the same game is incremented instead.
func (s *CartService) AddToCart(ctx context.Context, customerID, gameID primitive.ObjectID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInsufficientStock
		}
		return fmt.Errorf("failed to load game: %w", err)
	}
	if game.Stock < quantity {
		return ErrInsufficientStock
	}

	return s.cartRepo.AddItem(ctx, customerID, models.CartItem{
		GameID:    game.ID,
		GameTitle: game.Title,
		Quantity:  quantity,
		Price:     game.Price,
		ImageURL:  game.ImageURL,
	})
}

// UpdateItem sets a line's quantity verbatim; a non-positive quantity removes
// the line.
func (s *CartService) UpdateItem(ctx context.Context, customerID, gameID primitive.ObjectID, quantity int) error {
	return s.cartRepo.SetItemQuantity(ctx, customerID, gameID, quantity)
}

// RemoveItem removes every line matching the game id.
func (s *CartService) RemoveItem(ctx context.Context, customerID, gameID primitive.ObjectID) error {
	return s.cartRepo.RemoveItem(ctx, customerID, gameID)
}
