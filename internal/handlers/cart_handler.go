package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"retroverse/internal/middleware"
	"retroverse/internal/services"
)

// CartHandler handles the signed-in customer's shopping cart.
type CartHandler struct {
	cartService *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", middleware.RequireUser())
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:gameId", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:gameId", h.HandleRemoveItem)
}

// HandleGetCart returns the caller's cart, empty if nothing was added yet.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	cart, err := h.cartService.GetCart(c.Context(), caller.UserID)
	if err != nil {
		log.Printf("Error getting cart for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	GameID   string `json:"game_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// HandleAddItem adds a game to the cart, merging with any existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	gameID, err := objectIDFromHexField(req.GameID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	if err := h.cartService.AddToCart(c.Context(), caller.UserID, gameID, req.Quantity); err != nil {
		if errors.Is(err, services.ErrInsufficientStock) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Stok tidak mencukupi.",
			})
		}
		log.Printf("Error adding to cart for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item ditambahkan ke keranjang.",
	})
}

// UpdateItemRequest represents the request body for a quantity change.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateItem sets a line's quantity. Zero or less removes the line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	gameID, err := objectIDParam(c, "gameId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.cartService.UpdateItem(c.Context(), caller.UserID, gameID, req.Quantity); err != nil {
		log.Printf("Error updating cart item for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Cart updated"})
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	gameID, err := objectIDParam(c, "gameId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	if err := h.cartService.RemoveItem(c.Context(), caller.UserID, gameID); err != nil {
		log.Printf("Error removing cart item for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Item dihapus dari keranjang."})
}
