package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/middleware"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

// CatalogHandler handles the public storefront and the wishlist.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes registers the catalog and wishlist routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	gameRoutes := router.Group("/games")
	gameRoutes.Get("/", h.HandleListGames)
	gameRoutes.Get("/:id", h.HandleGameDetail)

	wishlistRoutes := router.Group("/wishlist", middleware.RequireUser())
	wishlistRoutes.Get("/", h.HandleWishlist)
	wishlistRoutes.Post("/toggle/:gameId", h.HandleToggleWishlist)
	wishlistRoutes.Post("/:gameId", h.HandleAddToWishlist)
	wishlistRoutes.Delete("/:gameId", h.HandleRemoveFromWishlist)
}

// viewerID returns the signed-in user's ID, or the zero ID for anonymous
// browsing.
func viewerID(c *fiber.Ctx) primitive.ObjectID {
	if caller, ok := middleware.CallerFrom(c); ok {
		return caller.UserID
	}
	return primitive.NilObjectID
}

// HandleListGames lists the catalog, optionally narrowed by genre and a
// title/publisher search.
func (h *CatalogHandler) HandleListGames(c *fiber.Ctx) error {
	filter := repositories.GameFilter{
		Genre:  c.Query("genre"),
		Search: c.Query("search"),
	}
	page, err := h.catalogService.ListGames(c.Context(), filter, viewerID(c))
	if err != nil {
		log.Printf("Error listing games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve games",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleGameDetail returns a single catalog entry. An unknown or malformed
// ID answers 404 with a redirect hint so stale links fall back to the catalog.
func (h *CatalogHandler) HandleGameDetail(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message":  "Game not found",
			"redirect": "/games",
		})
	}
	game, err := h.catalogService.GameDetail(c.Context(), id, viewerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message":  "Game not found",
				"redirect": "/games",
			})
		}
		log.Printf("Error getting game %s: %v", id.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve game",
			"error":   err.Error(),
		})
	}
	return c.JSON(game)
}

// HandleWishlist lists the caller's wishlisted games.
func (h *CatalogHandler) HandleWishlist(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	games, err := h.catalogService.Wishlist(c.Context(), caller.UserID)
	if err != nil {
		log.Printf("Error listing wishlist for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"games": games})
}

// HandleToggleWishlist flips a game's wishlist membership for the caller.
func (h *CatalogHandler) HandleToggleWishlist(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	gameID, err := objectIDParam(c, "gameId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	wishlisted, err := h.catalogService.ToggleWishlist(c.Context(), caller.UserID, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
			})
		}
		log.Printf("Error toggling wishlist for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"wishlisted": wishlisted})
}

// HandleAddToWishlist puts a game on the caller's wishlist.
func (h *CatalogHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	gameID, err := objectIDParam(c, "gameId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if err := h.catalogService.AddToWishlist(c.Context(), caller.UserID, gameID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
			})
		}
		log.Printf("Error adding to wishlist for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Added to wishlist"})
}

// HandleRemoveFromWishlist takes a game off the caller's wishlist.
func (h *CatalogHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	gameID, err := objectIDParam(c, "gameId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if err := h.catalogService.RemoveFromWishlist(c.Context(), caller.UserID, gameID); err != nil {
		log.Printf("Error removing from wishlist for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Removed from wishlist"})
}
