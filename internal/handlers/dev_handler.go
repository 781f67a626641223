package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"retroverse/internal/services"
)

// DevHandler exposes the development seeding endpoints. It must only be
// registered when seeding is enabled in configuration; a networked
// deployment never mounts these routes.
type DevHandler struct {
	seedService *services.SeedService
}

// NewDevHandler creates a new DevHandler.
func NewDevHandler(seedService *services.SeedService) *DevHandler {
	return &DevHandler{seedService: seedService}
}

// RegisterRoutes registers the seeding routes with the Fiber app.
func (h *DevHandler) RegisterRoutes(router fiber.Router) {
	devRoutes := router.Group("/dev")
	devRoutes.Post("/seed-admin", h.seed(h.seedService.SeedAdmin))
	devRoutes.Post("/seed-customer", h.seed(h.seedService.SeedCustomer))
	devRoutes.Post("/seed-demo-game", h.seed(h.seedService.SeedDemoGame))
	devRoutes.Post("/seed-pc-game", h.seed(h.seedService.SeedPCGame))
	devRoutes.Post("/seed-mk1", h.seed(h.seedService.SeedMK1))
	devRoutes.Post("/update-image", h.HandleUpdateImage)
}

func (h *DevHandler) seed(fn func(ctx context.Context) (string, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := fn(c.Context())
		if err != nil {
			log.Printf("Seeding failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Seeding failed",
				"error":   err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": result})
	}
}

// UpdateImageRequest represents the request body for repointing a game's
// cover image at a local path.
type UpdateImageRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// HandleUpdateImage repoints the named game's image. Only local paths are
// accepted; this endpoint never fetches anything remote.
func (h *DevHandler) HandleUpdateImage(c *fiber.Ctx) error {
	var req UpdateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Title == "" || req.ImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Title and image_url are required",
		})
	}
	if !strings.HasPrefix(req.ImageURL, "/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "image_url must be a local path",
		})
	}
	if err := h.seedService.UpdateImage(c.Context(), req.Title, req.ImageURL); err != nil {
		log.Printf("Update image failed for %s: %v", req.Title, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update image",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Image updated for " + req.Title})
}
