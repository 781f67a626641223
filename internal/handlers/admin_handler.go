package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"retroverse/internal/middleware"
	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

// AdminHandler handles the back office: dashboard, catalog management,
// order management and user management. Every route requires the admin role.
type AdminHandler struct {
	adminService *services.AdminService
	uploadDir    string
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, uploadDir string) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		uploadDir:    uploadDir,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin", middleware.RequireAdmin())
	adminRoutes.Get("/dashboard", h.HandleDashboard)

	adminRoutes.Get("/games", h.HandleListGames)
	adminRoutes.Get("/games/:id", h.HandleGetGame)
	adminRoutes.Post("/games", h.HandleCreateGame)
	adminRoutes.Put("/games/:id", h.HandleUpdateGame)
	adminRoutes.Delete("/games/:id", h.HandleDeleteGame)

	adminRoutes.Get("/orders", h.HandleListOrders)
	adminRoutes.Get("/orders/:id", h.HandleOrderDetail)
	adminRoutes.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)

	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Post("/users/:id/toggle-role", h.HandleToggleUserRole)
	adminRoutes.Delete("/users/:id", h.HandleDeleteUser)
}

// HandleDashboard returns the headline counts.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.adminService.Dashboard(c.Context())
	if err != nil {
		log.Printf("Error building dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not build dashboard",
			"error":   err.Error(),
		})
	}
	return c.JSON(stats)
}

// HandleListGames lists the whole catalog for management.
func (h *AdminHandler) HandleListGames(c *fiber.Ctx) error {
	games, err := h.adminService.ListGames(c.Context())
	if err != nil {
		log.Printf("Error listing games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve games",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"games": games})
}

// HandleGetGame returns a single catalog entry for the edit form.
func (h *AdminHandler) HandleGetGame(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	game, err := h.adminService.GetGame(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
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

// gameFromForm builds a Game from multipart form fields so the cover image
// can be uploaded in the same request.
func (h *AdminHandler) gameFromForm(c *fiber.Ctx) (*models.Game, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil {
		return nil, errors.New("price must be a number")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock", "0")))
	if err != nil {
		return nil, errors.New("stock must be a whole number")
	}

	game := &models.Game{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Platform:    strings.TrimSpace(c.FormValue("platform")),
		Publisher:   strings.TrimSpace(c.FormValue("publisher")),
		Developer:   strings.TrimSpace(c.FormValue("developer")),
		Genre:       strings.TrimSpace(c.FormValue("genre")),
		Price:       price,
		Stock:       stock,
		Description: c.FormValue("description"),
		DownloadURL: strings.TrimSpace(c.FormValue("download_url")),
		Rating:      strings.TrimSpace(c.FormValue("rating")),
	}
	if raw := c.FormValue("release_date"); raw != "" {
		release, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.New("release_date must be YYYY-MM-DD")
		}
		game.ReleaseDate = release
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		path, err := saveUpload(c, file, h.uploadDir, "img/games")
		if err != nil {
			return nil, err
		}
		game.ImageURL = path
	}
	return game, nil
}

// HandleCreateGame adds a catalog entry.
func (h *AdminHandler) HandleCreateGame(c *fiber.Ctx) error {
	game, err := h.gameFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.validate.Struct(game); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}
	if err := h.adminService.CreateGame(c.Context(), game); err != nil {
		log.Printf("Error creating game: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create game",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(game)
}

// HandleUpdateGame replaces a catalog entry. Fields left empty keep the
// stored image and download URL.
func (h *AdminHandler) HandleUpdateGame(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	game, err := h.gameFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	game.ID = id
	if err := h.validate.Struct(game); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}
	if err := h.adminService.UpdateGame(c.Context(), game); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
			})
		}
		log.Printf("Error updating game %s: %v", id.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update game",
			"error":   err.Error(),
		})
	}
	return c.JSON(game)
}

// HandleDeleteGame removes a catalog entry.
func (h *AdminHandler) HandleDeleteGame(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.adminService.DeleteGame(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
			})
		}
		log.Printf("Error deleting game %s: %v", id.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete game",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Game deleted"})
}

// HandleListOrders lists every order with the customer's name attached.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.adminService.ListOrders(c.Context())
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleOrderDetail returns one order with its customer.
func (h *AdminHandler) HandleOrderDetail(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	detail, err := h.adminService.OrderDetail(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error getting order %s: %v", id.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(detail)
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus moves an order along the status transitions.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}

	if err := h.adminService.UpdateOrderStatus(c.Context(), id, req.Status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		if strings.Contains(err.Error(), "cannot change") || strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error updating status for order %s: %v", id.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Order status updated to " + req.Status})
}

// HandleListUsers lists every account.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers(c.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"users": users})
}

// HandleToggleUserRole flips an account between customer and admin.
func (h *AdminHandler) HandleToggleUserRole(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	caller, _ := middleware.CallerFrom(c)
	if caller.UserID == id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cannot change your own role",
		})
	}
	role, err := h.adminService.ToggleUserRole(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error toggling role for user %s: %v", id.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not change role",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Role updated",
		"role":    role,
	})
}

// HandleDeleteUser removes an account. Self-deletion is refused so an admin
// cannot lock themselves out mid-session.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	caller, _ := middleware.CallerFrom(c)
	if caller.UserID == id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cannot delete your own account",
		})
	}
	if err := h.adminService.DeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error deleting user %s: %v", id.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete user",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
