package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"retroverse/internal/middleware"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

// OrderHandler handles checkout, order history, the game library and
// download tokens.
type OrderHandler struct {
	orderService    *services.OrderService
	downloadService *services.DownloadService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, downloadService *services.DownloadService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		downloadService: downloadService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders", middleware.RequireUser())
	orderRoutes.Get("/checkout", h.HandleCheckout)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/", h.HandleMyOrders)
	orderRoutes.Get("/:id", h.HandleOrderDetail)
	orderRoutes.Get("/:id/confirmation", h.HandleConfirmation)

	libraryRoutes := router.Group("/library", middleware.RequireUser())
	libraryRoutes.Get("/", h.HandleLibrary)
	libraryRoutes.Post("/:gameId/download-token", h.HandleIssueDownloadToken)

	// Redemption is token-authorized, not session-authorized, so a download
	// manager can follow the link without cookies.
	router.Get("/downloads/:token", h.HandleRedeemDownloadToken)
}

// HandleCheckout returns the cart snapshot and customer details for the
// checkout form.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	summary, err := h.orderService.Checkout(c.Context(), caller.UserID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message":  "Keranjang masih kosong.",
				"redirect": "/cart",
			})
		}
		log.Printf("Error building checkout for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not prepare checkout",
			"error":   err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandlePlaceOrder turns the cart into an order.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)

	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	confirmation, err := h.orderService.PlaceOrder(c.Context(), caller.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Keranjang masih kosong.",
			})
		case errors.Is(err, services.ErrPaymentMethodRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Pilih metode pembayaran terlebih dahulu.",
			})
		}
		log.Printf("Error placing order for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not place order",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(confirmation)
}

// HandleMyOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	orders, err := h.orderService.MyOrders(c.Context(), caller.UserID)
	if err != nil {
		log.Printf("Error listing orders for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleOrderDetail returns one of the caller's orders. Orders belonging to
// other customers answer 404, same as unknown IDs, with a redirect hint back
// to the history list.
func (h *OrderHandler) HandleOrderDetail(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	orderID, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message":  "Order not found",
			"redirect": "/orders",
		})
	}
	order, err := h.orderService.MyOrderDetail(c.Context(), orderID, caller.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message":  "Order not found",
				"redirect": "/orders",
			})
		}
		log.Printf("Error getting order %s: %v", orderID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleConfirmation rebuilds the post-checkout confirmation, including the
// WhatsApp payment link.
func (h *OrderHandler) HandleConfirmation(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	orderID, err := objectIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}
	confirmation, err := h.orderService.Confirmation(c.Context(), orderID, caller.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error building confirmation for order %s: %v", orderID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve confirmation",
			"error":   err.Error(),
		})
	}
	return c.JSON(confirmation)
}

// HandleLibrary lists the games the caller owns.
func (h *OrderHandler) HandleLibrary(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	games, err := h.orderService.Library(c.Context(), caller.UserID)
	if err != nil {
		log.Printf("Error listing library for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve library",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"games": games})
}

// HandleIssueDownloadToken issues a short-lived token for an owned game.
func (h *OrderHandler) HandleIssueDownloadToken(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	gameID, err := objectIDParam(c, "gameId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	grant, err := h.downloadService.Authorize(c.Context(), caller.UserID, gameID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwned):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Game belum dimiliki.",
			})
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
			})
		}
		log.Printf("Error issuing download token for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not issue download token",
			"error":   err.Error(),
		})
	}
	return c.JSON(grant)
}

// HandleRedeemDownloadToken resolves a token to the game's download URL.
func (h *OrderHandler) HandleRedeemDownloadToken(c *fiber.Ctx) error {
	game, err := h.downloadService.Redeem(c.Context(), c.Params("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired download token",
		})
	}
	if game.DownloadURL == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No download available for this game",
		})
	}
	return c.Redirect(game.DownloadURL, fiber.StatusFound)
}
