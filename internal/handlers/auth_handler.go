package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"retroverse/internal/middleware"
	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

// AuthHandler handles sign-in, registration and account management.
type AuthHandler struct {
	authService  *services.AuthService
	orderService *services.OrderService
	store        *session.Store
	uploadDir    string
	validate     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, orderService *services.OrderService, store *session.Store, uploadDir string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		orderService: orderService,
		store:        store,
		uploadDir:    uploadDir,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)

	accountRoutes := router.Group("/account", middleware.RequireUser())
	accountRoutes.Get("/profile", h.HandleProfile)
	accountRoutes.Put("/profile", h.HandleUpdateProfile)
	accountRoutes.Post("/change-password", h.HandleChangePassword)
}

// HandleRegister handles new customer registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}

	if err := h.authService.Register(c.Context(), &user); err != nil {
		log.Printf("Error registering user: %v", err)
		if strings.Contains(err.Error(), "already taken") || strings.Contains(err.Error(), "already registered") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
			"error":   err.Error(),
		})
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks credentials and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}

	user, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Email atau password salah.",
			})
		}
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not sign in",
			"error":   err.Error(),
		})
	}

	if err := middleware.SignIn(c, h.store, user); err != nil {
		log.Printf("Error saving session for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not start session",
			"error":   err.Error(),
		})
	}

	redirect := "/games"
	if user.Role.IsAdmin() {
		redirect = "/admin/dashboard"
	}
	user.Password = ""
	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"user":     user,
		"redirect": redirect,
	})
}

// HandleLogout ends the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := middleware.SignOut(c, h.store); err != nil {
		log.Printf("Error destroying session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not sign out",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleProfile returns the signed-in user's account details together with
// their owned games.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)
	user, err := h.authService.GetUser(c.Context(), caller.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Account not found",
			})
		}
		log.Printf("Error loading profile for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load profile",
			"error":   err.Error(),
		})
	}

	library, err := h.orderService.Library(c.Context(), caller.UserID)
	if err != nil {
		log.Printf("Error loading library for %s: %v", caller.UserID.Hex(), err)
		library = []models.Game{}
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"user":    user,
		"library": library,
	})
}

// HandleUpdateProfile updates display fields and, optionally, the avatar.
// Accepts multipart form data so the picture can ride along.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)

	update := repositories.ProfileUpdate{
		FullName:    strings.TrimSpace(c.FormValue("full_name")),
		PhoneNumber: strings.TrimSpace(c.FormValue("phone_number")),
		Address:     strings.TrimSpace(c.FormValue("address")),
	}
	if update.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Full name is required",
		})
	}

	if file, err := c.FormFile("profile_picture"); err == nil && file != nil {
		path, err := saveUpload(c, file, h.uploadDir, "img/profiles")
		if err != nil {
			log.Printf("Error saving profile picture: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not save profile picture",
				"error":   err.Error(),
			})
		}
		update.ProfilePictureURL = path
	}

	user, err := h.authService.UpdateProfile(c.Context(), caller.UserID, update)
	if err != nil {
		log.Printf("Error updating profile for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update profile",
			"error":   err.Error(),
		})
	}

	if err := middleware.RefreshProfile(c, h.store, user); err != nil {
		log.Printf("Error refreshing session after profile update: %v", err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    user,
	})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleChangePassword verifies the old password and sets a new one.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	caller, _ := middleware.CallerFrom(c)

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}

	if err := h.authService.ChangePassword(c.Context(), caller.UserID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Password lama salah.",
			})
		}
		log.Printf("Error changing password for %s: %v", caller.UserID.Hex(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not change password",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Password berhasil diubah."})
}
