package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
)

// ErrInvalidCredentials is returned for every login failure. It deliberately
// does not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Demo accounts recreated on the fly when someone logs in with their exact
// credentials and the document is missing. A convenience for fresh databases,
// not a security boundary.
const (
	demoAdminEmail       = "admin@example.com"
	demoAdminPassword    = "admin123"
	demoCustomerEmail    = "user@example.com"
	demoCustomerPassword = "user123"
)

// AuthService handles authentication, registration and profile management.
type AuthService struct {
	userRepo repositories.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login authenticates a user by email and password and returns the stored
// user on success. The literal demo admin email gets its role force-corrected
// to Admin if it drifted.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		user, err = s.selfHealDemoAccount(ctx, email, password)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrInvalidCredentials
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Email == demoAdminEmail && !user.Role.IsAdmin() {
		log.Printf("Correcting drifted role for %s", demoAdminEmail)
		if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to correct admin role: %w", err)
		}
		user.Role = models.RoleAdmin
	}

	return user, nil
}

// selfHealDemoAccount lazily recreates a missing demo account when the login
// attempt carries its exact credentials. Returns nil for any other email.
func (s *AuthService) selfHealDemoAccount(ctx context.Context, email, password string) (*models.User, error) {
	var user *models.User
	switch {
	case email == demoCustomerEmail && password == demoCustomerPassword:
		user = &models.User{
			Username: "user",
			FullName: "Demo Customer",
			Email:    demoCustomerEmail,
			Role:     models.RoleCustomer,
		}
	case email == demoAdminEmail && password == demoAdminPassword:
		user = &models.User{
			Username: "admin",
			FullName: "Administrator",
			Email:    demoAdminEmail,
			Role:     models.RoleAdmin,
		}
	default:
		return nil, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)
	user.CreatedAt = time.Now()

	log.Printf("Recreating missing demo account %s", email)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to recreate demo account: %w", err)
	}
	return user, nil
}

// Register creates a new customer account. Email then username uniqueness are
// checked with sequential lookups; the role is always forced to Customer.
func (s *AuthService) Register(ctx context.Context, user *models.User) error {
	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return fmt.Errorf("email '%s' already registered", user.Email)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.GetByUsername(ctx, user.Username); err == nil {
		return fmt.Errorf("username '%s' already taken", user.Username)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)
	user.Role = models.RoleCustomer
	user.CreatedAt = time.Now()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies the customer-editable fields and returns the updated
// user so the caller can refresh its session copy.
func (s *AuthService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update repositories.ProfileUpdate) (*models.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, id, update); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

// ChangePassword verifies the old password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, id primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, id, string(hash))
}
