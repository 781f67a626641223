package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
)

// DashboardStats are the back-office landing page counters.
type DashboardStats struct {
	TotalGames    int64 `json:"total_games"`
	TotalUsers    int64 `json:"total_users"`
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
}

// AdminOrder is an order row enriched with the customer's display name.
type AdminOrder struct {
	models.Order
	CustomerName string `json:"customer_name"`
}

// AdminOrderDetail is a single order with the customer's contact details.
type AdminOrderDetail struct {
	Order         *models.Order `json:"order"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
}

// AdminService handles the role-gated back-office operations.
type AdminService struct {
	gameRepo  repositories.GameRepository
	userRepo  repositories.UserRepository
	orderRepo repositories.OrderRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(gameRepo repositories.GameRepository, userRepo repositories.UserRepository, orderRepo repositories.OrderRepository) *AdminService {
	return &AdminService{gameRepo: gameRepo, userRepo: userRepo, orderRepo: orderRepo}
}

// Dashboard gathers the back-office counters.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	games, err := s.gameRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.orderRepo.CountNotCompleted(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalGames:    games,
		TotalUsers:    users,
		TotalOrders:   orders,
		PendingOrders: pending,
	}, nil
}

// ListGames returns the full catalog unfiltered.
func (s *AdminService) ListGames(ctx context.Context) ([]models.Game, error) {
	return s.gameRepo.GetAll(ctx, repositories.GameFilter{})
}

// GetGame fetches a single game for the edit form.
func (s *AdminService) GetGame(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	return s.gameRepo.GetByID(ctx, id)
}

// CreateGame inserts a new catalog entry.
func (s *AdminService) CreateGame(ctx context.Context, game *models.Game) error {
	return s.gameRepo.Create(ctx, game)
}

// UpdateGame replaces the stored game. When the submitted game carries no
// image path the stored one is preserved, as is the original creation time.
func (s *AdminService) UpdateGame(ctx context.Context, game *models.Game) error {
	existing, err := s.gameRepo.GetByID(ctx, game.ID)
	if err != nil {
		return err
	}
	if game.ImageURL == "" {
		game.ImageURL = existing.ImageURL
	}
	if game.DownloadURL == "" {
		game.DownloadURL = existing.DownloadURL
	}
	game.CreatedAt = existing.CreatedAt
	return s.gameRepo.Update(ctx, game)
}

// DeleteGame removes a catalog entry.
func (s *AdminService) DeleteGame(ctx context.Context, id primitive.ObjectID) error {
	return s.gameRepo.Delete(ctx, id)
}

// ListOrders returns every order with customer names resolved.
func (s *AdminService) ListOrders(ctx context.Context) ([]AdminOrder, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]AdminOrder, 0, len(orders))
	for _, order := range orders {
		name := "Unknown"
		if customer, err := s.userRepo.GetByID(ctx, order.CustomerID); err == nil {
			name = customer.FullName
		}
		rows = append(rows, AdminOrder{Order: order, CustomerName: name})
	}
	return rows, nil
}

// OrderDetail fetches one order plus the customer's contact details.
func (s *AdminService) OrderDetail(ctx context.Context, id primitive.ObjectID) (*AdminOrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &AdminOrderDetail{Order: order}
	if customer, err := s.userRepo.GetByID(ctx, order.CustomerID); err == nil {
		detail.CustomerName = customer.FullName
		detail.CustomerEmail = customer.Email
		detail.CustomerPhone = customer.PhoneNumber
	}
	return detail, nil
}

// UpdateOrderStatus validates the raw status against the known set and the
// transition table before writing it.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, rawStatus string) error {
	status, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == status {
		return nil
	}
	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("order status cannot change from %s to %s", order.Status, status)
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// DeleteUser removes an account.
func (s *AdminService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return s.userRepo.Delete(ctx, id)
}

// ToggleUserRole flips between Admin and Customer. Any stored value that is
// not Admin flips to Admin.
func (s *AdminService) ToggleUserRole(ctx context.Context, id primitive.ObjectID) (models.Role, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	newRole := models.RoleAdmin
	if user.Role.IsAdmin() {
		newRole = models.RoleCustomer
	}
	if err := s.userRepo.UpdateRole(ctx, id, newRole); err != nil {
		return "", err
	}
	return newRole, nil
}
