package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

type adminFixture struct {
	gameRepo  *repositories.MockGameRepository
	userRepo  *repositories.MockUserRepository
	orderRepo *repositories.MockOrderRepository

	adminService *services.AdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		gameRepo:  repositories.NewMockGameRepository(),
		userRepo:  repositories.NewMockUserRepository(),
		orderRepo: repositories.NewMockOrderRepository(),
	}
	f.adminService = services.NewAdminService(f.gameRepo, f.userRepo, f.orderRepo)
	return f
}

func (f *adminFixture) seedOrder(t *testing.T, order models.Order) models.Order {
	t.Helper()
	assert.NoError(t, f.orderRepo.Create(context.Background(), &order))
	return order
}

func TestAdminService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	seedGame(t, f.gameRepo, models.Game{Title: "Hades", Price: 135000, Stock: 5})
	seedGame(t, f.gameRepo, models.Game{Title: "Celeste", Price: 85000, Stock: 5})

	customer := models.User{Username: "c", Email: "c@example.com", Role: models.RoleCustomer}
	assert.NoError(t, f.userRepo.Create(ctx, &customer))

	f.seedOrder(t, models.Order{CustomerID: customer.ID, Status: models.StatusCompleted, OrderDate: time.Now()})
	f.seedOrder(t, models.Order{CustomerID: customer.ID, Status: models.StatusPlaced, OrderDate: time.Now()})

	stats, err := f.adminService.Dashboard(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalGames)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
}

func TestAdminService_UpdateGame_PreservesStoredFields(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	created := seedGame(t, f.gameRepo, models.Game{
		Title:       "Hades",
		Price:       135000,
		Stock:       5,
		ImageURL:    "/img/games/hades.jpg",
		DownloadURL: "https://cdn.example.com/hades.zip",
	})

	edit := created
	edit.Price = 99000
	edit.ImageURL = ""
	edit.DownloadURL = ""

	assert.NoError(t, f.adminService.UpdateGame(ctx, &edit))

	stored, err := f.adminService.GetGame(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, 99000.0, stored.Price)
	assert.Equal(t, "/img/games/hades.jpg", stored.ImageURL)
	assert.Equal(t, "https://cdn.example.com/hades.zip", stored.DownloadURL)
	assert.Equal(t, created.CreatedAt, stored.CreatedAt)
}

func TestAdminService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed transition", func(t *testing.T) {
		f := newAdminFixture(t)
		order := f.seedOrder(t, models.Order{Status: models.StatusPlaced, OrderDate: time.Now()})

		assert.NoError(t, f.adminService.UpdateOrderStatus(ctx, order.ID, "Completed"))

		stored, err := f.orderRepo.GetByID(ctx, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, stored.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		f := newAdminFixture(t)
		order := f.seedOrder(t, models.Order{Status: models.StatusCompleted, OrderDate: time.Now()})
		assert.NoError(t, f.adminService.UpdateOrderStatus(ctx, order.ID, "Completed"))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		f := newAdminFixture(t)
		order := f.seedOrder(t, models.Order{Status: models.StatusCancelled, OrderDate: time.Now()})

		err := f.adminService.UpdateOrderStatus(ctx, order.ID, "Completed")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot change from Cancelled to Completed")
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newAdminFixture(t)
		order := f.seedOrder(t, models.Order{Status: models.StatusPlaced, OrderDate: time.Now()})

		err := f.adminService.UpdateOrderStatus(ctx, order.ID, "Shipped")
		assert.Error(t, err)
	})
}

func TestAdminService_ListOrders_ResolvesCustomerNames(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	customer := models.User{Username: "c", FullName: "Citra Dewi", Email: "c@example.com", Role: models.RoleCustomer}
	assert.NoError(t, f.userRepo.Create(ctx, &customer))
	f.seedOrder(t, models.Order{CustomerID: customer.ID, Status: models.StatusCompleted, OrderDate: time.Now()})

	rows, err := f.adminService.ListOrders(ctx)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Citra Dewi", rows[0].CustomerName)
}

func TestAdminService_ToggleUserRole(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	user := models.User{Username: "c", Email: "c@example.com", Role: models.RoleCustomer}
	assert.NoError(t, f.userRepo.Create(ctx, &user))

	role, err := f.adminService.ToggleUserRole(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	role, err = f.adminService.ToggleUserRole(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, role)
}

func TestAdminService_ListUsers_BlanksPasswords(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	user := models.User{Username: "c", Email: "c@example.com", Password: "hash", Role: models.RoleCustomer}
	assert.NoError(t, f.userRepo.Create(ctx, &user))

	users, err := f.adminService.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}
