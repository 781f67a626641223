package services_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/internal/services"
)

type orderFixture struct {
	orderRepo *repositories.MockOrderRepository
	cartRepo  *repositories.MockCartRepository
	userRepo  *repositories.MockUserRepository
	gameRepo  *repositories.MockGameRepository

	orderService *services.OrderService
	cartService  *services.CartService

	customer models.User
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orderRepo: repositories.NewMockOrderRepository(),
		cartRepo:  repositories.NewMockCartRepository(),
		userRepo:  repositories.NewMockUserRepository(),
		gameRepo:  repositories.NewMockGameRepository(),
	}
	f.orderService = services.NewOrderService(f.orderRepo, f.cartRepo, f.userRepo, f.gameRepo, nil, "6281388209195")
	f.cartService = services.NewCartService(f.cartRepo, f.gameRepo)

	f.customer = models.User{
		Username: "budi",
		FullName: "Budi Santoso",
		Email:    "budi@example.com",
		Role:     models.RoleCustomer,
	}
	assert.NoError(t, f.userRepo.Create(context.Background(), &f.customer))
	return f
}

func (f *orderFixture) fillCart(t *testing.T, games ...models.Game) []models.Game {
	t.Helper()
	ctx := context.Background()
	out := make([]models.Game, 0, len(games))
	for _, game := range games {
		created := seedGame(t, f.gameRepo, game)
		assert.NoError(t, f.cartService.AddToCart(ctx, f.customer.ID, created.ID, 1))
		out = append(out, created)
	}
	return out
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orderService.PlaceOrder(ctx, f.customer.ID, services.PlaceOrderRequest{PaymentMethod: "Dana"})
		assert.ErrorIs(t, err, services.ErrEmptyCart)
	})

	t.Run("missing payment method", func(t *testing.T) {
		f := newOrderFixture(t)
		f.fillCart(t, models.Game{Title: "Hades", Price: 135000, Stock: 10})
		_, err := f.orderService.PlaceOrder(ctx, f.customer.ID, services.PlaceOrderRequest{})
		assert.ErrorIs(t, err, services.ErrPaymentMethodRequired)
	})

	t.Run("happy path", func(t *testing.T) {
		f := newOrderFixture(t)
		games := f.fillCart(t,
			models.Game{Title: "Hades", Price: 135000, Stock: 10},
			models.Game{Title: "Celeste", Price: 85000, Stock: 10},
		)

		confirmation, err := f.orderService.PlaceOrder(ctx, f.customer.ID, services.PlaceOrderRequest{
			PaymentMethod: "Dana",
			PhoneNumber:   "081234567890",
		})
		assert.NoError(t, err)

		order := confirmation.Order
		assert.Equal(t, models.StatusCompleted, order.Status)
		assert.Equal(t, 220000.0, order.TotalAmount)
		assert.Equal(t, "Digital Delivery", order.ShippingAddress)
		assert.Equal(t, "Dana - 081234567890", order.PaymentInfo)
		assert.Len(t, order.Items, 2)

		// The purchased games land in the customer's library.
		library, err := f.orderService.Library(ctx, f.customer.ID)
		assert.NoError(t, err)
		assert.Len(t, library, len(games))

		// The cart is gone.
		cart, err := f.cartService.GetCart(ctx, f.customer.ID)
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)

		// The confirmation carries a pre-filled WhatsApp link.
		assert.True(t, strings.HasPrefix(confirmation.WhatsAppURL, "https://wa.me/6281388209195?text="))
		assert.Contains(t, confirmation.WhatsAppURL, order.Reference())
		assert.Contains(t, confirmation.WhatsAppURL, "Budi Santoso")
	})

	t.Run("line prices are cart snapshots", func(t *testing.T) {
		f := newOrderFixture(t)
		games := f.fillCart(t, models.Game{Title: "Hades", Price: 135000, Stock: 10})

		// Catalog price changes after the item entered the cart.
		updated := games[0]
		updated.Price = 999000
		assert.NoError(t, f.gameRepo.Update(ctx, &updated))

		confirmation, err := f.orderService.PlaceOrder(ctx, f.customer.ID, services.PlaceOrderRequest{PaymentMethod: "OVO", PhoneNumber: "0811"})
		assert.NoError(t, err)
		assert.Equal(t, 135000.0, confirmation.Order.Items[0].Price)
		assert.Equal(t, 135000.0, confirmation.Order.TotalAmount)
	})

	t.Run("explicit shipping address is kept", func(t *testing.T) {
		f := newOrderFixture(t)
		f.fillCart(t, models.Game{Title: "Hades", Price: 135000, Stock: 10})

		confirmation, err := f.orderService.PlaceOrder(ctx, f.customer.ID, services.PlaceOrderRequest{
			PaymentMethod:   "GoPay",
			PhoneNumber:     "0811",
			ShippingAddress: "Jl. Sudirman 1, Jakarta",
		})
		assert.NoError(t, err)
		assert.Equal(t, "Jl. Sudirman 1, Jakarta", confirmation.Order.ShippingAddress)
	})
}

func TestOrderService_PaymentInfoVariants(t *testing.T) {
	ctx := context.Background()

	place := func(t *testing.T, req services.PlaceOrderRequest) *models.Order {
		f := newOrderFixture(t)
		f.fillCart(t, models.Game{Title: "Hades", Price: 135000, Stock: 10})
		confirmation, err := f.orderService.PlaceOrder(ctx, f.customer.ID, req)
		assert.NoError(t, err)
		return confirmation.Order
	}

	t.Run("e-wallet", func(t *testing.T) {
		order := place(t, services.PlaceOrderRequest{PaymentMethod: "OVO", PhoneNumber: "08123"})
		assert.Equal(t, "OVO - 08123", order.PaymentInfo)
	})

	t.Run("bank transfer gets a 10 digit VA", func(t *testing.T) {
		order := place(t, services.PlaceOrderRequest{PaymentMethod: "BCA"})
		assert.Regexp(t, regexp.MustCompile(`^BCA VA: \d{10}$`), order.PaymentInfo)
	})

	t.Run("credit card keeps last four digits", func(t *testing.T) {
		order := place(t, services.PlaceOrderRequest{PaymentMethod: "CreditCard", CardNumber: "4111111111111111"})
		assert.Equal(t, "Card ending in 1111", order.PaymentInfo)
	})
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.orderService.Checkout(ctx, f.customer.ID)
		assert.ErrorIs(t, err, services.ErrEmptyCart)
	})

	t.Run("returns cart and customer", func(t *testing.T) {
		f := newOrderFixture(t)
		f.fillCart(t, models.Game{Title: "Hades", Price: 135000, Stock: 10})

		summary, err := f.orderService.Checkout(ctx, f.customer.ID)
		assert.NoError(t, err)
		assert.Len(t, summary.Cart.Items, 1)
		assert.Equal(t, "budi@example.com", summary.Customer.Email)
	})
}

func TestOrderService_MyOrderDetail_ScopedToCustomer(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	f.fillCart(t, models.Game{Title: "Hades", Price: 135000, Stock: 10})

	confirmation, err := f.orderService.PlaceOrder(ctx, f.customer.ID, services.PlaceOrderRequest{PaymentMethod: "Dana", PhoneNumber: "0811"})
	assert.NoError(t, err)
	orderID := confirmation.Order.ID

	// The owner sees it.
	order, err := f.orderService.MyOrderDetail(ctx, orderID, f.customer.ID)
	assert.NoError(t, err)
	assert.Equal(t, orderID, order.ID)

	// Anyone else gets not found, same as an unknown id.
	_, err = f.orderService.MyOrderDetail(ctx, orderID, primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_Library_Empty(t *testing.T) {
	f := newOrderFixture(t)
	games, err := f.orderService.Library(context.Background(), f.customer.ID)
	assert.NoError(t, err)
	assert.Empty(t, games)
}
