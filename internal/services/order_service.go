package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
	"retroverse/internal/repositories"
	"retroverse/pkg/rabbitmq"
	"retroverse/pkg/walink"
)

var (
	// ErrEmptyCart is returned when checkout or order placement finds no cart
	// lines for the customer.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentMethodRequired is returned when order placement carries no
	// payment method.
	ErrPaymentMethodRequired = errors.New("payment method is required")
)

// PlaceOrderRequest carries the checkout form fields.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
	PhoneNumber     string `json:"phone_number"`
	CardNumber      string `json:"card_number"`
}

// OrderConfirmation is an order together with its pre-filled WhatsApp payment
// confirmation link.
type OrderConfirmation struct {
	Order       *models.Order `json:"order"`
	WhatsAppURL string        `json:"whatsapp_url"`
}

// CheckoutSummary is what the checkout view needs: the cart being purchased
// and the customer's stored contact details for form pre-fill.
type CheckoutSummary struct {
	Cart     *models.Cart `json:"cart"`
	Customer *models.User `json:"customer"`
}

// OrderService handles checkout, order history and the owned-games library.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	cartRepo   repositories.CartRepository
	userRepo   repositories.UserRepository
	gameRepo   repositories.GameRepository
	mqClient   *rabbitmq.Client
	adminPhone string
}

// NewOrderService creates a new OrderService. mqClient may be nil, in which
// case no order events are published.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	gameRepo repositories.GameRepository,
	mqClient *rabbitmq.Client,
	adminPhone string,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		userRepo:   userRepo,
		gameRepo:   gameRepo,
		mqClient:   mqClient,
		adminPhone: adminPhone,
	}
}

// Checkout loads the cart and customer for the checkout view. Fails with
// ErrEmptyCart when there is nothing to purchase.
func (s *OrderService) Checkout(ctx context.Context, customerID primitive.ObjectID) (*CheckoutSummary, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CheckoutSummary{Cart: cart, Customer: customer}, nil
}

// paymentInfo builds the simulated payment descriptor. Bank transfers get a
// pseudo 10-digit virtual account number from two independent 5-digit draws;
// no uniqueness guarantee, no check digit.
func paymentInfo(req PlaceOrderRequest) string {
	switch req.PaymentMethod {
	case "Dana", "OVO", "GoPay":
		return fmt.Sprintf("%s - %s", req.PaymentMethod, req.PhoneNumber)
	case "BCA", "Mandiri", "BNI":
		part1 := 10000 + rand.Intn(90000)
		part2 := 10000 + rand.Intn(90000)
		return fmt.Sprintf("%s VA: %d%d", req.PaymentMethod, part1, part2)
	case "CreditCard":
		last4 := req.CardNumber
		if len(last4) > 4 {
			last4 = last4[len(last4)-4:]
		}
		return fmt.Sprintf("Card ending in %s", last4)
	}
	return ""
}

// PlaceOrder converts the customer's cart into an order. Line prices are the
// cart snapshots, not current catalog prices. The order is inserted as
// Completed (digital delivery), the owned-games set is updated, the cart is
// deleted and a payment confirmation link is returned. Stock is not touched.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID primitive.ObjectID, req PlaceOrderRequest) (*OrderConfirmation, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.PaymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}

	shippingAddress := req.ShippingAddress
	if shippingAddress == "" {
		shippingAddress = "Digital Delivery"
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	gameIDs := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			GameID:    line.GameID,
			GameTitle: line.GameTitle,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
		gameIDs = append(gameIDs, line.GameID)
	}

	order := &models.Order{
		CustomerID:      customerID,
		Items:           items,
		TotalAmount:     cart.Total(),
		Status:          models.StatusCompleted,
		ShippingAddress: shippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentInfo:     paymentInfo(req),
		OrderDate:       time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Two further writes with no transaction: a crash here leaves the order
	// recorded but the library or cart stale.
	if err := s.userRepo.AddToLibrary(ctx, customerID, gameIDs); err != nil {
		log.Printf("Failed to update library for customer %s: %v", customerID.Hex(), err)
	}
	if err := s.cartRepo.DeleteByCustomer(ctx, customerID); err != nil {
		log.Printf("Failed to delete cart for customer %s: %v", customerID.Hex(), err)
	}

	if err := s.mqClient.PublishOrderPlaced(rabbitmq.OrderPlacedEvent{
		OrderID:       order.ID.Hex(),
		CustomerID:    customerID.Hex(),
		Status:        string(order.Status),
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
	}); err != nil {
		log.Printf("Warning: failed to publish order placed event for order %s: %v", order.ID.Hex(), err)
	}

	return s.confirmationFor(ctx, order, customerID)
}

func (s *OrderService) confirmationFor(ctx context.Context, order *models.Order, customerID primitive.ObjectID) (*OrderConfirmation, error) {
	customerName := "Customer"
	customerEmail := ""
	if customer, err := s.userRepo.GetByID(ctx, customerID); err == nil {
		customerName = customer.FullName
		customerEmail = customer.Email
	}

	titles := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		titles = append(titles, item.GameTitle)
	}

	url := walink.PaymentConfirmation(s.adminPhone, walink.Summary{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		OrderRef:      order.Reference(),
		GameTitles:    titles,
		Total:         order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
	})
	return &OrderConfirmation{Order: order, WhatsAppURL: url}, nil
}

// Confirmation re-derives the confirmation view for an order the customer owns.
func (s *OrderService) Confirmation(ctx context.Context, orderID, customerID primitive.ObjectID) (*OrderConfirmation, error) {
	order, err := s.orderRepo.GetByIDForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, err
	}
	return s.confirmationFor(ctx, order, customerID)
}

// MyOrders lists the customer's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	return s.orderRepo.GetByCustomer(ctx, customerID)
}

// MyOrderDetail fetches one order scoped to the customer. Not-found and
// not-owned are indistinguishable.
func (s *OrderService) MyOrderDetail(ctx context.Context, orderID, customerID primitive.ObjectID) (*models.Order, error) {
	return s.orderRepo.GetByIDForCustomer(ctx, orderID, customerID)
}

// Library lists the customer's owned games with one batched lookup against
// the derived library set.
func (s *OrderService) Library(ctx context.Context, customerID primitive.ObjectID) ([]models.Game, error) {
	user, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(user.Library) == 0 {
		return []models.Game{}, nil
	}
	return s.gameRepo.GetByIDs(ctx, user.Library)
}
