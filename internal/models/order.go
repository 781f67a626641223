package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "Placed"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// statusTransitions is the allowed transition table. Digital orders are
// inserted as Completed; a Completed order can still be cancelled (refund).
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusCancelled},
	StatusCancelled: {},
}

// ParseOrderStatus validates a raw status string against the known set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPlaced, StatusCompleted, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("invalid order status: %s", s)
}

// CanTransitionTo reports whether the transition table allows moving from the
// current status to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is an immutable line snapshot taken at order-creation time.
type OrderItem struct {
	GameID    primitive.ObjectID `bson:"gameId" json:"game_id"`
	GameTitle string             `bson:"gameTitle" json:"game_title"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// Order represents a customer order.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID      primitive.ObjectID `bson:"customerId" json:"customer_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"total_amount"`
	Status          OrderStatus        `bson:"status" json:"status"`
	ShippingAddress string             `bson:"shippingAddress" json:"shipping_address"`
	PaymentMethod   string             `bson:"paymentMethod" json:"payment_method"`
	PaymentInfo     string             `bson:"paymentInfo" json:"payment_info"`
	OrderDate       time.Time          `bson:"orderDate" json:"order_date"`
}

// Reference is the truncated order id fragment used in payment-confirmation
// messages. It is not guaranteed unique.
func (o *Order) Reference() string {
	hex := o.ID.Hex()
	if len(hex) < 8 {
		return hex
	}
	return hex[:8]
}
