package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a cart line. Title, price and image are snapshots taken when the
// game was added, decoupled from later catalog edits.
type CartItem struct {
	GameID    primitive.ObjectID `bson:"gameId" json:"game_id"`
	GameTitle string             `bson:"gameTitle" json:"game_title"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	ImageURL  string             `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
}

// Cart holds at most one line per game id for a single customer. There is at
// most one cart document per customer; lookups go by customer id.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customerId" json:"customer_id"`
	Items      []CartItem         `bson:"items" json:"items"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Total sums price times quantity over the cart's lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
