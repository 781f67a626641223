package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles. Stored role strings are compared
// case-insensitively; anything that is not Admin counts as Customer.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleCustomer Role = "Customer"
)

// ParseRole normalizes a stored role string to a Role.
func ParseRole(s string) Role {
	if strings.EqualFold(s, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleCustomer
}

// IsAdmin reports whether the role grants back-office access.
func (r Role) IsAdmin() bool {
	return strings.EqualFold(string(r), string(RoleAdmin))
}

// User represents an account of the store. Library is the derived set of owned
// game IDs, maintained with set-add semantics when an order is placed.
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username          string               `bson:"username" json:"username" validate:"required,min=3,max=100"`
	FullName          string               `bson:"fullName" json:"full_name" validate:"required,max=100"`
	Email             string               `bson:"email" json:"email" validate:"required,email"`
	Password          string               `bson:"password" json:"-" validate:"required,min=6"`
	Role              Role                 `bson:"role" json:"role"`
	PhoneNumber       string               `bson:"phoneNumber,omitempty" json:"phone_number,omitempty"`
	Address           string               `bson:"address,omitempty" json:"address,omitempty"`
	ProfilePictureURL string               `bson:"profilePictureUrl,omitempty" json:"profile_picture_url,omitempty"`
	Wishlist          []primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	Library           []primitive.ObjectID `bson:"library,omitempty" json:"library,omitempty"`
	CreatedAt         time.Time            `bson:"createdAt" json:"created_at"`
}
