package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Game represents a catalog entry. Stock is advisory: it is checked when an
// item enters a cart but never decremented (digital delivery).
type Game struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required,min=1,max=200"`
	Platform    string             `bson:"platform" json:"platform"`
	Publisher   string             `bson:"publisher" json:"publisher"`
	Developer   string             `bson:"developer" json:"developer"`
	Genre       string             `bson:"genre" json:"genre"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	Stock       int                `bson:"stock" json:"stock" validate:"gte=0"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
	DownloadURL string             `bson:"downloadUrl,omitempty" json:"download_url,omitempty"`
	ReleaseDate time.Time          `bson:"releaseDate" json:"release_date"`
	Rating      string             `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
}
