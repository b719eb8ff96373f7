package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a delivery address snapshot. It is embedded in orders and in the
// per-user address book documents.
type Address struct {
	Label     string  `bson:"label" json:"label"` // e.g. "Home", "Work"
	Street    string  `bson:"street" json:"street"`
	City      string  `bson:"city" json:"city"`
	State     string  `bson:"state" json:"state"`
	Latitude  float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// UserAddress is one saved entry in a user's address book.
type UserAddress struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Address   Address            `bson:"address" json:"address"`
	IsDefault bool               `bson:"is_default" json:"is_default"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// User represents a user in the system
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Favourite marks a restaurant a user has saved.
type Favourite struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string             `bson:"user_id" json:"user_id"`
	RestaurantID string             `bson:"restaurant_id" json:"restaurant_id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
