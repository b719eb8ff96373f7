package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one user-submitted review document. The per-restaurant rating
// aggregate is only a cache of these; reviews are the source of truth.
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID string             `bson:"restaurant_id" json:"restaurant_id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	OrderID      string             `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Rating       float64            `bson:"rating" json:"rating"` // 1..5
	Comment      string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
