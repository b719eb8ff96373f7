package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records one gateway transaction attempt for an order. Amount is in
// minor currency units (kobo), matching what the gateway was charged.
type Payment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID     string             `bson:"order_id" json:"order_id"`
	Reference   string             `bson:"reference" json:"reference"`
	AmountMinor int64              `bson:"amount_minor" json:"amount_minor"`
	Email       string             `bson:"email" json:"email"`
	Status      string             `bson:"status" json:"status"` // "pending", "success", "failed"
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
