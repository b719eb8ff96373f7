package models

import "time"

// Order statuses. The client only ever writes "pending"; later transitions
// happen through the payment confirmation path or server-side tooling.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// Order is the checkout payload persisted at payment time. Immutable from the
// client's perspective once written.
type Order struct {
	OrderID      string    `bson:"_id" json:"order_id"` // generated client-side, collision-checked
	UserID       string    `bson:"user_id" json:"user_id"`
	RestaurantID string    `bson:"restaurant_id" json:"restaurant_id"`
	Packs        []Pack    `bson:"packs" json:"packs"`
	TotalAmount  float64   `bson:"total_amount" json:"total_amount"`
	Address      Address   `bson:"address" json:"address"`
	Message      string    `bson:"message,omitempty" json:"message,omitempty"`
	Status       string    `bson:"status" json:"status"`
	PaymentRef   string    `bson:"payment_ref,omitempty" json:"payment_ref,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
