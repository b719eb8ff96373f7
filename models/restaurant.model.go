package models

// Restaurant is one vendor from the bundled catalog. The catalog copy is
// read-only; the Mongo `restaurants` collection carries the same shape plus
// the rating aggregate maintained by the rating cache's batched writes.
type Restaurant struct {
	ID            string     `bson:"_id" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Kind          string     `bson:"kind" json:"kind"` // "restaurant" or "pharmacy"
	Cuisine       string     `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	Address       string     `bson:"address" json:"address"`
	Image         string     `bson:"image,omitempty" json:"image,omitempty"`
	DeliveryFee   float64    `bson:"delivery_fee" json:"delivery_fee"`
	ServiceCharge float64    `bson:"service_charge" json:"service_charge"`
	DiscountRate  float64    `bson:"discount_rate,omitempty" json:"discount_rate,omitempty"`
	Menu          []MenuItem `bson:"menu" json:"menu"`
	Rating        float64    `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewsCount  int        `bson:"reviews_count,omitempty" json:"reviews_count,omitempty"`
}
