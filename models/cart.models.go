package models

// MenuItem is immutable reference data from the catalog. Carts keep a snapshot
// of the item at the time it was added; the cart never mutates it.
type MenuItem struct {
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	Image       string  `bson:"image,omitempty" json:"image,omitempty"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

// CartLine is one menu item plus its requested quantity within a pack.
type CartLine struct {
	Item     MenuItem `bson:"item" json:"item"`
	Quantity int      `bson:"quantity" json:"quantity"`
}

// Pack groups the items of one sub-order from a single restaurant. All lines
// in a pack reference the pack's restaurant.
type Pack struct {
	Name         string              `bson:"name" json:"name"`
	RestaurantID string              `bson:"restaurant_id" json:"restaurant_id"`
	Lines        map[string]CartLine `bson:"lines" json:"lines"` // keyed by item name
	Collapsed    bool                `bson:"-" json:"collapsed"` // display state only
}

// Total returns the pack subtotal.
func (p Pack) Total() float64 {
	sum := 0.0
	for _, line := range p.Lines {
		sum += line.Item.Price * float64(line.Quantity)
	}
	return sum
}
