// Package cart holds the in-memory checkout state: packs of menu items from a
// single restaurant, quantity mutation and order totals. It performs no remote
// I/O; persistence happens only when a checkout snapshot is written by the
// order controller.
package cart

import (
	"fmt"
	"sync"
	"time"

	"foodie-app/models"
)

// Cart is one user's checkout session. A cart is bound to a single restaurant
// from the first item added until the last pack is deleted; adding items for a
// different restaurant is rejected.
type Cart struct {
	mu           sync.Mutex
	restaurantID string
	packs        []models.Pack
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of item to the active (last) pack, creating the pack
// if the cart is empty. Adding for a different restaurant than the cart is
// bound to returns ErrCrossRestaurant.
func (c *Cart) AddItem(restaurantID string, item models.MenuItem) error {
	if item.Price < 0 {
		return ErrNegativePrice
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.restaurantID != "" && c.restaurantID != restaurantID {
		return ErrCrossRestaurant
	}
	if len(c.packs) == 0 {
		c.restaurantID = restaurantID
		c.packs = append(c.packs, newPack(restaurantID, 1))
	}

	pack := &c.packs[len(c.packs)-1]
	line, ok := pack.Lines[item.Name]
	if ok {
		line.Quantity++
		pack.Lines[item.Name] = line
		return nil
	}
	pack.Lines[item.Name] = models.CartLine{Item: item, Quantity: 1}
	return nil
}

// RemoveItem decrements the quantity of the named item in the given pack and
// deletes the line when it reaches zero. A missing pack or line is a no-op.
func (c *Cart) RemoveItem(packIndex int, itemName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if packIndex < 0 || packIndex >= len(c.packs) {
		return
	}
	pack := &c.packs[packIndex]
	line, ok := pack.Lines[itemName]
	if !ok {
		return
	}
	line.Quantity--
	if line.Quantity <= 0 {
		delete(pack.Lines, itemName)
		return
	}
	pack.Lines[itemName] = line
}

// AddPack appends a new pack holding one unit of each given item.
func (c *Cart) AddPack(restaurantID string, items []models.MenuItem) error {
	for _, item := range items {
		if item.Price < 0 {
			return ErrNegativePrice
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.restaurantID != "" && c.restaurantID != restaurantID {
		return ErrCrossRestaurant
	}
	c.restaurantID = restaurantID

	pack := newPack(restaurantID, len(c.packs)+1)
	for _, item := range items {
		line := pack.Lines[item.Name]
		line.Item = item
		line.Quantity++
		pack.Lines[item.Name] = line
	}
	c.packs = append(c.packs, pack)
	return nil
}

// DuplicatePack deep-copies the pack at packIndex and appends the copy. The
// copy's lines are independent of the original's.
func (c *Cart) DuplicatePack(packIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if packIndex < 0 || packIndex >= len(c.packs) {
		return ErrNoSuchPack
	}
	dup := copyPack(c.packs[packIndex])
	dup.Name = c.packs[packIndex].Name + " (Copy)"
	c.packs = append(c.packs, dup)
	return nil
}

// DeletePack removes the pack at packIndex. Deleting the last pack resets the
// cart to its empty state, clearing the restaurant binding.
func (c *Cart) DeletePack(packIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if packIndex < 0 || packIndex >= len(c.packs) {
		return ErrNoSuchPack
	}
	c.packs = append(c.packs[:packIndex], c.packs[packIndex+1:]...)
	if len(c.packs) == 0 {
		c.restaurantID = ""
	}
	return nil
}

// RenamePack changes a pack's display label only.
func (c *Cart) RenamePack(packIndex int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if packIndex < 0 || packIndex >= len(c.packs) {
		return ErrNoSuchPack
	}
	c.packs[packIndex].Name = name
	return nil
}

// ToggleCollapsed flips a pack's collapsed display flag.
func (c *Cart) ToggleCollapsed(packIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if packIndex < 0 || packIndex >= len(c.packs) {
		return ErrNoSuchPack
	}
	c.packs[packIndex].Collapsed = !c.packs[packIndex].Collapsed
	return nil
}

// RestaurantID returns the restaurant the cart is bound to, or "" when empty.
func (c *Cart) RestaurantID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restaurantID
}

// Empty reports whether the cart holds no packs.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.packs) == 0
}

// Packs returns a deep copy of the current packs in order.
func (c *Cart) Packs() []models.Pack {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyPacks()
}

// ItemTotal sums price*quantity over all packs and lines.
func (c *Cart) ItemTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := 0.0
	for _, pack := range c.packs {
		sum += pack.Total()
	}
	return sum
}

// GrandTotal applies the discount to the item subtotal only, then adds the
// restaurant's charges and the delivery fee.
func (c *Cart) GrandTotal(restaurantCharges, deliveryFee, discountRate float64) float64 {
	itemTotal := c.ItemTotal()
	return itemTotal - itemTotal*discountRate + restaurantCharges + deliveryFee
}

// Checkout snapshots the cart into an order payload with status pending. The
// order id is assigned by the caller after a collision check against the
// order store. The cart itself is left untouched; callers clear it once the
// order is accepted.
func (c *Cart) Checkout(userID string, address *models.Address, message string) (models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.packs) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if address == nil {
		return models.Order{}, ErrNoAddress
	}

	total := 0.0
	for _, pack := range c.packs {
		total += pack.Total()
	}
	return models.Order{
		UserID:       userID,
		RestaurantID: c.restaurantID,
		Packs:        c.copyPacks(),
		TotalAmount:  total,
		Address:      *address,
		Message:      message,
		Status:       models.OrderStatusPending,
		CreatedAt:    time.Now(),
	}, nil
}

// Clear drops all packs and the restaurant binding.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packs = nil
	c.restaurantID = ""
}

func (c *Cart) copyPacks() []models.Pack {
	out := make([]models.Pack, len(c.packs))
	for i, pack := range c.packs {
		out[i] = copyPack(pack)
	}
	return out
}

func newPack(restaurantID string, n int) models.Pack {
	return models.Pack{
		Name:         fmt.Sprintf("Pack %d", n),
		RestaurantID: restaurantID,
		Lines:        make(map[string]models.CartLine),
	}
}

func copyPack(p models.Pack) models.Pack {
	lines := make(map[string]models.CartLine, len(p.Lines))
	for name, line := range p.Lines {
		lines[name] = line
	}
	return models.Pack{
		Name:         p.Name,
		RestaurantID: p.RestaurantID,
		Lines:        lines,
		Collapsed:    p.Collapsed,
	}
}
