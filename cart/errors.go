package cart

import "errors"

// Validation failures. All are precondition violations raised synchronously;
// an operation that returns one of these has not mutated the cart.
var (
	ErrNegativePrice   = errors.New("item price cannot be negative")
	ErrCrossRestaurant = errors.New("cart already holds packs from another restaurant")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoAddress       = errors.New("delivery address is required")
	ErrNoSuchPack      = errors.New("no pack at that position")
)
