package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"foodie-app/cart"
	"foodie-app/catalog"
	"foodie-app/middleware"
	"foodie-app/models"
	"foodie-app/utils"
)

// CartController handles cart-related requests. Carts are in-memory session
// state; nothing here touches a remote store.
type CartController struct {
	Carts   *cart.Service
	Catalog *catalog.Catalog
}

// NewCartController creates a new CartController
func NewCartController(carts *cart.Service, cat *catalog.Catalog) *CartController {
	return &CartController{Carts: carts, Catalog: cat}
}

type cartView struct {
	RestaurantID string        `json:"restaurant_id,omitempty"`
	Packs        []models.Pack `json:"packs"`
	ItemTotal    float64       `json:"item_total"`
	GrandTotal   float64       `json:"grand_total"`
}

// GetCart retrieves the user's cart with totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	cc.writeCart(w, cc.Carts.Cart(claims.UserID))
}

// AddItem adds one unit of a menu item to the user's cart. The item is priced
// from the catalog, never from the request.
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		RestaurantID string `json:"restaurant_id"`
		ItemName     string `json:"item_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	item, ok := cc.Catalog.FindItem(body.RestaurantID, body.ItemName)
	if !ok {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	c := cc.Carts.Cart(claims.UserID)
	if err := c.AddItem(body.RestaurantID, item); err != nil {
		writeCartError(w, err)
		return
	}
	cc.writeCart(w, c)
}

// RemoveItem decrements an item in one pack
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		PackIndex int    `json:"pack_index"`
		ItemName  string `json:"item_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	c := cc.Carts.Cart(claims.UserID)
	c.RemoveItem(body.PackIndex, body.ItemName)
	cc.writeCart(w, c)
}

// AddPack appends a new pack with one unit of each named item
func (cc *CartController) AddPack(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		RestaurantID string   `json:"restaurant_id"`
		ItemNames    []string `json:"item_names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	items := make([]models.MenuItem, 0, len(body.ItemNames))
	for _, name := range body.ItemNames {
		item, ok := cc.Catalog.FindItem(body.RestaurantID, name)
		if !ok {
			http.Error(w, "Item not found: "+name, http.StatusNotFound)
			return
		}
		items = append(items, item)
	}

	c := cc.Carts.Cart(claims.UserID)
	if err := c.AddPack(body.RestaurantID, items); err != nil {
		writeCartError(w, err)
		return
	}
	cc.writeCart(w, c)
}

// DuplicatePack deep-copies a pack
func (cc *CartController) DuplicatePack(w http.ResponseWriter, r *http.Request) {
	cc.packOp(w, r, func(c *cart.Cart, i int) error { return c.DuplicatePack(i) })
}

// DeletePack removes a pack
func (cc *CartController) DeletePack(w http.ResponseWriter, r *http.Request) {
	cc.packOp(w, r, func(c *cart.Cart, i int) error { return c.DeletePack(i) })
}

// TogglePack flips a pack's collapsed display state
func (cc *CartController) TogglePack(w http.ResponseWriter, r *http.Request) {
	cc.packOp(w, r, func(c *cart.Cart, i int) error { return c.ToggleCollapsed(i) })
}

// RenamePack relabels a pack
func (cc *CartController) RenamePack(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	cc.packOp(w, r, func(c *cart.Cart, i int) error { return c.RenamePack(i, body.Name) })
}

// packOp runs one index-addressed pack mutation with shared auth, parsing and
// error handling.
func (cc *CartController) packOp(w http.ResponseWriter, r *http.Request, op func(*cart.Cart, int) error) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Invalid pack index", http.StatusBadRequest)
		return
	}

	c := cc.Carts.Cart(claims.UserID)
	if err := op(c, index); err != nil {
		writeCartError(w, err)
		return
	}
	cc.writeCart(w, c)
}

func (cc *CartController) writeCart(w http.ResponseWriter, c *cart.Cart) {
	view := cartView{
		RestaurantID: c.RestaurantID(),
		Packs:        c.Packs(),
		ItemTotal:    c.ItemTotal(),
	}
	view.GrandTotal = view.ItemTotal
	if restaurant, ok := cc.Catalog.ByID(view.RestaurantID); ok {
		view.GrandTotal = c.GrandTotal(restaurant.ServiceCharge, restaurant.DeliveryFee, restaurant.DiscountRate)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrNoSuchPack):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, cart.ErrCrossRestaurant),
		errors.Is(err, cart.ErrNegativePrice),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrNoAddress):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Cart error", http.StatusInternalServerError)
	}
}
