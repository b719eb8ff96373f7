package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodie-app/cart"
	"foodie-app/catalog"
	"foodie-app/middleware"
	"foodie-app/utils"
)

func newCartController(t *testing.T) *CartController {
	t.Helper()
	cat, err := catalog.Load(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)
	return NewCartController(cart.NewService(), cat)
}

func authedRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	claims := &utils.Claims{UserID: "u1", Email: "ada@example.com"}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartView {
	t.Helper()
	var view cartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func TestCartController_AddItem(t *testing.T) {
	cc := newCartController(t)

	rec := httptest.NewRecorder()
	cc.AddItem(rec, authedRequest(http.MethodPost, "/cart/items",
		map[string]string{"restaurant_id": "r1", "item_name": "Jollof Rice"}))

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeCart(t, rec)
	assert.Equal(t, "r1", view.RestaurantID)
	require.Len(t, view.Packs, 1)
	assert.Equal(t, 1, view.Packs[0].Lines["Jollof Rice"].Quantity)
	assert.Equal(t, 1500.0, view.ItemTotal)
	// r1 carries a N100 service charge and N500 delivery fee.
	assert.Equal(t, 2100.0, view.GrandTotal)
}

func TestCartController_AddItem_PricedFromCatalog(t *testing.T) {
	cc := newCartController(t)

	rec := httptest.NewRecorder()
	cc.AddItem(rec, authedRequest(http.MethodPost, "/cart/items",
		map[string]string{"restaurant_id": "r1", "item_name": "No Such Dish"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartController_AddItem_CrossRestaurant(t *testing.T) {
	cc := newCartController(t)

	rec := httptest.NewRecorder()
	cc.AddItem(rec, authedRequest(http.MethodPost, "/cart/items",
		map[string]string{"restaurant_id": "r1", "item_name": "Jollof Rice"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	cc.AddItem(rec, authedRequest(http.MethodPost, "/cart/items",
		map[string]string{"restaurant_id": "r2", "item_name": "Classic Burger"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "another restaurant")
}

func TestCartController_Unauthenticated(t *testing.T) {
	cc := newCartController(t)

	rec := httptest.NewRecorder()
	cc.GetCart(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartController_PackLifecycle(t *testing.T) {
	cc := newCartController(t)

	rec := httptest.NewRecorder()
	cc.AddPack(rec, authedRequest(http.MethodPost, "/cart/packs",
		map[string]interface{}{"restaurant_id": "r1", "item_names": []string{"Jollof Rice", "Egusi Soup"}}))
	require.Equal(t, http.StatusOK, rec.Code)

	// Duplicate it.
	req := authedRequest(http.MethodPost, "/cart/packs/0/duplicate", nil)
	rec = httptest.NewRecorder()
	cc.DuplicatePack(rec, mux.SetURLVars(req, map[string]string{"index": "0"}))
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeCart(t, rec)
	require.Len(t, view.Packs, 2)
	assert.Equal(t, "Pack 1 (Copy)", view.Packs[1].Name)
	assert.Equal(t, 7000.0, view.ItemTotal)

	// Rename the copy.
	req = authedRequest(http.MethodPut, "/cart/packs/1", map[string]string{"name": "For the office"})
	rec = httptest.NewRecorder()
	cc.RenamePack(rec, mux.SetURLVars(req, map[string]string{"index": "1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "For the office", decodeCart(t, rec).Packs[1].Name)

	// Delete both; the cart resets to its empty state.
	for i := 0; i < 2; i++ {
		req = authedRequest(http.MethodDelete, "/cart/packs/0", nil)
		rec = httptest.NewRecorder()
		cc.DeletePack(rec, mux.SetURLVars(req, map[string]string{"index": "0"}))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	view = decodeCart(t, rec)
	assert.Empty(t, view.Packs)
	assert.Empty(t, view.RestaurantID)
	assert.Zero(t, view.GrandTotal)

	// Deleting from the empty cart is a 404, not a panic.
	req = authedRequest(http.MethodDelete, "/cart/packs/0", nil)
	rec = httptest.NewRecorder()
	cc.DeletePack(rec, mux.SetURLVars(req, map[string]string{"index": "0"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartController_RemoveItem(t *testing.T) {
	cc := newCartController(t)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		cc.AddItem(rec, authedRequest(http.MethodPost, "/cart/items",
			map[string]string{"restaurant_id": "r1", "item_name": "Jollof Rice"}))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	cc.RemoveItem(rec, authedRequest(http.MethodDelete, "/cart/items",
		map[string]interface{}{"pack_index": 0, "item_name": "Jollof Rice"}))

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeCart(t, rec)
	assert.Equal(t, 1, view.Packs[0].Lines["Jollof Rice"].Quantity)
	assert.Equal(t, 1500.0, view.ItemTotal)
}
