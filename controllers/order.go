// controllers/order.go
package controllers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodie-app/cart"
	"foodie-app/catalog"
	"foodie-app/middleware"
	"foodie-app/models"
	"foodie-app/payment"
	"foodie-app/storage"
	"foodie-app/utils"
)

// OrderController handles checkout and order history
type OrderController struct {
	OrderCollection   *mongo.Collection
	PaymentCollection *mongo.Collection
	Carts             *cart.Service
	Catalog           *catalog.Catalog
	Gateway           *payment.Gateway
	EmailService      *utils.EmailService
	Events            *storage.EventPublisher
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, db string, carts *cart.Service, cat *catalog.Catalog,
	gateway *payment.Gateway, emailService *utils.EmailService, events *storage.EventPublisher) *OrderController {
	return &OrderController{
		OrderCollection:   client.Database(db).Collection("orders"),
		PaymentCollection: client.Database(db).Collection("payments"),
		Carts:             carts,
		Catalog:           cat,
		Gateway:           gateway,
		EmailService:      emailService,
		Events:            events,
	}
}

// Checkout snapshots the cart into a pending order and opens a payment
// session. Validation failures (empty cart, missing address) are rejected
// before anything is written remotely.
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Address *models.Address `json:"address"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	c := oc.Carts.Cart(claims.UserID)
	order, err := c.Checkout(claims.UserID, body.Address, body.Message)
	if err != nil {
		writeCartError(w, err)
		return
	}

	// Fees and discount come from the restaurant, applied to the item
	// subtotal the cart computed.
	restaurant, ok := oc.Catalog.ByID(order.RestaurantID)
	if !ok {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	order.TotalAmount = c.GrandTotal(restaurant.ServiceCharge, restaurant.DeliveryFee, restaurant.DiscountRate)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID, err := oc.newOrderID(ctx)
	if err != nil {
		http.Error(w, "Failed to allocate order id", http.StatusInternalServerError)
		return
	}
	order.OrderID = orderID

	tx, err := oc.Gateway.InitializeTransaction(ctx, claims.Email, payment.ToMinorUnits(order.TotalAmount))
	if err != nil {
		log.Printf("checkout: payment init for order %s: %v", orderID, err)
		http.Error(w, "Payment gateway unavailable, please try again", http.StatusBadGateway)
		return
	}
	order.PaymentRef = tx.Reference

	if _, err := oc.OrderCollection.InsertOne(ctx, order); err != nil {
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}
	_, err = oc.PaymentCollection.InsertOne(ctx, models.Payment{
		OrderID:     orderID,
		Reference:   tx.Reference,
		AmountMinor: payment.ToMinorUnits(order.TotalAmount),
		Email:       claims.Email,
		Status:      "pending",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		log.Printf("checkout: record payment for order %s: %v", orderID, err)
	}

	// QR of the checkout URL for cross-device handoff; best effort.
	var qr string
	if png, err := payment.CheckoutQR(tx.AuthorizationURL); err == nil {
		qr = base64.StdEncoding.EncodeToString(png)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order":             order,
		"authorization_url": tx.AuthorizationURL,
		"reference":         tx.Reference,
		"checkout_qr":       qr,
	})
}

// ConfirmPayment handles the gateway success callback: verify the reference,
// mark the order paid, clear the cart and notify the user.
func (oc *OrderController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID, "user_id": claims.UserID}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if order.Status != models.OrderStatusPending {
		http.Error(w, "Order already settled", http.StatusConflict)
		return
	}

	status, err := oc.Gateway.VerifyTransaction(ctx, order.PaymentRef)
	if err != nil {
		log.Printf("confirm: verify %s for order %s: %v", order.PaymentRef, orderID, err)
		http.Error(w, "Could not verify payment, please retry", http.StatusBadGateway)
		return
	}

	newStatus := models.OrderStatusFailed
	if status == "success" {
		newStatus = models.OrderStatusPaid
	}
	_, err = oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": newStatus}})
	if err != nil {
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	_, _ = oc.PaymentCollection.UpdateOne(ctx, bson.M{"reference": order.PaymentRef},
		bson.M{"$set": bson.M{"status": status}})

	if newStatus != models.OrderStatusPaid {
		http.Error(w, "Payment was not successful", http.StatusPaymentRequired)
		return
	}

	oc.Carts.Clear(claims.UserID)
	order.Status = newStatus

	go func(email string, order models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, order); err != nil {
			log.Printf("Failed to send email to %s: %v", email, err)
		}
	}(claims.Email, order)

	oc.Events.Publish(ctx, storage.Event{
		Type:         "order_placed",
		RestaurantID: order.RestaurantID,
		UserID:       claims.UserID,
		OrderID:      order.OrderID,
		Amount:       order.TotalAmount,
		Timestamp:    time.Now(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := oc.OrderCollection.Find(ctx, bson.M{"user_id": claims.UserID}, opts)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			http.Error(w, "Error decoding order", http.StatusInternalServerError)
			return
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Cursor error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// newOrderID generates a client-side order id and checks it against the store
// so a collision can never clobber an existing order.
func (oc *OrderController) newOrderID(ctx context.Context) (string, error) {
	for i := 0; i < 3; i++ {
		id := uuid.NewString()
		count, err := oc.OrderCollection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", errors.New("order id collided three times")
}
