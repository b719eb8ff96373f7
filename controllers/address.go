package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"foodie-app/middleware"
	"foodie-app/models"
	"foodie-app/utils"
)

// AddressController manages the per-user address book
type AddressController struct {
	Collection *mongo.Collection
}

// NewAddressController creates a new AddressController
func NewAddressController(client *mongo.Client, db string) *AddressController {
	return &AddressController{
		Collection: client.Database(db).Collection("addresses"),
	}
}

// GetAddresses lists the caller's saved addresses
func (ac *AddressController) GetAddresses(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := ac.Collection.Find(ctx, bson.M{"user_id": claims.UserID})
	if err != nil {
		http.Error(w, "Failed to retrieve addresses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var addresses []models.UserAddress
	for cursor.Next(ctx) {
		var addr models.UserAddress
		if err := cursor.Decode(&addr); err != nil {
			http.Error(w, "Error decoding address", http.StatusInternalServerError)
			return
		}
		addresses = append(addresses, addr)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Cursor error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(addresses)
}

// AddAddress saves a new address; the first saved address becomes the default
func (ac *AddressController) AddAddress(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var entry models.UserAddress
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if entry.Address.Street == "" || entry.Address.City == "" {
		http.Error(w, "Street and city are required", http.StatusBadRequest)
		return
	}
	entry.ID = primitive.NilObjectID
	entry.UserID = claims.UserID
	entry.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := ac.Collection.CountDocuments(ctx, bson.M{"user_id": claims.UserID})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if count == 0 {
		entry.IsDefault = true
	} else if entry.IsDefault {
		if err := ac.clearDefault(ctx, claims.UserID); err != nil {
			http.Error(w, "Failed to update default address", http.StatusInternalServerError)
			return
		}
	}

	result, err := ac.Collection.InsertOne(ctx, entry)
	if err != nil {
		http.Error(w, "Failed to save address", http.StatusInternalServerError)
		return
	}
	entry.ID = result.InsertedID.(primitive.ObjectID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// SetDefaultAddress marks one saved address as the default
func (ac *AddressController) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid address ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ac.clearDefault(ctx, claims.UserID); err != nil {
		http.Error(w, "Failed to update default address", http.StatusInternalServerError)
		return
	}
	result, err := ac.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": claims.UserID},
		bson.M{"$set": bson.M{"is_default": true}})
	if err != nil {
		http.Error(w, "Failed to update address", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Default address updated"})
}

// DeleteAddress removes a saved address
func (ac *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid address ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := ac.Collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": claims.UserID})
	if err != nil {
		http.Error(w, "Failed to delete address", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Address deleted"})
}

func (ac *AddressController) clearDefault(ctx context.Context, userID string) error {
	_, err := ac.Collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_default": true},
		bson.M{"$set": bson.M{"is_default": false}})
	return err
}
