package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodie-app/catalog"
	"foodie-app/middleware"
	"foodie-app/models"
	"foodie-app/utils"
)

// FavouriteController manages a user's saved restaurants
type FavouriteController struct {
	Collection *mongo.Collection
	Catalog    *catalog.Catalog
}

// NewFavouriteController creates a new FavouriteController
func NewFavouriteController(client *mongo.Client, db string, cat *catalog.Catalog) *FavouriteController {
	return &FavouriteController{
		Collection: client.Database(db).Collection("favourites"),
		Catalog:    cat,
	}
}

// GetFavourites lists the caller's saved restaurants
func (fc *FavouriteController) GetFavourites(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := fc.Collection.Find(ctx, bson.M{"user_id": claims.UserID})
	if err != nil {
		http.Error(w, "Failed to retrieve favourites", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var restaurants []models.Restaurant
	for cursor.Next(ctx) {
		var fav models.Favourite
		if err := cursor.Decode(&fav); err != nil {
			http.Error(w, "Error decoding favourite", http.StatusInternalServerError)
			return
		}
		if restaurant, ok := fc.Catalog.ByID(fav.RestaurantID); ok {
			restaurants = append(restaurants, restaurant)
		}
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Cursor error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(restaurants)
}

// AddFavourite saves a restaurant. Saving twice is idempotent.
func (fc *FavouriteController) AddFavourite(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	restaurantID := mux.Vars(r)["id"]
	if _, ok := fc.Catalog.ByID(restaurantID); !ok {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": claims.UserID, "restaurant_id": restaurantID}
	update := bson.M{"$setOnInsert": bson.M{
		"user_id":       claims.UserID,
		"restaurant_id": restaurantID,
		"created_at":    time.Now(),
	}}
	_, err := fc.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		http.Error(w, "Failed to save favourite", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Added to favourites"})
}

// RemoveFavourite unsaves a restaurant
func (fc *FavouriteController) RemoveFavourite(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := fc.Collection.DeleteOne(ctx, bson.M{
		"user_id":       claims.UserID,
		"restaurant_id": mux.Vars(r)["id"],
	})
	if err != nil {
		http.Error(w, "Failed to remove favourite", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Removed from favourites"})
}
