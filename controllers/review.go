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

	"foodie-app/middleware"
	"foodie-app/models"
	"foodie-app/rating"
	"foodie-app/storage"
	"foodie-app/utils"
)

// ReviewController handles review submission and listing
type ReviewController struct {
	Collection *mongo.Collection
	Ratings    *rating.Cache
	Events     *storage.EventPublisher
}

// NewReviewController creates a new ReviewController
func NewReviewController(client *mongo.Client, db string, ratings *rating.Cache, events *storage.EventPublisher) *ReviewController {
	return &ReviewController{
		Collection: client.Database(db).Collection("reviews"),
		Ratings:    ratings,
		Events:     events,
	}
}

// SubmitReview stores a review document and refreshes the restaurant's
// rating aggregate. The aggregate write-back to the store rides the cache's
// batched flush rather than happening here.
func (rc *ReviewController) SubmitReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if review.RestaurantID == "" {
		http.Error(w, "restaurant_id is required", http.StatusBadRequest)
		return
	}
	if review.Rating < 1 || review.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}
	review.UserID = claims.UserID
	review.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := rc.Collection.InsertOne(ctx, review); err != nil {
		http.Error(w, "Failed to save review", http.StatusInternalServerError)
		return
	}

	summary := rc.Ratings.RecordNewRating(ctx, review.RestaurantID, review.Rating)

	rc.Events.Publish(ctx, storage.Event{
		Type:         "review_submitted",
		RestaurantID: review.RestaurantID,
		UserID:       claims.UserID,
		OrderID:      review.OrderID,
		Rating:       review.Rating,
		Timestamp:    time.Now(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"review":         review,
		"rating":         summary,
		"rating_display": rating.Format(summary.Average),
	})
}

// GetReviews lists a restaurant's reviews, newest first
func (rc *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := rc.Collection.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		http.Error(w, "Failed to retrieve reviews", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			http.Error(w, "Error decoding review", http.StatusInternalServerError)
			return
		}
		reviews = append(reviews, review)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Cursor error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}
