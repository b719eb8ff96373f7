// Package storage holds the remote-store adapters behind the rating cache and
// the event publisher.
package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodie-app/rating"
)

// MongoReviewStore reads review documents and writes rating aggregates back
// onto restaurant documents.
type MongoReviewStore struct {
	Reviews     *mongo.Collection
	Restaurants *mongo.Collection
}

// NewMongoReviewStore creates a store over the reviews and restaurants
// collections.
func NewMongoReviewStore(client *mongo.Client, db string) *MongoReviewStore {
	return &MongoReviewStore{
		Reviews:     client.Database(db).Collection("reviews"),
		Restaurants: client.Database(db).Collection("restaurants"),
	}
}

// ListRatings returns the rating field of every review for the restaurant,
// newest first.
func (s *MongoReviewStore) ListRatings(ctx context.Context, restaurantID string) ([]float64, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := s.Reviews.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ratings []float64
	for cursor.Next(ctx) {
		var doc struct {
			Rating float64 `bson:"rating"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ratings = append(ratings, doc.Rating)
	}
	return ratings, cursor.Err()
}

// SaveSummaries upserts every aggregate in the batch with a single BulkWrite,
// so one flush covering many restaurants costs one round trip.
func (s *MongoReviewStore) SaveSummaries(ctx context.Context, batch map[string]rating.Summary) error {
	if len(batch) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(batch))
	for restaurantID, summary := range batch {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": restaurantID}).
			SetUpdate(bson.M{"$set": bson.M{
				"rating":        summary.Average,
				"reviews_count": summary.Count,
			}}).
			SetUpsert(true))
	}
	_, err := s.Restaurants.BulkWrite(ctx, writes)
	return err
}

var _ rating.ReviewStore = (*MongoReviewStore)(nil)
