package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"foodie-app/catalog"
	"foodie-app/models"
	"foodie-app/rating"
)

// RestaurantController serves the vendor catalog decorated with ratings
type RestaurantController struct {
	Catalog *catalog.Catalog
	Ratings *rating.Cache
}

// NewRestaurantController creates a new RestaurantController
func NewRestaurantController(cat *catalog.Catalog, ratings *rating.Cache) *RestaurantController {
	return &RestaurantController{Catalog: cat, Ratings: ratings}
}

type restaurantView struct {
	models.Restaurant
	RatingDisplay string `json:"rating_display"`
}

// GetRestaurants lists vendors, optionally filtered by ?kind= and searched by
// ?q=. Ratings come from the cache's batch refresh, so a listing never blocks
// on the review store: stale entries are served as-is and converge on the next
// read.
func (rc *RestaurantController) GetRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants := rc.Catalog.ByKind(r.URL.Query().Get("kind"))
	if q := r.URL.Query().Get("q"); q != "" {
		restaurants = intersect(restaurants, rc.Catalog.Search(q))
	}

	ids := make([]string, 0, len(restaurants))
	for _, res := range restaurants {
		ids = append(ids, res.ID)
	}
	summaries := rc.Ratings.BatchRefresh(r.Context(), ids)

	views := make([]restaurantView, 0, len(restaurants))
	for _, res := range restaurants {
		views = append(views, decorate(res, summaries[res.ID]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

// GetRestaurantByID retrieves a single vendor with its rating. ?refresh=true
// forces a rating recompute.
func (rc *RestaurantController) GetRestaurantByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	restaurant, ok := rc.Catalog.ByID(params["id"])
	if !ok {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}

	force := r.URL.Query().Get("refresh") == "true"
	summary := rc.Ratings.Get(r.Context(), restaurant.ID, force)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decorate(restaurant, summary))
}

func decorate(res models.Restaurant, s rating.Summary) restaurantView {
	res.Rating = s.Average
	res.ReviewsCount = s.Count
	return restaurantView{
		Restaurant:    res,
		RatingDisplay: rating.Format(s.Average),
	}
}

func intersect(a, b []models.Restaurant) []models.Restaurant {
	keep := make(map[string]bool, len(b))
	for _, res := range b {
		keep[res.ID] = true
	}
	var out []models.Restaurant
	for _, res := range a {
		if keep[res.ID] {
			out = append(out, res)
		}
	}
	return out
}
