// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"foodie-app/controllers"
	"foodie-app/middleware"
	"foodie-app/session"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	User       *controllers.UserController
	Restaurant *controllers.RestaurantController
	Cart       *controllers.CartController
	Order      *controllers.OrderController
	Review     *controllers.ReviewController
	Address    *controllers.AddressController
	Favourite  *controllers.FavouriteController
	Location   *controllers.LocationController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, sessions *session.Store) {
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	// Public routes
	router.HandleFunc("/register", c.User.Register).Methods("POST")
	router.HandleFunc("/login", c.User.Login).Methods("POST")
	router.HandleFunc("/biometric/login", c.User.BiometricLogin).Methods("POST")

	// Catalog routes
	router.HandleFunc("/restaurants", c.Restaurant.GetRestaurants).Methods("GET")
	router.HandleFunc("/restaurants/{id}", c.Restaurant.GetRestaurantByID).Methods("GET")
	router.HandleFunc("/restaurants/{id}/reviews", c.Review.GetReviews).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.Auth(sessions))

	protected.HandleFunc("/logout", c.User.Logout).Methods("POST")
	protected.HandleFunc("/profile", c.User.GetProfile).Methods("GET")
	protected.HandleFunc("/biometric", c.User.EnableBiometric).Methods("POST")
	protected.HandleFunc("/onboarding", c.User.CompleteOnboarding).Methods("POST")
	protected.HandleFunc("/onboarding", c.User.OnboardingStatus).Methods("GET")

	// Cart routes
	protected.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	protected.HandleFunc("/cart/items", c.Cart.AddItem).Methods("POST")
	protected.HandleFunc("/cart/items", c.Cart.RemoveItem).Methods("DELETE")
	protected.HandleFunc("/cart/packs", c.Cart.AddPack).Methods("POST")
	protected.HandleFunc("/cart/packs/{index}", c.Cart.RenamePack).Methods("PUT")
	protected.HandleFunc("/cart/packs/{index}", c.Cart.DeletePack).Methods("DELETE")
	protected.HandleFunc("/cart/packs/{index}/duplicate", c.Cart.DuplicatePack).Methods("POST")
	protected.HandleFunc("/cart/packs/{index}/toggle", c.Cart.TogglePack).Methods("POST")

	// Order routes
	protected.HandleFunc("/orders", c.Order.GetOrders).Methods("GET")
	protected.HandleFunc("/order", c.Order.Checkout).Methods("POST")
	protected.HandleFunc("/order/{id}/confirm", c.Order.ConfirmPayment).Methods("POST")

	// Review routes
	protected.HandleFunc("/reviews", c.Review.SubmitReview).Methods("POST")

	// Address routes
	protected.HandleFunc("/addresses", c.Address.GetAddresses).Methods("GET")
	protected.HandleFunc("/addresses", c.Address.AddAddress).Methods("POST")
	protected.HandleFunc("/addresses/{id}", c.Address.DeleteAddress).Methods("DELETE")
	protected.HandleFunc("/addresses/{id}/default", c.Address.SetDefaultAddress).Methods("PUT")

	// Favourite routes
	protected.HandleFunc("/favourites", c.Favourite.GetFavourites).Methods("GET")
	protected.HandleFunc("/favourites/{id}", c.Favourite.AddFavourite).Methods("POST")
	protected.HandleFunc("/favourites/{id}", c.Favourite.RemoveFavourite).Methods("DELETE")

	// Location routes
	protected.HandleFunc("/location/reverse", c.Location.ReverseGeocode).Methods("GET")
	protected.HandleFunc("/location/search", c.Location.SearchPlaces).Methods("GET")
	protected.HandleFunc("/location/last", c.Location.LastLocation).Methods("GET")
}
