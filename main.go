// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"foodie-app/cart"
	"foodie-app/catalog"
	"foodie-app/controllers"
	"foodie-app/geo"
	"foodie-app/payment"
	"foodie-app/rating"
	"foodie-app/routes"
	"foodie-app/session"
	"foodie-app/storage"
	"foodie-app/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	dbName := getenv("MONGO_DB", "foodie")

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Connect to Redis for sessions and device state
	rdb := redis.NewClient(&redis.Options{Addr: getenv("REDIS_ADDR", "localhost:6379")})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()
	sessions := session.NewStore(rdb)

	// Load the bundled catalog
	cat, err := catalog.Load(getenv("CATALOG_PATH", "data/restaurants.json"))
	if err != nil {
		log.Fatal(err)
	}

	// Rating cache over the review store, with the debounced batch flush
	reviewStore := storage.NewMongoReviewStore(client, dbName)
	ratings := rating.New(reviewStore, rating.DefaultTTL, rating.DefaultFlushDelay)
	defer ratings.Close()

	// Optional analytics events; nil publisher skips publishing
	events := storage.NewEventPublisher(os.Getenv("KAFKA_BROKER"), getenv("KAFKA_TOPIC", "foodie-events"))
	defer events.Close()

	emailService := utils.NewEmailService()
	gateway := payment.New(os.Getenv("PAYSTACK_SECRET_KEY"))
	geocoder := geo.New(os.Getenv("MAPBOX_TOKEN"))
	carts := cart.NewService()

	// Initialize controllers
	ctrls := routes.Controllers{
		User:       controllers.NewUserController(client, dbName, sessions),
		Restaurant: controllers.NewRestaurantController(cat, ratings),
		Cart:       controllers.NewCartController(carts, cat),
		Order:      controllers.NewOrderController(client, dbName, carts, cat, gateway, emailService, events),
		Review:     controllers.NewReviewController(client, dbName, ratings, events),
		Address:    controllers.NewAddressController(client, dbName),
		Favourite:  controllers.NewFavouriteController(client, dbName, cat),
		Location:   controllers.NewLocationController(geocoder, sessions),
	}

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, ctrls, sessions)
	handler := cors.Default().Handler(router)

	port := getenv("PORT", "8000")
	server := &http.Server{Addr: ":" + port, Handler: handler}

	go func() {
		fmt.Printf("Server is running on port %s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Shut down on SIGINT/SIGTERM; the deferred rating cache Close flushes
	// any pending aggregate writes instead of dropping them.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown:", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
