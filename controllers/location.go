package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"foodie-app/geo"
	"foodie-app/middleware"
	"foodie-app/session"
	"foodie-app/utils"
)

// LocationController resolves device positions to places and keeps the
// last-known location cached for the address screens.
type LocationController struct {
	Geocoder *geo.Geocoder
	Sessions *session.Store
}

// NewLocationController creates a new LocationController
func NewLocationController(geocoder *geo.Geocoder, sessions *session.Store) *LocationController {
	return &LocationController{Geocoder: geocoder, Sessions: sessions}
}

// ReverseGeocode resolves ?lat=&lng= to a place name and caches it as the
// caller's last-known location. The geocoder enforces its own time budget and
// single retry; failure here sends the client to manual entry.
func (lc *LocationController) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		http.Error(w, "lat and lng are required", http.StatusBadRequest)
		return
	}

	place, err := lc.Geocoder.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		if errors.Is(err, geo.ErrNoResults) {
			http.Error(w, "No place found for that position", http.StatusNotFound)
			return
		}
		http.Error(w, "Location lookup failed, enter your address manually", http.StatusBadGateway)
		return
	}

	loc := session.Location{Latitude: lat, Longitude: lng, Place: place}
	if err := lc.Sessions.SaveLocation(r.Context(), claims.UserID, loc); err != nil {
		// Best effort; a cache miss on the next launch is the only consequence.
		log.Printf("location: cache for %s: %v", claims.UserID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loc)
}

// SearchPlaces forward-geocodes ?q= within the operating country
func (lc *LocationController) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	places, err := lc.Geocoder.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, geo.ErrNoResults) {
			http.Error(w, "No places matched", http.StatusNotFound)
			return
		}
		http.Error(w, "Place search failed, please try again", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(places)
}

// LastLocation returns the caller's cached last-known location
func (lc *LocationController) LastLocation(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loc, err := lc.Sessions.LastLocation(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "No cached location", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read location", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loc)
}
