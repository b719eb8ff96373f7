// Package geo is a thin client for the hosted geocoding service: reverse
// geocoding for "deliver to where I am" and a forward search restricted to
// the operating country.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the hosted geocoding endpoint.
const DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// nigeriaBBox bounds forward searches to the operating country
// (minLng,minLat,maxLng,maxLat).
const nigeriaBBox = "2.676932,4.240594,14.678014,13.885645"

// requestBudget is the per-call time budget before the UI falls back to
// manual address entry.
const requestBudget = 3 * time.Second

// ErrNoResults means the service answered but found nothing for the input.
var ErrNoResults = errors.New("geo: no results")

// Place is one geocoding result.
type Place struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Geocoder calls the geocoding service with a fixed API token.
type Geocoder struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// New creates a geocoder for the given API token.
func New(token string) *Geocoder {
	return &Geocoder{
		BaseURL: DefaultBaseURL,
		Token:   token,
		Client:  &http.Client{Timeout: requestBudget},
	}
}

// ReverseGeocode resolves coordinates to a place name.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	query := url.Values{}
	query.Set("access_token", g.Token)
	query.Set("types", "place")
	endpoint := fmt.Sprintf("%s/%f,%f.json?%s", g.BaseURL, lng, lat, query.Encode())

	places, err := g.fetch(ctx, endpoint)
	if err != nil {
		return "", err
	}
	return places[0].Name, nil
}

// Search finds places matching text, restricted to the country bounding box.
func (g *Geocoder) Search(ctx context.Context, text string) ([]Place, error) {
	query := url.Values{}
	query.Set("access_token", g.Token)
	query.Set("bbox", nigeriaBBox)
	endpoint := fmt.Sprintf("%s/%s.json?%s", g.BaseURL, url.PathEscape(text), query.Encode())
	return g.fetch(ctx, endpoint)
}

// fetch performs the request with one automatic retry on transient failure.
// Anything beyond that is left to an explicit user-triggered retry.
func (g *Geocoder) fetch(ctx context.Context, endpoint string) ([]Place, error) {
	places, err := g.fetchOnce(ctx, endpoint)
	if err != nil && !errors.Is(err, ErrNoResults) && ctx.Err() == nil {
		places, err = g.fetchOnce(ctx, endpoint)
	}
	return places, err
}

func (g *Geocoder) fetchOnce(ctx context.Context, endpoint string) ([]Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo: service returned %s", resp.Status)
	}

	var body struct {
		Features []struct {
			PlaceName string    `json:"place_name"`
			Center    []float64 `json:"center"` // [lng, lat]
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geo: decode response: %w", err)
	}
	if len(body.Features) == 0 {
		return nil, ErrNoResults
	}

	places := make([]Place, 0, len(body.Features))
	for _, f := range body.Features {
		p := Place{Name: f.PlaceName}
		if len(f.Center) == 2 {
			p.Longitude, p.Latitude = f.Center[0], f.Center[1]
		}
		places = append(places, p)
	}
	return places, nil
}
