package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(handler http.HandlerFunc) (*Geocoder, *httptest.Server) {
	server := httptest.NewServer(handler)
	g := New("test-token")
	g.BaseURL = server.URL
	return g, server
}

func TestReverseGeocode(t *testing.T) {
	var gotQuery map[string][]string
	g, server := newTestGeocoder(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"features":[{"place_name":"Ikeja, Lagos, Nigeria","center":[3.3515,6.6018]}]}`))
	})
	defer server.Close()

	place, err := g.ReverseGeocode(context.Background(), 6.6018, 3.3515)
	require.NoError(t, err)
	assert.Equal(t, "Ikeja, Lagos, Nigeria", place)
	assert.Equal(t, []string{"place"}, gotQuery["types"])
	assert.Equal(t, []string{"test-token"}, gotQuery["access_token"])
}

func TestSearch_RestrictedToCountryBBox(t *testing.T) {
	var gotQuery map[string][]string
	g, server := newTestGeocoder(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"features":[
			{"place_name":"Surulere, Lagos","center":[3.35,6.5]},
			{"place_name":"Yaba, Lagos","center":[3.37,6.51]}
		]}`))
	})
	defer server.Close()

	places, err := g.Search(context.Background(), "lagos")
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Surulere, Lagos", places[0].Name)
	assert.Equal(t, 6.5, places[0].Latitude)
	assert.Equal(t, 3.35, places[0].Longitude)
	assert.Equal(t, []string{nigeriaBBox}, gotQuery["bbox"])
}

func TestFetch_RetriesOnceOnTransientFailure(t *testing.T) {
	var calls atomic.Int32
	g, server := newTestGeocoder(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"features":[{"place_name":"Enugu, Nigeria"}]}`))
	})
	defer server.Close()

	place, err := g.ReverseGeocode(context.Background(), 6.45, 7.5)
	require.NoError(t, err)
	assert.Equal(t, "Enugu, Nigeria", place)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_GivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32
	g, server := newTestGeocoder(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := g.ReverseGeocode(context.Background(), 6.45, 7.5)
	assert.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_NoResultsIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	g, server := newTestGeocoder(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"features":[]}`))
	})
	defer server.Close()

	_, err := g.Search(context.Background(), "atlantis")
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Equal(t, int32(1), calls.Load())
}
