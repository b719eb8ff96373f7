package rating

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ReviewStore that counts reads and captures flush
// batches. Setting gate makes ListRatings block until the gate closes, so
// tests can hold a background refresh in flight.
type fakeStore struct {
	mu        sync.Mutex
	ratings   map[string][]float64
	listErr   error
	listCalls map[string]int
	gate      chan struct{}

	saves chan map[string]Summary
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ratings:   make(map[string][]float64),
		listCalls: make(map[string]int),
		saves:     make(chan map[string]Summary, 16),
	}
}

func (f *fakeStore) ListRatings(ctx context.Context, restaurantID string) ([]float64, error) {
	f.mu.Lock()
	f.listCalls[restaurantID]++
	gate := f.gate
	err := f.listErr
	ratings := append([]float64(nil), f.ratings[restaurantID]...)
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (f *fakeStore) SaveSummaries(ctx context.Context, batch map[string]Summary) error {
	f.saves <- batch
	return nil
}

func (f *fakeStore) calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[id]
}

func (f *fakeStore) setRatings(id string, ratings ...float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[id] = ratings
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		ratings []float64
		want    Summary
	}{
		{"no reviews defaults to 5.0", nil, Summary{Average: 5.0, Count: 0}},
		{"single review", []float64{4}, Summary{Average: 4.0, Count: 1}},
		{"average rounds to one decimal", []float64{4, 4.5, 4.3}, Summary{Average: 4.3, Count: 3}},
		{"rounding is standard, not truncation", []float64{4, 4.5}, Summary{Average: 4.3, Count: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summarize(tc.ratings))
		})
	}
}

func TestGet_FreshHitDoesNotReadStore(t *testing.T) {
	store := newFakeStore()
	store.setRatings("r1", 4, 5)
	c := New(store, time.Hour, time.Hour)
	defer c.Close()

	ctx := context.Background()
	first := c.Get(ctx, "r1", false)
	second := c.Get(ctx, "r1", false)

	assert.Equal(t, Summary{Average: 4.5, Count: 2}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls("r1"))
}

func TestGet_ForceBypassesFreshness(t *testing.T) {
	store := newFakeStore()
	store.setRatings("r1", 4)
	c := New(store, time.Hour, time.Hour)
	defer c.Close()

	ctx := context.Background()
	assert.Equal(t, 4.0, c.Get(ctx, "r1", false).Average)

	store.setRatings("r1", 4, 2)
	assert.Equal(t, 3.0, c.Get(ctx, "r1", true).Average)
	assert.Equal(t, 2, store.calls("r1"))
}

func TestGet_StaleServesOldValueWhileRefreshing(t *testing.T) {
	store := newFakeStore()
	store.setRatings("r1", 4)
	c := New(store, 30*time.Millisecond, time.Hour)
	defer c.Close()

	ctx := context.Background()
	require.Equal(t, 4.0, c.Get(ctx, "r1", false).Average)

	// Cross the TTL, change the remote data and hold the refresh in flight.
	time.Sleep(50 * time.Millisecond)
	store.setRatings("r1", 2, 2)
	gate := make(chan struct{})
	store.mu.Lock()
	store.gate = gate
	store.mu.Unlock()

	// Both stale reads return the old value without blocking, and only one
	// background recompute is started.
	done := make(chan Summary, 2)
	go func() { done <- c.Get(ctx, "r1", false) }()
	go func() { done <- c.Get(ctx, "r1", false) }()
	for i := 0; i < 2; i++ {
		select {
		case s := <-done:
			assert.Equal(t, 4.0, s.Average)
		case <-time.After(time.Second):
			t.Fatal("stale Get blocked on the refresh")
		}
	}

	// Exactly one background recompute despite two stale reads.
	assert.Eventually(t, func() bool { return store.calls("r1") == 2 }, time.Second, 5*time.Millisecond)

	close(gate)
	store.mu.Lock()
	store.gate = nil
	store.mu.Unlock()

	// The refresh lands and subsequent reads see the new value.
	assert.Eventually(t, func() bool {
		return c.Get(ctx, "r1", false).Average == 2.0
	}, time.Second, 10*time.Millisecond)
}

func TestGet_StoreErrorDegrades(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("store down")
	c := New(store, time.Hour, time.Hour)
	defer c.Close()

	ctx := context.Background()

	// Nothing cached: serve the default.
	assert.Equal(t, Summary{Average: DefaultRating}, c.Get(ctx, "r1", false))

	// Previously cached: serve the old value on a forced recompute failure.
	store.mu.Lock()
	store.listErr = nil
	store.mu.Unlock()
	store.setRatings("r1", 3)
	require.Equal(t, 3.0, c.Get(ctx, "r1", true).Average)
	store.mu.Lock()
	store.listErr = errors.New("store down again")
	store.mu.Unlock()
	assert.Equal(t, 3.0, c.Get(ctx, "r1", true).Average)
}

func TestRecordNewRating(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Hour, time.Hour)
	defer c.Close()

	ctx := context.Background()
	// The review document is persisted before the recompute, so the store
	// already includes the new rating.
	store.setRatings("r1", 4, 5, 3)
	s := c.RecordNewRating(ctx, "r1", 3)

	assert.Equal(t, Summary{Average: 4.0, Count: 3}, s)
	// Cached synchronously: the next read is a hit.
	assert.Equal(t, s, c.Get(ctx, "r1", false))
	assert.Equal(t, 1, store.calls("r1"))
}

func TestDebouncedFlush_CoalescesIntoOneBatch(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Hour, 50*time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	ids := []string{"r1", "r2", "r3", "r4", "r5"}
	for i, id := range ids {
		store.setRatings(id, float64(i%5)+1)
		c.RecordNewRating(ctx, id, float64(i%5)+1)
	}

	select {
	case batch := <-store.saves:
		assert.Len(t, batch, 5)
		for _, id := range ids {
			assert.Contains(t, batch, id)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced flush never fired")
	}

	// Pending was cleared; no second write follows.
	select {
	case batch := <-store.saves:
		t.Fatalf("unexpected second flush: %v", batch)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebounce_ResetsOnEachEnqueue(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Hour, 80*time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	store.setRatings("r1", 5)

	// Keep enqueueing inside the quiet window; nothing may flush meanwhile.
	for i := 0; i < 3; i++ {
		c.RecordNewRating(ctx, "r1", 5)
		select {
		case <-store.saves:
			t.Fatal("flush fired inside the debounce window")
		case <-time.After(40 * time.Millisecond):
		}
	}

	select {
	case batch := <-store.saves:
		assert.Len(t, batch, 1)
	case <-time.After(time.Second):
		t.Fatal("trailing flush never fired")
	}
}

func TestClose_FlushesPendingSynchronously(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Hour, time.Hour) // debounce would never fire on its own

	ctx := context.Background()
	store.setRatings("r1", 4)
	c.RecordNewRating(ctx, "r1", 4)

	c.Close()

	select {
	case batch := <-store.saves:
		assert.Contains(t, batch, "r1")
	default:
		t.Fatal("Close did not flush pending aggregates")
	}
}

func TestBatchRefresh(t *testing.T) {
	store := newFakeStore()
	store.setRatings("r1", 4, 4)
	store.setRatings("r2", 2)
	c := New(store, time.Hour, time.Hour)
	defer c.Close()

	ctx := context.Background()
	require.Equal(t, 4.0, c.Get(ctx, "r1", false).Average) // warm one entry

	out := c.BatchRefresh(ctx, []string{"r1", "r2"})

	// Warm entry served from cache, missing one gets the provisional default.
	assert.Equal(t, 4.0, out["r1"].Average)
	assert.Equal(t, DefaultRating, out["r2"].Average)

	// The background refresh converges the missing entry for the next read.
	assert.Eventually(t, func() bool {
		return c.Get(ctx, "r2", false).Average == 2.0
	}, time.Second, 10*time.Millisecond)
}
