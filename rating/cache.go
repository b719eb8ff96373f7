// Package rating serves restaurant rating aggregates from a TTL cache in
// front of the review store. Reads are best-effort: a stale value is returned
// immediately while a background recompute runs, and recomputed aggregates are
// written back to the store in one debounced batch instead of one write per
// recalculation.
package rating

import (
	"context"
	"log"
	"math"
	"sync"
	"time"
)

const (
	// DefaultRating is served when a restaurant has no reviews yet.
	DefaultRating = 5.0

	DefaultTTL        = 30 * time.Minute
	DefaultFlushDelay = 2 * time.Second

	storeTimeout = 10 * time.Second
)

// Summary is the aggregate for one restaurant.
type Summary struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

// ReviewStore is the remote side of the cache: review reads and the batched
// aggregate write-back.
type ReviewStore interface {
	// ListRatings returns the rating field of every review for a restaurant.
	ListRatings(ctx context.Context, restaurantID string) ([]float64, error)
	// SaveSummaries persists all given aggregates in one multi-record write.
	SaveSummaries(ctx context.Context, batch map[string]Summary) error
}

type entry struct {
	Summary
	cachedAt time.Time
}

// Cache is safe for concurrent use. Construct one per process and inject it;
// Close must be called on shutdown so pending write-backs are not dropped.
type Cache struct {
	store      ReviewStore
	ttl        time.Duration
	flushDelay time.Duration

	mu         sync.Mutex
	entries    map[string]entry
	pending    map[string]Summary
	refreshing map[string]struct{}
	timer      *time.Timer
}

// New creates a cache over store. Non-positive ttl or flushDelay fall back to
// the defaults (30 min, 2 s).
func New(store ReviewStore, ttl, flushDelay time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if flushDelay <= 0 {
		flushDelay = DefaultFlushDelay
	}
	return &Cache{
		store:      store,
		ttl:        ttl,
		flushDelay: flushDelay,
		entries:    make(map[string]entry),
		pending:    make(map[string]Summary),
		refreshing: make(map[string]struct{}),
	}
}

// Get returns the rating aggregate for a restaurant. Fresh entries are served
// from memory. A stale entry is returned as-is while a single background
// recompute refreshes it for subsequent reads. An absent entry, or force set,
// recomputes inline before returning.
func (c *Cache) Get(ctx context.Context, restaurantID string, force bool) Summary {
	c.mu.Lock()
	e, ok := c.entries[restaurantID]
	if ok && !force {
		if time.Since(e.cachedAt) < c.ttl {
			c.mu.Unlock()
			return e.Summary
		}
		c.startRefreshLocked(restaurantID)
		c.mu.Unlock()
		return e.Summary
	}
	c.mu.Unlock()
	return c.refresh(ctx, restaurantID)
}

// RecordNewRating recomputes a restaurant's aggregate right after a review
// submission and updates the cache synchronously. The caller persists the
// review document first; this only maintains the aggregate. The remote
// write-back is deferred to the next batch flush.
func (c *Cache) RecordNewRating(ctx context.Context, restaurantID string, newRating float64) Summary {
	ratings, err := c.store.ListRatings(ctx, restaurantID)
	if err != nil {
		log.Printf("rating: recompute for %s failed, folding in locally: %v", restaurantID, err)
		return c.foldIn(restaurantID, newRating)
	}
	s := Summarize(ratings)

	c.mu.Lock()
	c.entries[restaurantID] = entry{Summary: s, cachedAt: time.Now()}
	c.enqueueLocked(restaurantID, s)
	c.mu.Unlock()
	return s
}

// BatchRefresh fills a summary per restaurant for list screens. Fresh entries
// come from cache; stale or missing ones get a provisional value (the stale
// entry, or the default) immediately and a non-blocking background refresh, so
// the returned map may lag the store by one read.
func (c *Cache) BatchRefresh(ctx context.Context, restaurantIDs []string) map[string]Summary {
	out := make(map[string]Summary, len(restaurantIDs))

	c.mu.Lock()
	for _, id := range restaurantIDs {
		e, ok := c.entries[id]
		switch {
		case ok && time.Since(e.cachedAt) < c.ttl:
			out[id] = e.Summary
		case ok:
			out[id] = e.Summary
			c.startRefreshLocked(id)
		default:
			out[id] = Summary{Average: DefaultRating}
			c.startRefreshLocked(id)
		}
	}
	c.mu.Unlock()
	return out
}

// Flush writes all pending aggregates immediately, bypassing the debounce.
func (c *Cache) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.flush()
}

// Close stops the debounce timer and flushes whatever is pending.
func (c *Cache) Close() {
	c.Flush()
}

// refresh recomputes one aggregate inline. Store errors degrade to the
// previous cached value, or the default; they never propagate.
func (c *Cache) refresh(ctx context.Context, restaurantID string) Summary {
	ratings, err := c.store.ListRatings(ctx, restaurantID)
	if err != nil {
		log.Printf("rating: fetch reviews for %s: %v", restaurantID, err)
		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.entries[restaurantID]; ok {
			return e.Summary
		}
		return Summary{Average: DefaultRating}
	}
	s := Summarize(ratings)

	c.mu.Lock()
	c.entries[restaurantID] = entry{Summary: s, cachedAt: time.Now()}
	c.enqueueLocked(restaurantID, s)
	c.mu.Unlock()
	return s
}

// startRefreshLocked begins a background recompute unless one is already in
// flight for this restaurant. Caller holds c.mu.
func (c *Cache) startRefreshLocked(restaurantID string) {
	if _, busy := c.refreshing[restaurantID]; busy {
		return
	}
	c.refreshing[restaurantID] = struct{}{}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		c.refresh(ctx, restaurantID)

		c.mu.Lock()
		delete(c.refreshing, restaurantID)
		c.mu.Unlock()
	}()
}

// enqueueLocked records a pending write-back and re-arms the trailing
// debounce: every enqueue pushes the flush out by flushDelay. Caller holds
// c.mu.
func (c *Cache) enqueueLocked(restaurantID string, s Summary) {
	c.pending[restaurantID] = s
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.flushDelay, c.flush)
}

func (c *Cache) flush() {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.pending
	c.pending = make(map[string]Summary)
	c.timer = nil
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := c.store.SaveSummaries(ctx, batch); err != nil {
		// The store aggregate is only a cache of the review documents, so a
		// dropped batch is recoverable on the next recompute.
		log.Printf("rating: batch flush of %d aggregates failed: %v", len(batch), err)
	}
}

// foldIn updates the cached aggregate incrementally when the store is
// unreachable, so the just-submitted rating is still reflected locally.
func (c *Cache) foldIn(restaurantID string, newRating float64) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[restaurantID]
	if !ok || e.Count == 0 {
		s := Summary{Average: round1(newRating), Count: 1}
		c.entries[restaurantID] = entry{Summary: s, cachedAt: time.Now()}
		c.enqueueLocked(restaurantID, s)
		return s
	}
	s := Summary{
		Average: round1((e.Average*float64(e.Count) + newRating) / float64(e.Count+1)),
		Count:   e.Count + 1,
	}
	c.entries[restaurantID] = entry{Summary: s, cachedAt: time.Now()}
	c.enqueueLocked(restaurantID, s)
	return s
}

// Summarize averages review ratings to one decimal place. No reviews yields
// the default rating with a zero count.
func Summarize(ratings []float64) Summary {
	if len(ratings) == 0 {
		return Summary{Average: DefaultRating}
	}
	sum := 0.0
	for _, r := range ratings {
		sum += r
	}
	return Summary{
		Average: round1(sum / float64(len(ratings))),
		Count:   len(ratings),
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
