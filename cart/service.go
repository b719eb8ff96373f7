package cart

import "sync"

// Service keeps one live cart per authenticated user for the HTTP layer.
// Carts are session state: they live in memory only and disappear on restart.
type Service struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewService creates an empty cart registry.
func NewService() *Service {
	return &Service{carts: make(map[string]*Cart)}
}

// Cart returns the user's cart, creating it on first use.
func (s *Service) Cart(userID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

// Clear discards the user's cart, typically after a successful checkout.
func (s *Service) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
