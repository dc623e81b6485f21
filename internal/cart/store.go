package cart

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store keeps one cart per customer session, keyed by the session cookie
// the middleware assigns. The registry map has its own lock; the carts it
// hands out synchronize themselves, since parallel requests from one
// session resolve to the same cart.
type Store struct {
	mu     sync.Mutex
	carts  map[string]*entry
	logger zerolog.Logger
}

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

// NewStore creates an empty session cart registry.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		carts:  make(map[string]*entry),
		logger: logger.With().Str("component", "cart_store").Logger(),
	}
}

// Get returns the cart for a session, creating it on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[sessionID]
	if !ok {
		e = &entry{cart: New()}
		s.carts[sessionID] = e
	}
	e.lastSeen = time.Now()
	return e.cart
}

// Drop removes a session's cart entirely.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Prune evicts carts idle longer than maxIdle and returns how many were
// removed. Main runs this on a ticker so abandoned sessions do not pile up.
func (s *Store) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for id, e := range s.carts {
		if e.lastSeen.Before(cutoff) {
			delete(s.carts, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug().Int("count", removed).Msg("pruned idle carts")
	}
	return removed
}

// Len returns the number of active session carts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
