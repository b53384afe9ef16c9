package cache

import (
	"context"
	"sync"
	"time"
)

type windowCounter struct {
	count int64
	start time.Time
	span  time.Duration
}

// InMemoryRateLimitStore keeps counters in process memory. Counters are
// not shared between server instances.
type InMemoryRateLimitStore struct {
	mu        sync.Mutex
	counters  map[string]*windowCounter
	now       func() time.Time
	lastSweep time.Time
	closed    bool
}

// NewInMemoryRateLimitStore creates an empty store
func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	return &InMemoryRateLimitStore{
		counters: make(map[string]*windowCounter),
		now:      time.Now,
	}
}

// Hit implements RateLimitStore
func (s *InMemoryRateLimitStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, 0, ErrStoreClosed
	}

	now := s.now()
	s.sweep(now, window)

	c, ok := s.counters[key]
	if !ok || now.Sub(c.start) >= c.span {
		c = &windowCounter{start: now, span: window}
		s.counters[key] = c
	}
	c.count++

	return c.count, c.span - now.Sub(c.start), nil
}

// sweep drops expired counters at most once per window
func (s *InMemoryRateLimitStore) sweep(now time.Time, window time.Duration) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	for key, c := range s.counters {
		if now.Sub(c.start) >= c.span {
			delete(s.counters, key)
		}
	}
	s.lastSweep = now
}

// Len returns the number of live counters
func (s *InMemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}

// Close implements RateLimitStore
func (s *InMemoryRateLimitStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.counters = nil
	return nil
}

var _ RateLimitStore = (*InMemoryRateLimitStore)(nil)
