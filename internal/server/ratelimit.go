package server

import (
	"sync"
	"time"
)

const (
	DefaultRateLimit  = 30
	DefaultRateWindow = 60 * time.Second
)

// RateLimiter decides whether a client may make another request.
type RateLimiter interface {
	Allow(key string, now time.Time) bool
}

// SlidingWindow allows at most Limit hits per key within Window.
type SlidingWindow struct {
	limit  int
	window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewSlidingWindow returns a limiter. Non-positive arguments use the defaults.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &SlidingWindow{limit: limit, window: window, hits: make(map[string][]time.Time)}
}

// Allow records a hit for key at now unless the key is already at its limit.
func (s *SlidingWindow) Allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.window)
	s.sweep(cutoff)

	recent := s.hits[key]
	if len(recent) >= s.limit {
		return false
	}
	s.hits[key] = append(recent, now)
	return true
}

// Len reports how many keys are being tracked.
func (s *SlidingWindow) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

// sweep drops timestamps at or before cutoff and forgets keys left empty.
func (s *SlidingWindow) sweep(cutoff time.Time) {
	for key, times := range s.hits {
		i := 0
		for i < len(times) && !times[i].After(cutoff) {
			i++
		}
		if i == len(times) {
			delete(s.hits, key)
			continue
		}
		if i > 0 {
			s.hits[key] = append(times[:0:0], times[i:]...)
		}
	}
}
