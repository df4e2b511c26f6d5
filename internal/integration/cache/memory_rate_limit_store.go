// Package cache implements rate limit stores used by the HTTP middleware.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

// cleanupThreshold is the number of tracked keys above which expired entries are purged.
const cleanupThreshold = 1024

// rateLimitEntry tracks rate limit data for a single key.
type rateLimitEntry struct {
	attempts  int
	resetTime time.Time
}

// MemoryRateLimitStore counts attempts in process memory.
// Counts are not shared between API instances.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

var _ adapter.RateLimitStore = (*MemoryRateLimitStore)(nil)

// NewMemoryRateLimitStore creates an empty in-memory store.
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Allow records an attempt for key and reports whether it is within maxAttempts.
func (s *MemoryRateLimitStore) Allow(_ context.Context, key string, maxAttempts int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.entries) > cleanupThreshold {
		s.cleanupLocked(now)
	}

	entry, exists := s.entries[key]
	if !exists || now.After(entry.resetTime) {
		// First request in a fresh window
		s.entries[key] = &rateLimitEntry{
			attempts:  1,
			resetTime: now.Add(window),
		}
		return true, nil
	}

	if entry.attempts < maxAttempts {
		entry.attempts++
		return true, nil
	}

	return false, nil
}

// Reset clears all counters.
func (s *MemoryRateLimitStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*rateLimitEntry)
}

// Cleanup removes expired entries.
func (s *MemoryRateLimitStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked(s.now())
}

func (s *MemoryRateLimitStore) cleanupLocked(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.resetTime) {
			delete(s.entries, key)
		}
	}
}
