package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store tracks windowed request counters keyed by identity.
// Incr atomically increments the counter for key in the current window and
// returns the post-increment count.
type Store interface {
	Incr(ctx context.Context, key string, interval time.Duration) (int, error)
}

type counter struct {
	count       int
	windowStart time.Time
}

// LRUStore is an in-memory Store bounded by an LRU cache, so per-identity
// state created lazily on first request cannot grow without limit.
type LRUStore struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *counter]
	now     func() time.Time
}

// NewLRUStore creates a bounded in-memory counter store.
func NewLRUStore(capacity int) (*LRUStore, error) {
	entries, err := lru.New[string, *counter](capacity)
	if err != nil {
		return nil, err
	}

	return &LRUStore{
		entries: entries,
		now:     time.Now,
	}, nil
}

// Incr implements Store. The read-modify-write runs under one lock so
// concurrent requests for the same key cannot interleave.
func (s *LRUStore) Incr(_ context.Context, key string, interval time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, ok := s.entries.Get(key)
	if !ok || now.Sub(entry.windowStart) >= interval {
		entry = &counter{windowStart: now}
		s.entries.Add(key, entry)
	}

	entry.count++
	return entry.count, nil
}
