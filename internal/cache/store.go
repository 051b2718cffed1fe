package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a time-bounded keyed response cache. Entries expire a fixed TTL
// after insertion; there is no write-through invalidation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when Redis is unavailable and in
// tests. Access is atomic per key; no cross-key coordination exists.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryStore builds a store with the given entry lifetime.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

// Get returns the payload stored under key if it has not expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores payload under key with the configured TTL.
func (s *MemoryStore) Set(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{payload: payload, expiresAt: time.Now().Add(s.ttl)}
	return nil
}
