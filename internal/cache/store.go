package cache

import (
	"strings"
	"sync"
	"time"
)

// Store is an in-memory TTL cache keyed by the hierarchical keys produced
// by the factories in this package. Reads go through Get, every mutation
// path calls Invalidate with the affected entity prefix.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// NewStore creates a cache store with the given default TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get returns the cached value for key, if present and not expired.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry.
		if cur, ok := s.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value under key. A non-positive ttl uses the store
// default.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// Invalidate removes every entry whose key equals prefix or begins with
// prefix followed by a separator. Called after each successful mutation.
func (s *Store) Invalidate(prefix string) {
	s.mu.Lock()
	for key := range s.entries {
		if key == prefix || strings.HasPrefix(key, prefix+":") {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// InvalidateAll drops every cached entry.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Len returns the number of live entries, counting expired ones that have
// not been collected yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
