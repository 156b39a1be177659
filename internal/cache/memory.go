// Package cache provides the injected TTL cache used by the scoring pipeline.
//
// The cache is an optimization, never a correctness mechanism: a miss (or a
// concurrent duplicate recomputation of the same key) is always safe because
// recomputation is idempotent. Entries are stored msgpack-encoded so that a
// cached value cannot alias mutable state held by the caller.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache keyed by string
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time // overridable for tests
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get unmarshals the cached value for key into dest.
// Returns false when the key is absent or expired.
func (m *Memory) Get(key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if m.now().After(e.expiresAt) {
		m.Delete(key)
		return false, nil
	}

	if err := msgpack.Unmarshal(e.payload, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %q: %w", key, err)
	}

	return true, nil
}

// Set stores value under key for the given TTL
func (m *Memory) Set(key string, value interface{}, ttl time.Duration) error {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %q: %w", key, err)
	}

	m.mu.Lock()
	m.entries[key] = entry{
		payload:   payload,
		expiresAt: m.now().Add(ttl),
	}
	m.mu.Unlock()

	return nil
}

// Delete removes a key
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Expire drops all expired entries
func (m *Memory) Expire() {
	now := m.now()

	m.mu.Lock()
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}

// Len returns the number of entries, expired or not
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
