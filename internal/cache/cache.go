// Package cache provides the short-TTL key/value layer that absorbs
// read bursts between polling cycles. The cache is an optimization,
// never a correctness requirement: every failure downgrades to a miss
// and the authoritative value is re-derived from the fetch path.
package cache

import (
	"sync"
	"time"
)

// Key namespaces.
const (
	gamePrefix     = "game:"
	boxScorePrefix = "boxscore:"
)

// GameKey builds the cache key for a game's lightweight state.
func GameKey(gameID string) string {
	return gamePrefix + gameID
}

// BoxScoreKey builds the cache key for a game's box score.
func BoxScoreKey(gameID string) string {
	return boxScorePrefix + gameID
}

// Cache is the store-agnostic contract. Implementations may fail; the
// caller must treat any error as a miss.
type Cache interface {
	Put(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, bool, error)
	Invalidate(gameID string) error
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache keeps TTL-bound entries in memory.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Put stores a value until ttl elapses. The expiry is absolute from
// write time.
func (c *MemoryCache) Put(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.entries[key] = entry{value: stored, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Get returns the stored value, or absent if the key was never written
// or its TTL elapsed.
func (c *MemoryCache) Get(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a fresh Put may have raced.
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Invalidate removes both the score and box-score entries for a game.
func (c *MemoryCache) Invalidate(gameID string) error {
	c.mu.Lock()
	delete(c.entries, GameKey(gameID))
	delete(c.entries, BoxScoreKey(gameID))
	c.mu.Unlock()
	return nil
}

// SetNow overrides the time source; used by tests to step the clock.
func (c *MemoryCache) SetNow(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
