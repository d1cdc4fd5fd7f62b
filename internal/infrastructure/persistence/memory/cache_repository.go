package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/platewise/v1/internal/ports/outbound"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// CacheRepository is a process-local cache used when no Redis endpoint is
// configured. Expired entries are evicted lazily on read.
type CacheRepository struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCacheRepository creates an empty in-memory cache
func NewCacheRepository() outbound.CacheRepository {
	return &CacheRepository{entries: make(map[string]cacheEntry)}
}

// Get returns the cached value for a key, or nil when absent or expired
func (c *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if entry.expired(time.Now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

// Set stores a value under a key. A zero ttl means no expiry.
func (c *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes a key
func (c *CacheRepository) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// DeleteByPrefix removes every key sharing a prefix
func (c *CacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}

// Exists reports whether a live entry is stored under a key
func (c *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	value, err := c.Get(ctx, key)
	return value != nil, err
}
