package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds the hot set of recently embedded claims in process
// memory with per-entry TTL eviction.
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache creates a memory cache. Entries written with a zero TTL
// expire after defaultTTL; expired entries are swept every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{entries: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the cached bytes for key, if present and unexpired.
func (m *MemoryCache) Get(key string) ([]byte, bool) {
	val, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	return val.([]byte), true
}

// Set stores value under key for the given TTL (zero means default).
func (m *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	m.entries.Set(key, value, ttl)
	return nil
}

// Delete removes key from the cache.
func (m *MemoryCache) Delete(key string) error {
	m.entries.Delete(key)
	return nil
}

// Clear drops every entry.
func (m *MemoryCache) Clear() error {
	m.entries.Flush()
	return nil
}
