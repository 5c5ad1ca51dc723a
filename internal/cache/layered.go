package cache

import "time"

// LayeredCache fronts the disk cache with a memory cache. Embedding
// lookups hit memory for claims seen recently in this process and fall
// through to disk for claims embedded in earlier runs.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache builds the two-tier cache. memoryTTL bounds the hot
// tier, diskTTL the persistent tier under diskDir.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory first, then disk. A disk hit is promoted into the
// memory tier with the default TTL.
func (l *LayeredCache) Get(key string) ([]byte, bool) {
	if val, ok := l.memory.Get(key); ok {
		return val, true
	}
	val, ok := l.disk.Get(key)
	if !ok {
		return nil, false
	}
	l.memory.Set(key, val, 0)
	return val, true
}

// Set writes through to both tiers. The memory write always succeeds;
// a disk write failure is reported so callers can log it, but the entry
// still serves from memory until it expires.
func (l *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := l.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return l.disk.Set(key, value, ttl)
}

// Delete drops the key from both tiers.
func (l *LayeredCache) Delete(key string) error {
	l.memory.Delete(key)
	return l.disk.Delete(key)
}

// Clear empties both tiers.
func (l *LayeredCache) Clear() error {
	l.memory.Clear()
	return l.disk.Clear()
}
