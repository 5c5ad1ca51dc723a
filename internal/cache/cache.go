// Package cache stores computed embedding vectors so repeat submissions
// of the same claim text skip the embedding backend entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from claim text. Keys hash the text so
// arbitrary content maps to safe filenames on the disk layer.
func CacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "mutatrack:v1:" + hex.EncodeToString(hash[:])
}
