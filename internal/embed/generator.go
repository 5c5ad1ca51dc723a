package embed

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"math"

	"github.com/ppiankov/mutatrack/internal/cache"
)

// Generator produces claim embeddings. It never fails: a backend error
// degrades to the deterministic hash fallback instead of surfacing.
// Both paths emit L2-normalized vectors so distances in the index stay
// comparable regardless of which path produced each vector.
type Generator struct {
	backend   Backend // nil = fallback only
	cache     cache.Cache
	dimension int
}

// NewGenerator creates a generator over an optional backend and an
// optional embedding cache (either may be nil)
func NewGenerator(backend Backend, vectorCache cache.Cache, dimension int) *Generator {
	if dimension <= 0 {
		dimension = 384
	}
	return &Generator{
		backend:   backend,
		cache:     vectorCache,
		dimension: dimension,
	}
}

// Dimension returns the vector dimension the generator produces
func (g *Generator) Dimension() int {
	return g.dimension
}

// Embed maps text to a vector of the configured dimension. Cache hits
// skip the backend; backend failures fall back to a hash-derived vector.
func (g *Generator) Embed(ctx context.Context, text string) []float32 {
	key := cache.CacheKey(text)

	if g.cache != nil {
		if data, found := g.cache.Get(key); found {
			if vector, err := cache.DecodeVector(data); err == nil && len(vector) == g.dimension {
				return vector
			}
			// Corrupt or stale-dimension entry; drop it and re-embed
			_ = g.cache.Delete(key)
		}
	}

	if g.backend != nil {
		vector, err := g.backend.Embed(ctx, text)
		if err == nil && len(vector) == g.dimension {
			normalize(vector)
			if g.cache != nil {
				// Zero TTL lets each cache tier apply its own default, so
				// memory and disk entries expire on their own schedules
				if err := g.cache.Set(key, cache.EncodeVector(vector), 0); err != nil {
					slog.Warn("failed to cache embedding", "error", err)
				}
			}
			return vector
		}
		if err != nil {
			slog.Warn("embedding backend failed, using hash fallback",
				"backend", g.backend.Name(), "error", err)
		} else {
			slog.Warn("embedding backend returned wrong dimension, using hash fallback",
				"backend", g.backend.Name(), "got", len(vector), "want", g.dimension)
		}
	}

	// Fallback vectors are not cached: a later backend recovery should
	// produce the real embedding for the same text
	return g.hashVector(text)
}

// hashVector derives a deterministic unit vector from the SHA-256 digest
// of the text. Quality is poor but identical text always collides, which
// preserves exact-duplicate detection even with no backend at all.
func (g *Generator) hashVector(text string) []float32 {
	digest := sha256.Sum256([]byte(text))

	vector := make([]float32, g.dimension)
	for i := range vector {
		vector[i] = float32(digest[i%len(digest)])
	}

	normalize(vector)
	return vector
}

// normalize scales the vector to unit L2 length in place
func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
}
