package embed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ppiankov/mutatrack/internal/cache"
	"github.com/ppiankov/mutatrack/internal/model"
)

// MockBackend implements the Backend interface for testing
type MockBackend struct {
	name      string
	vector    []float32
	err       error
	available bool
	calls     int
}

func (m *MockBackend) Name() string {
	return m.name
}

func (m *MockBackend) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]float32, len(m.vector))
	copy(out, m.vector)
	return out, nil
}

func (m *MockBackend) IsAvailable(ctx context.Context) bool {
	return m.available
}

func TestGenerator_Embed_FallbackDeterminism(t *testing.T) {
	gen := NewGenerator(nil, nil, 384)
	ctx := context.Background()

	a := gen.Embed(ctx, "the earth is flat")
	b := gen.Embed(ctx, "the earth is flat")

	if len(a) != 384 {
		t.Fatalf("Expected 384-dim vector, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected identical vectors for identical text, diverge at %d", i)
		}
	}
}

func TestGenerator_Embed_FallbackDistinguishesTexts(t *testing.T) {
	gen := NewGenerator(nil, nil, 384)
	ctx := context.Background()

	a := gen.Embed(ctx, "claim one")
	b := gen.Embed(ctx, "claim two")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different texts to produce different vectors")
	}
}

func TestGenerator_Embed_FallbackIsUnitLength(t *testing.T) {
	gen := NewGenerator(nil, nil, 384)

	v := gen.Embed(context.Background(), "normalize me")

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
		t.Errorf("Expected unit L2 norm, got %f", math.Sqrt(sum))
	}
}

func TestGenerator_Embed_BackendVectorsNormalized(t *testing.T) {
	backend := &MockBackend{name: "mock", vector: []float32{3, 4, 0, 0}}
	gen := NewGenerator(backend, nil, 4)

	v := gen.Embed(context.Background(), "text")

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
		t.Errorf("Expected backend vector normalized to unit length, got norm %f", math.Sqrt(sum))
	}
}

func TestGenerator_Embed_BackendFailureDegrades(t *testing.T) {
	backend := &MockBackend{name: "mock", err: errors.New("backend down")}
	gen := NewGenerator(backend, nil, 384)

	v := gen.Embed(context.Background(), "still works")
	if len(v) != 384 {
		t.Errorf("Expected fallback vector of 384, got %d", len(v))
	}
}

func TestGenerator_Embed_WrongDimensionDegrades(t *testing.T) {
	backend := &MockBackend{name: "mock", vector: []float32{1, 2}} // 2-dim, want 4
	gen := NewGenerator(backend, nil, 4)

	v := gen.Embed(context.Background(), "dimension check")
	if len(v) != 4 {
		t.Errorf("Expected fallback vector of 4, got %d", len(v))
	}
}

func TestGenerator_Embed_CacheSkipsBackend(t *testing.T) {
	backend := &MockBackend{name: "mock", vector: []float32{1, 0, 0, 0}}
	vectorCache := cache.NewMemoryCache(time.Hour, time.Hour)
	gen := NewGenerator(backend, vectorCache, 4)
	ctx := context.Background()

	first := gen.Embed(ctx, "cached claim")
	second := gen.Embed(ctx, "cached claim")

	if backend.calls != 1 {
		t.Errorf("Expected 1 backend call with warm cache, got %d", backend.calls)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected cache to return the original vector, diverge at %d", i)
		}
	}
}

// recordingCache captures the TTL passed to Set
type recordingCache struct {
	cache.Cache
	setTTL time.Duration
}

func (r *recordingCache) Set(key string, value []byte, ttl time.Duration) error {
	r.setTTL = ttl
	return r.Cache.Set(key, value, ttl)
}

func TestGenerator_Embed_CacheWritesUseTierDefaults(t *testing.T) {
	backend := &MockBackend{name: "mock", vector: []float32{1, 0, 0, 0}}
	rec := &recordingCache{Cache: cache.NewMemoryCache(time.Hour, time.Hour), setTTL: -1}
	gen := NewGenerator(backend, rec, 4)

	gen.Embed(context.Background(), "tier ttl")

	// Zero TTL is the signal for each cache tier to apply its own
	// default; a fixed TTL here would pin memory entries to the disk
	// tier's lifetime
	if rec.setTTL != 0 {
		t.Errorf("Expected zero TTL on cache write, got %v", rec.setTTL)
	}
}

func TestGenerator_Embed_CorruptCacheEntryHandled(t *testing.T) {
	vectorCache := cache.NewMemoryCache(time.Hour, time.Hour)
	key := cache.CacheKey("poisoned")
	if err := vectorCache.Set(key, []byte{1, 2, 3}, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	gen := NewGenerator(nil, vectorCache, 4)
	v := gen.Embed(context.Background(), "poisoned")
	if len(v) != 4 {
		t.Errorf("Expected re-embed past corrupt entry, got %d-dim vector", len(v))
	}
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	original := []float32{0.5, -1.25, 3.75, 0}

	decoded, err := cache.DecodeVector(cache.EncodeVector(original))
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("Expected %d floats, got %d", len(original), len(decoded))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("Position %d: expected %f, got %f", i, original[i], decoded[i])
		}
	}
}

func TestNewBackend_Factory(t *testing.T) {
	backend, err := NewBackend(model.EmbeddingConfig{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error for disabled provider, got %v", err)
	}
	if backend != nil {
		t.Error("Expected nil backend when provider is empty")
	}

	if _, err := NewBackend(model.EmbeddingConfig{Provider: "openai"}); err == nil {
		t.Error("Expected error for openai provider without API key")
	}

	if _, err := NewBackend(model.EmbeddingConfig{Provider: "sentencetransformers"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
