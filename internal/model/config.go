package model

import "time"

// Config holds the complete mutatrack configuration
type Config struct {
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Index       IndexConfig       `yaml:"index"`
	Graph       GraphConfig       `yaml:"graph"`
	Engine      EngineConfig      `yaml:"engine"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// EmbeddingConfig configures the embedding backend
type EmbeddingConfig struct {
	// Provider name: "openai" or "" (disabled - hash fallback only)
	Provider string `yaml:"provider"`

	// Model is the embedding model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for the provider (prefer OPENAI_API_KEY env var)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., a local OpenAI-compatible server)
	BaseURL string `yaml:"base_url,omitempty"`

	// Dimension of produced vectors; every vector in the index shares it
	Dimension int `yaml:"dimension"`

	// Timeout for a single embedding request
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond caps backend API calls
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst allowance for the rate limiter
	Burst int `yaml:"burst"`
}

// IndexConfig configures the similarity index
type IndexConfig struct {
	Dimension int `yaml:"dimension"` // Must match the embedding dimension
}

// GraphConfig configures the mutation graph backend
type GraphConfig struct {
	// Backend: "memory", "sqlite", or "none" (graph features disabled)
	Backend string `yaml:"backend"`

	// Path to the SQLite database file (sqlite backend only)
	Path string `yaml:"path,omitempty"`

	// FamilyDepth bounds family traversal
	FamilyDepth int `yaml:"family_depth"`

	// FamilyLimit caps family traversal results
	FamilyLimit int `yaml:"family_limit"`

	// PatientZeroDepth bounds the deeper originator search
	PatientZeroDepth int `yaml:"patient_zero_depth"`

	// Timeout for a single graph backend operation
	Timeout time.Duration `yaml:"timeout"`
}

// EngineConfig configures the per-claim processing pipeline
type EngineConfig struct {
	// SearchK is how many nearest neighbors to consider per claim
	SearchK int `yaml:"search_k"`

	// SimilarityThreshold filters neighbors below this similarity
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// TopSimilar limits the similar-claim list in the result
	TopSimilar int `yaml:"top_similar"`

	// FamilyLimit limits the family list in the result
	FamilyLimit int `yaml:"family_limit"`

	// ForecastDays is the spread prediction horizon
	ForecastDays int `yaml:"forecast_days"`
}

// CacheConfig configures the embedding cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir,omitempty"` // Disk layer location; empty = memory only
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	IngestWorkers int `yaml:"ingest_workers"`
}

// OutputConfig configures report output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	Pretty  bool `yaml:"pretty"` // Indent result JSON
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:          "", // Hash fallback only unless configured
			Model:             "text-embedding-3-small",
			Dimension:         384,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Index: IndexConfig{
			Dimension: 384,
		},
		Graph: GraphConfig{
			Backend:          "memory",
			FamilyDepth:      5,
			FamilyLimit:      100,
			PatientZeroDepth: 10,
			Timeout:          10 * time.Second,
		},
		Engine: EngineConfig{
			SearchK:             20,
			SimilarityThreshold: 0.85,
			TopSimilar:          10,
			FamilyLimit:         50,
			ForecastDays:        7,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			IngestWorkers: 4,
		},
		Output: OutputConfig{
			Pretty: true,
		},
	}
}
