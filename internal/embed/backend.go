// Package embed turns claim text into fixed-dimension vectors. A
// configured backend does the real embedding; when it is absent or
// failing, a deterministic hash-derived vector keeps the pipeline
// moving at degraded quality.
package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/mutatrack/internal/model"
)

// Backend defines the interface for embedding providers
type Backend interface {
	// Name returns the backend name
	Name() string

	// Embed maps text to a vector. Determinism is part of the contract:
	// the same text must always produce the same vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// IsAvailable checks if the backend is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NewBackend creates an embedding backend based on configuration. An
// empty provider returns nil: the generator then runs fallback-only.
// The choice is made once here, never by inspecting runtime state.
func NewBackend(config model.EmbeddingConfig) (Backend, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIBackend(config)

	case "":
		// No backend configured - hash fallback only
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai)", config.Provider)
	}
}
