package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ppiankov/mutatrack/internal/model"
)

// OpenAIBackend implements the Backend interface against the OpenAI
// embeddings API (or any compatible endpoint via BaseURL). The
// embeddings API does no sampling, so output is deterministic for a
// given model and input.
type OpenAIBackend struct {
	client  *openai.Client
	config  model.EmbeddingConfig
	limiter *rate.Limiter
}

// NewOpenAIBackend creates a new OpenAI embedding backend
func NewOpenAIBackend(config model.EmbeddingConfig) (*OpenAIBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 5
	}

	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// IsAvailable checks if the backend is properly configured
func (b *OpenAIBackend) IsAvailable(ctx context.Context) bool {
	_, err := b.client.ListModels(ctx)
	return err == nil
}

// Embed requests an embedding for the text, rate-limited and bounded by
// the configured timeout. The requested dimension is pinned so every
// vector entering the index shares it.
func (b *OpenAIBackend) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	embeddingModel := b.config.Model
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}

	timeout := b.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := b.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(embeddingModel),
		Dimensions: b.config.Dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings API error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned from OpenAI")
	}

	return resp.Data[0].Embedding, nil
}
