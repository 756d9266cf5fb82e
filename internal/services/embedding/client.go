// Package embedding provides the text embedding client for retrieval.
package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

// Client defines the interface for the embedding collaborator.
type Client interface {
	// Embed returns the embedding vector for one text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch returns embedding vectors for several texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// IsConfigured reports whether an API key is available.
	IsConfigured() bool
}

// Config holds the embedding client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// DashScopeClient implements Client against the DashScope OpenAI-compatible
// embeddings endpoint. When no API key is configured every call returns an
// error and callers fall back to lexical search.
type DashScopeClient struct {
	client     openai.Client
	model      string
	configured bool
}

// NewClient creates a new embedding client.
func NewClient(cfg Config) *DashScopeClient {
	if cfg.APIKey == "" {
		log.Warn().Msg("embedding API key not set, lexical search fallback will be used")
		return &DashScopeClient{configured: false}
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &DashScopeClient{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		configured: true,
	}
}

// IsConfigured reports whether an API key is available.
func (c *DashScopeClient) IsConfigured() bool {
	return c.configured
}

// Embed returns the embedding vector for one text.
func (c *DashScopeClient) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns embedding vectors for several texts, in order.
func (c *DashScopeClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if !c.configured {
		return nil, fmt.Errorf("embedding client not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response size mismatch: got %d, want %d", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
