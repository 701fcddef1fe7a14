package openai

import (
	"log/slog"

	"github.com/iamshreeyyy/hackxr/ai"
)

// Provider manages an OpenAI-backed embedder. If the embedding service
// cannot be constructed, NewProvider degrades to the deterministic fallback
// embedder and logs a warning; the pipeline keeps running with reduced
// retrieval quality rather than refusing to start.
type Provider struct {
	embedder ai.Embedder
	degraded bool
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider for the configured embedding service.
func NewProvider(config *ai.Config) (*Provider, error) {
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	return &Provider{embedder: embedder}, nil
}

// NewProviderWithFallback creates a provider for the configured embedding
// service, substituting the deterministic fallback embedder when the
// service is unavailable.
func NewProviderWithFallback(config *ai.Config) *Provider {
	embedder, err := newEmbedder(config)
	if err != nil {
		slog.Warn("embedding service unavailable, using deterministic fallback",
			"host", config.EmbeddingHost, "err", err)
		return &Provider{
			embedder: ai.NewFallbackEmbedder(config.Dimension),
			degraded: true,
		}
	}
	return &Provider{embedder: embedder}
}

// Embedder returns the embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Degraded reports whether the provider fell back to hashed embeddings.
func (p *Provider) Degraded() bool {
	return p.degraded
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	return nil
}
