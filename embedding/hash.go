package embedding

import (
	"context"
	"crypto/sha256"
	"time"
)

// HashProvider derives embeddings deterministically from a content hash.
// The vector carries no semantic meaning, but it is stable for identical
// inputs and always available, which makes it the guaranteed last resort
// of the fallback chain.
type HashProvider struct {
	dimension int
}

// NewHashProvider creates a deterministic hash-derived provider.
func NewHashProvider(cfg HashConfig) *HashProvider {
	dim := cfg.Dimension
	if dim <= 0 {
		dim = 384
	}
	return &HashProvider{dimension: dim}
}

func (p *HashProvider) Name() string    { return "hash-embedding" }
func (p *HashProvider) ModelID() string { return "hash-sha256" }
func (p *HashProvider) Dimensions() int { return p.dimension }

// CheckAvailability always succeeds; the provider has no dependencies.
func (p *HashProvider) CheckAvailability(ctx context.Context) error { return nil }

// Embed expands the SHA-256 digest of each input into a fixed-length
// vector, padding by repetition. Byte values are centered and scaled
// into [-1,1].
func (p *HashProvider) Embed(ctx context.Context, req *Request) (*Response, error) {
	embeddings := make([][]float64, len(req.Input))
	for i, text := range req.Input {
		embeddings[i] = p.expand(text)
	}
	return &Response{
		Provider:   p.Name(),
		Model:      p.ModelID(),
		Embeddings: embeddings,
		CreatedAt:  time.Now(),
	}, nil
}

// EmbedQuery embeds a single query.
func (p *HashProvider) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	return p.expand(query), nil
}

// EmbedBatch embeds multiple texts.
func (p *HashProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = p.expand(t)
	}
	return out, nil
}

func (p *HashProvider) expand(text string) []float64 {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float64, p.dimension)
	for i := range vec {
		b := digest[i%len(digest)]
		vec[i] = (float64(b) - 127.5) / 127.5
	}
	return vec
}
