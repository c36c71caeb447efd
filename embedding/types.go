package embedding

import (
	"context"
	"time"
)

// Request represents a request to generate embeddings.
type Request struct {
	Input     []string  `json:"input"`                // Text inputs to embed
	Model     string    `json:"model,omitempty"`      // Model override
	InputType InputType `json:"input_type,omitempty"` // query or document
	Truncate  bool      `json:"truncate,omitempty"`   // Auto-truncate long inputs
}

// InputType specifies what the input is used for, for models that
// optimize queries and documents differently.
type InputType string

const (
	InputTypeQuery    InputType = "query"
	InputTypeDocument InputType = "document"
)

// Response represents the result of an embedding request.
type Response struct {
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
	CreatedAt  time.Time   `json:"created_at,omitempty"`
}

// Provider defines the unified embedding backend interface.
type Provider interface {
	// Embed generates embeddings for the given inputs.
	Embed(ctx context.Context, req *Request) (*Response, error)

	// EmbedQuery is a convenience method for embedding a single query.
	EmbedQuery(ctx context.Context, query string) ([]float64, error)

	// EmbedBatch is a convenience method for embedding multiple texts.
	// It is an optimization, not a correctness requirement; providers
	// without native batching loop over single calls.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Name returns the provider name.
	Name() string

	// ModelID returns the model identifier used by this provider.
	ModelID() string

	// Dimensions returns the embedding dimension.
	Dimensions() int
}

// AvailabilityChecker is an optional interface for providers that can
// verify availability up front (credential check or trial call). The
// chain probes it once per provider; probe failures are recorded, never
// propagated.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context) error
}
