package embedding

import (
	"context"
	"encoding/json"
	"time"
)

// VoyageProvider generates embeddings using the Voyage AI API.
type VoyageProvider struct {
	*BaseProvider
	cfg VoyageConfig
}

// NewVoyageProvider creates a new Voyage AI embedding provider.
func NewVoyageProvider(cfg VoyageConfig) *VoyageProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.voyageai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "voyage-large-2"
	}

	return &VoyageProvider{
		BaseProvider: NewBaseProvider(BaseConfig{
			Name:              "voyage-embedding",
			BaseURL:           cfg.BaseURL,
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			Dimensions:        1536, // voyage-large-2 default
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}),
		cfg: cfg,
	}
}

type voyageEmbedRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type,omitempty"` // query, document
	Truncate  bool     `json:"truncation,omitempty"`
}

type voyageEmbedResponse struct {
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

// Embed generates embeddings using Voyage AI.
func (p *VoyageProvider) Embed(ctx context.Context, req *Request) (*Response, error) {
	model := ChooseModel(req.Model, p.cfg.Model, "voyage-large-2")

	body := voyageEmbedRequest{
		Input:    req.Input,
		Model:    model,
		Truncate: req.Truncate,
	}

	switch req.InputType {
	case InputTypeQuery:
		body.InputType = "query"
	case InputTypeDocument:
		body.InputType = "document"
	}

	respBody, err := p.DoRequest(ctx, "POST", "/v1/embeddings", body, map[string]string{
		"Authorization": "Bearer " + p.cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}

	var vResp voyageEmbedResponse
	if err := json.Unmarshal(respBody, &vResp); err != nil {
		return nil, err
	}

	embeddings := make([][]float64, len(vResp.Data))
	for i, d := range vResp.Data {
		embeddings[i] = d.Embedding
	}

	return &Response{
		Provider:   p.Name(),
		Model:      vResp.Model,
		Embeddings: embeddings,
		CreatedAt:  time.Now(),
	}, nil
}

// EmbedQuery embeds a single query.
func (p *VoyageProvider) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	return p.BaseProvider.EmbedQuery(ctx, query, p.Embed)
}

// EmbedBatch embeds multiple texts.
func (p *VoyageProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	return p.BaseProvider.EmbedBatch(ctx, texts, p.Embed)
}
