package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/BaSui01/agentscout/internal/tlsutil"
	"github.com/BaSui01/agentscout/types"
)

// BaseProvider supplies the HTTP plumbing shared by remote embedding
// providers: request marshaling, status-code error mapping, and an
// optional request rate limit.
type BaseProvider struct {
	name       string
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	limiter    *rate.Limiter
}

// BaseConfig holds the common configuration for remote providers.
type BaseConfig struct {
	Name       string
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
	// RequestsPerSecond caps outbound request rate; 0 disables limiting.
	RequestsPerSecond float64
}

// NewBaseProvider creates a new base provider.
func NewBaseProvider(cfg BaseConfig) *BaseProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &BaseProvider{
		name:       cfg.Name,
		client:     tlsutil.SecureHTTPClient(timeout),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		limiter:    limiter,
	}
}

func (p *BaseProvider) Name() string    { return p.name }
func (p *BaseProvider) ModelID() string { return p.model }
func (p *BaseProvider) Dimensions() int { return p.dimensions }

// CheckAvailability verifies that the provider has credentials configured.
func (p *BaseProvider) CheckAvailability(ctx context.Context) error {
	if p.apiKey == "" {
		return types.NewError(types.ErrEmbedderUnavailable, "no API key configured").
			WithProvider(p.name)
	}
	return nil
}

// EmbedQuery embeds a single query string via the given embed function.
func (p *BaseProvider) EmbedQuery(ctx context.Context, query string, embedFn func(context.Context, *Request) (*Response, error)) ([]float64, error) {
	resp, err := embedFn(ctx, &Request{
		Input:     []string{query},
		InputType: InputTypeQuery,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return resp.Embeddings[0], nil
}

// EmbedBatch embeds multiple texts via the given embed function.
func (p *BaseProvider) EmbedBatch(ctx context.Context, texts []string, embedFn func(context.Context, *Request) (*Response, error)) ([][]float64, error) {
	resp, err := embedFn(ctx, &Request{
		Input:     texts,
		InputType: InputTypeDocument,
	})
	if err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

// DoRequest performs an HTTP request with common error handling.
func (p *BaseProvider) DoRequest(ctx context.Context, method, endpoint string, body any, headers map[string]string) ([]byte, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, types.NewError(types.ErrTimeout, "rate limit wait canceled").
				WithCause(err).WithProvider(p.name)
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, types.NewError(types.ErrUpstreamError, err.Error()).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(p.name)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, mapHTTPError(resp.StatusCode, string(respBody), p.name)
	}

	return respBody, nil
}

// mapHTTPError maps an HTTP status to a structured error.
func mapHTTPError(status int, msg, provider string) *types.Error {
	code := types.ErrUpstreamError
	retryable := status >= 500

	switch status {
	case http.StatusUnauthorized:
		code = types.ErrUnauthorized
	case http.StatusForbidden:
		code = types.ErrForbidden
	case http.StatusTooManyRequests:
		code = types.ErrRateLimited
		retryable = true
	case http.StatusBadRequest:
		code = types.ErrInvalidRequest
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		code = types.ErrTimeout
		retryable = true
	}

	return types.NewError(code, msg).
		WithHTTPStatus(status).
		WithRetryable(retryable).
		WithProvider(provider)
}

// ChooseModel picks a model from the request or configured defaults.
func ChooseModel(reqModel, defaultModel, fallback string) string {
	if reqModel != "" {
		return reqModel
	}
	if defaultModel != "" {
		return defaultModel
	}
	return fallback
}
