package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/internal/tlsutil"
	"github.com/BaSui01/agentscout/types"
)

// Enrichment is the optional augmentation returned by an external
// text-understanding service. Every field may be empty; enrichment is
// purely additive and never required for correctness.
type Enrichment struct {
	Domain       string           `json:"domain,omitempty"`
	Capabilities []string         `json:"capabilities,omitempty"`
	Keywords     []string         `json:"keywords,omitempty"`
	Complexity   types.Complexity `json:"complexity,omitempty"`
}

// Enricher augments a task description with externally derived hints.
type Enricher interface {
	Enrich(ctx context.Context, task string) (*Enrichment, error)
}

// LLMEnricherConfig configures the LLM-backed enricher.
type LLMEnricherConfig struct {
	APIKey    string        `json:"api_key" yaml:"api_key"`
	BaseURL   string        `json:"base_url" yaml:"base_url"`
	Model     string        `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTokens int           `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultLLMEnricherConfig returns the default enricher configuration.
func DefaultLLMEnricherConfig() LLMEnricherConfig {
	return LLMEnricherConfig{
		BaseURL:   "https://api.anthropic.com",
		Model:     "claude-3-5-sonnet-20241022",
		MaxTokens: 500,
		Timeout:   10 * time.Second,
	}
}

// LLMEnricher calls an Anthropic-compatible messages endpoint to extract
// domain, capabilities, keywords, and complexity from a task description.
type LLMEnricher struct {
	client *http.Client
	cfg    LLMEnricherConfig
	logger *zap.Logger
}

// NewLLMEnricher creates an LLM-backed enricher.
func NewLLMEnricher(cfg LLMEnricherConfig, logger *zap.Logger) *LLMEnricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-sonnet-20241022"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &LLMEnricher{
		client: tlsutil.SecureHTTPClient(timeout),
		cfg:    cfg,
		logger: logger.With(zap.String("component", "llm_enricher")),
	}
}

const enrichPrompt = `Analyze the following task description and extract:
1. Primary domain/industry
2. Required capabilities (technical skills, integrations, etc.)
3. Important keywords
4. Task complexity (simple/medium/complex)

Task: %s

Respond with JSON format:
{
    "domain": "domain_name",
    "capabilities": ["capability1", "capability2"],
    "keywords": ["keyword1", "keyword2"],
    "complexity": "simple|medium|complex"
}`

type enrichMessagesRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []enrichMessage `json:"messages"`
}

type enrichMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type enrichMessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Enrich asks the model for structured hints about the task.
func (e *LLMEnricher) Enrich(ctx context.Context, task string) (*Enrichment, error) {
	if e.cfg.APIKey == "" {
		return nil, types.NewError(types.ErrUnauthorized, "no API key configured").
			WithProvider("llm-enricher")
	}

	body, err := json.Marshal(enrichMessagesRequest{
		Model:     e.cfg.Model,
		MaxTokens: e.cfg.MaxTokens,
		Messages:  []enrichMessage{{Role: "user", Content: fmt.Sprintf(enrichPrompt, task)}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(e.cfg.BaseURL, "/")+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, types.NewError(types.ErrUpstreamError, err.Error()).
			WithRetryable(true).WithProvider("llm-enricher")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, types.NewError(types.ErrUpstreamError, string(respBody)).
			WithHTTPStatus(resp.StatusCode).
			WithRetryable(resp.StatusCode >= 500).
			WithProvider("llm-enricher")
	}

	var mResp enrichMessagesResponse
	if err := json.Unmarshal(respBody, &mResp); err != nil {
		return nil, err
	}
	if len(mResp.Content) == 0 {
		return nil, types.NewError(types.ErrUpstreamError, "empty enrichment response").
			WithProvider("llm-enricher")
	}

	return parseEnrichment(mResp.Content[0].Text)
}

// parseEnrichment extracts the JSON object from the model's reply, which
// may be wrapped in prose or a code fence.
func parseEnrichment(text string) (*Enrichment, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, types.NewError(types.ErrUpstreamError, "no JSON object in enrichment response").
			WithProvider("llm-enricher")
	}

	var enrichment Enrichment
	if err := json.Unmarshal([]byte(text[start:end+1]), &enrichment); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "malformed enrichment JSON").
			WithCause(err).WithProvider("llm-enricher")
	}
	return &enrichment, nil
}

var _ Enricher = (*LLMEnricher)(nil)
