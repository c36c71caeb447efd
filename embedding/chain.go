package embedding

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/types"
)

// probeTimeout bounds the availability check of a single provider.
const probeTimeout = 5 * time.Second

// chainEntry tracks one provider and its probed availability. All
// mutable fields are guarded by Chain.mu; probeOnce dedupes the probe
// network call and Switch installs a fresh Once to force a re-probe.
type chainEntry struct {
	provider  Provider
	enabled   bool
	probeOnce *sync.Once
	available bool
	probeErr  error
}

// Chain is a preference-ordered list of embedding providers with
// automatic fallback. The first enabled, available provider is the
// active one; the rest are fallbacks tried strictly in order.
type Chain struct {
	mu      sync.RWMutex
	entries []*chainEntry
	active  *chainEntry
	logger  *zap.Logger
}

// ChainBuilder constructs a Chain from an ordered provider list.
// Unless disabled, a deterministic hash provider is appended last so the
// chain always has an available backend.
type ChainBuilder struct {
	entries      []*chainEntry
	hashFallback bool
	hashCfg      HashConfig
	logger       *zap.Logger
}

// NewChainBuilder creates a builder with the hash fallback enabled.
func NewChainBuilder(logger *zap.Logger) *ChainBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainBuilder{
		hashFallback: true,
		hashCfg:      DefaultHashConfig(),
		logger:       logger,
	}
}

// Add appends a provider to the preference order.
func (b *ChainBuilder) Add(p Provider, enabled bool) *ChainBuilder {
	b.entries = append(b.entries, &chainEntry{
		provider:  p,
		enabled:   enabled,
		probeOnce: new(sync.Once),
	})
	return b
}

// WithHashFallback controls whether the deterministic hash provider is
// appended as the guaranteed last resort.
func (b *ChainBuilder) WithHashFallback(enabled bool, cfg HashConfig) *ChainBuilder {
	b.hashFallback = enabled
	b.hashCfg = cfg
	return b
}

// Build constructs the chain.
func (b *ChainBuilder) Build() *Chain {
	entries := b.entries
	if b.hashFallback {
		entries = append(entries, &chainEntry{
			provider:  NewHashProvider(b.hashCfg),
			enabled:   true,
			probeOnce: new(sync.Once),
		})
	}
	return &Chain{
		entries: entries,
		logger:  b.logger.With(zap.String("component", "embedding_chain")),
	}
}

// probe checks availability once per entry. Providers that do not
// implement AvailabilityChecker are assumed available. The network call
// runs outside c.mu; the result is published back under it so that
// Statuses and Switch observe entry state through the one lock.
func (c *Chain) probe(ctx context.Context, e *chainEntry) {
	c.mu.RLock()
	once := e.probeOnce
	c.mu.RUnlock()

	once.Do(func() {
		available := true
		var probeErr error
		if checker, ok := e.provider.(AvailabilityChecker); ok {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			if err := checker.CheckAvailability(probeCtx); err != nil {
				available = false
				probeErr = err
				c.logger.Warn("embedding provider unavailable",
					zap.String("provider", e.provider.Name()),
					zap.Error(err),
				)
			}
		}

		c.mu.Lock()
		// Switch may have replaced the Once while this probe ran; a
		// stale result must not clobber the re-probe it requested.
		if e.probeOnce == once {
			e.available = available
			e.probeErr = probeErr
		}
		c.mu.Unlock()
	})
}

// entryReady reports the enabled and available flags under the lock.
func (c *Chain) entryReady(e *chainEntry) (enabled, available bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return e.enabled, e.available
}

// Embed generates embeddings, cascading through the chain on failure.
// The response reports which provider and model produced the vectors.
// When every provider fails, it returns NO_EMBEDDER_AVAILABLE.
func (c *Chain) Embed(ctx context.Context, req *Request) (*Response, error) {
	c.mu.RLock()
	entries := make([]*chainEntry, len(c.entries))
	copy(entries, c.entries)
	c.mu.RUnlock()

	var lastErr error
	for _, e := range entries {
		if enabled, _ := c.entryReady(e); !enabled {
			continue
		}
		c.probe(ctx, e)
		if _, available := c.entryReady(e); !available {
			continue
		}

		resp, err := e.provider.Embed(ctx, req)
		if err != nil {
			lastErr = err
			c.logger.Warn("embedding provider failed, cascading",
				zap.String("provider", e.provider.Name()),
				zap.Error(err),
			)
			continue
		}

		c.mu.Lock()
		c.active = e
		c.mu.Unlock()
		return resp, nil
	}

	return nil, types.NewError(types.ErrNoEmbedderAvailable, "all embedding providers failed").
		WithCause(lastErr)
}

// EmbedQuery embeds a single query with fallback.
func (c *Chain) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	resp, err := c.Embed(ctx, &Request{Input: []string{query}, InputType: InputTypeQuery})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, types.NewError(types.ErrUpstreamError, "no embeddings returned").
			WithProvider(resp.Provider)
	}
	return resp.Embeddings[0], nil
}

// EmbedBatch embeds multiple texts with fallback.
func (c *Chain) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := c.Embed(ctx, &Request{Input: texts, InputType: InputTypeDocument})
	if err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

// Active returns the provider that served the most recent successful
// call, or nil if no call has succeeded yet.
func (c *Chain) Active() Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return nil
	}
	return c.active.provider
}

// Available reports whether any enabled provider could serve a call.
// Providers that have not been probed yet count as available.
func (c *Chain) Available(ctx context.Context) bool {
	c.mu.RLock()
	entries := make([]*chainEntry, len(c.entries))
	copy(entries, c.entries)
	c.mu.RUnlock()

	for _, e := range entries {
		if enabled, _ := c.entryReady(e); !enabled {
			continue
		}
		c.probe(ctx, e)
		if _, available := c.entryReady(e); available {
			return true
		}
	}
	return false
}

// Switch moves the named provider to the front of the preference order
// and forces a fresh availability probe for it.
func (c *Chain) Switch(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.entries {
		if e.provider.Name() != name {
			continue
		}
		e.enabled = true
		e.probeOnce = new(sync.Once)
		e.available = false
		e.probeErr = nil

		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		c.entries = append([]*chainEntry{e}, c.entries...)
		c.active = nil

		c.logger.Info("switched active embedding provider", zap.String("provider", name))
		return nil
	}

	return types.NewError(types.ErrEmbedderUnavailable, "provider not in chain").
		WithProvider(name)
}

// Status describes one provider in the chain.
type Status struct {
	Name      string `json:"name"`
	ModelID   string `json:"model_id"`
	Dimension int    `json:"dimension"`
	Enabled   bool   `json:"enabled"`
	Available bool   `json:"available"`
	Probed    bool   `json:"probed"`
	Error     string `json:"error,omitempty"`
}

// Statuses returns the chain state in preference order.
func (c *Chain) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Status, 0, len(c.entries))
	for _, e := range c.entries {
		s := Status{
			Name:      e.provider.Name(),
			ModelID:   e.provider.ModelID(),
			Dimension: e.provider.Dimensions(),
			Enabled:   e.enabled,
			Available: e.available,
			Probed:    e.available || e.probeErr != nil,
		}
		if e.probeErr != nil {
			s.Error = e.probeErr.Error()
		}
		out = append(out, s)
	}
	return out
}
