package telemetry

import (
	"sync"
	"time"

	"github.com/BaSui01/agentscout/types"
)

// MetricsCache is an in-memory map of agent id to performance metrics.
// Writes overwrite unconditionally; concurrent writers race benignly and
// the last one wins.
type MetricsCache struct {
	mu      sync.RWMutex
	metrics map[string]types.PerformanceMetrics
}

// NewMetricsCache creates an empty cache.
func NewMetricsCache() *MetricsCache {
	return &MetricsCache{
		metrics: make(map[string]types.PerformanceMetrics),
	}
}

// Set stores the metrics for an agent, stamping UpdatedAt if unset.
func (c *MetricsCache) Set(agentID string, m types.PerformanceMetrics) {
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now()
	}
	c.mu.Lock()
	c.metrics[agentID] = m
	c.mu.Unlock()
}

// Get returns the metrics for an agent and whether any were recorded.
func (c *MetricsCache) Get(agentID string) (types.PerformanceMetrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.metrics[agentID]
	return m, ok
}

// Snapshot copies the cache into the map shape the ranker consumes.
func (c *MetricsCache) Snapshot() map[string]types.PerformanceMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]types.PerformanceMetrics, len(c.metrics))
	for id, m := range c.metrics {
		out[id] = m
	}
	return out
}

// Len returns the number of tracked agents.
func (c *MetricsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metrics)
}
