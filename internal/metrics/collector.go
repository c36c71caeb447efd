package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records discovery engine metrics. A nil *Collector is valid
// and records nothing, so instrumentation stays optional.
type Collector struct {
	discoveryRequestsTotal *prometheus.CounterVec
	discoveryDuration      *prometheus.HistogramVec
	candidatesEvaluated    *prometheus.HistogramVec

	embedderFallbacksTotal *prometheus.CounterVec
	embedderSwitchesTotal  *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a collector registered on reg, or on the default
// registerer when reg is nil.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.discoveryRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_requests_total",
			Help:      "Total number of discovery requests",
		},
		[]string{"task_type", "status"},
	)

	c.discoveryDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovery_duration_seconds",
			Help:      "Discovery request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"task_type"},
	)

	c.candidatesEvaluated = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovery_candidates_evaluated",
			Help:      "Number of candidates evaluated per discovery request",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"structure_type"},
	)

	c.embedderFallbacksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedder_fallbacks_total",
			Help:      "Total number of embedding provider fallbacks",
		},
		[]string{"provider"},
	)

	c.embedderSwitchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedder_switches_total",
			Help:      "Total number of explicit embedding provider switches",
		},
		[]string{"provider"},
	)

	c.cacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	c.cacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordDiscovery records one discovery request.
func (c *Collector) RecordDiscovery(taskType, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.discoveryRequestsTotal.WithLabelValues(taskType, status).Inc()
	c.discoveryDuration.WithLabelValues(taskType).Observe(duration.Seconds())
}

// RecordCandidates records how many candidates one search strategy produced.
func (c *Collector) RecordCandidates(structureType string, count int) {
	if c == nil {
		return
	}
	c.candidatesEvaluated.WithLabelValues(structureType).Observe(float64(count))
}

// RecordEmbedderFallback records a cascade past a failed provider.
func (c *Collector) RecordEmbedderFallback(provider string) {
	if c == nil {
		return
	}
	c.embedderFallbacksTotal.WithLabelValues(provider).Inc()
}

// RecordEmbedderSwitch records an explicit provider switch.
func (c *Collector) RecordEmbedderSwitch(provider string) {
	if c == nil {
		return
	}
	c.embedderSwitchesTotal.WithLabelValues(provider).Inc()
}

// RecordCacheHit records a cache hit.
func (c *Collector) RecordCacheHit(cacheType string) {
	if c == nil {
		return
	}
	c.cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss.
func (c *Collector) RecordCacheMiss(cacheType string) {
	if c == nil {
		return
	}
	c.cacheMisses.WithLabelValues(cacheType).Inc()
}
