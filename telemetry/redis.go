package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/types"
)

// RedisConfig configures the Redis-backed metrics store.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`

	// KeyPrefix namespaces the metric keys.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`

	// TTL expires stale history; zero keeps records forever.
	TTL time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// DefaultRedisConfig returns the standard Redis store settings.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "agentscout:perf:",
		TTL:       24 * time.Hour,
	}
}

// RedisMetricsStore persists performance metrics in Redis, one JSON
// value per agent.
type RedisMetricsStore struct {
	client *redis.Client
	cfg    RedisConfig
	logger *zap.Logger
}

// NewRedisMetricsStore creates a store and verifies connectivity.
func NewRedisMetricsStore(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*RedisMetricsStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "agentscout:perf:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, types.NewError(types.ErrStoreUnavailable, "redis ping failed").
			WithCause(err).WithRetryable(true)
	}

	return &RedisMetricsStore{
		client: client,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "redis_metrics_store")),
	}, nil
}

// Store writes the metrics for an agent, stamping UpdatedAt if unset.
func (s *RedisMetricsStore) Store(ctx context.Context, agentID string, m types.PerformanceMetrics) error {
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now()
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(agentID), payload, s.cfg.TTL).Err(); err != nil {
		return types.NewError(types.ErrStoreUnavailable, "redis set failed").
			WithCause(err).WithRetryable(true)
	}
	return nil
}

// Load returns the metrics for an agent, or nil if none are recorded.
func (s *RedisMetricsStore) Load(ctx context.Context, agentID string) (*types.PerformanceMetrics, error) {
	payload, err := s.client.Get(ctx, s.key(agentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "redis get failed").
			WithCause(err).WithRetryable(true)
	}

	var m types.PerformanceMetrics
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// WarmCache loads every stored metric into the cache. Malformed entries
// are skipped, not fatal.
func (s *RedisMetricsStore) WarmCache(ctx context.Context, cache *MetricsCache) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.cfg.KeyPrefix+"*", 100).Result()
		if err != nil {
			return types.NewError(types.ErrStoreUnavailable, "redis scan failed").
				WithCause(err).WithRetryable(true)
		}

		for _, key := range keys {
			agentID := key[len(s.cfg.KeyPrefix):]
			m, err := s.Load(ctx, agentID)
			if err != nil || m == nil {
				s.logger.Warn("skipping unreadable metrics entry",
					zap.String("key", key), zap.Error(err))
				continue
			}
			cache.Set(agentID, *m)
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the client connection.
func (s *RedisMetricsStore) Close() error {
	return s.client.Close()
}

func (s *RedisMetricsStore) key(agentID string) string {
	return s.cfg.KeyPrefix + agentID
}
