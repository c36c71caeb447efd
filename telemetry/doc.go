// Package telemetry tracks per-agent performance history consumed by
// the ranker.
//
// MetricsCache is the in-process view: concurrent-safe, last-write-wins,
// no eviction. RedisMetricsStore persists the same records so history
// survives restarts and can be shared across instances; the cache can be
// warmed from it at startup.
package telemetry
