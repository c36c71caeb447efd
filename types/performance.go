package types

import "time"

// PerformanceMetrics is the per-agent historical record consulted during
// ranking. All fields are optional; the ranker substitutes neutral
// values for agents with no history.
type PerformanceMetrics struct {
	// SuccessRate is the fraction of tasks completed successfully, [0,1].
	SuccessRate float64 `json:"success_rate"`

	// AvgResponseTime is the mean end-to-end task latency.
	AvgResponseTime time.Duration `json:"avg_response_time"`

	// Reliability is an aggregate uptime and consistency measure, [0,1].
	Reliability float64 `json:"reliability"`

	// UpdatedAt is when the metrics were last written.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
