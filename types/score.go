package types

import "time"

// AgentScore is a ranked recommendation produced by the ranker.
type AgentScore struct {
	AgentID string `json:"agent_id"`

	// Score is the combined normalized score, always in [0,1].
	Score float64 `json:"score"`

	// Confidence estimates the reliability of the score, in [0,1].
	Confidence float64 `json:"confidence"`

	// MatchReasons are human-readable explanations, in scoring order.
	MatchReasons []string `json:"match_reasons"`

	// Breakdown holds the per-factor scores that fed the combination.
	Breakdown map[string]float64 `json:"breakdown"`
}

// DiscoveryResult is the shape returned to discovery callers.
type DiscoveryResult struct {
	TaskProfile    *TaskProfile  `json:"task_profile"`
	RankedAgents   []AgentScore  `json:"ranked_agents"`
	TotalEvaluated int           `json:"total_evaluated"`
	SearchTime     time.Duration `json:"search_time"`
	Suggestions    []string      `json:"suggestions"`
}
