package discovery

import (
	"time"

	"github.com/BaSui01/agentscout/types"
)

// Request describes one discovery call.
type Request struct {
	// Task is the free-text task description. Required.
	Task string `json:"task"`

	// Limit caps the number of recommendations. Zero returns an empty
	// recommendation list; negative uses the configured default.
	Limit int `json:"limit"`

	// MinScore and MinConfidence filter recommendations. Values <= 0
	// fall back to the configured defaults.
	MinScore      float64 `json:"min_score,omitempty"`
	MinConfidence float64 `json:"min_confidence,omitempty"`

	// StructureType restricts the search to one strategy. Empty searches
	// all structure types.
	StructureType types.StructureType `json:"structure_type,omitempty"`

	// Exclude drops the named agents from the results.
	Exclude []string `json:"exclude,omitempty"`

	// DomainFilter keeps only agents declaring this domain.
	DomainFilter string `json:"domain_filter,omitempty"`

	// StatusFilter keeps only agents with this exact status.
	StatusFilter string `json:"status_filter,omitempty"`
}

// Config holds the orchestrator defaults.
type Config struct {
	// DefaultLimit applies when a request passes a negative limit.
	DefaultLimit int `json:"default_limit" yaml:"default_limit"`

	// MinScore and MinConfidence are the default recommendation filters.
	MinScore      float64 `json:"min_score" yaml:"min_score"`
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// SearchTimeout bounds one discovery call end to end; zero disables
	// the deadline.
	SearchTimeout time.Duration `json:"search_timeout" yaml:"search_timeout"`
}

// DefaultServiceConfig returns the standard orchestrator defaults.
func DefaultServiceConfig() Config {
	return Config{
		DefaultLimit:  5,
		MinScore:      0.3,
		MinConfidence: 0.3,
		SearchTimeout: 10 * time.Second,
	}
}
