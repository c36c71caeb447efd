package ranker

import "github.com/BaSui01/agentscout/types"

// Weights is the factor weight vector for the combined score. The
// defaults put all weight on capability match; the other factors are
// still computed and reported so callers can retune without losing the
// breakdown.
type Weights struct {
	Capability   float64 `json:"capability" yaml:"capability"`
	Domain       float64 `json:"domain" yaml:"domain"`
	Keyword      float64 `json:"keyword" yaml:"keyword"`
	Performance  float64 `json:"performance" yaml:"performance"`
	Availability float64 `json:"availability" yaml:"availability"`
	Load         float64 `json:"load" yaml:"load"`
}

// Config holds the ranking constants. They are configuration rather
// than literals so deployments can retune normalization without a code
// change.
type Config struct {
	// KeywordScoreCap is the normalized ceiling for keyword and text
	// scores. Very high native scores saturate here, below 1.0, so raw
	// count inflation cannot dominate cosine similarity.
	KeywordScoreCap float64 `json:"keyword_score_cap" yaml:"keyword_score_cap"`

	// KeywordScoreCeiling is the native score treated as a full match
	// for keyword and text scales.
	KeywordScoreCeiling float64 `json:"keyword_score_ceiling" yaml:"keyword_score_ceiling"`

	// Band thresholds for the fallback capability-ratio score.
	HighBand   float64 `json:"high_band" yaml:"high_band"`
	MediumBand float64 `json:"medium_band" yaml:"medium_band"`
	LowBand    float64 `json:"low_band" yaml:"low_band"`

	Weights Weights `json:"weights" yaml:"weights"`

	// MinScore and MinConfidence are the default recommendation filters.
	MinScore      float64 `json:"min_score" yaml:"min_score"`
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
}

// DefaultConfig returns the standard ranking constants.
func DefaultConfig() Config {
	return Config{
		KeywordScoreCap:     0.95,
		KeywordScoreCeiling: 4.0,
		HighBand:            0.8,
		MediumBand:          0.5,
		LowBand:             0.2,
		Weights: Weights{
			Capability:   1.0,
			Domain:       0,
			Keyword:      0,
			Performance:  0,
			Availability: 0,
			Load:         0,
		},
		MinScore:      0.3,
		MinConfidence: 0.3,
	}
}

// Validate checks the constants for internal consistency.
func (c Config) Validate() error {
	if c.KeywordScoreCap <= 0 || c.KeywordScoreCap > 1 {
		return types.NewError(types.ErrInvalidInput, "keyword_score_cap must be in (0,1]")
	}
	if c.KeywordScoreCeiling <= 0 {
		return types.NewError(types.ErrInvalidInput, "keyword_score_ceiling must be positive")
	}
	if !(c.LowBand < c.MediumBand && c.MediumBand < c.HighBand && c.HighBand <= 1) {
		return types.NewError(types.ErrInvalidInput, "bands must satisfy low < medium < high <= 1")
	}
	if c.MinScore < 0 || c.MinScore > 1 || c.MinConfidence < 0 || c.MinConfidence > 1 {
		return types.NewError(types.ErrInvalidInput, "min_score and min_confidence must be in [0,1]")
	}
	return nil
}
