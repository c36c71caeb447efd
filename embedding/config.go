package embedding

import "time"

// OpenAIConfig configures the OpenAI-compatible embedding provider.
type OpenAIConfig struct {
	APIKey            string        `json:"api_key" yaml:"api_key"`
	BaseURL           string        `json:"base_url" yaml:"base_url"`
	Model             string        `json:"model,omitempty" yaml:"model,omitempty"`           // text-embedding-3-small
	Dimensions        int           `json:"dimensions,omitempty" yaml:"dimensions,omitempty"` // 256, 1024, 3072
	Timeout           time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RequestsPerSecond float64       `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
}

// VoyageConfig configures the Voyage AI embedding provider.
type VoyageConfig struct {
	APIKey            string        `json:"api_key" yaml:"api_key"`
	BaseURL           string        `json:"base_url" yaml:"base_url"`
	Model             string        `json:"model,omitempty" yaml:"model,omitempty"` // voyage-large-2, voyage-3-large
	Timeout           time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RequestsPerSecond float64       `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
}

// HashConfig configures the deterministic hash-derived provider.
type HashConfig struct {
	Dimension int `json:"dimension,omitempty" yaml:"dimension,omitempty"` // default 384
}

// DefaultOpenAIConfig returns default OpenAI embedding config.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseURL:    "https://api.openai.com",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		Timeout:    30 * time.Second,
	}
}

// DefaultVoyageConfig returns default Voyage AI config.
func DefaultVoyageConfig() VoyageConfig {
	return VoyageConfig{
		BaseURL: "https://api.voyageai.com",
		Model:   "voyage-large-2",
		Timeout: 30 * time.Second,
	}
}

// DefaultHashConfig returns default hash provider config.
func DefaultHashConfig() HashConfig {
	return HashConfig{Dimension: 384}
}
