package config

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/agentscout/ranker"
)

// Config is the complete engine configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" env:"LOG"`
	Catalog   CatalogConfig   `yaml:"catalog" env:"CATALOG"`
	Redis     RedisConfig     `yaml:"redis" env:"REDIS"`
	Embedding EmbeddingConfig `yaml:"embedding" env:"EMBEDDING"`
	Enrich    EnrichConfig    `yaml:"enrich" env:"ENRICH"`
	Ranker    ranker.Config   `yaml:"ranker"`
	Discovery DiscoveryConfig `yaml:"discovery" env:"DISCOVERY"`
	Metrics   MetricsConfig   `yaml:"metrics" env:"METRICS"`
	Server    ServerConfig    `yaml:"server" env:"SERVER"`
}

// ServerConfig configures the HTTP API and metrics listeners.
type ServerConfig struct {
	HTTPPort    int `yaml:"http_port" env:"HTTP_PORT"`
	MetricsPort int `yaml:"metrics_port" env:"METRICS_PORT"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// APIKeys protect the /api/v1 endpoints. Empty disables auth.
	APIKeys []string `yaml:"api_keys" env:"API_KEYS"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`

	// TLSCert and TLSKey enable HTTPS on the API listener when both set.
	TLSCert string `yaml:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `yaml:"tls_key" env:"TLS_KEY"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console.
	Format string `yaml:"format" env:"FORMAT"`
	// OutputPaths are zap sink URLs, e.g. stdout or file paths.
	OutputPaths  []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	EnableCaller bool     `yaml:"enable_caller" env:"ENABLE_CALLER"`
}

// CatalogConfig selects and configures the capability store backend.
type CatalogConfig struct {
	// Backend: memory, mongo.
	Backend string `yaml:"backend" env:"BACKEND"`

	Mongo MongoConfig `yaml:"mongo" env:"MONGO"`
}

// MongoConfig configures the MongoDB capability store.
type MongoConfig struct {
	URI            string        `yaml:"uri" env:"URI"`
	Database       string        `yaml:"database" env:"DATABASE"`
	Collection     string        `yaml:"collection" env:"COLLECTION"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"`
}

// RedisConfig configures the performance metrics store.
type RedisConfig struct {
	// Enabled switches Redis-backed metric persistence on. When off the
	// engine runs with the in-memory cache only.
	Enabled   bool          `yaml:"enabled" env:"ENABLED"`
	Addr      string        `yaml:"addr" env:"ADDR"`
	Password  string        `yaml:"password" env:"PASSWORD"`
	DB        int           `yaml:"db" env:"DB"`
	KeyPrefix string        `yaml:"key_prefix" env:"KEY_PREFIX"`
	TTL       time.Duration `yaml:"ttl" env:"TTL"`
}

// EmbeddingConfig configures the embedding provider chain.
type EmbeddingConfig struct {
	// PreferenceOrder lists provider names most-preferred first.
	PreferenceOrder []string `yaml:"preference_order" env:"PREFERENCE_ORDER"`

	OpenAI ProviderConfig `yaml:"openai" env:"OPENAI"`
	Voyage ProviderConfig `yaml:"voyage" env:"VOYAGE"`

	// HashFallback appends the deterministic hash provider as the
	// guaranteed last resort.
	HashFallback  bool `yaml:"hash_fallback" env:"HASH_FALLBACK"`
	HashDimension int  `yaml:"hash_dimension" env:"HASH_DIMENSION"`
}

// ProviderConfig configures one remote embedding provider.
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	APIKey  string `yaml:"api_key" env:"API_KEY"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Model   string `yaml:"model" env:"MODEL"`
	// RateLimit caps requests per second; zero disables limiting.
	RateLimit float64 `yaml:"rate_limit" env:"RATE_LIMIT"`
}

// EnrichConfig configures the optional LLM task enrichment.
type EnrichConfig struct {
	Enabled   bool          `yaml:"enabled" env:"ENABLED"`
	APIKey    string        `yaml:"api_key" env:"API_KEY"`
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Model     string        `yaml:"model" env:"MODEL"`
	MaxTokens int           `yaml:"max_tokens" env:"MAX_TOKENS"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// DiscoveryConfig holds the orchestrator defaults.
type DiscoveryConfig struct {
	DefaultLimit  int           `yaml:"default_limit" env:"DEFAULT_LIMIT"`
	MinScore      float64       `yaml:"min_score" env:"MIN_SCORE"`
	MinConfidence float64       `yaml:"min_confidence" env:"MIN_CONFIDENCE"`
	SearchTimeout time.Duration `yaml:"search_timeout" env:"SEARCH_TIMEOUT"`
}

// MetricsConfig configures Prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stdout"},
		},
		Catalog: CatalogConfig{
			Backend: "memory",
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "agentscout",
				Collection:     "agent_capabilities",
				ConnectTimeout: 5 * time.Second,
			},
		},
		Redis: RedisConfig{
			Enabled:   false,
			Addr:      "localhost:6379",
			KeyPrefix: "agentscout:perf:",
			TTL:       24 * time.Hour,
		},
		Embedding: EmbeddingConfig{
			PreferenceOrder: []string{"openai", "voyage"},
			OpenAI: ProviderConfig{
				Enabled: true,
				BaseURL: "https://api.openai.com",
				Model:   "text-embedding-3-small",
			},
			Voyage: ProviderConfig{
				Enabled: true,
				BaseURL: "https://api.voyageai.com",
				Model:   "voyage-3-lite",
			},
			HashFallback:  true,
			HashDimension: 384,
		},
		Enrich: EnrichConfig{
			Enabled:   false,
			BaseURL:   "https://api.anthropic.com",
			Model:     "claude-3-5-sonnet-20241022",
			MaxTokens: 500,
			Timeout:   10 * time.Second,
		},
		Ranker: ranker.DefaultConfig(),
		Discovery: DiscoveryConfig{
			DefaultLimit:  5,
			MinScore:      0.3,
			MinConfidence: 0.3,
			SearchTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "agentscout",
		},
		Server: ServerConfig{
			HTTPPort:        8080,
			MetricsPort:     9090,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    50,
			RateLimitBurst:  100,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	var errs []string

	switch c.Catalog.Backend {
	case "memory", "mongo":
	default:
		errs = append(errs, fmt.Sprintf("unknown catalog backend %q", c.Catalog.Backend))
	}
	if c.Catalog.Backend == "mongo" && c.Catalog.Mongo.URI == "" {
		errs = append(errs, "mongo backend requires a URI")
	}

	if len(c.Embedding.PreferenceOrder) == 0 && !c.Embedding.HashFallback {
		errs = append(errs, "embedding chain is empty with hash fallback disabled")
	}
	for _, name := range c.Embedding.PreferenceOrder {
		switch name {
		case "openai", "voyage", "hash":
		default:
			errs = append(errs, fmt.Sprintf("unknown embedding provider %q", name))
		}
	}

	if c.Discovery.DefaultLimit < 0 {
		errs = append(errs, "default_limit cannot be negative")
	}
	if c.Discovery.MinScore < 0 || c.Discovery.MinScore > 1 {
		errs = append(errs, "min_score must be in [0,1]")
	}
	if c.Discovery.MinConfidence < 0 || c.Discovery.MinConfidence > 1 {
		errs = append(errs, "min_confidence must be in [0,1]")
	}

	if err := c.Ranker.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "http_port must be in (0,65535]")
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		errs = append(errs, "metrics_port must be in [0,65535]")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		errs = append(errs, "tls_cert and tls_key must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// BuildLogger constructs a zap logger from the log section.
func (c *LogConfig) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if c.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if len(c.OutputPaths) > 0 {
		zcfg.OutputPaths = c.OutputPaths
	}
	zcfg.DisableCaller = !c.EnableCaller

	return zcfg.Build()
}
