package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/analyzer"
	"github.com/BaSui01/agentscout/api/handlers"
	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/config"
	"github.com/BaSui01/agentscout/discovery"
	"github.com/BaSui01/agentscout/embedding"
	"github.com/BaSui01/agentscout/internal/metrics"
	"github.com/BaSui01/agentscout/internal/server"
	"github.com/BaSui01/agentscout/ranker"
	"github.com/BaSui01/agentscout/search"
	"github.com/BaSui01/agentscout/telemetry"
)

// engine bundles the wired discovery pipeline and its backends.
type engine struct {
	svc       *discovery.Service
	store     catalog.Store
	perfCache *telemetry.MetricsCache
	redis     *telemetry.RedisMetricsStore
	registry  *prometheus.Registry
	collector *metrics.Collector
	logger    *zap.Logger
}

// buildEngine wires the full pipeline from configuration: store,
// embedding chain, analyzer, adapters, ranker, telemetry, and metrics.
func buildEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*engine, error) {
	e := &engine{
		registry:  prometheus.NewRegistry(),
		perfCache: telemetry.NewMetricsCache(),
		logger:    logger,
	}

	if cfg.Metrics.Enabled {
		e.collector = metrics.NewCollector(cfg.Metrics.Namespace, e.registry, logger)
	}

	switch cfg.Catalog.Backend {
	case "mongo":
		store, err := catalog.NewMongoStore(ctx, catalog.MongoConfig{
			URI:            cfg.Catalog.Mongo.URI,
			Database:       cfg.Catalog.Mongo.Database,
			Collection:     cfg.Catalog.Mongo.Collection,
			ConnectTimeout: cfg.Catalog.Mongo.ConnectTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect capability store: %w", err)
		}
		e.store = store
	default:
		e.store = catalog.NewMemoryStore(logger)
	}

	chain := buildChain(cfg.Embedding, logger)

	analyzerOpts := make([]analyzer.Option, 0, 2)
	if cfg.Enrich.Enabled && cfg.Enrich.APIKey != "" {
		enricher := analyzer.NewLLMEnricher(analyzer.LLMEnricherConfig{
			APIKey:    cfg.Enrich.APIKey,
			BaseURL:   cfg.Enrich.BaseURL,
			Model:     cfg.Enrich.Model,
			MaxTokens: cfg.Enrich.MaxTokens,
			Timeout:   cfg.Enrich.Timeout,
		}, logger)
		analyzerOpts = append(analyzerOpts,
			analyzer.WithEnricher(enricher),
			analyzer.WithEnrichTimeout(cfg.Enrich.Timeout),
		)
	}

	if cfg.Redis.Enabled {
		redisStore, err := telemetry.NewRedisMetricsStore(ctx, telemetry.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Redis.TTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect metrics store: %w", err)
		}
		e.redis = redisStore
		if err := redisStore.WarmCache(ctx, e.perfCache); err != nil {
			logger.Warn("failed to warm performance cache", zap.Error(err))
		}
	}

	adapters := []search.Adapter{
		search.NewKeywordAdapter(e.store, logger),
		search.NewTextAdapter(e.store, logger),
		search.NewVectorAdapter(e.store, chain, logger),
	}

	e.svc = discovery.NewService(
		analyzer.New(logger, analyzerOpts...),
		e.store,
		adapters,
		ranker.New(cfg.Ranker, logger),
		logger,
		discovery.WithMetricsCache(e.perfCache),
		discovery.WithCollector(e.collector),
		discovery.WithConfig(discovery.Config{
			DefaultLimit:  cfg.Discovery.DefaultLimit,
			MinScore:      cfg.Discovery.MinScore,
			MinConfidence: cfg.Discovery.MinConfidence,
			SearchTimeout: cfg.Discovery.SearchTimeout,
		}),
	)
	return e, nil
}

// buildChain assembles the embedding provider chain in preference order.
// An explicit "hash" entry keeps its position; the implicit fallback is
// then skipped so the chain carries the hash provider once.
func buildChain(cfg config.EmbeddingConfig, logger *zap.Logger) *embedding.Chain {
	builder := embedding.NewChainBuilder(logger)

	hashCfg := embedding.DefaultHashConfig()
	if cfg.HashDimension > 0 {
		hashCfg.Dimension = cfg.HashDimension
	}

	sawHash := false
	for _, name := range cfg.PreferenceOrder {
		switch name {
		case "openai":
			builder.Add(embedding.NewOpenAIProvider(embedding.OpenAIConfig{
				APIKey:            cfg.OpenAI.APIKey,
				BaseURL:           cfg.OpenAI.BaseURL,
				Model:             cfg.OpenAI.Model,
				RequestsPerSecond: cfg.OpenAI.RateLimit,
			}), cfg.OpenAI.Enabled && cfg.OpenAI.APIKey != "")
		case "voyage":
			builder.Add(embedding.NewVoyageProvider(embedding.VoyageConfig{
				APIKey:            cfg.Voyage.APIKey,
				BaseURL:           cfg.Voyage.BaseURL,
				Model:             cfg.Voyage.Model,
				RequestsPerSecond: cfg.Voyage.RateLimit,
			}), cfg.Voyage.Enabled && cfg.Voyage.APIKey != "")
		case "hash":
			builder.Add(embedding.NewHashProvider(hashCfg), true)
			sawHash = true
		}
	}

	return builder.WithHashFallback(cfg.HashFallback && !sawHash, hashCfg).Build()
}

// Close releases the engine's backends.
func (e *engine) Close() {
	if e.redis != nil {
		if err := e.redis.Close(); err != nil {
			e.logger.Warn("failed to close metrics store", zap.Error(err))
		}
	}
}

// Server runs the HTTP API and metrics listeners around one engine.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	eng *engine

	httpManager    *server.Manager
	metricsManager *server.Manager

	healthHandler *handlers.HealthHandler

	rateLimiterCancel context.CancelFunc
}

// NewServer creates the server shell; Start wires and launches it.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start builds the engine and launches the listeners.
func (s *Server) Start() error {
	ctx := context.Background()

	eng, err := buildEngine(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}
	s.eng = eng

	if err := s.startHTTPServer(); err != nil {
		return err
	}
	if err := s.startMetricsServer(); err != nil {
		return err
	}

	s.logger.Info("all servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.String("catalog_backend", s.cfg.Catalog.Backend),
	)
	return nil
}

func (s *Server) startHTTPServer() error {
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.RegisterCheck(handlers.NewPingCheck("catalog", func(ctx context.Context) error {
		_, err := s.eng.store.Count(ctx)
		return err
	}))
	if s.eng.redis != nil {
		s.healthHandler.RegisterCheck(handlers.NewPingCheck("redis", func(ctx context.Context) error {
			_, err := s.eng.redis.Load(ctx, "health")
			return err
		}))
	}

	discoveryHandler := handlers.NewDiscoveryHandler(s.eng.svc, s.logger)

	writer, _ := s.eng.store.(catalog.Writer)
	catalogHandler := handlers.NewCatalogHandler(s.eng.store, writer, s.logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	mux.HandleFunc("/api/v1/discover", discoveryHandler.HandleDiscover)
	mux.HandleFunc("/api/v1/agents/similar", discoveryHandler.HandleSimilar)
	mux.HandleFunc("/api/v1/agents/performance", discoveryHandler.HandlePerformance)
	mux.HandleFunc("/api/v1/agents", catalogHandler.HandleUpsert)
	mux.HandleFunc("/api/v1/agents/get", catalogHandler.HandleGet)
	mux.HandleFunc("/api/v1/agents/count", catalogHandler.HandleCount)

	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version"}
	rateLimiterCtx, cancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = cancel

	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		CORS(s.cfg.Server.CORSAllowedOrigins),
		RateLimiter(rateLimiterCtx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger),
		APIKeyAuth(s.cfg.Server.APIKeys, skipAuthPaths, s.logger),
	)

	s.httpManager = server.NewManager(handler, server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	if s.cfg.Server.TLSCert != "" {
		return s.httpManager.StartTLS(s.cfg.Server.TLSCert, s.cfg.Server.TLSKey)
	}
	return s.httpManager.Start()
}

func (s *Server) startMetricsServer() error {
	if !s.cfg.Metrics.Enabled || s.cfg.Server.MetricsPort <= 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.eng.registry, promhttp.HandlerOpts{}))

	s.metricsManager = server.NewManager(mux, server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)
	return s.metricsManager.Start()
}

// WaitForShutdown blocks until a shutdown signal, then stops everything.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown gracefully stops the listeners and releases backends.
func (s *Server) Shutdown() {
	s.logger.Info("starting graceful shutdown")
	ctx := context.Background()

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}
	if s.eng != nil {
		s.eng.Close()
	}

	s.logger.Info("graceful shutdown completed")
}
