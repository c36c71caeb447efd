package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/agentscout/analyzer"
	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/internal/metrics"
	"github.com/BaSui01/agentscout/ranker"
	"github.com/BaSui01/agentscout/search"
	"github.com/BaSui01/agentscout/telemetry"
	"github.com/BaSui01/agentscout/types"
)

// perAdapterLimit caps how many candidates one search strategy feeds
// into ranking.
const perAdapterLimit = 20

// Service coordinates task analysis, search fan-out, and ranking.
type Service struct {
	analyzer *analyzer.Analyzer
	store    catalog.Store
	adapters map[types.StructureType]search.Adapter
	order    []types.StructureType
	ranker   *ranker.Ranker

	perfCache *telemetry.MetricsCache
	collector *metrics.Collector
	tracer    trace.Tracer

	cfg    Config
	logger *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMetricsCache attaches the performance history consulted during
// ranking.
func WithMetricsCache(cache *telemetry.MetricsCache) ServiceOption {
	return func(s *Service) { s.perfCache = cache }
}

// WithCollector attaches Prometheus instrumentation.
func WithCollector(c *metrics.Collector) ServiceOption {
	return func(s *Service) { s.collector = c }
}

// WithConfig overrides the orchestrator defaults.
func WithConfig(cfg Config) ServiceOption {
	return func(s *Service) { s.cfg = cfg }
}

// NewService creates the discovery orchestrator. Adapters register by
// their structure type; passing the same type twice keeps the last one.
func NewService(a *analyzer.Analyzer, store catalog.Store, adapters []search.Adapter,
	r *ranker.Ranker, logger *zap.Logger, opts ...ServiceOption) *Service {

	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		analyzer: a,
		store:    store,
		adapters: make(map[types.StructureType]search.Adapter, len(adapters)),
		ranker:   r,
		tracer:   otel.Tracer("github.com/BaSui01/agentscout/discovery"),
		cfg:      DefaultServiceConfig(),
		logger:   logger.With(zap.String("component", "discovery_service")),
	}
	for _, adapter := range adapters {
		st := adapter.StructureType()
		if _, seen := s.adapters[st]; !seen {
			s.order = append(s.order, st)
		}
		s.adapters[st] = adapter
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover runs the full pipeline for one task description.
func (s *Service) Discover(ctx context.Context, req Request) (*types.DiscoveryResult, error) {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, span := s.tracer.Start(ctx, "discovery.Discover",
		trace.WithAttributes(attribute.String("request_id", requestID)))
	defer span.End()

	if s.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SearchTimeout)
		defer cancel()
	}

	logger := s.logger.With(zap.String("request_id", requestID))

	profile, err := s.analyzer.Analyze(ctx, req.Task)
	if err != nil {
		span.RecordError(err)
		s.collector.RecordDiscovery("unknown", "error", time.Since(start))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("task_type", string(profile.TaskType)),
		attribute.String("domain", profile.Domain),
	)

	candidates, err := s.collectCandidates(ctx, profile, req.StructureType, logger)
	if err != nil {
		span.RecordError(err)
		s.collector.RecordDiscovery(string(profile.TaskType), "error", time.Since(start))
		return nil, err
	}

	candidates = applyFilters(candidates, req)

	var perf map[string]types.PerformanceMetrics
	if s.perfCache != nil {
		perf = s.perfCache.Snapshot()
	}
	scores := s.ranker.Rank(candidates, profile, perf)

	limit := req.Limit
	if limit < 0 {
		limit = s.cfg.DefaultLimit
	}

	var recommended []types.AgentScore
	if limit > 0 {
		minScore := req.MinScore
		if minScore <= 0 {
			minScore = s.cfg.MinScore
		}
		minConfidence := req.MinConfidence
		if minConfidence <= 0 {
			minConfidence = s.cfg.MinConfidence
		}
		recommended = s.ranker.Top(scores, limit, minScore, minConfidence)
	} else {
		recommended = []types.AgentScore{}
	}

	elapsed := time.Since(start)
	s.collector.RecordDiscovery(string(profile.TaskType), "ok", elapsed)

	logger.Info("discovery completed",
		zap.String("task_type", string(profile.TaskType)),
		zap.Int("evaluated", len(candidates)),
		zap.Int("recommended", len(recommended)),
		zap.Duration("elapsed", elapsed),
	)

	return &types.DiscoveryResult{
		TaskProfile:    profile,
		RankedAgents:   recommended,
		TotalEvaluated: len(candidates),
		SearchTime:     elapsed,
		Suggestions:    buildSuggestions(profile, recommended),
	}, nil
}

// collectCandidates fans the query out to the selected adapters. A
// failed adapter contributes nothing; only an invalid structure type is
// an error.
func (s *Service) collectCandidates(ctx context.Context, profile *types.TaskProfile,
	st types.StructureType, logger *zap.Logger) ([]types.CandidateRecord, error) {

	query := buildQuery(profile)

	selected := s.order
	if st != "" {
		if !st.Valid() {
			return nil, types.NewError(types.ErrInvalidRequest,
				fmt.Sprintf("unknown structure type %q", st))
		}
		if _, ok := s.adapters[st]; !ok {
			return nil, types.NewError(types.ErrInvalidRequest,
				fmt.Sprintf("no search adapter registered for %q", st))
		}
		selected = []types.StructureType{st}
	}

	var mu sync.Mutex
	merged := make([]types.CandidateRecord, 0)

	g, gctx := errgroup.WithContext(ctx)
	for _, structureType := range selected {
		adapter := s.adapters[structureType]
		g.Go(func() error {
			found, err := adapter.Search(gctx, query, perAdapterLimit)
			if err != nil {
				logger.Warn("search adapter failed",
					zap.String("structure_type", string(adapter.StructureType())),
					zap.Error(err),
				)
				return nil
			}
			s.collector.RecordCandidates(string(adapter.StructureType()), len(found))

			mu.Lock()
			merged = append(merged, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}

// buildQuery condenses the profile into a search string: domain, the
// top three keywords, and the top two required capabilities. Falls back
// to the raw text when nothing was extracted.
func buildQuery(profile *types.TaskProfile) string {
	terms := make([]string, 0, 6)

	if profile.Domain != "" && profile.Domain != "general" {
		terms = append(terms, profile.Domain)
	}
	for i, kw := range profile.Keywords {
		if i >= 3 {
			break
		}
		terms = append(terms, kw)
	}
	for i, rc := range profile.RequiredCapabilities {
		if i >= 2 {
			break
		}
		terms = append(terms, rc)
	}

	if len(terms) == 0 {
		return profile.RawText
	}
	return strings.Join(terms, " ")
}

// applyFilters drops candidates the request excludes.
func applyFilters(candidates []types.CandidateRecord, req Request) []types.CandidateRecord {
	if req.StatusFilter == "" && req.DomainFilter == "" && len(req.Exclude) == 0 {
		return candidates
	}

	excluded := make(map[string]struct{}, len(req.Exclude))
	for _, id := range req.Exclude {
		excluded[id] = struct{}{}
	}
	domainFilter := strings.ToLower(req.DomainFilter)

	out := make([]types.CandidateRecord, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := excluded[c.AgentID]; skip {
			continue
		}
		if req.StatusFilter != "" && c.Record.Status != req.StatusFilter {
			continue
		}
		if domainFilter != "" && strings.ToLower(c.Record.Domain) != domainFilter {
			continue
		}
		out = append(out, c)
	}
	return out
}

// buildSuggestions produces actionable hints from the discovery outcome.
func buildSuggestions(profile *types.TaskProfile, recommended []types.AgentScore) []string {
	suggestions := make([]string, 0, 4)

	switch {
	case len(recommended) == 0:
		suggestions = append(suggestions,
			"No agents found matching your requirements",
			fmt.Sprintf("Try searching for agents with '%s' domain expertise", profile.Domain),
			"Consider breaking down your task into smaller components",
			"Check if your required capabilities are too specific",
		)
	case len(recommended) == 1:
		suggestions = append(suggestions,
			"Only one agent found - consider broadening your search criteria")
	case profile.Complexity == types.ComplexityComplex:
		suggestions = append(suggestions,
			"This appears to be a complex task",
			"Consider using multiple agents for different components",
			"Review the top agents' capabilities to ensure full coverage",
		)
	}

	switch profile.TaskType {
	case types.TaskTypeDataAnalysis:
		suggestions = append(suggestions,
			"For data analysis tasks, ensure agents have visualization capabilities")
	case types.TaskTypeAutomation:
		suggestions = append(suggestions,
			"For automation, look for agents with workflow management features")
	}

	if len(recommended) > 0 && recommended[0].Score < 0.7 {
		suggestions = append(suggestions,
			"Match confidence is moderate - review agent details carefully")
	}
	return suggestions
}

// UpdatePerformance records fresh performance metrics for an agent.
// A service without a metrics cache ignores the update.
func (s *Service) UpdatePerformance(agentID string, m types.PerformanceMetrics) {
	if s.perfCache == nil {
		return
	}
	s.perfCache.Set(agentID, m)
}

// SimilarAgents finds agents resembling the given one by running a
// pseudo-task built from its catalog record. The agent itself is never
// in the result. An unknown agent id yields an empty list.
func (s *Service) SimilarAgents(ctx context.Context, agentID string, limit int) ([]types.AgentScore, error) {
	rec, err := s.store.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return []types.AgentScore{}, nil
	}

	// The pseudo-task leads with the agent's own capability text so the
	// extracted keywords are its tags, not filler words.
	parts := make([]string, 0, len(rec.Tags)+3)
	parts = append(parts, rec.Tags...)
	if rec.Specialization != "" {
		parts = append(parts, rec.Specialization)
	}
	if rec.Description != "" {
		parts = append(parts, rec.Description)
	}
	if rec.Domain != "" && rec.Domain != "general" {
		parts = append(parts, rec.Domain)
	}

	task := strings.Join(parts, " ")
	if strings.TrimSpace(task) == "" {
		task = fmt.Sprintf("Task requiring %s domain expertise", rec.Domain)
	}

	if limit <= 0 {
		limit = 3
	}
	result, err := s.Discover(ctx, Request{
		Task:    task,
		Limit:   limit + 1,
		Exclude: []string{agentID},
	})
	if err != nil {
		return nil, err
	}

	similar := result.RankedAgents
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

// Explain renders a full human-readable discovery report.
func Explain(result *types.DiscoveryResult) string {
	var b strings.Builder

	profile := result.TaskProfile
	b.WriteString("=== Task Analysis ===\n")
	fmt.Fprintf(&b, "Task Type: %s\n", profile.TaskType)
	fmt.Fprintf(&b, "Domain: %s\n", profile.Domain)
	fmt.Fprintf(&b, "Complexity: %s\n", profile.Complexity)
	fmt.Fprintf(&b, "Required Capabilities: %s\n", strings.Join(profile.RequiredCapabilities, ", "))

	keywords := profile.Keywords
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	fmt.Fprintf(&b, "Key Keywords: %s\n", strings.Join(keywords, ", "))
	fmt.Fprintf(&b, "Analysis Confidence: %.2f\n\n", profile.Confidence)

	b.WriteString("=== Search Results ===\n")
	fmt.Fprintf(&b, "Total Agents Evaluated: %d\n", result.TotalEvaluated)
	fmt.Fprintf(&b, "Agents Recommended: %d\n", len(result.RankedAgents))
	fmt.Fprintf(&b, "Search Time: %.2f seconds\n\n", result.SearchTime.Seconds())

	if len(result.RankedAgents) > 0 {
		b.WriteString("=== Recommended Agents ===\n")
		for i, score := range result.RankedAgents {
			fmt.Fprintf(&b, "\n%d. Agent: %s\n", i+1, score.AgentID)
			fmt.Fprintf(&b, "   Score: %.2f\n", score.Score)
			fmt.Fprintf(&b, "   Confidence: %.2f\n", score.Confidence)
			if len(score.MatchReasons) > 0 {
				b.WriteString("   Match Reasons:\n")
				for _, reason := range score.MatchReasons {
					fmt.Fprintf(&b, "     - %s\n", reason)
				}
			}
		}
	} else {
		b.WriteString("=== No Agents Found ===\n")
	}

	if len(result.Suggestions) > 0 {
		b.WriteString("\n=== Suggestions ===\n")
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(&b, "- %s\n", suggestion)
		}
	}
	return b.String()
}
