package analyzer

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/types"
)

const (
	maxKeywords = 10

	// Word-count thresholds used when complexity indicators tie.
	simpleWordCount  = 10
	complexWordCount = 50

	defaultEnrichTimeout = 10 * time.Second
)

// Analyzer extracts a TaskProfile from a free-text task description.
// The zero-dependency heuristic path always runs; an optional Enricher
// augments the result on a best-effort basis.
type Analyzer struct {
	enricher      Enricher
	enrichTimeout time.Duration
	logger        *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEnricher attaches an optional enrichment collaborator.
func WithEnricher(e Enricher) Option {
	return func(a *Analyzer) { a.enricher = e }
}

// WithEnrichTimeout bounds each enrichment call.
func WithEnrichTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.enrichTimeout = d }
}

// New creates a task analyzer.
func New(logger *zap.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		enrichTimeout: defaultEnrichTimeout,
		logger:        logger.With(zap.String("component", "task_analyzer")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds a TaskProfile from the description. It fails only on
// empty input; enrichment failures are logged and ignored.
func (a *Analyzer) Analyze(ctx context.Context, description string) (*types.TaskProfile, error) {
	text := strings.ToLower(strings.TrimSpace(description))
	if text == "" {
		return nil, types.NewError(types.ErrInvalidInput, "task description cannot be empty")
	}

	taskType := identifyTaskType(text)
	complexity := assessComplexity(text)
	domain := extractDomain(text)
	keywords := extractKeywords(text)
	capabilities := identifyCapabilities(text, taskType)

	profile := &types.TaskProfile{
		TaskType:             taskType,
		Complexity:           complexity,
		Domain:               domain,
		Keywords:             keywords,
		RequiredCapabilities: capabilities,
		Confidence:           calculateConfidence(text, taskType),
		RawText:              description,
	}

	a.enrich(ctx, description, profile)
	return profile, nil
}

// enrich applies best-effort augmentation from the external service.
func (a *Analyzer) enrich(ctx context.Context, description string, profile *types.TaskProfile) {
	if a.enricher == nil {
		return
	}

	enrichCtx, cancel := context.WithTimeout(ctx, a.enrichTimeout)
	defer cancel()

	enrichment, err := a.enricher.Enrich(enrichCtx, description)
	if err != nil || enrichment == nil {
		a.logger.Warn("task enrichment skipped", zap.Error(err))
		return
	}

	if enrichment.Domain != "" {
		profile.Domain = strings.ToLower(enrichment.Domain)
	}
	profile.RequiredCapabilities = appendUnique(profile.RequiredCapabilities, enrichment.Capabilities)
	profile.Keywords = appendUnique(profile.Keywords, enrichment.Keywords)

	switch enrichment.Complexity {
	case types.ComplexitySimple, types.ComplexityMedium, types.ComplexityComplex:
		profile.Complexity = enrichment.Complexity
	}
}

// identifyTaskType scores the text against each pattern family and
// returns the highest-scoring type, or general when nothing matches.
// Declaration order breaks ties.
func identifyTaskType(text string) types.TaskType {
	best := types.TaskTypeGeneral
	bestScore := 0

	for _, family := range taskPatternFamilies {
		score := 0
		for _, p := range family.patterns {
			score += len(p.FindAllStringIndex(text, -1))
		}
		if score > bestScore {
			bestScore = score
			best = family.taskType
		}
	}
	return best
}

// assessComplexity counts simple vs complex indicator terms, falling
// back to description length on a tie.
func assessComplexity(text string) types.Complexity {
	simpleScore, complexScore := 0, 0
	for _, p := range simpleIndicators {
		simpleScore += len(p.FindAllStringIndex(text, -1))
	}
	for _, p := range complexIndicators {
		complexScore += len(p.FindAllStringIndex(text, -1))
	}

	switch {
	case simpleScore > complexScore:
		return types.ComplexitySimple
	case complexScore > simpleScore:
		return types.ComplexityComplex
	}

	wordCount := len(strings.Fields(text))
	switch {
	case wordCount < simpleWordCount:
		return types.ComplexitySimple
	case wordCount > complexWordCount:
		return types.ComplexityComplex
	default:
		return types.ComplexityMedium
	}
}

// extractDomain returns the first matching domain, or general.
func extractDomain(text string) string {
	for _, entry := range domainEntries {
		for _, p := range entry.patterns {
			if p.MatchString(text) {
				return entry.domain
			}
		}
	}
	return "general"
}

// extractKeywords tokenizes, drops stop words and short tokens, and
// returns the top terms by frequency. Ties keep first-seen order.
func extractKeywords(text string) []string {
	words := wordPattern.FindAllString(text, -1)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := make([]string, 0)

	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, seen := counts[w]; !seen {
			firstSeen[w] = len(order)
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

// identifyCapabilities unions the task-type defaults with
// pattern-detected capability tags.
func identifyCapabilities(text string, taskType types.TaskType) []string {
	capabilities := append([]string(nil), taskTypeCapabilities[taskType]...)

	for _, entry := range capabilityEntries {
		for _, p := range entry.patterns {
			if p.MatchString(text) {
				capabilities = appendUnique(capabilities, []string{entry.capability})
				break
			}
		}
	}
	return capabilities
}

// calculateConfidence scores how reliable the heuristic profile is.
func calculateConfidence(text string, taskType types.TaskType) float64 {
	confidence := 0.5

	wordCount := len(strings.Fields(text))
	if wordCount >= 5 {
		confidence += 0.2
	}
	if wordCount >= 15 {
		confidence += 0.1
	}
	if taskType != types.TaskTypeGeneral {
		confidence += 0.2
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// appendUnique appends items not already present, preserving order.
func appendUnique(dst []string, items []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, d := range dst {
		seen[strings.ToLower(d)] = struct{}{}
	}
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, key)
	}
	return dst
}
