package ranker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/types"
)

// relatedDomains maps each main domain to the domains considered close
// to it. Two entries of the same family score 0.8; a family member
// against its main domain scores 0.9.
var relatedDomains = map[string][]string{
	"technology": {"software", "it", "programming", "tech"},
	"finance":    {"banking", "trading", "accounting", "fintech"},
	"healthcare": {"medical", "clinical", "pharmaceutical"},
	"marketing":  {"advertising", "sales", "promotion"},
	"education":  {"learning", "training", "academic"},
}

// Ranker scores candidates against a task profile. It holds no mutable
// state; Rank is a pure function of its inputs and the config.
type Ranker struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a ranker with the given constants.
func New(cfg Config, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "agent_ranker")),
	}
}

// Rank scores every candidate and returns them ordered by combined
// score descending. Equal scores order by agent id so the ranking is
// deterministic. perf may be nil.
func (r *Ranker) Rank(candidates []types.CandidateRecord, profile *types.TaskProfile,
	perf map[string]types.PerformanceMetrics) []types.AgentScore {

	scores := make([]types.AgentScore, 0, len(candidates))
	for i := range candidates {
		scores = append(scores, r.scoreAgent(&candidates[i], profile, perf))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].AgentID < scores[j].AgentID
	})
	return scores
}

// Top filters ranked scores by the thresholds and truncates to limit.
// limit <= 0 means no truncation; negative thresholds fall back to the
// configured defaults.
func (r *Ranker) Top(scores []types.AgentScore, limit int, minScore, minConfidence float64) []types.AgentScore {
	if minScore < 0 {
		minScore = r.cfg.MinScore
	}
	if minConfidence < 0 {
		minConfidence = r.cfg.MinConfidence
	}

	out := make([]types.AgentScore, 0, len(scores))
	for _, s := range scores {
		if s.Score < minScore || s.Confidence < minConfidence {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// NormalizeNative maps a native search score onto [0,1] for its
// structure type. Scales are never compared without passing through
// here first.
func (r *Ranker) NormalizeNative(st types.StructureType, native float64) float64 {
	switch st {
	case types.StructureEmbedding:
		// Cosine similarity is already on [0,1]; clamp drift.
		if native < 0 {
			return 0
		}
		if native > 1 {
			return 1
		}
		return native

	case types.StructureKeywords, types.StructureDescription:
		if native <= 0 {
			return 0
		}
		if native >= r.cfg.KeywordScoreCeiling {
			return r.cfg.KeywordScoreCap
		}
		return native / r.cfg.KeywordScoreCeiling * r.cfg.KeywordScoreCap

	default:
		// Conservative scale for scores of unknown provenance.
		if native <= 0 {
			return 0
		}
		normalized := native / 5.0
		if normalized > 0.8 {
			return 0.8
		}
		return normalized
	}
}

func (r *Ranker) scoreAgent(cand *types.CandidateRecord, profile *types.TaskProfile,
	perf map[string]types.PerformanceMetrics) types.AgentScore {

	rec := &cand.Record
	reasons := make([]string, 0, 4)

	var capabilityScore float64
	if cand.HasScore {
		capabilityScore = r.NormalizeNative(cand.StructureType, cand.NativeScore)
		reasons = append(reasons, normalizationReason(cand.StructureType, cand.NativeScore, capabilityScore))
	} else {
		capabilityScore = r.scoreCapabilities(rec, profile, &reasons)
	}

	domainScore := r.scoreDomain(rec, profile, &reasons)
	keywordScore := r.scoreKeywords(rec, profile, &reasons)
	performanceScore := scorePerformance(rec.AgentID, perf)
	availabilityScore := scoreAvailability(rec)
	loadScore := 1.0 - rec.CurrentLoad

	w := r.cfg.Weights
	total := capabilityScore*w.Capability +
		domainScore*w.Domain +
		keywordScore*w.Keyword +
		performanceScore*w.Performance +
		availabilityScore*w.Availability +
		loadScore*w.Load

	breakdown := map[string]float64{
		"capability_score":   capabilityScore,
		"domain_score":       domainScore,
		"keyword_score":      keywordScore,
		"performance_score":  performanceScore,
		"availability_score": availabilityScore,
		"load_score":         loadScore,
	}
	if cand.HasScore {
		breakdown["native_score"] = cand.NativeScore
	}

	return types.AgentScore{
		AgentID:      rec.AgentID,
		Score:        total,
		Confidence:   confidence(rec, profile),
		MatchReasons: reasons,
		Breakdown:    breakdown,
	}
}

func normalizationReason(st types.StructureType, native, normalized float64) string {
	switch st {
	case types.StructureEmbedding:
		return fmt.Sprintf("Cosine similarity: %.3f", native)
	case types.StructureKeywords:
		return fmt.Sprintf("Keyword matches: %.2f -> %.2f", native, normalized)
	case types.StructureDescription:
		return fmt.Sprintf("Text similarity: %.2f -> %.2f", native, normalized)
	default:
		return fmt.Sprintf("Registry score: %.2f -> %.2f", native, normalized)
	}
}

// scoreCapabilities is the fallback capability score for candidates that
// arrive without a native score. Task terms (keywords plus required
// capabilities) are matched against the record's tags, specialization,
// and description by substring in either direction; the match ratio then
// maps onto the configured bands.
func (r *Ranker) scoreCapabilities(rec *types.CapabilityRecord, profile *types.TaskProfile,
	reasons *[]string) float64 {

	taskTerms := make(map[string]struct{})
	for _, kw := range profile.Keywords {
		taskTerms[strings.ToLower(kw)] = struct{}{}
	}
	for _, rc := range profile.RequiredCapabilities {
		taskTerms[strings.ToLower(rc)] = struct{}{}
	}
	if len(taskTerms) == 0 {
		return 0.5
	}

	specialization := strings.ToLower(rec.Specialization)
	description := strings.ToLower(rec.Description)

	matched := make([]string, 0)
	for term := range taskTerms {
		hit := false
		for _, tag := range rec.Tags {
			tagLower := strings.ToLower(tag)
			if strings.Contains(tagLower, term) || strings.Contains(term, tagLower) {
				hit = true
				break
			}
		}
		if !hit && (strings.Contains(specialization, term) || strings.Contains(description, term)) {
			hit = true
		}
		if hit {
			matched = append(matched, term)
		}
	}

	if len(matched) > 0 {
		sort.Strings(matched)
		*reasons = append(*reasons, "Matching capabilities: "+strings.Join(matched, ", "))
	}

	ratio := float64(len(matched)) / float64(len(taskTerms))
	switch {
	case ratio >= r.cfg.HighBand:
		score := r.cfg.HighBand + (ratio-r.cfg.HighBand)*2
		if score > 1 {
			score = 1
		}
		return score
	case ratio >= r.cfg.MediumBand:
		return r.cfg.MediumBand + (ratio - r.cfg.MediumBand)
	case ratio >= r.cfg.LowBand:
		return r.cfg.LowBand + (ratio - r.cfg.LowBand)
	default:
		return ratio
	}
}

func (r *Ranker) scoreDomain(rec *types.CapabilityRecord, profile *types.TaskProfile,
	reasons *[]string) float64 {

	taskDomain := strings.ToLower(profile.Domain)
	agentDomain := strings.ToLower(rec.Domain)

	if taskDomain == "" || taskDomain == "general" {
		return 0.7
	}
	if agentDomain == "" || agentDomain == "general" {
		return 0.5
	}
	if agentDomain == taskDomain {
		*reasons = append(*reasons, "Domain expertise: "+taskDomain)
		return 1.0
	}

	similarity := domainSimilarity(agentDomain, taskDomain)
	if similarity > 0.5 {
		*reasons = append(*reasons, "Related domain: "+agentDomain)
	}
	return similarity
}

func domainSimilarity(a, b string) float64 {
	for main, related := range relatedDomains {
		inA, inB := contains(related, a), contains(related, b)
		if inA && inB {
			return 0.8
		}
		if (a == main && inB) || (b == main && inA) {
			return 0.9
		}
	}
	return 0.2
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *Ranker) scoreKeywords(rec *types.CapabilityRecord, profile *types.TaskProfile,
	reasons *[]string) float64 {

	if len(profile.Keywords) == 0 {
		return 0.7
	}

	tagSet := make(map[string]struct{}, len(rec.Tags))
	for _, tag := range rec.Tags {
		tagSet[strings.ToLower(tag)] = struct{}{}
	}
	description := strings.ToLower(rec.Description)

	matched := make([]string, 0)
	for _, kw := range profile.Keywords {
		kwLower := strings.ToLower(kw)
		if _, ok := tagSet[kwLower]; ok {
			matched = append(matched, kwLower)
			continue
		}
		if strings.Contains(description, kwLower) {
			matched = append(matched, kwLower)
		}
	}

	if len(matched) > 0 {
		*reasons = append(*reasons, "Keyword matches: "+strings.Join(matched, ", "))
	}

	ratio := float64(len(matched)) / float64(len(profile.Keywords))
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// scorePerformance combines success rate, response time, and
// reliability. Agents without history get a neutral 0.7.
func scorePerformance(agentID string, perf map[string]types.PerformanceMetrics) float64 {
	if perf == nil {
		return 0.7
	}
	m, ok := perf[agentID]
	if !ok {
		return 0.7
	}

	successRate := m.SuccessRate
	if successRate == 0 {
		successRate = 0.7
	}
	reliability := m.Reliability
	if reliability == 0 {
		reliability = 0.7
	}
	responseTime := m.AvgResponseTime
	if responseTime == 0 {
		responseTime = 5 * time.Second
	}

	// Response time normalizes against a 30s budget, lower is better.
	timeScore := 1.0 - responseTime.Seconds()/30.0
	if timeScore < 0 {
		timeScore = 0
	}

	score := successRate*0.5 + timeScore*0.3 + reliability*0.2
	if score > 1 {
		score = 1
	}
	return score
}

// scoreAvailability maps explicit status to a score, falling back to
// last-seen recency, then to a neutral 0.5.
func scoreAvailability(rec *types.CapabilityRecord) float64 {
	switch strings.ToLower(rec.Status) {
	case "offline":
		return 0.0
	case "busy":
		return 0.3
	case "available", "online":
		return 1.0
	}

	if !rec.LastSeen.IsZero() {
		age := time.Since(rec.LastSeen)
		switch {
		case age < 5*time.Minute:
			return 1.0
		case age < time.Hour:
			return 0.8
		case age < 24*time.Hour:
			return 0.5
		default:
			return 0.2
		}
	}
	return 0.5
}

// confidence estimates how trustworthy the score is from the record's
// metadata completeness, scaled by the profile's own confidence.
func confidence(rec *types.CapabilityRecord, profile *types.TaskProfile) float64 {
	c := 0.5
	if len(rec.Tags) > 0 || len(rec.Vector) > 0 {
		c += 0.2
	}
	if rec.Description != "" {
		c += 0.1
	}
	if rec.Domain != "" {
		c += 0.1
	}
	if !rec.LastSeen.IsZero() {
		c += 0.05
	}
	if rec.Status != "" {
		c += 0.05
	}

	c *= profile.Confidence
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// Explain renders a human-readable breakdown of one ranked agent.
func Explain(score types.AgentScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall score: %.2f (confidence: %.2f)\n", score.Score, score.Confidence)

	if len(score.MatchReasons) > 0 {
		b.WriteString("Match reasons:\n")
		for _, reason := range score.MatchReasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	}

	b.WriteString("Score breakdown:\n")
	fmt.Fprintf(&b, "  - Capability match: %.2f\n", score.Breakdown["capability_score"])
	fmt.Fprintf(&b, "  - Domain expertise: %.2f\n", score.Breakdown["domain_score"])
	fmt.Fprintf(&b, "  - Keyword relevance: %.2f\n", score.Breakdown["keyword_score"])
	fmt.Fprintf(&b, "  - Performance: %.2f\n", score.Breakdown["performance_score"])
	fmt.Fprintf(&b, "  - Availability: %.2f\n", score.Breakdown["availability_score"])
	fmt.Fprintf(&b, "  - Load: %.2f", score.Breakdown["load_score"])

	return b.String()
}
