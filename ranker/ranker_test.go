package ranker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/agentscout/types"
)

func testProfile() *types.TaskProfile {
	return &types.TaskProfile{
		TaskType:             types.TaskTypeCodeGeneration,
		Complexity:           types.ComplexityMedium,
		Domain:               "technology",
		Keywords:             []string{"python", "web", "development"},
		RequiredCapabilities: []string{"programming"},
		Confidence:           1.0,
	}
}

func TestNormalizeNative(t *testing.T) {
	r := New(DefaultConfig(), nil)

	tests := []struct {
		name   string
		st     types.StructureType
		native float64
		want   float64
	}{
		{"embedding in range", types.StructureEmbedding, 0.73, 0.73},
		{"embedding clamps low", types.StructureEmbedding, -0.2, 0},
		{"embedding clamps high", types.StructureEmbedding, 1.4, 1},
		{"keywords zero", types.StructureKeywords, 0, 0},
		{"keywords negative", types.StructureKeywords, -3, 0},
		{"keywords mid scale", types.StructureKeywords, 2, 0.475},
		{"keywords saturates", types.StructureKeywords, 4, 0.95},
		{"keywords above ceiling", types.StructureKeywords, 17, 0.95},
		{"description mid scale", types.StructureDescription, 1, 0.2375},
		{"unknown conservative", types.StructureType("legacy"), 2.5, 0.5},
		{"unknown caps at 0.8", types.StructureType("legacy"), 100, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.NormalizeNative(tt.st, tt.native), 1e-9)
		})
	}
}

func TestRank_NativeScoresNormalizedBeforeComparison(t *testing.T) {
	r := New(DefaultConfig(), nil)

	// A raw keyword count of 3 would beat a 0.9 cosine if scales were
	// compared directly; normalization must invert that.
	candidates := []types.CandidateRecord{
		{
			AgentID:       "keyword-agent",
			StructureType: types.StructureKeywords,
			NativeScore:   3,
			HasScore:      true,
			Record:        types.CapabilityRecord{AgentID: "keyword-agent"},
		},
		{
			AgentID:       "embedding-agent",
			StructureType: types.StructureEmbedding,
			NativeScore:   0.9,
			HasScore:      true,
			Record:        types.CapabilityRecord{AgentID: "embedding-agent"},
		},
	}

	scores := r.Rank(candidates, testProfile(), nil)
	require.Len(t, scores, 2)
	assert.Equal(t, "embedding-agent", scores[0].AgentID)
	assert.InDelta(t, 0.9, scores[0].Score, 1e-9)
	assert.InDelta(t, 3.0/4.0*0.95, scores[1].Score, 1e-9)
}

func TestRank_DeterministicTieBreak(t *testing.T) {
	r := New(DefaultConfig(), nil)

	candidates := []types.CandidateRecord{
		{AgentID: "bravo", StructureType: types.StructureEmbedding, NativeScore: 0.8, HasScore: true,
			Record: types.CapabilityRecord{AgentID: "bravo"}},
		{AgentID: "alpha", StructureType: types.StructureEmbedding, NativeScore: 0.8, HasScore: true,
			Record: types.CapabilityRecord{AgentID: "alpha"}},
	}

	scores := r.Rank(candidates, testProfile(), nil)
	require.Len(t, scores, 2)
	assert.Equal(t, "alpha", scores[0].AgentID)
	assert.Equal(t, "bravo", scores[1].AgentID)
}

func TestRank_FallbackCapabilityBands(t *testing.T) {
	r := New(DefaultConfig(), nil)
	profile := testProfile() // four task terms

	tests := []struct {
		name string
		rec  types.CapabilityRecord
		want float64
	}{
		{
			"full match lands in top band",
			types.CapabilityRecord{AgentID: "a", Tags: []string{"python", "web", "development", "programming"}},
			1.0,
		},
		{
			"half match lands in middle band",
			types.CapabilityRecord{AgentID: "a", Tags: []string{"python", "web"}},
			0.5,
		},
		{
			"quarter match lands in low band",
			types.CapabilityRecord{AgentID: "a", Tags: []string{"python"}},
			0.25,
		},
		{
			"no match scores zero",
			types.CapabilityRecord{AgentID: "a", Tags: []string{"haskell"}},
			0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := r.Rank([]types.CandidateRecord{{AgentID: "a", Record: tt.rec}}, profile, nil)
			require.Len(t, scores, 1)
			assert.InDelta(t, tt.want, scores[0].Score, 1e-9)
		})
	}
}

func TestRank_NeutralWithoutTaskTerms(t *testing.T) {
	r := New(DefaultConfig(), nil)
	profile := &types.TaskProfile{TaskType: types.TaskTypeGeneral, Domain: "general", Confidence: 1.0}

	scores := r.Rank([]types.CandidateRecord{{
		AgentID: "a",
		Record:  types.CapabilityRecord{AgentID: "a", Tags: []string{"anything"}},
	}}, profile, nil)

	require.Len(t, scores, 1)
	assert.InDelta(t, 0.5, scores[0].Score, 1e-9)
}

func TestRank_MatchReasons(t *testing.T) {
	r := New(DefaultConfig(), nil)

	scores := r.Rank([]types.CandidateRecord{{
		AgentID:       "python-expert",
		StructureType: types.StructureKeywords,
		NativeScore:   3,
		HasScore:      true,
		Record: types.CapabilityRecord{
			AgentID: "python-expert",
			Domain:  "technology",
			Tags:    []string{"python", "web"},
		},
	}}, testProfile(), nil)

	require.Len(t, scores, 1)
	require.NotEmpty(t, scores[0].MatchReasons)
	assert.Contains(t, scores[0].MatchReasons[0], "Keyword matches")
	assert.Contains(t, scores[0].MatchReasons, "Domain expertise: technology")
}

func TestRank_Breakdown(t *testing.T) {
	r := New(DefaultConfig(), nil)

	perf := map[string]types.PerformanceMetrics{
		"agent": {SuccessRate: 1.0, AvgResponseTime: 3 * time.Second, Reliability: 1.0},
	}

	scores := r.Rank([]types.CandidateRecord{{
		AgentID:       "agent",
		StructureType: types.StructureEmbedding,
		NativeScore:   0.6,
		HasScore:      true,
		Record: types.CapabilityRecord{
			AgentID:     "agent",
			Domain:      "technology",
			Status:      "available",
			CurrentLoad: 0.25,
		},
	}}, testProfile(), perf)

	require.Len(t, scores, 1)
	b := scores[0].Breakdown

	assert.InDelta(t, 0.6, b["capability_score"], 1e-9)
	assert.InDelta(t, 0.6, b["native_score"], 1e-9)
	assert.InDelta(t, 1.0, b["domain_score"], 1e-9)
	assert.InDelta(t, 1.0, b["availability_score"], 1e-9)
	assert.InDelta(t, 0.75, b["load_score"], 1e-9)
	// 1.0*0.5 + (1 - 3/30)*0.3 + 1.0*0.2
	assert.InDelta(t, 0.97, b["performance_score"], 1e-9)

	// Default weights make only capability contribute.
	assert.InDelta(t, 0.6, scores[0].Score, 1e-9)
}

func TestRank_PartialRecordsNeverError(t *testing.T) {
	r := New(DefaultConfig(), nil)

	scores := r.Rank([]types.CandidateRecord{
		{AgentID: "bare", Record: types.CapabilityRecord{AgentID: "bare"}},
	}, testProfile(), nil)

	require.Len(t, scores, 1)
	assert.InDelta(t, 0.7, scores[0].Breakdown["performance_score"], 1e-9)
	assert.InDelta(t, 0.5, scores[0].Breakdown["availability_score"], 1e-9)
}

func TestConfidence(t *testing.T) {
	r := New(DefaultConfig(), nil)
	profile := testProfile()

	full := types.CapabilityRecord{
		AgentID:     "full",
		Tags:        []string{"python"},
		Description: "does things",
		Domain:      "technology",
		Status:      "available",
		LastSeen:    time.Now(),
	}
	bare := types.CapabilityRecord{AgentID: "bare"}

	scores := r.Rank([]types.CandidateRecord{
		{AgentID: "full", Record: full},
		{AgentID: "bare", Record: bare},
	}, profile, nil)

	byID := map[string]types.AgentScore{}
	for _, s := range scores {
		byID[s.AgentID] = s
	}

	assert.InDelta(t, 1.0, byID["full"].Confidence, 1e-9)
	assert.InDelta(t, 0.5, byID["bare"].Confidence, 1e-9)

	// Profile confidence scales agent confidence down.
	profile.Confidence = 0.5
	scores = r.Rank([]types.CandidateRecord{{AgentID: "full", Record: full}}, profile, nil)
	assert.InDelta(t, 0.5, scores[0].Confidence, 1e-9)
}

func TestTop(t *testing.T) {
	r := New(DefaultConfig(), nil)

	scores := []types.AgentScore{
		{AgentID: "first", Score: 0.9, Confidence: 0.9},
		{AgentID: "second", Score: 0.6, Confidence: 0.9},
		{AgentID: "low-confidence", Score: 0.8, Confidence: 0.1},
		{AgentID: "low-score", Score: 0.1, Confidence: 0.9},
	}

	top := r.Top(scores, 5, -1, -1)
	require.Len(t, top, 2, "defaults filter by min score 0.3 and min confidence 0.3")
	assert.Equal(t, "first", top[0].AgentID)
	assert.Equal(t, "second", top[1].AgentID)

	top = r.Top(scores, 1, -1, -1)
	require.Len(t, top, 1)
	assert.Equal(t, "first", top[0].AgentID)

	top = r.Top(scores, 0, 0, 0)
	assert.Len(t, top, 4, "zero thresholds and no limit keep everything")
}

func TestExplain(t *testing.T) {
	out := Explain(types.AgentScore{
		AgentID:      "agent",
		Score:        0.83,
		Confidence:   0.9,
		MatchReasons: []string{"Domain expertise: finance"},
		Breakdown: map[string]float64{
			"capability_score": 0.83,
			"domain_score":     1.0,
		},
	})

	assert.Contains(t, out, "Overall score: 0.83 (confidence: 0.90)")
	assert.Contains(t, out, "  - Domain expertise: finance")
	assert.Contains(t, out, "Capability match: 0.83")
	assert.Contains(t, out, "Load: 0.00")
}
