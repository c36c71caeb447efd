package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/types"
)

func TestAnalyze_EmptyInput(t *testing.T) {
	a := New(zap.NewNop())

	for _, input := range []string{"", "   ", "\n\t"} {
		profile, err := a.Analyze(context.Background(), input)
		require.Error(t, err)
		assert.Nil(t, profile)
		assert.Equal(t, types.ErrInvalidInput, types.GetErrorCode(err))
	}
}

func TestAnalyze_TaskType(t *testing.T) {
	a := New(zap.NewNop())

	tests := []struct {
		name     string
		text     string
		taskType types.TaskType
	}{
		{"data analysis", "analyze sales data and build a dashboard with metrics", types.TaskTypeDataAnalysis},
		{"web scraping", "scrape product listings from the website and parse the html", types.TaskTypeWebScraping},
		{"automation", "automate the recurring batch workflow with a schedule", types.TaskTypeAutomation},
		{"research", "research and investigate recent studies", types.TaskTypeResearch},
		{"general fallback", "hello there friend", types.TaskTypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := a.Analyze(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.taskType, profile.TaskType)
		})
	}
}

func TestAnalyze_Complexity(t *testing.T) {
	a := New(zap.NewNop())

	tests := []struct {
		name       string
		text       string
		complexity types.Complexity
	}{
		{"explicit simple", "a simple quick lookup of one value please", types.ComplexitySimple},
		{"explicit complex", "a sophisticated multi-step enterprise integration", types.ComplexityComplex},
		{"short tie falls back to simple", "translate this sentence", types.ComplexitySimple},
		{
			"medium length tie",
			"build a service that collects customer feedback from several channels and produces weekly summaries for the team",
			types.ComplexityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := a.Analyze(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.complexity, profile.Complexity)
		})
	}
}

func TestAnalyze_Domain(t *testing.T) {
	a := New(zap.NewNop())

	tests := []struct {
		text   string
		domain string
	}{
		{"analyze banking transactions for fraud", "finance"},
		{"summarize patient records for the clinic", "healthcare"},
		{"review software architecture proposals", "technology"},
		{"plan the advertising campaign launch", "marketing"},
		{"summarize what happened yesterday", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			profile, err := a.Analyze(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.domain, profile.Domain)
		})
	}
}

func TestAnalyze_Keywords(t *testing.T) {
	a := New(zap.NewNop())

	profile, err := a.Analyze(context.Background(),
		"python python python web development with the best python tools")
	require.NoError(t, err)

	require.NotEmpty(t, profile.Keywords)
	assert.Equal(t, "python", profile.Keywords[0], "most frequent term ranks first")
	assert.NotContains(t, profile.Keywords, "the", "stop words are dropped")
	assert.LessOrEqual(t, len(profile.Keywords), 10)
	for _, kw := range profile.Keywords {
		assert.Greater(t, len(kw), 2, "short tokens are dropped")
	}
}

func TestAnalyze_RequiredCapabilities(t *testing.T) {
	a := New(zap.NewNop())

	profile, err := a.Analyze(context.Background(),
		"analyze the sql database and predict trends with a machine learning model")
	require.NoError(t, err)

	// Task-type defaults.
	assert.Contains(t, profile.RequiredCapabilities, "analytics")
	// Pattern-detected tags.
	assert.Contains(t, profile.RequiredCapabilities, "database")
	assert.Contains(t, profile.RequiredCapabilities, "machine_learning")
}

func TestAnalyze_Confidence(t *testing.T) {
	a := New(zap.NewNop())

	// Short, general text: base only.
	profile, err := a.Analyze(context.Background(), "hmm")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, profile.Confidence, 1e-9)

	// >=5 words and a recognized type: 0.5 + 0.2 + 0.2.
	profile, err = a.Analyze(context.Background(), "analyze data and report the metrics")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, profile.Confidence, 1e-9)

	// >=15 words as well: capped at 1.0.
	profile, err = a.Analyze(context.Background(),
		"analyze all the data we collected last quarter and report detailed metrics and statistics for every region and product")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, profile.Confidence, 1e-9)
}

// failingEnricher always errors.
type failingEnricher struct{ err error }

func (f *failingEnricher) Enrich(ctx context.Context, task string) (*Enrichment, error) {
	return nil, f.err
}

// staticEnricher returns a fixed enrichment.
type staticEnricher struct{ enrichment *Enrichment }

func (s *staticEnricher) Enrich(ctx context.Context, task string) (*Enrichment, error) {
	return s.enrichment, nil
}

func TestAnalyze_EnrichmentFailureIgnored(t *testing.T) {
	a := New(zap.NewNop(), WithEnricher(&failingEnricher{err: errors.New("credentials missing")}))

	profile, err := a.Analyze(context.Background(), "analyze data and report metrics")
	require.NoError(t, err, "enrichment failure must never surface")
	require.NotNil(t, profile)
	assert.Equal(t, types.TaskTypeDataAnalysis, profile.TaskType)
}

func TestAnalyze_EnrichmentApplied(t *testing.T) {
	a := New(zap.NewNop(), WithEnricher(&staticEnricher{enrichment: &Enrichment{
		Domain:       "Finance",
		Capabilities: []string{"portfolio_analysis", "analytics"},
		Keywords:     []string{"etf", "data"},
		Complexity:   types.ComplexityComplex,
	}}))

	profile, err := a.Analyze(context.Background(), "analyze data and report metrics")
	require.NoError(t, err)

	assert.Equal(t, "finance", profile.Domain, "enrichment domain overrides heuristic")
	assert.Equal(t, types.ComplexityComplex, profile.Complexity)
	assert.Contains(t, profile.RequiredCapabilities, "portfolio_analysis")
	assert.Contains(t, profile.Keywords, "etf")

	// Duplicates from enrichment are not appended twice.
	count := 0
	for _, c := range profile.RequiredCapabilities {
		if c == "analytics" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
