package analyzer

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func TestAnalyze_Properties(t *testing.T) {
	a := New(zap.NewNop())
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	nonEmptyText := gen.RegexMatch(`[a-z]{1,12}( [a-z]{1,12}){0,30}`)

	properties.Property("confidence stays within [0,1]", prop.ForAll(
		func(text string) bool {
			profile, err := a.Analyze(ctx, text)
			if err != nil {
				return false
			}
			return profile.Confidence >= 0 && profile.Confidence <= 1
		},
		nonEmptyText,
	))

	properties.Property("at most ten keywords, each longer than two runes", prop.ForAll(
		func(text string) bool {
			profile, err := a.Analyze(ctx, text)
			if err != nil {
				return false
			}
			if len(profile.Keywords) > 10 {
				return false
			}
			for _, kw := range profile.Keywords {
				if len(kw) <= 2 {
					return false
				}
			}
			return true
		},
		nonEmptyText,
	))

	properties.Property("analysis is deterministic", prop.ForAll(
		func(text string) bool {
			first, err := a.Analyze(ctx, text)
			if err != nil {
				return false
			}
			second, err := a.Analyze(ctx, text)
			if err != nil {
				return false
			}
			if first.TaskType != second.TaskType ||
				first.Complexity != second.Complexity ||
				first.Domain != second.Domain ||
				first.Confidence != second.Confidence {
				return false
			}
			if len(first.Keywords) != len(second.Keywords) {
				return false
			}
			for i := range first.Keywords {
				if first.Keywords[i] != second.Keywords[i] {
					return false
				}
			}
			return true
		},
		nonEmptyText,
	))

	properties.TestingRun(t)
}
