package search

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/types"
)

// KeywordAdapter matches query terms against keyword-structured records.
// The native score is the raw count of query terms present in the
// record's tag list.
type KeywordAdapter struct {
	store  catalog.Store
	logger *zap.Logger
}

// NewKeywordAdapter creates a keyword search adapter.
func NewKeywordAdapter(store catalog.Store, logger *zap.Logger) *KeywordAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordAdapter{
		store:  store,
		logger: logger.With(zap.String("component", "keyword_search")),
	}
}

// StructureType implements Adapter.
func (a *KeywordAdapter) StructureType() types.StructureType {
	return types.StructureKeywords
}

// Search intersects the query terms with each record's tags. Records
// with no overlap are excluded. Equal scores order by experience
// descending, then agent id.
func (a *KeywordAdapter) Search(ctx context.Context, query string, limit int) ([]types.CandidateRecord, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	records, err := a.store.ListByStructure(ctx, types.StructureKeywords, 0)
	if err != nil {
		return nil, err
	}

	candidates := make([]types.CandidateRecord, 0, len(records))
	for _, rec := range records {
		matched := countTagMatches(terms, rec.Tags)
		if matched == 0 {
			continue
		}
		candidates = append(candidates, types.CandidateRecord{
			AgentID:       rec.AgentID,
			StructureType: types.StructureKeywords,
			NativeScore:   float64(matched),
			HasScore:      true,
			Record:        rec,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].NativeScore != candidates[j].NativeScore {
			return candidates[i].NativeScore > candidates[j].NativeScore
		}
		if candidates[i].Record.Experience != candidates[j].Record.Experience {
			return candidates[i].Record.Experience > candidates[j].Record.Experience
		}
		return candidates[i].AgentID < candidates[j].AgentID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// countTagMatches counts distinct query terms present in the tag set,
// case-insensitively.
func countTagMatches(terms []string, tags []string) int {
	if len(tags) == 0 {
		return 0
	}
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	matched := 0
	for _, term := range terms {
		if _, ok := tagSet[term]; ok {
			matched++
		}
	}
	return matched
}

// tokenize lowercases and splits on non-alphanumeric runs, dropping
// duplicates while preserving order.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

var _ Adapter = (*KeywordAdapter)(nil)
