package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/types"
)

// Field weights for the in-memory relevance scorer. Tuned against the
// reference catalog; see ranker.Config for the normalization side.
var textFieldWeights = []struct {
	field  func(r *types.CapabilityRecord) string
	weight float64
}{
	{func(r *types.CapabilityRecord) string { return strings.Join(r.Tags, " ") }, 0.4},
	{func(r *types.CapabilityRecord) string { return r.Description }, 0.5},
	{func(r *types.CapabilityRecord) string { return r.Specialization }, 0.7},
	{func(r *types.CapabilityRecord) string { return r.Domain }, 0.8},
}

// MemoryStore is an in-memory capability store, safe for concurrent use.
// It is the default store for tests and small catalogs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.CapabilityRecord
	order   []string
	logger  *zap.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		records: make(map[string]types.CapabilityRecord),
		logger:  logger.With(zap.String("component", "memory_store")),
	}
}

// Upsert inserts or replaces a record keyed by agent id.
func (s *MemoryStore) Upsert(ctx context.Context, rec types.CapabilityRecord) error {
	if rec.AgentID == "" {
		return types.NewError(types.ErrInvalidRequest, "record has no agent id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.AgentID]; !exists {
		s.order = append(s.order, rec.AgentID)
	}
	s.records[rec.AgentID] = rec
	return nil
}

// ListByStructure returns records of the given structure type in
// insertion order.
func (s *MemoryStore) ListByStructure(ctx context.Context, st types.StructureType, limit int) ([]types.CapabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.CapabilityRecord, 0)
	for _, id := range s.order {
		rec := s.records[id]
		if rec.StructureType != st {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// SearchText scores records of the given structure type by weighted
// token matching across their text fields and returns them ordered by
// relevance descending. Records scoring zero are excluded.
func (s *MemoryStore) SearchText(ctx context.Context, query string, st types.StructureType, limit int) ([]types.CandidateRecord, error) {
	words := tokenizeQuery(query)
	if len(words) == 0 {
		return []types.CandidateRecord{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]types.CandidateRecord, 0)
	for _, id := range s.order {
		rec := s.records[id]
		if rec.StructureType != st {
			continue
		}
		score := relevanceScore(&rec, words)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, types.CandidateRecord{
			AgentID:       rec.AgentID,
			StructureType: st,
			NativeScore:   score,
			HasScore:      true,
			Record:        rec,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].NativeScore != candidates[j].NativeScore {
			return candidates[i].NativeScore > candidates[j].NativeScore
		}
		return candidates[i].AgentID < candidates[j].AgentID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Get returns the record for an agent, or nil if absent.
func (s *MemoryStore) Get(ctx context.Context, agentID string) (*types.CapabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[agentID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// relevanceScore sums, per weighted field, the fraction of query words
// found in the field text.
func relevanceScore(rec *types.CapabilityRecord, words []string) float64 {
	var score float64
	for _, fw := range textFieldWeights {
		text := strings.ToLower(fw.field(rec))
		if text == "" {
			continue
		}
		matched := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				matched++
			}
		}
		if matched > 0 {
			score += float64(matched) / float64(len(words)) * fw.weight
		}
	}
	return score
}

// tokenizeQuery lowercases and splits a query into alphanumeric tokens.
func tokenizeQuery(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_')
	})
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Writer = (*MemoryStore)(nil)
)
