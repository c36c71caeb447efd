package search

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/embedding"
	"github.com/BaSui01/agentscout/types"
)

// VectorAdapter embeds the query and ranks embedding-structured records
// by cosine similarity. When no embedding provider can serve the query,
// it degrades to the store's text search over the same records, tagging
// the results as description-scored so normalization treats them as
// text relevance rather than similarity.
type VectorAdapter struct {
	store  catalog.Store
	chain  *embedding.Chain
	logger *zap.Logger
}

// NewVectorAdapter creates an embedding search adapter.
func NewVectorAdapter(store catalog.Store, chain *embedding.Chain, logger *zap.Logger) *VectorAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VectorAdapter{
		store:  store,
		chain:  chain,
		logger: logger.With(zap.String("component", "vector_search")),
	}
}

// StructureType implements Adapter.
func (a *VectorAdapter) StructureType() types.StructureType {
	return types.StructureEmbedding
}

// Search embeds the query and scores each stored vector by cosine
// similarity clamped to [0,1]. Records whose stored dimension does not
// match the query vector score zero and sort to the bottom.
func (a *VectorAdapter) Search(ctx context.Context, query string, limit int) ([]types.CandidateRecord, error) {
	queryVec, err := a.chain.EmbedQuery(ctx, query)
	if err != nil {
		if types.GetErrorCode(err) == types.ErrNoEmbedderAvailable {
			a.logger.Warn("no embedding provider available, degrading to text search",
				zap.Error(err))
			return a.degradedSearch(ctx, query, limit)
		}
		return nil, err
	}

	records, err := a.store.ListByStructure(ctx, types.StructureEmbedding, 0)
	if err != nil {
		return nil, err
	}

	candidates := make([]types.CandidateRecord, 0, len(records))
	for _, rec := range records {
		score := cosineSimilarity(queryVec, rec.Vector)
		candidates = append(candidates, types.CandidateRecord{
			AgentID:       rec.AgentID,
			StructureType: types.StructureEmbedding,
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

// degradedSearch falls back to store text relevance over the embedding
// slice. Candidates carry the description structure type so their
// native scores normalize on the text scale.
func (a *VectorAdapter) degradedSearch(ctx context.Context, query string, limit int) ([]types.CandidateRecord, error) {
	candidates, err := a.store.SearchText(ctx, query, types.StructureEmbedding, limit)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].StructureType = types.StructureDescription
	}
	return candidates, nil
}

// cosineSimilarity returns the cosine of the angle between a and b,
// clamped to [0,1]. Mismatched dimensions and zero-magnitude vectors
// score zero.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

var _ Adapter = (*VectorAdapter)(nil)
