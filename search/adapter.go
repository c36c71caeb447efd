package search

import (
	"context"

	"github.com/BaSui01/agentscout/types"
)

// Adapter is one search strategy over a single structure type.
type Adapter interface {
	// Search returns candidates matching the query, best first. A zero
	// match is excluded, not scored. limit <= 0 means no limit.
	Search(ctx context.Context, query string, limit int) ([]types.CandidateRecord, error)

	// StructureType identifies which catalog slice this adapter covers.
	StructureType() types.StructureType
}
