package catalog

import (
	"context"

	"github.com/BaSui01/agentscout/types"
)

// Store is the capability store query contract. Records are read-only to
// the engine; ownership stays with the store.
type Store interface {
	// ListByStructure returns records of the given structure type.
	// limit <= 0 means no limit.
	ListByStructure(ctx context.Context, st types.StructureType, limit int) ([]types.CapabilityRecord, error)

	// SearchText runs the store's native full-text relevance search over
	// records of the given structure type. Results are ordered by
	// relevance descending; the native score scale is store-specific.
	SearchText(ctx context.Context, query string, st types.StructureType, limit int) ([]types.CandidateRecord, error)

	// Get returns the record for a single agent, or nil if absent.
	Get(ctx context.Context, agentID string) (*types.CapabilityRecord, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)
}

// Writer is an optional interface for stores that accept catalog updates.
// The discovery engine never writes; loaders and tests do.
type Writer interface {
	Upsert(ctx context.Context, rec types.CapabilityRecord) error
}
