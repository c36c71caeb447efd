package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/types"
)

// TextAdapter delegates to the capability store's native full-text
// relevance search over description-structured records. The native
// score scale belongs to the store.
type TextAdapter struct {
	store  catalog.Store
	logger *zap.Logger
}

// NewTextAdapter creates a description search adapter.
func NewTextAdapter(store catalog.Store, logger *zap.Logger) *TextAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextAdapter{
		store:  store,
		logger: logger.With(zap.String("component", "text_search")),
	}
}

// StructureType implements Adapter.
func (a *TextAdapter) StructureType() types.StructureType {
	return types.StructureDescription
}

// Search runs the store's relevance search. Zero-relevance records are
// already excluded by the store contract.
func (a *TextAdapter) Search(ctx context.Context, query string, limit int) ([]types.CandidateRecord, error) {
	return a.store.SearchText(ctx, query, types.StructureDescription, limit)
}

var _ Adapter = (*TextAdapter)(nil)
