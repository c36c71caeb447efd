package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/types"
)

func TestTextAdapter_Search(t *testing.T) {
	store := catalog.NewMemoryStore(nil)
	ctx := context.Background()

	records := []types.CapabilityRecord{
		{
			AgentID:        "data-scientist",
			StructureType:  types.StructureDescription,
			Description:    "experienced in statistical analysis and data visualization",
			Specialization: "data analysis",
		},
		{
			AgentID:       "copywriter",
			StructureType: types.StructureDescription,
			Description:   "writes marketing copy and slogans",
		},
		{
			AgentID:       "tagged-agent",
			StructureType: types.StructureKeywords,
			Tags:          []string{"data", "analysis"},
		},
	}
	for _, rec := range records {
		require.NoError(t, store.Upsert(ctx, rec))
	}

	adapter := NewTextAdapter(store, nil)
	assert.Equal(t, types.StructureDescription, adapter.StructureType())

	candidates, err := adapter.Search(ctx, "data analysis", 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "only description records participate")
	assert.Equal(t, "data-scientist", candidates[0].AgentID)
	assert.Equal(t, types.StructureDescription, candidates[0].StructureType)
	assert.True(t, candidates[0].HasScore)
	assert.Greater(t, candidates[0].NativeScore, 0.0)
}
