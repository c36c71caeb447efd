package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/config"
)

func TestBuildChain_HashKeepsPreferencePosition(t *testing.T) {
	cfg := config.DefaultConfig().Embedding
	cfg.PreferenceOrder = []string{"hash", "openai"}
	cfg.OpenAI.APIKey = "test-key"

	chain := buildChain(cfg, zap.NewNop())

	statuses := chain.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "hash-embedding", statuses[0].Name)
	assert.Equal(t, "openai-embedding", statuses[1].Name)
}

func TestBuildChain_ExplicitHashNotDuplicated(t *testing.T) {
	cfg := config.DefaultConfig().Embedding
	cfg.PreferenceOrder = []string{"hash"}
	cfg.HashFallback = true

	chain := buildChain(cfg, zap.NewNop())

	statuses := chain.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, "hash-embedding", statuses[0].Name)
}

func TestBuildChain_DefaultOrderAppendsHashFallback(t *testing.T) {
	cfg := config.DefaultConfig().Embedding
	cfg.OpenAI.APIKey = "test-key"
	cfg.Voyage.APIKey = "test-key"
	cfg.HashDimension = 128

	chain := buildChain(cfg, zap.NewNop())

	statuses := chain.Statuses()
	require.Len(t, statuses, 3)
	assert.Equal(t, "openai-embedding", statuses[0].Name)
	assert.Equal(t, "voyage-embedding", statuses[1].Name)
	assert.Equal(t, "hash-embedding", statuses[2].Name)
	assert.Equal(t, 128, statuses[2].Dimension)
}
