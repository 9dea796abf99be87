//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyChunkRepository(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(ctx, t)
	repo := NewPolicyChunkRepository(pool)

	first := []domain.PolicyChunk{
		{Source: "notice_US.txt", Region: "US", ChunkIndex: 0, Content: "Two weeks.", Embedding: []float32{1, 0, 0}},
		{Source: "conduct.txt", Region: "", ChunkIndex: 0, Content: "Be kind.", Embedding: []float32{0, 1, 0}},
	}
	require.NoError(t, repo.ReplaceAll(ctx, first))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "conduct.txt", loaded[0].Source)
	assert.Equal(t, domain.RegionGeneral, loaded[0].Region)
	assert.Equal(t, []float32{0, 1, 0}, loaded[0].Embedding)

	second := []domain.PolicyChunk{
		{Source: "notice_India.txt", Region: "India", ChunkIndex: 0, Content: "Sixty days.", Embedding: []float32{0, 0, 1}},
	}
	require.NoError(t, repo.ReplaceAll(ctx, second))

	loaded, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "notice_India.txt", loaded[0].Source)

	dup := []domain.PolicyChunk{
		{Source: "a.txt", ChunkIndex: 0, Content: "x", Embedding: []float32{1}},
		{Source: "a.txt", ChunkIndex: 0, Content: "y", Embedding: []float32{1}},
	}
	require.Error(t, repo.ReplaceAll(ctx, dup))

	loaded, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1, "failed replace must keep the previous index")
}
