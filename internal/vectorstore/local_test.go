package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-generator/internal/apperr"
	"course-generator/internal/models"
)

func testChunks() []models.ChunkEmbedding {
	return []models.ChunkEmbedding{
		{Content: "alpha", Embedding: []float32{1, 0, 0}, SourceFilename: "doc.pdf", PageNumber: 1, ChunkID: 1},
		{Content: "beta", Embedding: []float32{0, 1, 0}, SourceFilename: "doc.pdf", PageNumber: 2, ChunkID: 2},
		{Content: "gamma", Embedding: []float32{0, 0, 1}, SourceFilename: "doc.pdf", PageNumber: 3, ChunkID: 3},
	}
}

func TestLocalStoreLoadBeforeBuild(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "index"), "chunks")
	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index")

	store := NewLocalStore(path, "chunks")
	require.NoError(t, store.Build(ctx, testChunks()))

	// a fresh store handle must see the persisted snapshot
	reopened := NewLocalStore(path, "chunks")
	ix, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Count())

	results, err := ix.Query(ctx, []float32{0, 1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// querying with a stored chunk's own embedding returns that chunk first
	assert.Equal(t, "beta", results[0].Content)
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-4)
	assert.Equal(t, "2", results[0].Metadata["page"])
	assert.Equal(t, "doc.pdf", results[0].Metadata["source"])

	// similarities never increase down the result list
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
}

func TestLocalStoreQueryMoreThanStored(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(filepath.Join(t.TempDir(), "index"), "chunks")
	require.NoError(t, store.Build(ctx, testChunks()))

	ix, err := store.Load(ctx)
	require.NoError(t, err)

	results, err := ix.Query(ctx, []float32{1, 0, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, "alpha", results[0].Content)
}

func TestLocalStoreRebuildReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(filepath.Join(t.TempDir(), "index"), "chunks")
	require.NoError(t, store.Build(ctx, testChunks()))

	replacement := []models.ChunkEmbedding{
		{Content: "delta", Embedding: []float32{1, 0, 0}, SourceFilename: "other.pdf", PageNumber: 1, ChunkID: 1},
	}
	require.NoError(t, store.Build(ctx, replacement))

	ix, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ix.Count())

	results, err := ix.Query(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "delta", results[0].Content)
}
