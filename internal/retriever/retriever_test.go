package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-generator/internal/apperr"
	"course-generator/internal/models"
	"course-generator/internal/vectorstore"
)

type fakeIndex struct {
	results []models.SearchResult
	gotK    int
}

func (f *fakeIndex) Count() int { return len(f.results) }

func (f *fakeIndex) Query(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error) {
	f.gotK = k
	if k > len(f.results) {
		k = len(f.results)
	}
	return f.results[:k], nil
}

type fakeStore struct {
	index *fakeIndex
	err   error
	loads int
}

func (f *fakeStore) Build(ctx context.Context, chunks []models.ChunkEmbedding) error { return nil }

func (f *fakeStore) Load(ctx context.Context) (vectorstore.Index, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.index, nil
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{1, 0}, nil
}

func TestRetrieveJoinsChunkTexts(t *testing.T) {
	ix := &fakeIndex{results: []models.SearchResult{
		{Content: "first chunk", Similarity: 0.9},
		{Content: "second chunk", Similarity: 0.7},
	}}
	store := &fakeStore{index: ix}

	r := New(store, &fakeEmbedder{}, 5)
	out, err := r.Retrieve(context.Background(), "what is covered?")
	require.NoError(t, err)
	assert.Equal(t, "first chunk\n\nsecond chunk", out)
	assert.Equal(t, 5, ix.gotK)
}

func TestRetrieveMissingIndexSkipsEmbedding(t *testing.T) {
	store := &fakeStore{err: apperr.New(apperr.CodeNotFound, "vector index not found")}
	emb := &fakeEmbedder{}

	_, err := New(store, emb, 5).Retrieve(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Zero(t, emb.calls)
}

func TestNewDefaultsTopK(t *testing.T) {
	r := New(&fakeStore{index: &fakeIndex{}}, &fakeEmbedder{}, 0)
	assert.Equal(t, defaultTopK, r.topK)
}
