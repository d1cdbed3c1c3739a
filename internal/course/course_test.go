package course

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-generator/internal/apperr"
	"course-generator/internal/models"
	"course-generator/internal/retriever"
	"course-generator/internal/vectorstore"
)

type fakeIndex struct {
	results []models.SearchResult
}

func (f *fakeIndex) Count() int { return len(f.results) }

func (f *fakeIndex) Query(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error) {
	if k > len(f.results) {
		k = len(f.results)
	}
	return f.results[:k], nil
}

type fakeStore struct {
	index   vectorstore.Index
	loadErr error
	built   []models.ChunkEmbedding
}

func (f *fakeStore) Build(ctx context.Context, chunks []models.ChunkEmbedding) error {
	f.built = chunks
	return nil
}

func (f *fakeStore) Load(ctx context.Context) (vectorstore.Index, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.index, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

// promptedLLM routes replies by the system prompt it receives.
type promptedLLM struct {
	mu    sync.Mutex
	calls []string
}

const (
	quizJSON = `{"questions": [
		{"question": "q1?", "options": ["a","b","c","d"], "correct_answer": 0, "explanation": "because"},
		{"question": "q2?", "options": ["a","b","c","d"], "correct_answer": 3, "explanation": "because"}
	]}`
	assignmentJSON = `{"title": "Build it", "description": "Apply the chapter", "tasks": ["step one", "step two"]}`
)

func (l *promptedLLM) Generate(ctx context.Context, system, user string) (string, error) {
	l.mu.Lock()
	l.calls = append(l.calls, system)
	l.mu.Unlock()

	switch {
	case strings.Contains(system, "exam creator"):
		return quizJSON, nil
	case strings.Contains(system, "practical instructor"):
		return assignmentJSON, nil
	case strings.Contains(system, "expert professor"):
		return "# Lecture\n\nGenerated from: " + user, nil
	default:
		return `{"course_title": "T", "modules": [{"title": "M", "description": "d", "topics": ["t"]}]}`, nil
	}
}

func newTestGenerator(store *fakeStore, dir string) *Generator {
	emb := fakeEmbedder{}
	ret := retriever.New(store, emb, 5)
	return NewGenerator(store, emb, &promptedLLM{}, ret, Options{UploadDir: dir})
}

func TestGenerateStructureMissingFile(t *testing.T) {
	g := newTestGenerator(&fakeStore{}, t.TempDir())

	_, err := g.GenerateStructure(context.Background(), []string{"ghost.pdf"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Contains(t, err.Error(), "ghost.pdf")
}

func TestGenerateStructureNoFilenames(t *testing.T) {
	g := newTestGenerator(&fakeStore{}, t.TempDir())

	_, err := g.GenerateStructure(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestGenerateChapterNoIndex(t *testing.T) {
	store := &fakeStore{loadErr: apperr.New(apperr.CodeNotFound, "vector index not found")}
	g := newTestGenerator(store, t.TempDir())

	_, err := g.GenerateChapter(context.Background(), "Chapter One", []string{"topic"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodePrecondition))
}

func TestGenerateChapterProducesAllParts(t *testing.T) {
	store := &fakeStore{index: &fakeIndex{results: []models.SearchResult{
		{Content: "relevant context", Similarity: 0.9},
	}}}
	g := newTestGenerator(store, t.TempDir())

	material, err := g.GenerateChapter(context.Background(), "Chapter One", []string{"alpha", "beta"})
	require.NoError(t, err)

	assert.Contains(t, material.Content, "Chapter: Chapter One")
	assert.Contains(t, material.Content, "alpha, beta")
	assert.Contains(t, material.Content, "relevant context")
	assert.Contains(t, material.ContentHTML, "<h1")
	require.Len(t, material.Quiz.Questions, 2)
	assert.Len(t, material.Quiz.Questions[0].Options, 4)
	assert.Equal(t, "Build it", material.Assignment.Title)
	assert.NotEmpty(t, material.Assignment.Tasks)
}

func TestGenerateChapterEmptyTitle(t *testing.T) {
	g := newTestGenerator(&fakeStore{}, t.TempDir())

	_, err := g.GenerateChapter(context.Background(), "  ", nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestSummaryText(t *testing.T) {
	chunks := []models.ChunkEmbedding{
		{Content: "one"}, {Content: "two"}, {Content: "three"},
	}
	assert.Equal(t, "one two", summaryText(chunks, 2))
	assert.Equal(t, "one two three", summaryText(chunks, 10))
}

func TestRenderHTML(t *testing.T) {
	out, err := renderHTML("# Title\n\nSome *emphasis*.")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<em>emphasis</em>")
}
