package vectorstore

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"course-generator/internal/apperr"
	"course-generator/internal/models"
)

const compress = false

// LocalStore persists the index as a chromem-go database directory. A build
// assembles the new snapshot beside the live one and swaps it in with renames,
// so a concurrent reader never observes a half-written snapshot. The mutex
// keeps builds single-writer.
type LocalStore struct {
	mu         sync.Mutex
	path       string
	collection string
}

func NewLocalStore(path, collection string) *LocalStore {
	return &LocalStore{path: path, collection: collection}
}

func (s *LocalStore) Build(ctx context.Context, chunks []models.ChunkEmbedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buildPath := s.path + ".build"
	if err := os.RemoveAll(buildPath); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to clear build directory", err)
	}

	db, err := chromem.NewPersistentDB(buildPath, compress)
	if err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to create vector database", err)
	}
	col, err := db.GetOrCreateCollection(s.collection, nil, nil)
	if err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to create collection", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, ch := range chunks {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s-%d-%d", ch.SourceFilename, ch.PageNumber, ch.ChunkID),
			Content: ch.Content,
			Metadata: map[string]string{
				"source": ch.SourceFilename,
				"page":   strconv.Itoa(ch.PageNumber),
				"chunk":  strconv.Itoa(ch.ChunkID),
			},
			Embedding: ch.Embedding,
		})
	}
	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to add documents to vector database", err)
	}

	if err := s.swap(buildPath); err != nil {
		return err
	}
	log.Info().Int("chunks", len(docs)).Str("path", s.path).Msg("vector index rebuilt")
	return nil
}

// swap promotes the freshly built snapshot to the live path.
func (s *LocalStore) swap(buildPath string) error {
	oldPath := s.path + ".old"
	if err := os.RemoveAll(oldPath); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to clear old snapshot", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		if err := os.Rename(s.path, oldPath); err != nil {
			return apperr.Wrap(apperr.CodeIO, "failed to retire old snapshot", err)
		}
	}
	if err := os.Rename(buildPath, s.path); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to promote new snapshot", err)
	}
	if err := os.RemoveAll(oldPath); err != nil {
		log.Warn().Err(err).Str("path", oldPath).Msg("failed to remove retired snapshot")
	}
	return nil
}

// Load reconstructs the in-memory index from the persisted snapshot without
// recomputing embeddings. A missing snapshot is the normal "nothing uploaded
// yet" condition and surfaces as a not-found error.
func (s *LocalStore) Load(ctx context.Context) (Index, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.New(apperr.CodeNotFound, "vector index not found")
		}
		return nil, apperr.Wrap(apperr.CodeIO, "failed to stat vector index", err)
	}

	db, err := chromem.NewPersistentDB(s.path, compress)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeIO, "failed to open vector database", err)
	}
	col := db.GetCollection(s.collection, nil)
	if col == nil || col.Count() == 0 {
		return nil, apperr.New(apperr.CodeNotFound, "vector index not found")
	}
	return &localIndex{col: col}, nil
}

type localIndex struct {
	col *chromem.Collection
}

func (ix *localIndex) Count() int { return ix.col.Count() }

func (ix *localIndex) Query(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error) {
	if n := ix.col.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}
	results, err := ix.col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeIO, "failed to query vector index", err)
	}

	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, models.SearchResult{
			Content:    r.Content,
			Similarity: r.Similarity,
			Metadata:   r.Metadata,
		})
	}
	return out, nil
}
