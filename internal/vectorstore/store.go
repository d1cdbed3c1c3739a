package vectorstore

import (
	"context"

	"course-generator/internal/apperr"
	"course-generator/internal/config"
	"course-generator/internal/models"
)

// Store builds and loads the persisted chunk index. Build replaces the prior
// snapshot wholesale, there is no incremental merge.
type Store interface {
	Build(ctx context.Context, chunks []models.ChunkEmbedding) error
	Load(ctx context.Context) (Index, error)
}

// Index answers k-nearest-neighbor queries over one loaded snapshot.
// Requesting more results than stored chunks returns all of them.
type Index interface {
	Query(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error)
	Count() int
}

// New selects the configured backend.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "local", "":
		return NewLocalStore(cfg.Store.Path, cfg.Store.Collection), nil
	case "postgres":
		return NewPostgresStore(&cfg.Database), nil
	default:
		return nil, apperr.Newf(apperr.CodeValidation, "unknown store backend: %s", cfg.Store.Backend)
	}
}
