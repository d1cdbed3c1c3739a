package vectorstore

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"course-generator/internal/apperr"
	"course-generator/internal/config"
	"course-generator/internal/models"
)

type chunkRow struct {
	bun.BaseModel `bun:"table:course_chunks,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	SourceFile    string    `bun:"source_file,notnull"`
	PageNumber    int       `bun:"page_number,notnull"`
	ChunkID       int       `bun:"chunk_id,notnull"`
}

// PostgresStore keeps the index in a pgvector table (e.g. Supabase). Build
// drops and recreates the table, mirroring the snapshot-replacement contract
// of the local backend.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(cfg *config.DatabaseConfig) *PostgresStore {
	dsn := cfg.URL + "?sslmode=disable"
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Key)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Build(ctx context.Context, chunks []models.ChunkEmbedding) error {
	if _, err := s.db.NewDropTable().Model((*chunkRow)(nil)).IfExists().Exec(ctx); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to drop chunk table", err)
	}
	if _, err := s.db.NewCreateTable().Model((*chunkRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to create chunk table", err)
	}

	rows := make([]chunkRow, len(chunks))
	for i, ch := range chunks {
		rows[i] = chunkRow{
			Content:    ch.Content,
			Embedding:  ch.Embedding,
			SourceFile: ch.SourceFilename,
			PageNumber: ch.PageNumber,
			ChunkID:    ch.ChunkID,
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to store chunks", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (Index, error) {
	count, err := s.db.NewSelect().Model((*chunkRow)(nil)).Count(ctx)
	if err != nil || count == 0 {
		// a missing or empty table means nothing was indexed yet
		return nil, apperr.New(apperr.CodeNotFound, "vector index not found")
	}
	return &pgIndex{db: s.db, count: count}, nil
}

type pgIndex struct {
	db    *bun.DB
	count int
}

func (ix *pgIndex) Count() int { return ix.count }

func (ix *pgIndex) Query(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error) {
	if k > ix.count {
		k = ix.count
	}
	if k <= 0 {
		return nil, nil
	}

	var rows []chunkRow
	// embeddings are unit length, so L2 distance orders identically to cosine
	err := ix.db.NewSelect().
		Model(&rows).
		OrderExpr("embedding <-> ?", embedding).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeIO, "failed to search chunks", err)
	}

	out := make([]models.SearchResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.SearchResult{
			Content:    row.Content,
			Similarity: dot(embedding, row.Embedding),
			Metadata: map[string]string{
				"source": row.SourceFile,
			},
		})
	}
	return out, nil
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
