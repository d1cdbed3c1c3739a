package retriever

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"course-generator/internal/embedding"
	"course-generator/internal/models"
	"course-generator/internal/vectorstore"
)

const defaultTopK = 5

// Retriever answers "give me the chunks relevant to this query" as one prompt-ready
// context string. The index is loaded fresh on every call, nothing is cached
// across requests.
type Retriever struct {
	store    vectorstore.Store
	embedder embedding.Embedder
	topK     int
}

func New(store vectorstore.Store, embedder embedding.Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Retriever{store: store, embedder: embedder, topK: topK}
}

// Retrieve returns the top-k chunk texts joined with a separator. A missing
// index surfaces the store's not-found condition untouched so callers can tell
// "nothing uploaded yet" from a real failure.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, error) {
	ix, err := r.store.Load(ctx)
	if err != nil {
		return "", err
	}

	vec, err := embedding.EmbedQuery(ctx, r.embedder, query)
	if err != nil {
		return "", err
	}

	results, err := ix.Query(ctx, vec, r.topK)
	if err != nil {
		return "", err
	}
	log.Debug().Int("results", len(results)).Str("query", query).Msg("retrieved context")

	texts := make([]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, res.Content)
	}
	return strings.Join(texts, models.ContextSeparator), nil
}
