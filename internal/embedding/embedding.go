package embedding

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"course-generator/internal/apperr"
	"course-generator/internal/config"
	"course-generator/internal/models"
)

// Embedder maps text to a fixed-dimension vector. Satisfied by
// langchaingo's *embeddings.EmbedderImpl.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// New builds the embedder for the configured provider. The same provider must
// serve index build and retrieval, mixing embedding models silently corrupts
// relevance.
func New(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeUpstream, "failed to initialize ollama embedder", err)
		}
		return embeddings.NewEmbedder(llm)
	default:
		llm, err := openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.APIKey(), "Bearer ")),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeUpstream, "failed to initialize openai embedder", err)
		}
		return embeddings.NewEmbedder(llm)
	}
}

// EmbedChunks attaches an embedding vector to every chunk of a file.
func EmbedChunks(ctx context.Context, embedder Embedder, filename string, chunks []models.Chunk) ([]models.ChunkEmbedding, error) {
	if len(chunks) == 0 {
		log.Info().Str("file", filename).Msg("no chunks generated from content")
		return nil, nil
	}

	chunkEmbeddings := make([]models.ChunkEmbedding, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := embedder.EmbedQuery(ctx, chunk.Content)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeUpstream, "failed to embed chunk", err)
		}
		chunkEmbeddings = append(chunkEmbeddings, models.ChunkEmbedding{
			Content:        chunk.Content,
			Embedding:      Normalize(vec),
			SourceFilename: filename,
			PageNumber:     chunk.PageNumber,
			ChunkID:        chunk.ChunkID,
		})
	}
	return chunkEmbeddings, nil
}

// EmbedQuery embeds a retrieval query with the same normalization applied at
// index build time, so cosine similarity reduces to a dot product.
func EmbedQuery(ctx context.Context, embedder Embedder, query string) ([]float32, error) {
	vec, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUpstream, "failed to embed query", err)
	}
	return Normalize(vec), nil
}

// Normalize scales v to unit length. Zero vectors are returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
