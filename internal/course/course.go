// Package course sequences the upload -> index -> structure -> content ->
// assessment pipeline.
package course

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/errgroup"

	"course-generator/internal/apperr"
	"course-generator/internal/embedding"
	"course-generator/internal/llmservice"
	"course-generator/internal/models"
	"course-generator/internal/parser"
	"course-generator/internal/retriever"
	"course-generator/internal/structured"
	"course-generator/internal/vectorstore"
)

// Generator runs the course pipeline. Nothing is cached between requests
// except the persisted vector index.
type Generator struct {
	store     vectorstore.Store
	embedder  embedding.Embedder
	llm       llmservice.Generator
	retriever *retriever.Retriever

	uploadDir     string
	chunkSize     int
	chunkOverlap  int
	summaryChunks int
	extraAttempts int
}

type Options struct {
	UploadDir     string
	ChunkSize     int
	ChunkOverlap  int
	SummaryChunks int
	ExtraAttempts int
}

func NewGenerator(store vectorstore.Store, embedder embedding.Embedder, llm llmservice.Generator, ret *retriever.Retriever, opts Options) *Generator {
	if opts.SummaryChunks <= 0 {
		opts.SummaryChunks = 5
	}
	return &Generator{
		store:         store,
		embedder:      embedder,
		llm:           llm,
		retriever:     ret,
		uploadDir:     opts.UploadDir,
		chunkSize:     opts.ChunkSize,
		chunkOverlap:  opts.ChunkOverlap,
		summaryChunks: opts.SummaryChunks,
		extraAttempts: opts.ExtraAttempts,
	}
}

// GenerateStructure ingests the named uploads, rebuilds the vector index and
// asks the LLM for a course structure over a summary of the leading chunks.
func (g *Generator) GenerateStructure(ctx context.Context, filenames []string) (*models.CourseStructure, error) {
	if len(filenames) == 0 {
		return nil, apperr.New(apperr.CodeValidation, "no filenames provided")
	}

	paths := make([]string, len(filenames))
	for i, name := range filenames {
		path := filepath.Join(g.uploadDir, filepath.Base(name))
		if _, err := os.Stat(path); err != nil {
			return nil, apperr.Newf(apperr.CodeNotFound, "file not found: %s", filepath.Base(name))
		}
		paths[i] = path
	}

	var all []models.ChunkEmbedding
	for i, path := range paths {
		chunks, err := parser.ParseFile(path, g.chunkSize, g.chunkOverlap)
		if err != nil {
			return nil, err
		}
		embedded, err := embedding.EmbedChunks(ctx, g.embedder, filepath.Base(filenames[i]), chunks)
		if err != nil {
			return nil, err
		}
		all = append(all, embedded...)
	}
	if len(all) == 0 {
		return nil, apperr.New(apperr.CodeValidation, "no text could be extracted from the uploaded documents")
	}
	log.Info().Int("chunks", len(all)).Int("files", len(paths)).Msg("documents ingested")

	if err := g.store.Build(ctx, all); err != nil {
		return nil, err
	}

	summary := summaryText(all, g.summaryChunks)
	structure, err := structured.Generate[models.CourseStructure](
		ctx, g.llm,
		models.StructureSystemPrompt,
		fmt.Sprintf(models.StructureUserTemplate, summary),
		g.extraAttempts,
	)
	if err != nil {
		return nil, err
	}
	log.Info().Str("course", structure.CourseTitle).Int("modules", len(structure.Modules)).Msg("course structure generated")
	return &structure, nil
}

// GenerateChapter produces the lecture content for one chapter, then its quiz
// and assignment. The two assessments depend only on the content and run
// concurrently.
func (g *Generator) GenerateChapter(ctx context.Context, title string, topics []string) (*models.ChapterMaterial, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.New(apperr.CodeValidation, "chapter_title is required")
	}

	topicList := strings.Join(topics, ", ")
	contextText, err := g.retriever.Retrieve(ctx, fmt.Sprintf("%s: %s", title, topicList))
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.Wrap(apperr.CodePrecondition, "vector index not found, upload documents first", err)
		}
		return nil, err
	}

	content, err := g.llm.Generate(ctx, models.ChapterSystemPrompt,
		fmt.Sprintf(models.ChapterUserTemplate, title, topicList, contextText))
	if err != nil {
		return nil, err
	}
	log.Info().Str("chapter", title).Int("content_chars", len(content)).Msg("chapter content generated")

	var quiz models.Quiz
	var assignment models.Assignment
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		q, err := structured.Generate[models.Quiz](egCtx, g.llm,
			models.QuizSystemPrompt, fmt.Sprintf(models.QuizUserTemplate, content), g.extraAttempts)
		if err != nil {
			return err
		}
		quiz = q
		return nil
	})
	eg.Go(func() error {
		a, err := structured.Generate[models.Assignment](egCtx, g.llm,
			models.AssignmentSystemPrompt, fmt.Sprintf(models.AssignmentUserTemplate, content), g.extraAttempts)
		if err != nil {
			return err
		}
		assignment = a
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	rendered, err := renderHTML(content)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to render chapter content", err)
	}

	return &models.ChapterMaterial{
		Content:     content,
		ContentHTML: rendered,
		Quiz:        quiz,
		Assignment:  assignment,
	}, nil
}

// summaryText joins the first n chunks in document order. Deliberately not
// retrieval-ranked, large documents are summarized from their opening only.
func summaryText(chunks []models.ChunkEmbedding, n int) string {
	if n > len(chunks) {
		n = len(chunks)
	}
	texts := make([]string, 0, n)
	for _, ch := range chunks[:n] {
		texts = append(texts, ch.Content)
	}
	return strings.Join(texts, " ")
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

func renderHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
