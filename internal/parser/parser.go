package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"course-generator/internal/apperr"
	"course-generator/internal/models"
)

const (
	defaultChunkSize    = 1000 // characters
	defaultChunkOverlap = 200  // characters
)

// ParseFile extracts a document's text and splits it into overlapping chunks.
// Page boundaries are not chunk boundaries, each chunk just remembers the page
// it starts on.
func ParseFile(filePath string, chunkSize, overlap int) ([]models.Chunk, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if overlap <= 0 {
		overlap = defaultChunkOverlap
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath, chunkSize, overlap)
	default:
		return nil, apperr.Newf(apperr.CodeValidation, "unsupported file format: %s", ext)
	}
}

func parsePDF(filePath string, chunkSize, overlap int) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeIO, fmt.Sprintf("failed to open %s", filepath.Base(filePath)), err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeIO, fmt.Sprintf("failed to stat %s", filepath.Base(filePath)), err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeIO, fmt.Sprintf("failed to read PDF %s", filepath.Base(filePath)), err)
	}

	var text strings.Builder
	var pageStarts []pageStart
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeIO, fmt.Sprintf("failed to extract page %d of %s", i, filepath.Base(filePath)), err)
		}
		pageStarts = append(pageStarts, pageStart{page: i, offset: text.Len()})
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	content := strings.TrimRight(text.String(), " \t\n\r")
	chunks := splitChunks(content, chunkSize, overlap, pageStarts)
	log.Debug().Str("file", filepath.Base(filePath)).Int("pages", numPages).Int("chunks", len(chunks)).Msg("parsed document")
	return chunks, nil
}

type pageStart struct {
	page   int
	offset int
}

// splitChunks applies the greedy forward split, advancing chunkSize-overlap
// characters per chunk so consecutive chunks share exactly overlap characters.
// Only the final chunk may be shorter than chunkSize.
func splitChunks(content string, chunkSize, overlap int, pageStarts []pageStart) []models.Chunk {
	strs := chunkContent(content, chunkSize, overlap)
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	step := chunkSize - overlap

	chunks := make([]models.Chunk, 0, len(strs))
	for i, s := range strs {
		chunks = append(chunks, models.Chunk{
			Content:    s,
			PageNumber: pageAt(pageStarts, i*step),
			ChunkID:    i + 1,
		})
	}
	return chunks
}

// chunk content into chunks with maxChars and overlapChars
func chunkContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 || len(content) == 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2 // avoid a non-advancing split
	}
	if len(content) <= maxChars {
		return []string{content}
	}

	step := maxChars - overlapChars
	var chunks []string
	for start := 0; ; start += step {
		end := start + maxChars
		if end >= len(content) {
			chunks = append(chunks, content[start:])
			break
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks
}

// pageAt returns the page containing the given character offset.
func pageAt(pageStarts []pageStart, offset int) int {
	page := 1
	for _, ps := range pageStarts {
		if ps.offset > offset {
			break
		}
		page = ps.page
	}
	return page
}
