package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"course-generator/internal/apperr"
	"course-generator/internal/llmservice"
	"course-generator/internal/models"
	"course-generator/internal/retriever"
)

// Service answers one-off questions grounded in the indexed documents.
// Each call is independent, there is no conversation memory.
type Service struct {
	retriever *retriever.Retriever
	llm       llmservice.Generator
}

func New(ret *retriever.Retriever, llm llmservice.Generator) *Service {
	return &Service{retriever: ret, llm: llm}
}

// Answer retrieves context for the query and asks the LLM for a concise
// reply. Without an index it returns a fixed guidance message instead of
// failing, and makes no generation call.
func (s *Service) Answer(ctx context.Context, query string) (string, error) {
	contextText, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			log.Info().Msg("chat requested before any documents were indexed")
			return models.NoIndexChatMessage, nil
		}
		return "", err
	}

	answer, err := s.llm.Generate(ctx, fmt.Sprintf(models.ChatSystemTemplate, contextText), query)
	if err != nil {
		return "", err
	}
	log.Debug().Int("answer_chars", len(answer)).Msg("chat response generated")
	return answer, nil
}
