package llmservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"course-generator/internal/apperr"
	"course-generator/internal/config"
)

// Generator produces a completion for a system and user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Client wraps one configured model endpoint.
type Client struct {
	llm         llms.Model
	model       string
	temperature float64
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	var llm llms.Model
	var err error
	switch cfg.Provider {
	case "ollama":
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	default:
		llm, err = openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.APIKey(), "Bearer ")),
			openai.WithModel(cfg.Model),
		)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUpstream, "failed to initialize LLM client", err)
	}
	return &Client{llm: llm, model: cfg.Model, temperature: cfg.Temperature}, nil
}

func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	messages := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextContent{Text: system}}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextContent{Text: user}}},
	}

	log.Debug().Str("model", c.model).Int("prompt_chars", len(system)+len(user)).Msg("generating content")
	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", apperr.Wrap(apperr.CodeUpstream, "generation request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.CodeUpstream, "generation returned no choices")
	}
	return resp.Choices[0].Content, nil
}
