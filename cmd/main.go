package main

import (
	"flag"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"course-generator/internal/chat"
	"course-generator/internal/config"
	"course-generator/internal/course"
	"course-generator/internal/embedding"
	"course-generator/internal/llmservice"
	"course-generator/internal/retriever"
	"course-generator/internal/server"
	"course-generator/internal/vectorstore"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	store, err := vectorstore.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing vector store")
	}

	embedder, err := embedding.New(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	inferenceLLM, err := llmservice.NewClient(&cfg.InferenceLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing inference LLM")
	}
	chatLLM, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing chat LLM")
	}

	courseRetriever := retriever.New(store, embedder, cfg.RAG.TopK)
	chatRetriever := retriever.New(store, embedder, cfg.RAG.ChatTopK)

	generator := course.NewGenerator(store, embedder, inferenceLLM, courseRetriever, course.Options{
		UploadDir:     cfg.Upload.Dir,
		ChunkSize:     cfg.RAG.ChunkSize,
		ChunkOverlap:  cfg.RAG.ChunkOverlap,
		SummaryChunks: cfg.RAG.SummaryChunks,
		ExtraAttempts: cfg.RAG.ExtraAttempts,
	})
	chatService := chat.New(chatRetriever, chatLLM)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(server.RequestLogger())

	server.New(generator, chatService, cfg.Upload.Dir).Register(e)

	log.Info().Str("addr", cfg.Server.Addr).Msg("starting course generator")
	if err := e.Start(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
