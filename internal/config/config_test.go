package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, 200, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, 4, cfg.RAG.ChatTopK)
	assert.Equal(t, 2, cfg.RAG.ExtraAttempts)
	assert.Equal(t, "local", cfg.Store.Backend)
	assert.Equal(t, 0.7, cfg.InferenceLLM.Temperature)
	assert.Equal(t, 0.5, cfg.ChatLLM.Temperature)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  addr: ":9090"
rag:
  chunk_size: 500
  chunk_overlap: 100
store:
  backend: postgres
  path: /tmp/index
embed_llm:
  provider: ollama
  base_url: http://localhost:11434
  model: nomic-embed-text
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 100, cfg.RAG.ChunkOverlap)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "/tmp/index", cfg.Store.Path)
	assert.Equal(t, "ollama", cfg.EmbedLLM.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.EmbedLLM.Model)
	// untouched sections still get defaults
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, 5, cfg.RAG.TopK)
}

func TestAPIKeyEnvWins(t *testing.T) {
	cfg := LLMConfig{Key: "from-file", KeyEnv: "COURSEGEN_TEST_KEY"}
	assert.Equal(t, "from-file", cfg.APIKey())

	t.Setenv("COURSEGEN_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", cfg.APIKey())
}
