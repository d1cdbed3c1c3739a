package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig   `yaml:"server"`
	Upload       UploadConfig   `yaml:"upload"`
	RAG          RAGConfig      `yaml:"rag"`
	Store        StoreConfig    `yaml:"store"`
	EmbedLLM     LLMConfig      `yaml:"embed_llm"`
	InferenceLLM LLMConfig      `yaml:"inference_llm"`
	ChatLLM      LLMConfig      `yaml:"chat_llm"`
	Database     DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type UploadConfig struct {
	Dir string `yaml:"dir"`
}

type RAGConfig struct {
	ChunkSize     int `yaml:"chunk_size"`
	ChunkOverlap  int `yaml:"chunk_overlap"`
	TopK          int `yaml:"top_k"`
	ChatTopK      int `yaml:"chat_top_k"`
	SummaryChunks int `yaml:"summary_chunks"`
	ExtraAttempts int `yaml:"extra_attempts"`
}

type StoreConfig struct {
	// Backend is "local" (chromem snapshot on disk) or "postgres".
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

type LLMConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "ollama".
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Key         string  `yaml:"key"`
	KeyEnv      string  `yaml:"key_env"`
	Temperature float64 `yaml:"temperature"`
}

type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Debug bool   `yaml:"debug"`
}

// APIKey resolves the credential for an LLM endpoint. The environment wins
// over the config file; absence is not an error here, generation calls fail
// at first use instead.
func (c *LLMConfig) APIKey() string {
	env := c.KeyEnv
	if env == "" {
		env = "OPENROUTER_API_KEY"
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return c.Key
}

// LoadConfig reads the YAML config at path. A missing file is not an error,
// the service starts on defaults alone.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if len(c.Server.AllowOrigins) == 0 {
		c.Server.AllowOrigins = []string{"*"}
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "uploads"
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 1000
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 200
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = 5
	}
	if c.RAG.ChatTopK == 0 {
		c.RAG.ChatTopK = 4
	}
	if c.RAG.SummaryChunks == 0 {
		c.RAG.SummaryChunks = 5
	}
	if c.RAG.ExtraAttempts == 0 {
		c.RAG.ExtraAttempts = 2
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "local"
	}
	if c.Store.Path == "" {
		c.Store.Path = "vector_index"
	}
	if c.Store.Collection == "" {
		c.Store.Collection = "course_chunks"
	}
	applyLLMDefaults(&c.EmbedLLM, "text-embedding-3-small", 0)
	applyLLMDefaults(&c.InferenceLLM, "openai/gpt-4o-mini", 0.7)
	applyLLMDefaults(&c.ChatLLM, "openai/gpt-4o-mini", 0.5)
}

func applyLLMDefaults(c *LLMConfig, model string, temperature float64) {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.Temperature == 0 {
		c.Temperature = temperature
	}
}
