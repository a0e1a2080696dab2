package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTPAddress())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "llama3-70b-8192", cfg.LLM.Groq.Model)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, "llama3", cfg.LLM.Ollama.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Ollama.BaseURL)

	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)

	assert.Equal(t, 15, cfg.Sources.MaxResults)
	assert.Equal(t, "http://export.arxiv.org/api", cfg.Sources.ArXiv.BaseURL)
	assert.InDelta(t, 3.0, cfg.Sources.ArXiv.RateLimit, 1e-9)
	assert.Equal(t, "https://api.semanticscholar.org/graph/v1", cfg.Sources.SemanticScholar.BaseURL)

	assert.Equal(t, 5, cfg.Scraper.MaxSearchResults)
	assert.Equal(t, "discovery.db", cfg.Store.Path)
	assert.Empty(t, cfg.Ranking.Countries)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCHOLARLENS_SERVER_HTTP_PORT", "9090")
	t.Setenv("SCHOLARLENS_LLM_PROVIDER", "groq")
	t.Setenv("SCHOLARLENS_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadSecretsFromEnv(t *testing.T) {
	t.Setenv("SCHOLARLENS_LLM_OPENAI_API_KEY", "sk-test")
	t.Setenv("SCHOLARLENS_EMBEDDING_API_KEY", "emb-test")
	t.Setenv("SCHOLARLENS_SOURCES_SEMANTIC_SCHOLAR_API_KEY", "ss-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "emb-test", cfg.Embedding.APIKey)
	assert.Equal(t, "ss-test", cfg.Sources.SemanticScholar.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{HTTPPort: 8080},
			Logging: LoggingConfig{Level: "info"},
			LLM:     LLMConfig{Provider: "openai", Temperature: 0.2},
			Sources: SourcesConfig{
				MaxResults:      15,
				ArXiv:           SourceConfig{RateLimit: 3},
				SemanticScholar: SourceConfig{RateLimit: 10},
			},
			Scraper: ScraperConfig{MaxSearchResults: 5},
			Store:   StoreConfig{Path: "discovery.db"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"zero port", func(c *Config) { c.Server.HTTPPort = 0 }, "invalid HTTP port"},
		{"port too large", func(c *Config) { c.Server.HTTPPort = 70000 }, "invalid HTTP port"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"bad provider", func(c *Config) { c.LLM.Provider = "anthropic" }, "invalid LLM provider"},
		{"temperature out of range", func(c *Config) { c.LLM.Temperature = 2.5 }, "temperature"},
		{"zero max results", func(c *Config) { c.Sources.MaxResults = 0 }, "max_results must be positive"},
		{"zero arxiv rate", func(c *Config) { c.Sources.ArXiv.RateLimit = 0 }, "arxiv rate_limit"},
		{"negative scrape delay", func(c *Config) { c.Scraper.MinDelay = -1 }, "min_delay"},
		{"zero search results", func(c *Config) { c.Scraper.MaxSearchResults = 0 }, "max_search_results"},
		{"empty store path", func(c *Config) { c.Store.Path = "" }, "store path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("provider name is case-insensitive", func(t *testing.T) {
		cfg := valid()
		cfg.LLM.Provider = "OpenAI"
		assert.NoError(t, cfg.Validate())
	})
}
