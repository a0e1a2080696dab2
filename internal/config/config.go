// Package config provides configuration management for the researcher discovery service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the researcher discovery service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// LLM contains LLM provider settings for interest refinement and drafting.
	LLM LLMConfig `mapstructure:"llm"`
	// Embedding contains embedding backend settings for similarity scoring.
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	// Sources contains paper source API configurations.
	Sources SourcesConfig `mapstructure:"sources"`
	// Scraper contains polite web enrichment settings.
	Scraper ScraperConfig `mapstructure:"scraper"`
	// Store contains persistence settings.
	Store StoreConfig `mapstructure:"store"`
	// Ranking contains match scoring settings.
	Ranking RankingConfig `mapstructure:"ranking"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	// Provider is the default provider (openai, groq, gemini, huggingface, ollama).
	Provider string `mapstructure:"provider"`
	// Temperature is the default sampling temperature.
	Temperature float64 `mapstructure:"temperature"`
	// OpenAI contains OpenAI-specific settings.
	OpenAI ProviderConfig `mapstructure:"openai"`
	// Groq contains Groq-specific settings.
	Groq ProviderConfig `mapstructure:"groq"`
	// Gemini contains Google Gemini-specific settings.
	Gemini ProviderConfig `mapstructure:"gemini"`
	// HuggingFace contains Hugging Face Inference API settings.
	HuggingFace ProviderConfig `mapstructure:"huggingface"`
	// Ollama contains local Ollama settings.
	Ollama ProviderConfig `mapstructure:"ollama"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	// APIKey is the provider API key (loaded from environment variable,
	// e.g. SCHOLARLENS_LLM_OPENAI_API_KEY).
	APIKey string `mapstructure:"-"`
	// Model is the model identifier to use.
	Model string `mapstructure:"model"`
	// BaseURL is the API base URL (for custom endpoints).
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig holds embedding backend configuration.
type EmbeddingConfig struct {
	// APIKey is the embedding API key (loaded from SCHOLARLENS_EMBEDDING_API_KEY).
	APIKey string `mapstructure:"-"`
	// Model is the embedding model name.
	Model string `mapstructure:"model"`
	// BaseURL is the embedding API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the timeout for embedding calls.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SourcesConfig holds configuration for all paper source APIs.
type SourcesConfig struct {
	// ArXiv contains arXiv API settings.
	ArXiv SourceConfig `mapstructure:"arxiv"`
	// SemanticScholar contains Semantic Scholar API settings.
	SemanticScholar SourceConfig `mapstructure:"semantic_scholar"`
	// MaxResults is the maximum results requested per source per search.
	MaxResults int `mapstructure:"max_results"`
}

// SourceConfig holds configuration for a single paper source API.
type SourceConfig struct {
	// APIKey is the API key (loaded from environment variable,
	// e.g. SCHOLARLENS_SOURCES_SEMANTIC_SCHOLAR_API_KEY).
	APIKey string `mapstructure:"-"`
	// BaseURL is the API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// ScraperConfig holds polite web enrichment settings.
type ScraperConfig struct {
	// FetchTimeout is the timeout for a single page fetch.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	// MinDelay is the minimum delay between outbound fetches.
	MinDelay time.Duration `mapstructure:"min_delay"`
	// CacheTTL is how long fetched pages are cached.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// MaxSearchResults is the maximum web search hits considered per researcher.
	MaxSearchResults int `mapstructure:"max_search_results"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Path is the sqlite database file path.
	Path string `mapstructure:"path"`
}

// RankingConfig holds match scoring settings.
type RankingConfig struct {
	// Countries is the list of preferred countries receiving a score bonus.
	Countries []string `mapstructure:"countries"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SCHOLARLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/discovery-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets exclusively from environment variables.
	// These fields use mapstructure:"-" to prevent loading from config files.
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
func loadSecrets(cfg *Config) {
	cfg.LLM.OpenAI.APIKey = os.Getenv("SCHOLARLENS_LLM_OPENAI_API_KEY")
	cfg.LLM.Groq.APIKey = os.Getenv("SCHOLARLENS_LLM_GROQ_API_KEY")
	cfg.LLM.Gemini.APIKey = os.Getenv("SCHOLARLENS_LLM_GEMINI_API_KEY")
	cfg.LLM.HuggingFace.APIKey = os.Getenv("SCHOLARLENS_LLM_HUGGINGFACE_API_KEY")
	// Ollama runs locally and needs no credential.

	cfg.Embedding.APIKey = os.Getenv("SCHOLARLENS_EMBEDDING_API_KEY")
	cfg.Sources.SemanticScholar.APIKey = os.Getenv("SCHOLARLENS_SOURCES_SEMANTIC_SCHOLAR_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// LLM defaults
	// API keys are loaded exclusively from environment variables (see loadSecrets).
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai.timeout", "60s")
	v.SetDefault("llm.groq.model", "llama3-70b-8192")
	v.SetDefault("llm.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.groq.timeout", "60s")
	v.SetDefault("llm.gemini.model", "gemini-1.5-flash")
	v.SetDefault("llm.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.gemini.timeout", "60s")
	v.SetDefault("llm.huggingface.model", "mistralai/Mistral-7B-Instruct-v0.2")
	v.SetDefault("llm.huggingface.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("llm.huggingface.timeout", "60s")
	v.SetDefault("llm.ollama.model", "llama3")
	v.SetDefault("llm.ollama.base_url", "http://localhost:11434")
	v.SetDefault("llm.ollama.timeout", "120s")

	// Embedding defaults
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.timeout", "30s")

	// Paper source defaults
	v.SetDefault("sources.max_results", 15)
	v.SetDefault("sources.arxiv.base_url", "http://export.arxiv.org/api")
	v.SetDefault("sources.arxiv.timeout", "30s")
	v.SetDefault("sources.arxiv.rate_limit", 3.0) // arXiv recommends max 3 req/sec
	v.SetDefault("sources.semantic_scholar.base_url", "https://api.semanticscholar.org/graph/v1")
	v.SetDefault("sources.semantic_scholar.timeout", "30s")
	v.SetDefault("sources.semantic_scholar.rate_limit", 10.0)

	// Scraper defaults
	v.SetDefault("scraper.fetch_timeout", "20s")
	v.SetDefault("scraper.min_delay", "1s")
	v.SetDefault("scraper.cache_ttl", "1h")
	v.SetDefault("scraper.max_search_results", 5)

	// Store defaults
	v.SetDefault("store.path", "discovery.db")

	// Ranking defaults
	v.SetDefault("ranking.countries", []string{})
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validProviders := map[string]bool{
		"openai": true, "groq": true, "gemini": true,
		"huggingface": true, "ollama": true,
	}
	if !validProviders[strings.ToLower(c.LLM.Provider)] {
		return fmt.Errorf("invalid LLM provider: %s", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM temperature must be between 0 and 2")
	}

	if c.Sources.MaxResults <= 0 {
		return fmt.Errorf("sources max_results must be positive")
	}
	if c.Sources.ArXiv.RateLimit <= 0 {
		return fmt.Errorf("arxiv rate_limit must be positive")
	}
	if c.Sources.SemanticScholar.RateLimit <= 0 {
		return fmt.Errorf("semantic_scholar rate_limit must be positive")
	}

	if c.Scraper.MinDelay < 0 {
		return fmt.Errorf("scraper min_delay must not be negative")
	}
	if c.Scraper.MaxSearchResults <= 0 {
		return fmt.Errorf("scraper max_search_results must be positive")
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	return nil
}
