// Package main provides the entry point for the researcher discovery service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/scholarlens/discovery-service/internal/config"
	"github.com/scholarlens/discovery-service/internal/discovery"
	"github.com/scholarlens/discovery-service/internal/embedding"
	"github.com/scholarlens/discovery-service/internal/llm"
	"github.com/scholarlens/discovery-service/internal/observability"
	"github.com/scholarlens/discovery-service/internal/papersources"
	"github.com/scholarlens/discovery-service/internal/papersources/arxiv"
	"github.com/scholarlens/discovery-service/internal/papersources/semanticscholar"
	"github.com/scholarlens/discovery-service/internal/ranking"
	"github.com/scholarlens/discovery-service/internal/scraper"
	httpserver "github.com/scholarlens/discovery-service/internal/server/http"
	"github.com/scholarlens/discovery-service/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Best-effort .env loading for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("discovery-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("discovery")

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to close store")
		}
	}()
	logger.Info().Str("path", cfg.Store.Path).Msg("store opened")

	router := llm.NewRouter(llm.RouterConfig{
		OpenAI:      llm.OpenAIConfig{BaseURL: cfg.LLM.OpenAI.BaseURL, Timeout: cfg.LLM.OpenAI.Timeout},
		Groq:        llm.GroqConfig{BaseURL: cfg.LLM.Groq.BaseURL, Timeout: cfg.LLM.Groq.Timeout},
		Gemini:      llm.GeminiConfig{BaseURL: cfg.LLM.Gemini.BaseURL, Timeout: cfg.LLM.Gemini.Timeout},
		HuggingFace: llm.HuggingFaceConfig{BaseURL: cfg.LLM.HuggingFace.BaseURL, Timeout: cfg.LLM.HuggingFace.Timeout},
		Ollama:      llm.OllamaConfig{BaseURL: cfg.LLM.Ollama.BaseURL, Timeout: cfg.LLM.Ollama.Timeout},
	})

	aggregator := papersources.NewAggregator(logger, metrics,
		arxiv.New(arxiv.Config{
			BaseURL:   cfg.Sources.ArXiv.BaseURL,
			Timeout:   cfg.Sources.ArXiv.Timeout,
			RateLimit: cfg.Sources.ArXiv.RateLimit,
		}),
		semanticscholar.New(semanticscholar.Config{
			BaseURL:   cfg.Sources.SemanticScholar.BaseURL,
			APIKey:    cfg.Sources.SemanticScholar.APIKey,
			Timeout:   cfg.Sources.SemanticScholar.Timeout,
			RateLimit: cfg.Sources.SemanticScholar.RateLimit,
		}),
	)

	webSearch := scraper.NewDuckDuckGoSearcher(scraper.DuckDuckGoConfig{
		Timeout: cfg.Scraper.FetchTimeout,
	})
	enricher := scraper.New(scraper.Config{
		FetchTimeout:  cfg.Scraper.FetchTimeout,
		RateFloor:     cfg.Scraper.MinDelay,
		CacheTTL:      cfg.Scraper.CacheTTL,
		SearchResults: cfg.Scraper.MaxSearchResults,
	}, webSearch, metrics, logger)

	// The embedding backend is initialized lazily on first rank.
	embedder := embedding.NewLazy(func() (embedding.Embedder, error) {
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("embedding API key is not configured")
		}
		return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL: cfg.Embedding.BaseURL,
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
			Timeout: cfg.Embedding.Timeout,
		}), nil
	})
	ranker := ranking.New(embedder)

	svc := discovery.New(
		discovery.Config{
			MaxResults: cfg.Sources.MaxResults,
			Credentials: map[string]string{
				"openai":      cfg.LLM.OpenAI.APIKey,
				"groq":        cfg.LLM.Groq.APIKey,
				"gemini":      cfg.LLM.Gemini.APIKey,
				"huggingface": cfg.LLM.HuggingFace.APIKey,
			},
		},
		router, aggregator, enricher, ranker, st, metrics, logger,
	)

	httpSrv := httpserver.NewServer(httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsPath:     cfg.Metrics.Path,
	}, svc, st, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().Str("http_address", cfg.Server.HTTPAddress()).Msg("discovery-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down discovery-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("discovery-service stopped")
	return nil
}
