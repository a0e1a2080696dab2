// Package discovery orchestrates the researcher discovery pipeline: interest
// profiling, literature search, profile construction, web enrichment, and
// ranking. Each stage runs to completion before the next begins; enrichment
// is performed once per researcher, sequentially.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/interest"
	"github.com/scholarlens/discovery-service/internal/llm"
	"github.com/scholarlens/discovery-service/internal/observability"
	"github.com/scholarlens/discovery-service/internal/profiles"
	"github.com/scholarlens/discovery-service/internal/scraper"
	"github.com/scholarlens/discovery-service/internal/store"
)

// DefaultClarifyingQuestion is returned when no model provider is configured
// or the provider call fails.
const DefaultClarifyingQuestion = "Provide any additional research interests or methods you'd like to emphasize."

// FallbackEmail is returned when an email cannot be drafted by a model.
const FallbackEmail = "Please configure an LLM provider to generate a custom email."

const (
	maxResearchAreas = 5
	maxTopPapers     = 3
)

// Searcher runs a literature search across the configured paper sources.
type Searcher interface {
	Search(ctx context.Context, arxivQuery, semanticScholarQuery string, maxResults int) ([]domain.Paper, error)
}

// Enricher augments a researcher with links and contact details from the web.
type Enricher interface {
	Enrich(ctx context.Context, name, institution string) (scraper.Enrichment, error)
}

// Ranker orders researchers by relevance to the user's interests.
type Ranker interface {
	Rank(ctx context.Context, researchers []*domain.ResearcherProfile, interestTopics, preferredCountries []string) ([]*domain.ResearcherProfile, error)
}

// Config holds pipeline settings.
type Config struct {
	// MaxResults is the maximum papers requested from each source per search.
	MaxResults int

	// Credentials maps provider names to server-configured API keys, used
	// when a request does not carry its own key.
	Credentials map[string]string
}

func (c *Config) applyDefaults() {
	if c.MaxResults <= 0 {
		c.MaxResults = 15
	}
}

// Service runs the discovery pipeline.
type Service struct {
	config   Config
	router   interest.ModelCaller
	searcher Searcher
	enricher Enricher
	ranker   Ranker
	store    store.Store
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// New creates a discovery service. The store and metrics may be nil; the
// corresponding concerns are then skipped.
func New(cfg Config, router interest.ModelCaller, searcher Searcher, enricher Enricher, ranker Ranker, st store.Store, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	cfg.applyDefaults()
	return &Service{
		config:   cfg,
		router:   router,
		searcher: searcher,
		enricher: enricher,
		ranker:   ranker,
		store:    st,
		metrics:  metrics,
		logger:   logger.With().Str("component", "discovery").Logger(),
	}
}

// BuildInterestProfile derives an interest profile from background text and
// explicitly stated interests.
func (s *Service) BuildInterestProfile(text string, interests []string) domain.InterestProfile {
	return interest.BuildProfile(text, interests)
}

// RefineInterests asks the configured model to refine the profile into a
// list of research areas. Without a usable provider the raw topics are
// returned unchanged.
func (s *Service) RefineInterests(ctx context.Context, pctx interest.ProviderContext, profile domain.InterestProfile) ([]string, error) {
	pctx = s.resolveProvider(pctx)
	if !s.providerUsable(pctx) {
		return profile.Topics, nil
	}
	start := time.Now()
	refined, err := interest.Refine(ctx, s.router, pctx, profile)
	s.recordLLM(pctx.Provider, "refine", start, err)
	if err != nil {
		return nil, fmt.Errorf("refining interests: %w", err)
	}
	return refined, nil
}

// AskQuestions asks the configured model for clarifying questions about the
// user's background. Provider failures degrade to a static question rather
// than surfacing an error.
func (s *Service) AskQuestions(ctx context.Context, pctx interest.ProviderContext, text string) string {
	pctx = s.resolveProvider(pctx)
	if !s.providerUsable(pctx) {
		return DefaultClarifyingQuestion
	}
	start := time.Now()
	questions, err := interest.AskQuestions(ctx, s.router, pctx, text)
	s.recordLLM(pctx.Provider, "questions", start, err)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", pctx.Provider).Msg("clarifying questions failed, using fallback")
		return DefaultClarifyingQuestion
	}
	return questions
}

// DraftEmail drafts a cold email to a researcher about research fit.
// Provider failures degrade to a static message rather than surfacing an
// error.
func (s *Service) DraftEmail(ctx context.Context, pctx interest.ProviderContext, researcherName string, topics []string) string {
	pctx = s.resolveProvider(pctx)
	if !s.providerUsable(pctx) {
		return FallbackEmail
	}
	prompt := fmt.Sprintf(
		"Draft a concise, professional cold email to a professor about research fit. Professor: %s. Student interests: %s.",
		researcherName, strings.Join(topics, ", "),
	)
	start := time.Now()
	email, err := s.router.Generate(ctx, pctx.Provider, llm.GenerateRequest{
		Model:  pctx.Model,
		APIKey: pctx.APIKey,
		Prompt: prompt,
	})
	s.recordLLM(pctx.Provider, "draft_email", start, err)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", pctx.Provider).Msg("email drafting failed, using fallback")
		return FallbackEmail
	}
	return email
}

// DiscoverParams are the inputs to a discovery run.
type DiscoverParams struct {
	// SessionID is the persisted session to attach results to. Empty skips
	// persistence.
	SessionID string
	// Interests is the refined interest vector driving the search.
	Interests []string
	// Countries is the list of preferred countries for the ranking bonus.
	Countries []string
}

// DiscoverAndRank runs the search, profile construction, enrichment, and
// ranking stages and returns researchers ordered by descending match score.
func (s *Service) DiscoverAndRank(ctx context.Context, params DiscoverParams) ([]*domain.ResearcherProfile, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordDiscoveryStarted()
	}

	ranked, err := s.discoverAndRank(ctx, params)
	if s.metrics != nil {
		if err != nil {
			s.metrics.RecordDiscoveryFailed(time.Since(start).Seconds())
		} else {
			s.metrics.RecordDiscoveryCompleted(len(ranked), time.Since(start).Seconds())
		}
	}
	return ranked, err
}

func (s *Service) discoverAndRank(ctx context.Context, params DiscoverParams) ([]*domain.ResearcherProfile, error) {
	query := strings.Join(params.Interests, " ")
	s.logger.Info().Str("query", query).Int("max_results", s.config.MaxResults).Msg("starting discovery run")

	papers, err := s.searcher.Search(ctx, query, query, s.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("literature search: %w", err)
	}

	researchers := profiles.Build(papers)
	for _, researcher := range researchers {
		rlogger := observability.WithResearcherContext(s.logger, researcher.Name)
		enrichment, err := s.enricher.Enrich(ctx, researcher.Name, researcher.Institution)
		if err != nil {
			return nil, fmt.Errorf("enriching %s: %w", researcher.Name, err)
		}
		rlogger.Debug().
			Interface("link", enrichment.Link).
			Bool("email_found", enrichment.Email != "").
			Msg("researcher enriched")
		researcher.Link = enrichment.Link
		researcher.Email = enrichment.Email
		researcher.ResearchAreas = capStrings(params.Interests, maxResearchAreas)
		researcher.TopPapers = topTitles(researcher.Papers, maxTopPapers)
	}

	ranked, err := s.ranker.Rank(ctx, researchers, params.Interests, params.Countries)
	if err != nil {
		return nil, fmt.Errorf("ranking researchers: %w", err)
	}

	if s.store != nil && params.SessionID != "" {
		if err := s.store.SaveResults(ctx, params.SessionID, ranked); err != nil {
			return nil, fmt.Errorf("saving results: %w", err)
		}
	}

	s.logger.Info().Int("papers", len(papers)).Int("researchers", len(ranked)).Msg("discovery run complete")
	return ranked, nil
}

// recordLLM records one model call with its outcome.
func (s *Service) recordLLM(provider, operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.RecordLLMRequestFailed(provider, operation, errorType(err))
		return
	}
	s.metrics.RecordLLMRequest(provider, operation, time.Since(start).Seconds())
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthentication):
		return "authentication"
	case errors.Is(err, domain.ErrUnsupportedProvider):
		return "unsupported_provider"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	default:
		return "other"
	}
}

// providerUsable reports whether the provider context can reach a model.
// Ollama runs locally and needs no credential.
func (s *Service) providerUsable(pctx interest.ProviderContext) bool {
	if pctx.Provider == "" {
		return false
	}
	if strings.EqualFold(pctx.Provider, "ollama") {
		return true
	}
	return pctx.APIKey != ""
}

// resolveProvider fills a missing API key from server-configured credentials.
func (s *Service) resolveProvider(pctx interest.ProviderContext) interest.ProviderContext {
	if pctx.APIKey == "" {
		pctx.APIKey = s.config.Credentials[strings.ToLower(pctx.Provider)]
	}
	return pctx
}

func capStrings(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func topTitles(papers []domain.Paper, n int) []string {
	titles := make([]string, 0, n)
	for _, paper := range papers {
		if len(titles) == n {
			break
		}
		titles = append(titles, paper.Title)
	}
	return titles
}
