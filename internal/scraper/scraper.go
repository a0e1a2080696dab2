// Package scraper enriches researcher profiles with information from the
// open web under a strict politeness discipline.
//
// Every outbound page fetch walks the same state machine:
//
//	CHECK_ROBOTS -> RATE_LIMIT_WAIT -> FETCH -> EXTRACT
//
// with terminal outcomes ALLOWED_AND_FETCHED, DISALLOWED, and FETCH_FAILED.
// Robots failures fail closed (treated as disallow), the rate limit is one
// global token across all targets, and fetched bodies are cached by URL
// with a fixed TTL. The limiter, cache, and clock are injected state, not
// package globals, so tests can drive them deterministically.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/observability"
)

// BotUserAgent is the declared bot identifier sent with every fetch.
const BotUserAgent = "AcademicResearcherDiscoveryBot/1.0"

// Default politeness parameters.
const (
	// DefaultFetchTimeout bounds each page GET.
	DefaultFetchTimeout = 20 * time.Second

	// DefaultRateFloor is the minimum interval between outbound fetches.
	DefaultRateFloor = time.Second

	// DefaultCacheTTL is how long fetched bodies are reused.
	DefaultCacheTTL = time.Hour

	// DefaultSearchResults is how many web search hits are considered
	// when locating researcher links.
	DefaultSearchResults = 5
)

// ProfileInfo is the content extracted from a researcher's homepage.
type ProfileInfo struct {
	// Title is the page title, or empty.
	Title string

	// Emails holds every address harvested from the page text,
	// deduplicated and sorted.
	Emails []string

	// Text is the extracted page text, capped at 5000 characters.
	Text string
}

// Enrichment is the result of enriching one researcher.
type Enrichment struct {
	// Link holds the discovered homepage/scholar/linkedin addresses.
	Link domain.Link

	// Email is the first harvested address, or empty.
	Email string
}

// Config holds scraper configuration.
type Config struct {
	// FetchTimeout bounds each page GET (default 20s).
	FetchTimeout time.Duration

	// RateFloor is the minimum interval between fetches (default 1s).
	RateFloor time.Duration

	// CacheTTL is the response cache lifetime (default 1h).
	CacheTTL time.Duration

	// SearchResults is the web search hit count (default 5).
	SearchResults int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.FetchTimeout == 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.RateFloor == 0 {
		c.RateFloor = DefaultRateFloor
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.SearchResults == 0 {
		c.SearchResults = DefaultSearchResults
	}
}

// Scraper finds and fetches researcher web pages politely.
type Scraper struct {
	config     Config
	search     WebSearcher
	httpClient *http.Client
	limiter    *PaceLimiter
	cache      Cache
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// New creates a scraper with a real clock, an in-memory response cache,
// and the global pace limiter. The metrics may be nil.
func New(cfg Config, search WebSearcher, metrics *observability.Metrics, logger zerolog.Logger) *Scraper {
	clock := NewRealClock()
	cfg.applyDefaults()
	return NewWithState(cfg, search, NewPaceLimiter(clock, cfg.RateFloor), NewMemoryCache(clock, cfg.CacheTTL), metrics, logger)
}

// NewWithState creates a scraper over explicit limiter and cache state.
// Tests use this with a fake clock.
func NewWithState(cfg Config, search WebSearcher, limiter *PaceLimiter, cache Cache, metrics *observability.Metrics, logger zerolog.Logger) *Scraper {
	cfg.applyDefaults()
	return &Scraper{
		config:     cfg,
		search:     search,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		limiter:    limiter,
		cache:      cache,
		metrics:    metrics,
		logger:     logger.With().Str("component", "scraper").Logger(),
	}
}

// FetchPage runs the politeness state machine for one URL and returns the
// page body. A robots disallow (or unreadable robots policy) yields an
// empty body with no error; a failed fetch yields a domain.UpstreamError.
// Cached bodies are served without touching robots or the rate limiter
// because no request leaves the process.
func (s *Scraper) FetchPage(ctx context.Context, pageURL string) (string, error) {
	start := time.Now()

	if body, ok := s.cache.Get(pageURL); ok {
		s.recordFetch("cached", start)
		return string(body), nil
	}

	if !s.robotsAllowed(ctx, pageURL) {
		violation := domain.NewPolitenessViolationError(pageURL, "disallowed or unreadable robots policy")
		s.logger.Debug().Err(violation).Msg("skipping fetch")
		s.recordFetch("robots_denied", start)
		return "", nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating fetch request: %w", err)
	}
	req.Header.Set("User-Agent", BotUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.recordFetch("failed", start)
		return "", domain.NewUpstreamError("scrape", 0, "fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.recordFetch("failed", start)
		return "", domain.NewUpstreamError("scrape", resp.StatusCode, "fetch returned non-success status", nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		s.recordFetch("failed", start)
		return "", domain.NewUpstreamError("scrape", resp.StatusCode, "reading page body", err)
	}

	s.cache.Set(pageURL, body)
	s.recordFetch("fetched", start)
	return string(body), nil
}

func (s *Scraper) recordFetch(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordScrapeFetch(outcome, time.Since(start).Seconds())
	}
}

// ExtractProfileInfo fetches a page and extracts its title, text, and
// email addresses. A politeness disallow yields a zero ProfileInfo.
func (s *Scraper) ExtractProfileInfo(ctx context.Context, pageURL string) (ProfileInfo, error) {
	html, err := s.FetchPage(ctx, pageURL)
	if err != nil {
		return ProfileInfo{}, err
	}
	if html == "" {
		return ProfileInfo{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ProfileInfo{}, fmt.Errorf("parsing page: %w", err)
	}

	text := pageText(doc)
	emails := ExtractEmails(text)
	if s.metrics != nil && len(emails) > 0 {
		s.metrics.RecordEmailsHarvested(len(emails))
	}
	return ProfileInfo{
		Title:  pageTitle(doc),
		Emails: emails,
		Text:   text,
	}, nil
}

// FindLinks issues one web search for the researcher and scans the hits:
// the first hit becomes the homepage candidate (hits keep backend order),
// and every hit is checked for known academic-profile host substrings.
func (s *Scraper) FindLinks(ctx context.Context, name, institution string) (domain.Link, error) {
	query := fmt.Sprintf("%s %s university homepage", name, institution)

	hits, err := s.search.Search(ctx, query, s.config.SearchResults)
	if err != nil {
		return domain.Link{}, err
	}

	var link domain.Link
	if len(hits) > 0 {
		link.Homepage = hits[0].URL
	}
	for _, hit := range hits {
		if strings.Contains(hit.URL, "scholar.google") {
			link.Scholar = hit.URL
		}
		if strings.Contains(hit.URL, "linkedin.com") {
			link.LinkedIn = hit.URL
		}
	}
	return link, nil
}

// Enrich composes link discovery and homepage extraction for one
// researcher. When no homepage is found, or the homepage fetch is
// disallowed by politeness, the enrichment degrades to the discovered
// links with an empty email rather than erroring.
func (s *Scraper) Enrich(ctx context.Context, name, institution string) (Enrichment, error) {
	link, err := s.FindLinks(ctx, name, institution)
	if err != nil {
		return Enrichment{}, err
	}

	enrichment := Enrichment{Link: link}
	if link.Homepage == "" {
		return enrichment, nil
	}

	info, err := s.ExtractProfileInfo(ctx, link.Homepage)
	if err != nil {
		return Enrichment{}, err
	}
	if len(info.Emails) > 0 {
		enrichment.Email = info.Emails[0]
	}
	return enrichment, nil
}
