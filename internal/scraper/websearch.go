package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// SearchHit is one result from the web search backend, in the order the
// backend returned it. Hits are not re-ranked.
type SearchHit struct {
	Title string
	URL   string
}

// WebSearcher finds candidate web links for a free-text query.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchHit, error)
}

// Default values for the DuckDuckGo search client.
const (
	defaultSearchBaseURL = "https://html.duckduckgo.com/html/"
	defaultSearchTimeout = 20 * time.Second
)

// DuckDuckGoSearcher implements WebSearcher by scraping the HTML result
// page of DuckDuckGo, which needs no API key.
type DuckDuckGoSearcher struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// DuckDuckGoConfig holds the parameters needed to create the searcher.
type DuckDuckGoConfig struct {
	// BaseURL is the HTML endpoint (empty means the public one).
	BaseURL string
	// Timeout bounds each request (default 20s).
	Timeout time.Duration
	// UserAgent is sent with every search request.
	UserAgent string
}

// NewDuckDuckGoSearcher creates the search backend client.
func NewDuckDuckGoSearcher(cfg DuckDuckGoConfig) *DuckDuckGoSearcher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSearchBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = BotUserAgent
	}

	return &DuckDuckGoSearcher{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  ua,
	}
}

// Search fetches the result page for the query and extracts up to
// maxResults links in page order.
func (s *DuckDuckGoSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchHit, error) {
	endpoint, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing search base URL: %w", err)
	}
	values := url.Values{}
	values.Set("q", query)
	endpoint.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError("websearch", 0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamError("websearch", resp.StatusCode, "search request failed", nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError("websearch", resp.StatusCode, "parsing search results", err)
	}

	var hits []SearchHit
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		hits = append(hits, SearchHit{
			Title: sel.Text(),
			URL:   resolveRedirect(href),
		})
		return len(hits) < maxResults
	})

	return hits, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL. Links without the wrapper pass through unchanged.
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		if unescaped, err := url.QueryUnescape(target); err == nil {
			return unescaped
		}
		return target
	}
	return href
}
