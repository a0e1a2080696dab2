// Package semanticscholar implements the papersources.PaperSource interface
// for the Semantic Scholar Academic Graph API.
package semanticscholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/papersources"
)

const (
	// DefaultBaseURL is the default Semantic Scholar API base URL.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultRateLimit is the default rate limit (1 request per second,
	// the unauthenticated allowance).
	DefaultRateLimit = 1.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 1

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default result limit per search request.
	DefaultMaxResults = 20

	// searchFields is the fixed field-selection list sent with every
	// search request.
	searchFields = "title,abstract,authors,url,publicationDate"

	// sourceName is the human-readable name for this source.
	sourceName = "Semantic Scholar"
)

// Config holds configuration for the Semantic Scholar client.
type Config struct {
	// BaseURL is the API base URL.
	BaseURL string

	// APIKey is an optional API key sent in the x-api-key header.
	APIKey string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	// MaxResults is the result limit when the caller does not set one.
	MaxResults int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client implements papersources.PaperSource for Semantic Scholar.
type Client struct {
	config     Config
	httpClient *papersources.HTTPClient
}

// Ensure Client implements PaperSource.
var _ papersources.PaperSource = (*Client)(nil)

// New creates a new Semantic Scholar client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	return &Client{
		config: cfg,
		httpClient: papersources.NewHTTPClient(papersources.HTTPClientConfig{
			Timeout:      cfg.Timeout,
			RateLimit:    cfg.RateLimit,
			BurstSize:    cfg.BurstSize,
			APIKey:       cfg.APIKey,
			APIKeyHeader: "x-api-key",
		}),
	}
}

// Search queries the paper search endpoint and normalizes the JSON records.
// Authors lacking a name map to empty entries rather than being dropped, so
// author list lengths are preserved.
func (c *Client) Search(ctx context.Context, params papersources.SearchParams) ([]domain.Paper, error) {
	limit := params.MaxResults
	if limit == 0 {
		limit = c.config.MaxResults
	}

	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/paper/search"

	query := url.Values{}
	query.Set("query", params.Query)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("fields", searchFields)
	baseURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError(sourceName, 0, "executing request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewUpstreamError(sourceName, resp.StatusCode, string(body), nil)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&searchResp); err != nil {
		return nil, domain.NewUpstreamError(sourceName, resp.StatusCode, "decoding response", err)
	}

	papers := make([]domain.Paper, 0, len(searchResp.Data))
	for _, record := range searchResp.Data {
		authors := make([]string, 0, len(record.Authors))
		for _, a := range record.Authors {
			authors = append(authors, a.Name)
		}

		papers = append(papers, domain.Paper{
			Title:   record.Title,
			Summary: record.Abstract,
			Authors: authors,
			Source:  domain.SourceTypeSemanticScholar,
			URL:     record.URL,
		})
	}

	return papers, nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeSemanticScholar
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}
