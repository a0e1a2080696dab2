package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// robotsAllowed checks the target host's robots policy for the page URL.
// Any failure to retrieve or parse robots.txt is treated as disallow: the
// scraper fails closed. A 4xx robots response means the host publishes no
// policy and allows fetching, per the robotstxt status handling.
func (s *Scraper) robotsAllowed(ctx context.Context, pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", BotUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return false
	}

	// TestAgent honors the disallow-all state a 5xx robots response puts the
	// parsed data into; per-group Test does not.
	return robots.TestAgent(parsed.Path, "*")
}
