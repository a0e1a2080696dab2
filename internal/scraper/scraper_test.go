package scraper

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlens/discovery-service/internal/domain"
)

type stubSearcher struct {
	gotQuery string
	gotMax   int
	hits     []SearchHit
	err      error
}

func (s *stubSearcher) Search(_ context.Context, query string, maxResults int) ([]SearchHit, error) {
	s.gotQuery = query
	s.gotMax = maxResults
	return s.hits, s.err
}

func newTestScraper(search WebSearcher) *Scraper {
	clock := newFakeClock()
	return NewWithState(Config{}, search,
		NewPaceLimiter(clock, 0), NewMemoryCache(clock, time.Hour), nil, zerolog.Nop())
}

// pageHost serves a robots policy and a page body, counting fetches.
type pageHost struct {
	robots     string
	robotsCode int
	page       string
	pageCalls  int
	gotUA      string
}

func (h *pageHost) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		if h.robotsCode != 0 {
			w.WriteHeader(h.robotsCode)
		}
		w.Write([]byte(h.robots))
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		h.pageCalls++
		h.gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(h.page))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchPage(t *testing.T) {
	t.Run("allowed fetch returns the body with the bot user agent", func(t *testing.T) {
		host := &pageHost{robots: "User-agent: *\nAllow: /", page: "<html>hello</html>"}
		server := host.start(t)
		s := newTestScraper(nil)

		body, err := s.FetchPage(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "<html>hello</html>", body)
		assert.Equal(t, BotUserAgent, host.gotUA)
	})

	t.Run("repeat fetch is served from cache", func(t *testing.T) {
		host := &pageHost{robots: "User-agent: *\nAllow: /", page: "cached body"}
		server := host.start(t)
		s := newTestScraper(nil)

		_, err := s.FetchPage(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		body, err := s.FetchPage(context.Background(), server.URL+"/page")
		require.NoError(t, err)

		assert.Equal(t, "cached body", body)
		assert.Equal(t, 1, host.pageCalls)
	})

	t.Run("robots disallow yields empty body without fetching", func(t *testing.T) {
		host := &pageHost{robots: "User-agent: *\nDisallow: /"}
		server := host.start(t)
		s := newTestScraper(nil)

		body, err := s.FetchPage(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Empty(t, body)
		assert.Zero(t, host.pageCalls)
	})

	t.Run("disallow is reported as a politeness violation", func(t *testing.T) {
		host := &pageHost{robots: "User-agent: *\nDisallow: /"}
		server := host.start(t)

		var buf bytes.Buffer
		clock := newFakeClock()
		s := NewWithState(Config{}, nil,
			NewPaceLimiter(clock, 0), NewMemoryCache(clock, time.Hour), nil, zerolog.New(&buf))

		body, err := s.FetchPage(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Empty(t, body)
		assert.Contains(t, buf.String(), "fetch disallowed for "+server.URL+"/page")
	})

	t.Run("unreadable robots policy fails closed", func(t *testing.T) {
		host := &pageHost{robots: "boom", robotsCode: http.StatusInternalServerError, page: "secret"}
		server := host.start(t)
		s := newTestScraper(nil)

		body, err := s.FetchPage(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Empty(t, body)
		assert.Zero(t, host.pageCalls)
	})

	t.Run("missing robots file allows fetching", func(t *testing.T) {
		host := &pageHost{robotsCode: http.StatusNotFound, page: "open host"}
		server := host.start(t)
		s := newTestScraper(nil)

		body, err := s.FetchPage(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "open host", body)
	})

	t.Run("relative URL fails closed", func(t *testing.T) {
		s := newTestScraper(nil)

		body, err := s.FetchPage(context.Background(), "/just/a/path")
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("non-success page status is an upstream error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("User-agent: *\nAllow: /"))
		})
		mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		server := httptest.NewServer(mux)
		defer server.Close()
		s := newTestScraper(nil)

		_, err := s.FetchPage(context.Background(), server.URL+"/gone")
		require.ErrorIs(t, err, domain.ErrUpstream)

		var upstreamErr *domain.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	})
}

func TestExtractProfileInfo(t *testing.T) {
	t.Run("extracts title, text, and emails", func(t *testing.T) {
		host := &pageHost{
			robots: "User-agent: *\nAllow: /",
			page: `<html><head><title>Prof. Zoe Chen</title></head><body>
				<p>Research in robotics. Contact zoe@uni.edu or lab@uni.edu.</p>
			</body></html>`,
		}
		server := host.start(t)
		s := newTestScraper(nil)

		info, err := s.ExtractProfileInfo(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "Prof. Zoe Chen", info.Title)
		assert.Equal(t, []string{"lab@uni.edu", "zoe@uni.edu"}, info.Emails)
		assert.Contains(t, info.Text, "Research in robotics.")
	})

	t.Run("disallowed page yields a zero profile", func(t *testing.T) {
		host := &pageHost{robots: "User-agent: *\nDisallow: /"}
		server := host.start(t)
		s := newTestScraper(nil)

		info, err := s.ExtractProfileInfo(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, ProfileInfo{}, info)
	})
}

func TestFindLinks(t *testing.T) {
	t.Run("builds the query and maps hits to links", func(t *testing.T) {
		search := &stubSearcher{hits: []SearchHit{
			{Title: "Homepage", URL: "https://cs.uni.edu/~zchen"},
			{Title: "Scholar", URL: "https://scholar.google.com/citations?user=abc"},
			{Title: "LinkedIn", URL: "https://www.linkedin.com/in/zchen"},
		}}
		s := newTestScraper(search)

		link, err := s.FindLinks(context.Background(), "Zoe Chen", "Example University")
		require.NoError(t, err)
		assert.Equal(t, "Zoe Chen Example University university homepage", search.gotQuery)
		assert.Equal(t, DefaultSearchResults, search.gotMax)
		assert.Equal(t, "https://cs.uni.edu/~zchen", link.Homepage)
		assert.Equal(t, "https://scholar.google.com/citations?user=abc", link.Scholar)
		assert.Equal(t, "https://www.linkedin.com/in/zchen", link.LinkedIn)
	})

	t.Run("later profile hits win", func(t *testing.T) {
		search := &stubSearcher{hits: []SearchHit{
			{URL: "https://scholar.google.com/first"},
			{URL: "https://scholar.google.com/second"},
		}}
		s := newTestScraper(search)

		link, err := s.FindLinks(context.Background(), "A", "B")
		require.NoError(t, err)
		assert.Equal(t, "https://scholar.google.com/first", link.Homepage)
		assert.Equal(t, "https://scholar.google.com/second", link.Scholar)
	})

	t.Run("no hits yields empty links", func(t *testing.T) {
		s := newTestScraper(&stubSearcher{})

		link, err := s.FindLinks(context.Background(), "A", "B")
		require.NoError(t, err)
		assert.Equal(t, domain.Link{}, link)
	})

	t.Run("search errors propagate", func(t *testing.T) {
		wantErr := domain.NewUpstreamError("websearch", 503, "down", nil)
		s := newTestScraper(&stubSearcher{err: wantErr})

		_, err := s.FindLinks(context.Background(), "A", "B")
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}

func TestEnrich(t *testing.T) {
	t.Run("harvests the first email from the homepage", func(t *testing.T) {
		host := &pageHost{
			robots: "User-agent: *\nAllow: /",
			page:   `<html><body><p>Write to zoe@uni.edu or assistant@uni.edu.</p></body></html>`,
		}
		server := host.start(t)
		search := &stubSearcher{hits: []SearchHit{{URL: server.URL + "/page"}}}
		s := newTestScraper(search)

		enrichment, err := s.Enrich(context.Background(), "Zoe Chen", "Example University")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/page", enrichment.Link.Homepage)
		assert.Equal(t, "assistant@uni.edu", enrichment.Email)
	})

	t.Run("no homepage degrades to links only", func(t *testing.T) {
		search := &stubSearcher{hits: []SearchHit{}}
		s := newTestScraper(search)

		enrichment, err := s.Enrich(context.Background(), "Zoe Chen", "Example University")
		require.NoError(t, err)
		assert.Equal(t, Enrichment{}, enrichment)
	})

	t.Run("disallowed homepage degrades to links with empty email", func(t *testing.T) {
		host := &pageHost{robots: "User-agent: *\nDisallow: /"}
		server := host.start(t)
		search := &stubSearcher{hits: []SearchHit{{URL: server.URL + "/page"}}}
		s := newTestScraper(search)

		enrichment, err := s.Enrich(context.Background(), "Zoe Chen", "Example University")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/page", enrichment.Link.Homepage)
		assert.Empty(t, enrichment.Email)
	})
}
