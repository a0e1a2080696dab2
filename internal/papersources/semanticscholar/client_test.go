package semanticscholar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/papersources"
)

func TestClient_Search(t *testing.T) {
	t.Run("parses search response into papers", func(t *testing.T) {
		var gotQuery, gotLimit, gotFields string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/paper/search", r.URL.Path)
			gotQuery = r.URL.Query().Get("query")
			gotLimit = r.URL.Query().Get("limit")
			gotFields = r.URL.Query().Get("fields")
			w.Write([]byte(`{
				"total": 2,
				"data": [
					{
						"paperId": "p1",
						"title": "Graph Neural Networks",
						"abstract": "A survey.",
						"url": "https://www.semanticscholar.org/paper/p1",
						"authors": [{"authorId": "a1", "name": "Dana Lee"}, {"authorId": "a2"}]
					},
					{
						"paperId": "p2",
						"title": "Untitled Follow-up",
						"authors": []
					}
				]
			}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, RateLimit: 100, BurstSize: 10})
		papers, err := client.Search(context.Background(), papersources.SearchParams{
			Query:      "graph networks",
			MaxResults: 15,
		})

		require.NoError(t, err)
		require.Len(t, papers, 2)

		assert.Equal(t, "graph networks", gotQuery)
		assert.Equal(t, "15", gotLimit)
		assert.Equal(t, "title,abstract,authors,url,publicationDate", gotFields)

		first := papers[0]
		assert.Equal(t, "Graph Neural Networks", first.Title)
		assert.Equal(t, "A survey.", first.Summary)
		assert.Equal(t, "https://www.semanticscholar.org/paper/p1", first.URL)
		assert.Equal(t, domain.SourceTypeSemanticScholar, first.Source)
		// Nameless authors keep their slot so list lengths are preserved.
		assert.Equal(t, []string{"Dana Lee", ""}, first.Authors)

		assert.Equal(t, "", papers[1].Summary)
		assert.Empty(t, papers[1].Authors)
	})

	t.Run("sends api key header when configured", func(t *testing.T) {
		var gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("x-api-key")
			w.Write([]byte(`{"total":0,"data":[]}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, APIKey: "ss-key", RateLimit: 100, BurstSize: 10})
		_, err := client.Search(context.Background(), papersources.SearchParams{Query: "q"})

		require.NoError(t, err)
		assert.Equal(t, "ss-key", gotKey)
	})

	t.Run("non-200 is an upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, RateLimit: 100, BurstSize: 10})
		_, err := client.Search(context.Background(), papersources.SearchParams{Query: "q"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}

func TestClient_Identity(t *testing.T) {
	client := New(Config{})
	assert.Equal(t, domain.SourceTypeSemanticScholar, client.SourceType())
	assert.Equal(t, "Semantic Scholar", client.Name())
}
