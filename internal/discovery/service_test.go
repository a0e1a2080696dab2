package discovery

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/interest"
	"github.com/scholarlens/discovery-service/internal/llm"
	"github.com/scholarlens/discovery-service/internal/scraper"
	"github.com/scholarlens/discovery-service/internal/store"
)

type stubRouter struct {
	gotProvider string
	gotReq      llm.GenerateRequest
	response    string
	err         error
}

func (s *stubRouter) Generate(_ context.Context, provider string, req llm.GenerateRequest) (string, error) {
	s.gotProvider = provider
	s.gotReq = req
	return s.response, s.err
}

type stubSearcher struct {
	gotArxivQuery string
	gotSSQuery    string
	gotMax        int
	papers        []domain.Paper
	err           error
}

func (s *stubSearcher) Search(_ context.Context, arxivQuery, ssQuery string, maxResults int) ([]domain.Paper, error) {
	s.gotArxivQuery = arxivQuery
	s.gotSSQuery = ssQuery
	s.gotMax = maxResults
	return s.papers, s.err
}

type stubEnricher struct {
	byName map[string]scraper.Enrichment
	err    error
	calls  int
}

func (s *stubEnricher) Enrich(_ context.Context, name, _ string) (scraper.Enrichment, error) {
	s.calls++
	if s.err != nil {
		return scraper.Enrichment{}, s.err
	}
	return s.byName[name], nil
}

// passRanker returns its input unchanged, recording the call.
type passRanker struct {
	gotTopics    []string
	gotCountries []string
	err          error
}

func (r *passRanker) Rank(_ context.Context, researchers []*domain.ResearcherProfile, topics, countries []string) ([]*domain.ResearcherProfile, error) {
	r.gotTopics = topics
	r.gotCountries = countries
	if r.err != nil {
		return nil, r.err
	}
	return researchers, nil
}

type recordingStore struct {
	savedSessionID string
	savedResults   []*domain.ResearcherProfile
	err            error
}

func (s *recordingStore) SaveSession(context.Context, []string, []string, string, string) (string, error) {
	return "session-id", nil
}

func (s *recordingStore) SaveResults(_ context.Context, sessionID string, researchers []*domain.ResearcherProfile) error {
	s.savedSessionID = sessionID
	s.savedResults = researchers
	return s.err
}

func (s *recordingStore) Results(context.Context, string) ([]*domain.ResearcherProfile, error) {
	return nil, nil
}

func (s *recordingStore) ListSessions(context.Context) ([]store.Session, error) {
	return nil, nil
}

func (s *recordingStore) SaveAlert(context.Context, string, string) error {
	return nil
}

func TestRefineInterests(t *testing.T) {
	profile := domain.InterestProfile{Topics: []string{"robotics", "vision"}}

	t.Run("unusable provider returns raw topics", func(t *testing.T) {
		router := &stubRouter{}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		refined, err := svc.RefineInterests(context.Background(), interest.ProviderContext{}, profile)
		require.NoError(t, err)
		assert.Equal(t, profile.Topics, refined)
		assert.Empty(t, router.gotProvider)
	})

	t.Run("usable provider refines through the model", func(t *testing.T) {
		router := &stubRouter{response: "robot learning, manipulation"}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		refined, err := svc.RefineInterests(context.Background(),
			interest.ProviderContext{Provider: "openai", APIKey: "k"}, profile)
		require.NoError(t, err)
		assert.Equal(t, []string{"robot learning", "manipulation"}, refined)
		assert.Equal(t, "openai", router.gotProvider)
	})

	t.Run("model errors propagate", func(t *testing.T) {
		router := &stubRouter{err: errors.New("backend down")}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		_, err := svc.RefineInterests(context.Background(),
			interest.ProviderContext{Provider: "openai", APIKey: "k"}, profile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refining interests")
	})

	t.Run("server credentials back requests without keys", func(t *testing.T) {
		router := &stubRouter{response: "a"}
		svc := New(Config{Credentials: map[string]string{"openai": "server-key"}},
			router, nil, nil, nil, nil, nil, zerolog.Nop())

		_, err := svc.RefineInterests(context.Background(),
			interest.ProviderContext{Provider: "OpenAI"}, profile)
		require.NoError(t, err)
		assert.Equal(t, "server-key", router.gotReq.APIKey)
	})

	t.Run("ollama needs no credential", func(t *testing.T) {
		router := &stubRouter{response: "a"}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		refined, err := svc.RefineInterests(context.Background(),
			interest.ProviderContext{Provider: "ollama"}, profile)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, refined)
	})
}

func TestAskQuestions(t *testing.T) {
	t.Run("unusable provider falls back to the default question", func(t *testing.T) {
		svc := New(Config{}, &stubRouter{}, nil, nil, nil, nil, nil, zerolog.Nop())

		got := svc.AskQuestions(context.Background(), interest.ProviderContext{}, "background")
		assert.Equal(t, DefaultClarifyingQuestion, got)
	})

	t.Run("model errors fall back to the default question", func(t *testing.T) {
		router := &stubRouter{err: errors.New("backend down")}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		got := svc.AskQuestions(context.Background(),
			interest.ProviderContext{Provider: "openai", APIKey: "k"}, "background")
		assert.Equal(t, DefaultClarifyingQuestion, got)
	})

	t.Run("successful calls return the model output", func(t *testing.T) {
		router := &stubRouter{response: "What datasets do you use?"}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		got := svc.AskQuestions(context.Background(),
			interest.ProviderContext{Provider: "openai", APIKey: "k"}, "background")
		assert.Equal(t, "What datasets do you use?", got)
	})
}

func TestDraftEmail(t *testing.T) {
	t.Run("templates professor and interests into the prompt", func(t *testing.T) {
		router := &stubRouter{response: "Dear Prof. Chen, ..."}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		email := svc.DraftEmail(context.Background(),
			interest.ProviderContext{Provider: "openai", APIKey: "k"},
			"Zoe Chen", []string{"robotics", "vision"})

		assert.Equal(t, "Dear Prof. Chen, ...", email)
		assert.Equal(t,
			"Draft a concise, professional cold email to a professor about research fit. "+
				"Professor: Zoe Chen. Student interests: robotics, vision.",
			router.gotReq.Prompt)
	})

	t.Run("unusable provider falls back to the static email", func(t *testing.T) {
		svc := New(Config{}, &stubRouter{}, nil, nil, nil, nil, nil, zerolog.Nop())

		email := svc.DraftEmail(context.Background(), interest.ProviderContext{}, "Zoe Chen", nil)
		assert.Equal(t, FallbackEmail, email)
	})

	t.Run("model errors fall back to the static email", func(t *testing.T) {
		router := &stubRouter{err: errors.New("backend down")}
		svc := New(Config{}, router, nil, nil, nil, nil, nil, zerolog.Nop())

		email := svc.DraftEmail(context.Background(),
			interest.ProviderContext{Provider: "openai", APIKey: "k"}, "Zoe Chen", nil)
		assert.Equal(t, FallbackEmail, email)
	})
}

func TestDiscoverAndRank(t *testing.T) {
	interests := []string{"robot learning", "manipulation", "grasping", "planning", "control", "beyond"}

	t.Run("runs the full pipeline", func(t *testing.T) {
		searcher := &stubSearcher{papers: []domain.Paper{
			{Title: "P1", Authors: []string{"Zoe Chen"}},
			{Title: "P2", Authors: []string{"Zoe Chen", "Ben Okafor"}},
			{Title: "P3", Authors: []string{"Zoe Chen"}},
			{Title: "P4", Authors: []string{"Zoe Chen"}},
		}}
		enricher := &stubEnricher{byName: map[string]scraper.Enrichment{
			"Zoe Chen": {
				Link:  domain.Link{Homepage: "https://cs.uni.edu/~zchen"},
				Email: "zoe@uni.edu",
			},
		}}
		ranker := &passRanker{}
		st := &recordingStore{}
		svc := New(Config{}, nil, searcher, enricher, ranker, st, nil, zerolog.Nop())

		ranked, err := svc.DiscoverAndRank(context.Background(), DiscoverParams{
			SessionID: "sess-1",
			Interests: interests,
			Countries: []string{"Japan"},
		})
		require.NoError(t, err)

		assert.Equal(t, "robot learning manipulation grasping planning control beyond", searcher.gotArxivQuery)
		assert.Equal(t, searcher.gotArxivQuery, searcher.gotSSQuery)
		assert.Equal(t, 15, searcher.gotMax)

		require.Len(t, ranked, 2)
		zoe := ranked[0]
		assert.Equal(t, "Zoe Chen", zoe.Name)
		assert.Equal(t, "https://cs.uni.edu/~zchen", zoe.Link.Homepage)
		assert.Equal(t, "zoe@uni.edu", zoe.Email)
		assert.Equal(t, interests[:5], zoe.ResearchAreas)
		assert.Equal(t, []string{"P1", "P2", "P3"}, zoe.TopPapers)

		ben := ranked[1]
		assert.Equal(t, "Ben Okafor", ben.Name)
		assert.Equal(t, []string{"P2"}, ben.TopPapers)

		assert.Equal(t, interests, ranker.gotTopics)
		assert.Equal(t, []string{"Japan"}, ranker.gotCountries)

		assert.Equal(t, "sess-1", st.savedSessionID)
		assert.Len(t, st.savedResults, 2)
	})

	t.Run("enrichment logs carry the researcher field", func(t *testing.T) {
		searcher := &stubSearcher{papers: []domain.Paper{{Title: "P", Authors: []string{"Zoe Chen"}}}}
		var buf bytes.Buffer
		svc := New(Config{}, nil, searcher, &stubEnricher{}, &passRanker{}, nil, nil, zerolog.New(&buf))

		_, err := svc.DiscoverAndRank(context.Background(), DiscoverParams{Interests: []string{"x"}})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"researcher":"Zoe Chen"`)
		assert.Contains(t, buf.String(), "researcher enriched")
	})

	t.Run("empty session id skips persistence", func(t *testing.T) {
		searcher := &stubSearcher{papers: []domain.Paper{{Title: "P", Authors: []string{"A"}}}}
		enricher := &stubEnricher{}
		st := &recordingStore{}
		svc := New(Config{}, nil, searcher, enricher, &passRanker{}, st, nil, zerolog.Nop())

		_, err := svc.DiscoverAndRank(context.Background(), DiscoverParams{Interests: []string{"x"}})
		require.NoError(t, err)
		assert.Empty(t, st.savedSessionID)
	})

	t.Run("search failure aborts the run", func(t *testing.T) {
		searcher := &stubSearcher{err: domain.NewUpstreamError("arXiv", 503, "down", nil)}
		svc := New(Config{}, nil, searcher, &stubEnricher{}, &passRanker{}, nil, nil, zerolog.Nop())

		_, err := svc.DiscoverAndRank(context.Background(), DiscoverParams{Interests: []string{"x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "literature search")
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("enrichment failure aborts the run", func(t *testing.T) {
		searcher := &stubSearcher{papers: []domain.Paper{{Title: "P", Authors: []string{"Zoe Chen"}}}}
		enricher := &stubEnricher{err: errors.New("fetch failed")}
		svc := New(Config{}, nil, searcher, enricher, &passRanker{}, nil, nil, zerolog.Nop())

		_, err := svc.DiscoverAndRank(context.Background(), DiscoverParams{Interests: []string{"x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enriching Zoe Chen")
	})

	t.Run("ranking failure aborts the run", func(t *testing.T) {
		searcher := &stubSearcher{papers: []domain.Paper{{Title: "P", Authors: []string{"A"}}}}
		ranker := &passRanker{err: errors.New("embedder offline")}
		svc := New(Config{}, nil, searcher, &stubEnricher{}, ranker, nil, nil, zerolog.Nop())

		_, err := svc.DiscoverAndRank(context.Background(), DiscoverParams{Interests: []string{"x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ranking researchers")
	})

	t.Run("configured max results is forwarded to the searcher", func(t *testing.T) {
		searcher := &stubSearcher{}
		svc := New(Config{MaxResults: 7}, nil, searcher, &stubEnricher{}, &passRanker{}, nil, nil, zerolog.Nop())

		_, err := svc.DiscoverAndRank(context.Background(), DiscoverParams{Interests: []string{"x"}})
		require.NoError(t, err)
		assert.Equal(t, 7, searcher.gotMax)
	})
}
