package papersources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/observability"
)

// Aggregator queries the two literature sources in sequence, arXiv first,
// and concatenates their results in source order. There is no per-source
// isolation: the first source failure aborts the whole aggregation and is
// returned to the caller, discarding any papers already collected.
type Aggregator struct {
	arxiv           PaperSource
	semanticScholar PaperSource
	metrics         *observability.Metrics
	logger          zerolog.Logger
}

// NewAggregator creates an aggregator over the arXiv and Semantic Scholar
// clients. The metrics may be nil.
func NewAggregator(logger zerolog.Logger, metrics *observability.Metrics, arxiv, semanticScholar PaperSource) *Aggregator {
	return &Aggregator{
		arxiv:           arxiv,
		semanticScholar: semanticScholar,
		metrics:         metrics,
		logger:          logger.With().Str("component", "aggregator").Logger(),
	}
}

// Search issues one query per source in sequence (not interleaved), each
// bounded by its client's own timeout, and returns the combined paper list
// in discovery order.
func (a *Aggregator) Search(ctx context.Context, arxivQuery, semanticScholarQuery string, maxResults int) ([]domain.Paper, error) {
	var papers []domain.Paper
	for _, leg := range []struct {
		source PaperSource
		query  string
	}{
		{a.arxiv, arxivQuery},
		{a.semanticScholar, semanticScholarQuery},
	} {
		start := time.Now()
		legLogger := observability.WithSearchContext(a.logger, leg.query, leg.source.Name())
		if a.metrics != nil {
			a.metrics.RecordSearchStarted(leg.source.Name())
		}
		found, err := leg.source.Search(ctx, SearchParams{Query: leg.query, MaxResults: maxResults})
		if err != nil {
			if a.metrics != nil {
				a.metrics.RecordSearchFailed(leg.source.Name(), time.Since(start).Seconds())
			}
			legLogger.Warn().Err(err).Msg("source search failed")
			return nil, fmt.Errorf("searching %s: %w", leg.source.Name(), err)
		}
		if a.metrics != nil {
			a.metrics.RecordSearchCompleted(leg.source.Name(), len(found), time.Since(start).Seconds())
		}

		legLogger.Debug().
			Int("papers", len(found)).
			Msg("source search completed")
		papers = append(papers, found...)
	}
	return papers, nil
}

// BuildQuery joins non-blank topics with an OR connector, percent-encoding
// each term individually rather than the joined string. Slashes stay
// unescaped so slash-containing topics round-trip verbatim.
func BuildQuery(topics []string) string {
	encoded := make([]string, 0, len(topics))
	for _, topic := range topics {
		if strings.TrimSpace(topic) == "" {
			continue
		}
		encoded = append(encoded, strings.ReplaceAll(url.PathEscape(topic), "%2F", "/"))
	}
	return strings.Join(encoded, " OR ")
}
