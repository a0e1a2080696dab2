// Package papersources provides clients for the literature sources the
// discovery pipeline queries and the aggregator that combines them.
//
// Each bibliographic database implements the PaperSource interface and
// normalizes its responses into domain.Paper records. The Aggregator issues
// one query per source in sequence; a source failure aborts the whole
// aggregation rather than yielding partial results.
//
// Example usage:
//
//	src := arxiv.New(arxiv.Config{})
//	papers, err := src.Search(ctx, papersources.SearchParams{
//		Query:      "graph neural networks",
//		MaxResults: 15,
//	})
package papersources

import (
	"context"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// SearchParams defines the parameters for searching a literature source.
type SearchParams struct {
	// Query is the search query string. The aggregator produces it by
	// joining topics; sources apply their own query semantics server-side.
	Query string

	// MaxResults limits the number of papers returned in a single request.
	// A value of 0 uses the source's default limit.
	MaxResults int
}

// PaperSource is the interface every literature source client implements.
type PaperSource interface {
	// Search queries the source and returns normalized paper records in
	// the order the source returned them. A non-success HTTP status or an
	// unparsable body yields a domain.UpstreamError. The call is attempted
	// at most once.
	Search(ctx context.Context, params SearchParams) ([]domain.Paper, error)

	// SourceType returns the tag stamped on papers from this source.
	SourceType() domain.SourceType

	// Name returns a human-readable name for logging and error messages.
	Name() string
}
