// Package domain defines the request-scoped value objects shared across the
// researcher discovery pipeline: papers returned by literature sources,
// researcher profiles aggregated from them, and the user's interest profile.
// All entities are created fresh per pipeline run and are never shared or
// mutated across concurrent requests.
package domain

import "strings"

// SourceType identifies which literature source produced a paper.
type SourceType string

const (
	// SourceTypeArXiv identifies the arXiv Atom query API.
	SourceTypeArXiv SourceType = "arXiv"

	// SourceTypeSemanticScholar identifies the Semantic Scholar graph API.
	SourceTypeSemanticScholar SourceType = "SemanticScholar"
)

// Paper is a normalized paper record produced by the literature search
// aggregator. It is immutable once constructed. Authors keep the display
// names and the order the source returned them in; an author entry may be
// empty when the source reported an author without a name.
type Paper struct {
	// Title is the paper title, whitespace-normalized. May be empty when
	// the source response carried no title element.
	Title string `json:"title"`

	// Summary is the abstract or summary text. May be empty.
	Summary string `json:"summary"`

	// Authors is the ordered sequence of author display names.
	Authors []string `json:"authors"`

	// Source tags which literature source produced this record.
	Source SourceType `json:"source"`

	// URL is an optional link to the paper landing page.
	URL string `json:"url,omitempty"`
}

// HasTitle reports whether the paper carries a non-blank title.
func (p *Paper) HasTitle() bool {
	return strings.TrimSpace(p.Title) != ""
}
