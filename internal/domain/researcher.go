package domain

// Link is the set of web addresses discovered for a researcher. Any field
// may be empty, meaning "not found". Discovered links are not guaranteed to
// be live or correct; they are candidates taken from a web search backend.
type Link struct {
	// Homepage is the first search hit for the researcher, if any.
	Homepage string `json:"homepage"`

	// Scholar is a Google Scholar profile URL, if one appeared in the hits.
	Scholar string `json:"scholar"`

	// LinkedIn is a LinkedIn profile URL, if one appeared in the hits.
	LinkedIn string `json:"linkedin"`
}

// ResearcherProfile is the aggregated record of one author: the papers they
// appeared on, the topics derived from those papers, enrichment data scraped
// from the open web, and the match score assigned by the ranking engine.
//
// Profiles are keyed by the exact author display string; two authors with
// identical display strings are merged, and no deduplication happens across
// name variants. Papers and Topics are append-only while the profile builder
// runs and frozen afterwards.
type ResearcherProfile struct {
	// Name is the author display string used as the grouping key.
	Name string `json:"name"`

	// Papers holds every paper this author appeared on, in discovery order.
	// Duplicates are not removed.
	Papers []Paper `json:"papers"`

	// Topics holds the titles of this author's papers, in paper order.
	Topics []string `json:"topics"`

	// Link holds web addresses discovered during enrichment.
	Link Link `json:"link"`

	// Email is the first address harvested from the homepage, or empty.
	Email string `json:"email,omitempty"`

	// Country is the researcher's country, when known. Used for the
	// country preference bonus during ranking.
	Country string `json:"country,omitempty"`

	// Institution is the researcher's institution, when known.
	Institution string `json:"institution,omitempty"`

	// ResearchAreas is the leading slice of the refined interest topics
	// attached for display, at most five entries.
	ResearchAreas []string `json:"research_areas,omitempty"`

	// TopPapers holds the titles of the first three papers.
	TopPapers []string `json:"top_papers,omitempty"`

	// MatchScore is the weighted ranking score in [0,1], rounded to four
	// decimal places. It is nil until the ranking engine runs, which
	// happens exactly once per request.
	MatchScore *float64 `json:"match_score,omitempty"`
}

// Scored reports whether the ranking engine has assigned a match score.
func (r *ResearcherProfile) Scored() bool {
	return r.MatchScore != nil
}
