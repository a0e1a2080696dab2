// Package profiles groups papers by author name into researcher records.
package profiles

import (
	"github.com/scholarlens/discovery-service/internal/domain"
)

// Build aggregates papers into researcher profiles keyed by exact author
// display string. Two authors with identical display strings merge into one
// profile; no deduplication happens across name variants. Each author's
// papers keep discovery order with duplicates intact, and every non-empty
// paper title is appended to the author's topics in paper order. The output
// preserves first-appearance order of the authors.
func Build(papers []domain.Paper) []*domain.ResearcherProfile {
	byName := make(map[string]*domain.ResearcherProfile)
	var order []*domain.ResearcherProfile

	for _, paper := range papers {
		for _, author := range paper.Authors {
			profile, ok := byName[author]
			if !ok {
				profile = &domain.ResearcherProfile{
					Name:   author,
					Papers: make([]domain.Paper, 0, 1),
					Topics: make([]string, 0, 1),
				}
				byName[author] = profile
				order = append(order, profile)
			}

			profile.Papers = append(profile.Papers, paper)
			if paper.HasTitle() {
				profile.Topics = append(profile.Topics, paper.Title)
			}
		}
	}

	return order
}
