// Package ranking combines embedding similarity, publication volume, and
// country preference into a single deterministic researcher ordering.
package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/embedding"
)

// Score weights and parameters.
const (
	topicWeight       = 0.7
	publicationWeight = 0.2
	countryWeight     = 0.1

	// countryBonus is the country score for a preferred-country match.
	countryBonus = 0.1

	// publicationSaturation is the paper count at which the publication
	// score reaches 1.0.
	publicationSaturation = 10.0
)

// Ranker scores and orders researcher profiles against an interest vector.
type Ranker struct {
	embedder embedding.Embedder
}

// New creates a ranker over the given embedder.
func New(embedder embedding.Embedder) *Ranker {
	return &Ranker{embedder: embedder}
}

// Rank assigns a match score to every researcher and returns the list
// sorted by descending score. The input order breaks ties (stable sort).
// An empty input returns empty immediately without touching the embedder.
//
// For each researcher:
//
//	topic_score       = cosine(embed(join(interestTopics)), embed(join(topics)))
//	publication_score = min(papers/10, 1.0)
//	country_score     = 0.1 when the researcher's country is preferred
//	match_score       = round4(0.7*topic + 0.2*publication + 0.1*country)
func (r *Ranker) Rank(ctx context.Context, researchers []*domain.ResearcherProfile, interestTopics, preferredCountries []string) ([]*domain.ResearcherProfile, error) {
	if len(researchers) == 0 {
		return []*domain.ResearcherProfile{}, nil
	}

	interestVecs, err := r.embedder.Embed(ctx, []string{strings.Join(interestTopics, " ")})
	if err != nil {
		return nil, fmt.Errorf("embedding interests: %w", err)
	}
	interestVec := interestVecs[0]

	preferred := make(map[string]struct{}, len(preferredCountries))
	for _, country := range preferredCountries {
		preferred[country] = struct{}{}
	}

	for _, researcher := range researchers {
		topicVecs, err := r.embedder.Embed(ctx, []string{strings.Join(researcher.Topics, " ")})
		if err != nil {
			return nil, fmt.Errorf("embedding topics for %s: %w", researcher.Name, err)
		}

		topicScore := embedding.Similarity(interestVec, topicVecs[0])

		countryScore := 0.0
		if _, ok := preferred[researcher.Country]; ok {
			countryScore = countryBonus
		}

		publicationScore := math.Min(float64(len(researcher.Papers))/publicationSaturation, 1.0)

		score := round4(topicScore*topicWeight + publicationScore*publicationWeight + countryScore*countryWeight)
		researcher.MatchScore = &score
	}

	ranked := make([]*domain.ResearcherProfile, len(researchers))
	copy(ranked, researchers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].MatchScore > *ranked[j].MatchScore
	})

	return ranked, nil
}

// round4 rounds half away from zero to four decimal places.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
