package interest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// Caps on the extracted keyword lists.
const (
	maxSkills  = 50
	maxMethods = 20
	maxTopics  = 50
)

// tokenPattern matches keyword candidates: a leading letter followed by at
// least two letters, hyphens, or pluses.
var tokenPattern = regexp.MustCompile(`\b[A-Za-z][A-Za-z\-\+]{2,}\b`)

// stopwords are excluded from keyword candidates regardless of case.
var stopwords = map[string]struct{}{
	"and":  {},
	"the":  {},
	"with": {},
	"from": {},
	"that": {},
	"this": {},
	"your": {},
	"for":  {},
	"are":  {},
}

// methodsVocabulary is the fixed controlled vocabulary of recognized
// ML/NLP method terms, matched case-insensitively.
var methodsVocabulary = map[string]struct{}{
	"pytorch":      {},
	"tensorflow":   {},
	"scikit-learn": {},
	"nlp":          {},
	"vision":       {},
}

// ExtractKeywords mines skill, method, and topic keywords from free text.
//
// A token qualifies when it is capitalized or all-uppercase and is not a
// stopword. Candidates are deduplicated through a set and emitted in
// lexicographic order. Skills are capped at 50, methods at 20 (restricted
// to the recognized vocabulary), and topics (skills minus methods) at 50.
func ExtractKeywords(text string) domain.InterestProfile {
	seen := make(map[string]struct{})
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if _, stop := stopwords[strings.ToLower(token)]; stop {
			continue
		}
		if !isCapitalized(token) && token != strings.ToUpper(token) {
			continue
		}
		seen[token] = struct{}{}
	}

	skills := make([]string, 0, len(seen))
	for token := range seen {
		skills = append(skills, token)
	}
	sort.Strings(skills)

	methods := make([]string, 0)
	methodSet := make(map[string]struct{})
	for _, skill := range skills {
		if _, ok := methodsVocabulary[strings.ToLower(skill)]; ok {
			methods = append(methods, skill)
			methodSet[skill] = struct{}{}
		}
	}

	topics := make([]string, 0, len(skills))
	for _, skill := range skills {
		if _, isMethod := methodSet[skill]; !isMethod {
			topics = append(topics, skill)
		}
	}

	return domain.InterestProfile{
		Skills:  capList(skills, maxSkills),
		Methods: capList(methods, maxMethods),
		Topics:  capList(topics, maxTopics),
	}
}

// BuildProfile merges declared interests with keywords extracted from the
// uploaded text. The topics field is the order-preserving deduplicated
// union of the declared interests (listed first) and the extracted topics.
func BuildProfile(text string, extraInterests []string) domain.InterestProfile {
	extracted := ExtractKeywords(text)

	seen := make(map[string]struct{})
	topics := make([]string, 0, len(extraInterests)+len(extracted.Topics))
	for _, topic := range append(append([]string{}, extraInterests...), extracted.Topics...) {
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	return domain.InterestProfile{
		Skills:  extracted.Skills,
		Methods: extracted.Methods,
		Topics:  topics,
	}
}

// isCapitalized reports whether the token starts with an upper-case letter.
func isCapitalized(token string) bool {
	return token[0] >= 'A' && token[0] <= 'Z'
}

// capList truncates a list to at most n entries.
func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
