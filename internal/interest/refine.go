package interest

import (
	"context"
	"fmt"
	"strings"

	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/llm"
)

// backgroundSnippetLimit caps how much uploaded text is templated into the
// clarifying-questions prompt.
const backgroundSnippetLimit = 4000

// ModelCaller is the slice of the model router this package uses. Satisfied
// by *llm.Router; tests substitute stubs.
type ModelCaller interface {
	Generate(ctx context.Context, provider string, req llm.GenerateRequest) (string, error)
}

// ProviderContext selects the backend for refinement calls.
type ProviderContext struct {
	Provider string
	Model    string
	APIKey   string
}

// Refine asks the model backend for a refined list of twelve research-area
// phrases and parses the comma-separated reply. The count is not enforced;
// fewer or more phrases are accepted as returned. Router and adapter errors
// propagate unchanged.
func Refine(ctx context.Context, caller ModelCaller, pctx ProviderContext, profile domain.InterestProfile) ([]string, error) {
	prompt := fmt.Sprintf(
		"Given the following list of skills and topics, return a refined list of 12 research "+
			"areas as comma-separated phrases.\nSkills: %s\nTopics: %s",
		strings.Join(profile.Skills, ", "),
		strings.Join(profile.Topics, ", "),
	)

	response, err := caller.Generate(ctx, pctx.Provider, llm.GenerateRequest{
		Model:  pctx.Model,
		APIKey: pctx.APIKey,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	return splitTopics(response), nil
}

// AskQuestions asks the model backend for five clarifying questions about
// the user's background. The background text is truncated to 4000
// characters before templating.
func AskQuestions(ctx context.Context, caller ModelCaller, pctx ProviderContext, text string) (string, error) {
	if runes := []rune(text); len(runes) > backgroundSnippetLimit {
		text = string(runes[:backgroundSnippetLimit])
	}

	prompt := fmt.Sprintf(
		"You are an academic advisor. Based on the following background, ask 5 clarifying "+
			"questions to better understand research interests.\n\nBackground:\n%s",
		text,
	)

	return caller.Generate(ctx, pctx.Provider, llm.GenerateRequest{
		Model:  pctx.Model,
		APIKey: pctx.APIKey,
		Prompt: prompt,
	})
}

// splitTopics splits a comma-separated reply into trimmed non-empty phrases.
func splitTopics(response string) []string {
	parts := strings.Split(response, ",")
	topics := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}
