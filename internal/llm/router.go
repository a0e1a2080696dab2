package llm

import (
	"context"
	"strings"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// Router resolves provider names to adapters and forwards generation calls.
// The adapter set is fixed at construction; resolution is case-insensitive.
// Adapter errors propagate unchanged with no retry, a single best-effort
// attempt per call.
type Router struct {
	adapters map[string]Generator
}

// RouterConfig holds per-provider settings for building the adapter set.
// Zero values select each adapter's public endpoint and default timeout.
type RouterConfig struct {
	OpenAI      OpenAIConfig
	Groq        GroqConfig
	Gemini      GeminiConfig
	HuggingFace HuggingFaceConfig
	Ollama      OllamaConfig
}

// NewRouter creates a router with the full adapter set registered.
func NewRouter(cfg RouterConfig) *Router {
	r := &Router{adapters: make(map[string]Generator)}
	r.register(NewOpenAIAdapter(cfg.OpenAI))
	r.register(NewGroqAdapter(cfg.Groq))
	r.register(NewGeminiAdapter(cfg.Gemini))
	r.register(NewHuggingFaceAdapter(cfg.HuggingFace))
	r.register(NewOllamaAdapter(cfg.Ollama))
	return r
}

// NewRouterWithAdapters creates a router over an explicit adapter set.
// Used by tests to pin stub adapters.
func NewRouterWithAdapters(adapters ...Generator) *Router {
	r := &Router{adapters: make(map[string]Generator)}
	for _, a := range adapters {
		r.register(a)
	}
	return r
}

func (r *Router) register(g Generator) {
	r.adapters[strings.ToLower(g.Provider())] = g
}

// Generate resolves the provider case-insensitively and delegates to its
// adapter. An unknown provider yields a domain.UnsupportedProviderError
// carrying the original name. A zero temperature on the request is replaced
// with DefaultTemperature before delegation.
func (r *Router) Generate(ctx context.Context, provider string, req GenerateRequest) (string, error) {
	adapter, ok := r.adapters[strings.ToLower(provider)]
	if !ok {
		return "", domain.NewUnsupportedProviderError(provider)
	}

	if req.Temperature == 0 {
		req.Temperature = DefaultTemperature
	}

	return adapter.Generate(ctx, req)
}

// Redact masks a secret for display. Secrets of six characters or fewer
// become all asterisks of the same length; longer secrets keep only the
// first three and last three characters. No substring longer than three
// characters from either end ever survives. Never fails.
func Redact(secret string) string {
	if len(secret) <= 6 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:3] + "***" + secret[len(secret)-3:]
}
