// Package llm provides the provider-agnostic language-model invocation layer
// for the discovery service.
//
// Each backend (OpenAI, Groq, Gemini, Hugging Face Inference, Ollama)
// implements the Generator interface over its own wire shape. The Router
// resolves provider names to adapters at startup and forwards calls without
// assuming any common response schema; response unwrapping is fully owned by
// each adapter.
//
// Example usage:
//
//	router := llm.NewRouter(llm.RouterConfig{})
//	text, err := router.Generate(ctx, "openai", llm.GenerateRequest{
//		Model:  "gpt-4o-mini",
//		APIKey: key,
//		Prompt: "Summarize transformer architectures.",
//	})
package llm

import "context"

// DefaultTemperature is applied when a request leaves Temperature unset.
const DefaultTemperature = 0.2

// GenerateRequest is the uniform request every adapter maps onto its own
// wire shape.
type GenerateRequest struct {
	// Model is the backend model identifier. Empty selects the adapter's
	// default model.
	Model string

	// APIKey is the credential for the backend. Required by every adapter
	// except the local Ollama daemon.
	APIKey string

	// Prompt is the text sent as a single user turn.
	Prompt string

	// Temperature is the sampling temperature. Zero means unset; the
	// router substitutes DefaultTemperature.
	Temperature float64
}

// Generator is the capability contract each provider adapter implements.
// Calls are attempted at most once; there are no retries in this layer.
type Generator interface {
	// Generate sends the prompt to the backend and returns the generated
	// text, whitespace-trimmed. It returns a domain.AuthenticationError
	// when a required credential is absent and a domain.UpstreamError when
	// the remote call fails or its response cannot be unwrapped.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Provider returns the lower-case provider name used for registration.
	Provider() string
}
