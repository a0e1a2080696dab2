package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// stubAdapter records the last request and returns a fixed response.
type stubAdapter struct {
	name    string
	lastReq GenerateRequest
	result  string
	err     error
}

func (s *stubAdapter) Generate(_ context.Context, req GenerateRequest) (string, error) {
	s.lastReq = req
	return s.result, s.err
}

func (s *stubAdapter) Provider() string {
	return s.name
}

func TestRouter_Generate(t *testing.T) {
	t.Run("routes to registered adapter", func(t *testing.T) {
		stub := &stubAdapter{name: "openai", result: "hello"}
		router := NewRouterWithAdapters(stub)

		out, err := router.Generate(context.Background(), "openai", GenerateRequest{Prompt: "hi", APIKey: "k", Temperature: 0.5})
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
		assert.Equal(t, "hi", stub.lastReq.Prompt)
	})

	t.Run("provider resolution is case-insensitive", func(t *testing.T) {
		stub := &stubAdapter{name: "openai", result: "ok"}
		router := NewRouterWithAdapters(stub)

		for _, name := range []string{"OpenAI", "OPENAI", "openai"} {
			out, err := router.Generate(context.Background(), name, GenerateRequest{Temperature: 0.1})
			require.NoError(t, err)
			assert.Equal(t, "ok", out)
		}
	})

	t.Run("unknown provider returns unsupported error", func(t *testing.T) {
		router := NewRouterWithAdapters()

		_, err := router.Generate(context.Background(), "foo", GenerateRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)
		assert.Equal(t, "unsupported provider: foo", err.Error())
	})

	t.Run("zero temperature falls back to default", func(t *testing.T) {
		stub := &stubAdapter{name: "groq"}
		router := NewRouterWithAdapters(stub)

		_, err := router.Generate(context.Background(), "groq", GenerateRequest{})
		require.NoError(t, err)
		assert.Equal(t, DefaultTemperature, stub.lastReq.Temperature)
	})

	t.Run("explicit temperature is preserved", func(t *testing.T) {
		stub := &stubAdapter{name: "groq"}
		router := NewRouterWithAdapters(stub)

		_, err := router.Generate(context.Background(), "groq", GenerateRequest{Temperature: 0.9})
		require.NoError(t, err)
		assert.Equal(t, 0.9, stub.lastReq.Temperature)
	})

	t.Run("full adapter set registers all five providers", func(t *testing.T) {
		router := NewRouter(RouterConfig{})

		for _, name := range []string{"openai", "groq", "gemini", "huggingface", "ollama"} {
			_, err := router.Generate(context.Background(), name, GenerateRequest{})
			assert.NotErrorIs(t, err, domain.ErrUnsupportedProvider, name)
		}
	})
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", ""},
		{"single char", "a", "*"},
		{"exactly six", "abcdef", "******"},
		{"seven chars", "abcdefg", "abc***efg"},
		{"typical api key", "sk-1234567890abcdef", "sk-***def"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.secret))
		})
	}
}
