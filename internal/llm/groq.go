package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// Default values for the Groq adapter.
const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama3-70b-8192"
	defaultGroqTimeout = 60 * time.Second
)

// groqChatRequest is the Groq chat-completion request body. Groq exposes an
// OpenAI-compatible surface but the adapter owns its own unwrapping.
type groqChatRequest struct {
	Model       string            `json:"model"`
	Messages    []groqChatMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
}

// groqChatMessage is a single message in the conversation.
type groqChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqChatResponse is the Groq chat-completion response body.
type groqChatResponse struct {
	Choices []struct {
		Message groqChatMessage `json:"message"`
	} `json:"choices"`
}

// GroqAdapter implements Generator over the Groq chat-completions API.
type GroqAdapter struct {
	httpClient *http.Client
	baseURL    string
}

// GroqConfig holds the parameters needed to create the Groq adapter.
type GroqConfig struct {
	// BaseURL is the API base URL (empty means the public endpoint).
	BaseURL string
	// Timeout bounds each request (default 60s).
	Timeout time.Duration
}

// NewGroqAdapter creates the Groq chat-completion adapter.
func NewGroqAdapter(cfg GroqConfig) *GroqAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGroqTimeout
	}

	return &GroqAdapter{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Provider returns the registration name for this adapter.
func (a *GroqAdapter) Provider() string {
	return "groq"
}

// Generate sends the prompt as a single user turn and unwraps
// .choices[0].message.content from the response.
func (a *GroqAdapter) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.APIKey == "" {
		return "", domain.NewAuthenticationError(a.Provider())
	}

	model := req.Model
	if model == "" {
		model = defaultGroqModel
	}

	body, err := json.Marshal(groqChatRequest{
		Model:       model,
		Messages:    []groqChatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("groq: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("groq: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.NewUpstreamError(a.Provider(), 0, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, string(respBody), nil)
	}

	var chatResp groqChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "unmarshal response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "empty choices in response", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
