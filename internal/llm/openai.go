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

// Default values for the OpenAI adapter.
const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOpenAITimeout = 60 * time.Second
)

// openAIChatRequest is the Chat Completions request body.
type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

// openAIChatMessage is a single message in the chat conversation.
type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIChatResponse is the Chat Completions response body.
type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIAdapter implements Generator over the OpenAI Chat Completions API.
// The prompt is sent as a single user turn.
type OpenAIAdapter struct {
	httpClient *http.Client
	baseURL    string
}

// OpenAIConfig holds the parameters needed to create the OpenAI adapter.
type OpenAIConfig struct {
	// BaseURL is the API base URL (empty means the public endpoint).
	BaseURL string
	// Timeout bounds each request (default 60s).
	Timeout time.Duration
}

// NewOpenAIAdapter creates the OpenAI chat-completion adapter.
func NewOpenAIAdapter(cfg OpenAIConfig) *OpenAIAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}

	return &OpenAIAdapter{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Provider returns the registration name for this adapter.
func (a *OpenAIAdapter) Provider() string {
	return "openai"
}

// Generate sends the prompt as a single user turn and unwraps
// .choices[0].message.content from the response.
func (a *OpenAIAdapter) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.APIKey == "" {
		return "", domain.NewAuthenticationError(a.Provider())
	}

	model := req.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	body, err := json.Marshal(openAIChatRequest{
		Model:       model,
		Messages:    []openAIChatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
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

	var chatResp openAIChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "unmarshal response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "empty choices in response", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
