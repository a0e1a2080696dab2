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

// Default values for the Ollama adapter. The timeout is twice the remote
// default because local models may be slow to cold-start.
const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3"
	defaultOllamaTimeout = 120 * time.Second
)

// ollamaRequest is the /api/generate request body.
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

// ollamaOptions carries sampling parameters.
type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

// ollamaResponse is the non-streaming /api/generate response body.
type ollamaResponse struct {
	Response string `json:"response"`
}

// OllamaAdapter implements Generator over a local Ollama daemon. It is the
// only adapter that requires no credential.
type OllamaAdapter struct {
	httpClient *http.Client
	baseURL    string
}

// OllamaConfig holds the parameters needed to create the Ollama adapter.
type OllamaConfig struct {
	// BaseURL is the daemon address (empty means the fixed local endpoint).
	BaseURL string
	// Timeout bounds each request (default 120s).
	Timeout time.Duration
}

// NewOllamaAdapter creates the local-daemon adapter.
func NewOllamaAdapter(cfg OllamaConfig) *OllamaAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOllamaTimeout
	}

	return &OllamaAdapter{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Provider returns the registration name for this adapter.
func (a *OllamaAdapter) Provider() string {
	return "ollama"
}

// Generate posts a non-streaming generation request and unwraps the
// .response field.
func (a *OllamaAdapter) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = defaultOllamaModel
	}

	body, err := json.Marshal(ollamaRequest{
		Model:   model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: req.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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

	var genResp ollamaResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "unmarshal response", err)
	}

	return strings.TrimSpace(genResp.Response), nil
}
