package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// Default values for the Gemini adapter.
const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
	defaultGeminiTimeout = 60 * time.Second
)

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// geminiContent is one content block of the request.
type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// geminiPart is one part of a content block.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiGenerationConfig carries sampling parameters.
type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

// geminiResponse is the generateContent response body.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiAdapter implements Generator over the Gemini generateContent API.
// The model name is embedded in the URL path and the credential is passed
// as a query parameter rather than a header.
type GeminiAdapter struct {
	httpClient *http.Client
	baseURL    string
}

// GeminiConfig holds the parameters needed to create the Gemini adapter.
type GeminiConfig struct {
	// BaseURL is the API base URL (empty means the public endpoint).
	BaseURL string
	// Timeout bounds each request (default 60s).
	Timeout time.Duration
}

// NewGeminiAdapter creates the Gemini generation adapter.
func NewGeminiAdapter(cfg GeminiConfig) *GeminiAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}

	return &GeminiAdapter{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Provider returns the registration name for this adapter.
func (a *GeminiAdapter) Provider() string {
	return "gemini"
}

// Generate posts to {base}/models/{model}:generateContent?key={api_key} and
// unwraps .candidates[0].content.parts[0].text from the response.
func (a *GeminiAdapter) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.APIKey == "" {
		return "", domain.NewAuthenticationError(a.Provider())
	}

	model := req.Model
	if model == "" {
		model = defaultGeminiModel
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{Temperature: req.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, model, url.QueryEscape(req.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
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

	var genResp geminiResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "unmarshal response", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.NewUpstreamError(a.Provider(), resp.StatusCode, "empty candidates in response", nil)
	}

	return strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text), nil
}
