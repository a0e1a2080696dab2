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

// Default values for the Hugging Face Inference adapter.
const (
	defaultHFBaseURL = "https://api-inference.huggingface.co"
	defaultHFModel   = "mistralai/Mistral-7B-Instruct-v0.2"
	defaultHFTimeout = 60 * time.Second
)

// hfRequest is the Inference API request body.
type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

// hfParameters carries sampling parameters.
type hfParameters struct {
	Temperature float64 `json:"temperature"`
}

// hfGeneration is one element of a batch-first generation response.
type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// HuggingFaceAdapter implements Generator over the Hugging Face Inference
// API. The API is batch-first: the response may be a list of generations or
// a single object, and both shapes must be normalized.
type HuggingFaceAdapter struct {
	httpClient *http.Client
	baseURL    string
}

// HuggingFaceConfig holds the parameters needed to create the adapter.
type HuggingFaceConfig struct {
	// BaseURL is the API base URL (empty means the public endpoint).
	BaseURL string
	// Timeout bounds each request (default 60s).
	Timeout time.Duration
}

// NewHuggingFaceAdapter creates the batch-response adapter.
func NewHuggingFaceAdapter(cfg HuggingFaceConfig) *HuggingFaceAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHFTimeout
	}

	return &HuggingFaceAdapter{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Provider returns the registration name for this adapter.
func (a *HuggingFaceAdapter) Provider() string {
	return "huggingface"
}

// Generate posts to {base}/models/{model} and normalizes the response:
// a list takes the first element's generated_text, an object takes its
// generated_text field, anything else is returned stringified.
func (a *HuggingFaceAdapter) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.APIKey == "" {
		return "", domain.NewAuthenticationError(a.Provider())
	}

	model := req.Model
	if model == "" {
		model = defaultHFModel
	}

	body, err := json.Marshal(hfRequest{
		Inputs:     req.Prompt,
		Parameters: hfParameters{Temperature: req.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("huggingface: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("huggingface: create request: %w", err)
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

	return normalizeHFResponse(respBody), nil
}

// normalizeHFResponse collapses the list-or-object response shapes to the
// generated text. Unknown shapes pass through as the raw payload string.
func normalizeHFResponse(payload []byte) string {
	var batch []hfGeneration
	if err := json.Unmarshal(payload, &batch); err == nil {
		if len(batch) == 0 {
			return ""
		}
		return strings.TrimSpace(batch[0].GeneratedText)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err == nil {
		if raw, ok := obj["generated_text"]; ok {
			var text string
			if err := json.Unmarshal(raw, &text); err == nil {
				return strings.TrimSpace(text)
			}
		}
	}

	return strings.TrimSpace(string(payload))
}
