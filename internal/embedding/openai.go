package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// Default values for the OpenAI embeddings client.
const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "text-embedding-3-small"
	defaultTimeout = 30 * time.Second
)

// embedRequest is the /embeddings request body.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the /embeddings response body.
type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// OpenAIEmbedder implements Embedder over the OpenAI embeddings API, or any
// endpoint speaking the same wire shape.
type OpenAIEmbedder struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// OpenAIConfig holds the parameters needed to create the embedder.
type OpenAIConfig struct {
	// APIKey is the API key.
	APIKey string
	// Model is the embedding model identifier (empty means default).
	Model string
	// BaseURL is the API base URL (empty means default).
	BaseURL string
	// Timeout bounds each request (default 30s).
	Timeout time.Duration
}

// NewOpenAIEmbedder creates the remote embedder client.
func NewOpenAIEmbedder(cfg OpenAIConfig) *OpenAIEmbedder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAIEmbedder{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
	}
}

// Embed encodes the inputs in a single request, preserving input order in
// the returned vectors.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.apiKey == "" {
		return nil, domain.NewAuthenticationError("embedding")
	}

	body, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embedding: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewUpstreamError("embedding", 0, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, domain.NewUpstreamError("embedding", resp.StatusCode, "read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamError("embedding", resp.StatusCode, string(respBody), nil)
	}

	var embedResp embedResponse
	if err := json.Unmarshal(respBody, &embedResp); err != nil {
		return nil, domain.NewUpstreamError("embedding", resp.StatusCode, "unmarshal response", err)
	}
	if len(embedResp.Data) != len(texts) {
		return nil, domain.NewUpstreamError("embedding", resp.StatusCode,
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(embedResp.Data)), nil)
	}

	vectors := make([][]float32, 0, len(embedResp.Data))
	for _, d := range embedResp.Data {
		vectors = append(vectors, d.Embedding)
	}
	return vectors, nil
}
