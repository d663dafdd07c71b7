package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultOpenAIModel balances quality and cost for short notification texts.
	DefaultOpenAIModel = "text-embedding-3-small"

	openAIEmbeddingsURL = "https://api.openai.com/v1/embeddings"

	// Maximum texts per batch request accepted by the API.
	maxBatchSize = 100

	defaultTimeout = 30 * time.Second
)

// OpenAIConfig configures the OpenAI embedding provider.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API.
	APIKey string `env:"OPENAI_API_KEY"`

	// Model selects the embedding model. Default: text-embedding-3-small.
	Model string `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client `env:"-"`
}

// OpenAIProvider implements Provider against the OpenAI embeddings API.
type OpenAIProvider struct {
	apiKey     string
	model      string
	dimensions int
	client     *http.Client
}

// NewOpenAIProvider validates the config and builds a provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	dimensions := modelDimensions(model)
	if dimensions == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, model)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &OpenAIProvider{
		apiKey:     cfg.APIKey,
		model:      model,
		dimensions: dimensions,
		client:     client,
	}, nil
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) (Vector, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, ErrEmbeddingFailed
	}
	return vectors[0], nil
}

func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	if len(texts) == 0 {
		return []Vector{}, nil
	}

	var all []Vector
	for i := 0; i < len(texts); i += maxBatchSize {
		end := min(i+maxBatchSize, len(texts))
		vectors, err := p.callAPI(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}

func (p *OpenAIProvider) callAPI(ctx context.Context, texts []string) ([]Vector, error) {
	body, err := json.Marshal(openAIRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEmbeddingsURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			if strings.Contains(errResp.Error.Message, "rate limit") {
				return nil, fmt.Errorf("%w: %s", ErrRateLimitExceeded, errResp.Error.Message)
			}
			return nil, fmt.Errorf("%w: %s", ErrEmbeddingFailed, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrEmbeddingFailed, resp.StatusCode)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	vectors := make([]Vector, len(parsed.Data))
	for i, item := range parsed.Data {
		vectors[i] = Vector(item.Embedding)
	}
	return vectors, nil
}

func modelDimensions(model string) int {
	switch model {
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	case "text-embedding-3-large":
		return 3072
	default:
		return 0
	}
}

type openAIRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
