package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taskmind/notifykit/pkg/notification"
)

const (
	// DefaultOpenAIModel is cheap enough for per-notification classification.
	DefaultOpenAIModel = "gpt-4o-mini"

	openAIChatURL = "https://api.openai.com/v1/chat/completions"

	defaultTimeout = 30 * time.Second

	systemPrompt = `You classify task notifications by urgency. ` +
		`Respond with exactly one word: high, medium, or low.`
)

// OpenAIConfig configures the OpenAI chat-based classifier.
type OpenAIConfig struct {
	APIKey     string       `env:"OPENAI_API_KEY"`
	Model      string       `env:"OPENAI_CLASSIFIER_MODEL" envDefault:"gpt-4o-mini"`
	HTTPClient *http.Client `env:"-"`
}

// OpenAI implements Classifier against the OpenAI chat completions API.
type OpenAI struct {
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAI validates the config and builds a classifier.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &OpenAI{apiKey: cfg.APIKey, model: model, client: client}, nil
}

func (c *OpenAI) Classify(ctx context.Context, text string) (notification.Priority, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0,
		MaxTokens:   3,
	})
	if err != nil {
		return notification.PriorityMedium, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return notification.PriorityMedium, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return notification.PriorityMedium, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return notification.PriorityMedium, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return notification.PriorityMedium, fmt.Errorf("%w: status %d: %s", ErrClassificationFailed, resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return notification.PriorityMedium, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return notification.PriorityMedium, ErrClassificationFailed
	}

	label := strings.ToLower(strings.TrimSpace(parsed.Choices[0].Message.Content))
	priority, err := notification.ParsePriority(label)
	if err != nil {
		return notification.PriorityMedium, fmt.Errorf("%w: %q", ErrUnexpectedLabel, label)
	}
	return priority, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
