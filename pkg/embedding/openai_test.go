package embedding

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	t.Run("api key required", func(t *testing.T) {
		_, err := NewOpenAIProvider(OpenAIConfig{})
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("unknown model rejected", func(t *testing.T) {
		_, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "text-embedding-9000"})
		assert.ErrorIs(t, err, ErrInvalidModel)
	})

	t.Run("default model", func(t *testing.T) {
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, 1536, p.Dimensions())
	})
}

func TestOpenAIProvider_Embed(t *testing.T) {
	ctx := t.Context()

	t.Run("empty text rejected without a request", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			t.Fatal("unexpected request")
			return nil, nil
		})}
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", HTTPClient: client})
		require.NoError(t, err)

		_, err = p.Embed(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("successful embedding", func(t *testing.T) {
		var gotAuth string
		client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			gotAuth = r.Header.Get("Authorization")

			var req openAIRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"pay rent"}, req.Input)

			return jsonResponse(http.StatusOK, `{"data":[{"embedding":[0.1,0.2],"index":0}]}`), nil
		})}
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", HTTPClient: client})
		require.NoError(t, err)

		v, err := p.Embed(ctx, "pay rent")
		require.NoError(t, err)
		assert.Equal(t, Vector{0.1, 0.2}, v)
		assert.Equal(t, "Bearer sk-test", gotAuth)
	})

	t.Run("rate limit surfaced", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, `{"error":{"message":"rate limit reached","type":"tokens"}}`), nil
		})}
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", HTTPClient: client})
		require.NoError(t, err)

		_, err = p.Embed(ctx, "pay rent")
		assert.ErrorIs(t, err, ErrRateLimitExceeded)
	})

	t.Run("api error surfaced", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadRequest, `{"error":{"message":"invalid input","type":"invalid_request_error"}}`), nil
		})}
		p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", HTTPClient: client})
		require.NoError(t, err)

		_, err = p.Embed(ctx, "pay rent")
		assert.ErrorIs(t, err, ErrEmbeddingFailed)
	})
}

func TestOpenAIProvider_EmbedBatch_SplitsLargeInput(t *testing.T) {
	var batchSizes []int
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		batchSizes = append(batchSizes, len(req.Input))

		items := make([]string, len(req.Input))
		for i := range req.Input {
			items[i] = `{"embedding":[1],"index":` + "0" + `}`
		}
		return jsonResponse(http.StatusOK, `{"data":[`+strings.Join(items, ",")+`]}`), nil
	})}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", HTTPClient: client})
	require.NoError(t, err)

	texts := make([]string, maxBatchSize+5)
	for i := range texts {
		texts[i] = "text"
	}

	vectors, err := p.EmbedBatch(t.Context(), texts)
	require.NoError(t, err)
	assert.Len(t, vectors, maxBatchSize+5)
	assert.Equal(t, []int{maxBatchSize, 5}, batchSizes)
}
