package embedding

import (
	"context"
	"sync"
)

// Provider is the call contract of the external similarity service.
// Implementations handle authentication, batching, and rate limits; callers
// treat any returned error as non-fatal and degrade to singleton grouping.
type Provider interface {
	// Embed converts a single text into a vector.
	Embed(ctx context.Context, text string) (Vector, error)

	// EmbedBatch converts multiple texts in one request where the backend
	// supports it.
	EmbedBatch(ctx context.Context, texts []string) ([]Vector, error)

	// Dimensions returns the vector length produced by the current model.
	Dimensions() int
}

// StaticProvider is a deterministic Provider backed by a fixed text-to-vector
// table. Useful in tests and development.
type StaticProvider struct {
	mu         sync.RWMutex
	vectors    map[string]Vector
	dimensions int
}

// NewStaticProvider creates a provider producing vectors of the given length.
func NewStaticProvider(dimensions int) *StaticProvider {
	return &StaticProvider{
		vectors:    make(map[string]Vector),
		dimensions: dimensions,
	}
}

// Register associates a text with a vector.
func (p *StaticProvider) Register(text string, v Vector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vectors[text] = v
}

func (p *StaticProvider) Embed(ctx context.Context, text string) (Vector, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.vectors[text]
	if !ok {
		return nil, ErrUnknownText
	}
	return v, nil
}

func (p *StaticProvider) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	vectors := make([]Vector, len(texts))
	for i, text := range texts {
		v, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (p *StaticProvider) Dimensions() int {
	return p.dimensions
}
