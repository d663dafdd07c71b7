package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{name: "identical", a: Vector{1, 2, 3}, b: Vector{1, 2, 3}, want: 1},
		{name: "scaled copy", a: Vector{1, 2, 3}, b: Vector{2, 4, 6}, want: 1},
		{name: "orthogonal", a: Vector{1, 0}, b: Vector{0, 1}, want: 0},
		{name: "opposite", a: Vector{1, 0}, b: Vector{-1, 0}, want: -1},
		// 3-4-5 triangles keep norms and the quotient exact in float64.
		{name: "24/25", a: Vector{3, 4}, b: Vector{4, 3}, want: 0.96},
		{name: "4/5", a: Vector{3, 4}, b: Vector{0, 1}, want: 0.8},
		{name: "length mismatch", a: Vector{1, 0}, b: Vector{1, 0, 0}, want: 0},
		{name: "empty", a: Vector{}, b: Vector{}, want: 0},
		{name: "zero vector", a: Vector{0, 0}, b: Vector{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CosineSimilarity(tt.a, tt.b))
			assert.Equal(t, tt.want, CosineSimilarity(tt.b, tt.a), "must be symmetric")
		})
	}
}

func TestStaticProvider(t *testing.T) {
	ctx := t.Context()
	provider := NewStaticProvider(2)
	provider.Register("rent", Vector{3, 4})
	provider.Register("taxes", Vector{4, 3})

	t.Run("embed known text", func(t *testing.T) {
		v, err := provider.Embed(ctx, "rent")
		assert.NoError(t, err)
		assert.Equal(t, Vector{3, 4}, v)
	})

	t.Run("unknown text errors", func(t *testing.T) {
		_, err := provider.Embed(ctx, "groceries")
		assert.ErrorIs(t, err, ErrUnknownText)
	})

	t.Run("batch preserves order", func(t *testing.T) {
		vs, err := provider.EmbedBatch(ctx, []string{"taxes", "rent"})
		assert.NoError(t, err)
		assert.Equal(t, []Vector{{4, 3}, {3, 4}}, vs)
	})

	assert.Equal(t, 2, provider.Dimensions())
}
