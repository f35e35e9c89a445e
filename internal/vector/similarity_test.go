package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratai/substrat/internal/domain"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float32{0.3, 0.5, 0.2}
		got, err := CosineSimilarity(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got, 1e-6)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got, 1e-6)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{1, 2, 3}, []float32{-1, -2, -3})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, got, 1e-6)
	})

	t.Run("empty vector scores 0 without error", func(t *testing.T) {
		got, err := CosineSimilarity(nil, []float32{1, 2})
		require.NoError(t, err)
		assert.Zero(t, got)

		got, err = CosineSimilarity([]float32{1, 2}, []float32{})
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("mismatched dimensions error", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("zero magnitude scores 0, not NaN", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		a := []float32{0.12, -0.7, 0.33, 0.91, -0.04}
		b := []float32{0.5, 0.41, -0.26, 0.08, 0.77}
		first, err := CosineSimilarity(a, b)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := CosineSimilarity(a, b)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}
