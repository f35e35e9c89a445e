package vector

import (
	"math"

	"github.com/substratai/substrat/internal/domain"
)

// CosineSimilarity computes the cosine similarity of two vectors:
// dot(a,b) / (|a|*|b|). If either vector is empty the result is 0 ("no
// match"). Non-empty vectors with mismatched lengths return
// domain.ErrDimensionMismatch. Zero-magnitude vectors yield 0, never NaN.
// Accumulation runs in float64 and in index order, so the result is
// bit-for-bit reproducible for identical inputs.
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}

	if len(a) != len(b) {
		return 0, domain.ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}
