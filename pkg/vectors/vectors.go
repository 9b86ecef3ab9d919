// Package vectors provides utilities for embedding vectors (L2 normalization, cosine similarity).
package vectors

import (
	"math"
)

// NormalizeL2 takes a raw embedding vector and normalizes it to a length of 1.
// It modifies the slice in-place to save allocations on the screening hot path.
func NormalizeL2(vector []float32) {
	var sumSquares float64

	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}

	// Avoid division by zero (a valid embedding will never be all zeros)
	if sumSquares == 0 {
		return
	}

	magnitude := math.Sqrt(sumSquares)

	for i := range vector {
		vector[i] = float32(float64(vector[i]) / magnitude)
	}
}

// Cosine returns the cosine similarity of a and b, in [-1, 1].
// Both slices must have the same length; the caller is responsible for
// dimension checks so the error can carry the configured dimension.
func Cosine(a, b []float32) float64 {
	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
