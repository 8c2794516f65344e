package domain

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0.0 when either vector has zero norm or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ZeroVector returns a zero-valued embedding of the given dimension
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}
