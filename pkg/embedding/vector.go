package embedding

import "math"

// Vector is a text embedding. Dimensionality is fixed per Provider and opaque
// to callers; only relative similarity matters.
type Vector []float64

// CosineSimilarity returns (a·b)/(‖a‖‖b‖) in [-1,1]. Mismatched lengths and
// zero vectors yield 0, which downstream code treats as "unrelated".
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
