package index

import "math"

// Metric scores the similarity between two vectors of equal dimension.
// Higher scores mean more similar.
type Metric func(a, b []float32) float32

// Cosine returns the cosine similarity between two vectors. A zero vector
// scores 0 against everything.
func Cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// DotProduct returns the raw dot product. Equivalent to Cosine for
// unit-normalized vectors and cheaper to compute.
func DotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
