// Package vector holds the similarity math shared by the embedding adapter and the collection.
package vector

import "math"

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length in place and returns it.
// A zero vector is left untouched (divisor treated as 1).
func Normalize(v []float32) []float32 {
	n := Norm(v)
	if n == 0 {
		n = 1
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
	return v
}

// NormalizeFloat64 converts an accumulator to a unit-length float32 vector.
func NormalizeFloat64(acc []float64) []float32 {
	var sum float64
	for _, x := range acc {
		sum += x * x
	}
	n := math.Sqrt(sum)
	if n == 0 {
		n = 1
	}
	out := make([]float32, len(acc))
	for i, x := range acc {
		out[i] = float32(x / n)
	}
	return out
}

// Cosine returns the cosine similarity over the shared prefix of a and b.
// The denominator is 1 when either side has zero norm.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		denom = 1
	}
	return dot / denom
}
