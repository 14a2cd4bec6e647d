package embedder

import "math"

// l2Normalize scales the vector to unit length in place and returns it, so
// vector magnitude never confounds cosine comparisons downstream. Zero vectors
// are returned untouched.
func l2Normalize(vector []float32) []float32 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vector
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector
}
