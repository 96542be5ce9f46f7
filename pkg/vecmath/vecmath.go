// Package vecmath holds the float32 vector helpers shared by the feed engine
// and the embedding backfill.
package vecmath

import "math"

// Cosine returns the cosine similarity of u and v in [-1, 1].
// It returns 0 when either vector is empty or has zero norm.
// When lengths differ, the dot product covers the common prefix while the
// norms cover each full vector, which keeps the result bounded.
func Cosine(u, v []float32) float64 {
	if len(u) == 0 || len(v) == 0 {
		return 0
	}

	n := min(len(u), len(v))
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(u[i]) * float64(v[i])
	}

	nu, nv := Norm(u), Norm(v)
	if nu == 0 || nv == 0 {
		return 0
	}

	s := dot / (nu * nv)
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	case math.IsNaN(s):
		return 0
	}
	return s
}

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned as
// a zero-filled copy.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	n := Norm(v)
	if n == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}
