package domain

import "math"

// Cosine returns the cosine similarity dot(a,b) / (|a|*|b|) between
// two vectors. It is 0.0 when either vector has zero norm, and it
// tolerates mismatched lengths by comparing the common prefix.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
	}
	for i := range b {
		nb += float64(b[i]) * float64(b[i])
	}
	for i := n; i < len(a); i++ {
		na += float64(a[i]) * float64(a[i])
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// IsZeroVector reports whether every component of v is zero.
// An empty vector counts as zero: it means embedding failed.
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
