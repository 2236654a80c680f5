package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_SelfSimilarity(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_ZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	assert.Equal(t, 0.0, Cosine(zero, v))
	assert.Equal(t, 0.0, Cosine(v, zero))
	assert.Equal(t, 0.0, Cosine(zero, zero))
	assert.Equal(t, 0.0, Cosine(nil, v))
}

func TestCosine_Bounds(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{-1, 0, 0},
		{0.5, 0.5, 0.5},
		{-3, 7, 2},
		{1e-3, -1e-3, 1e-3},
	}

	for _, a := range vectors {
		for _, b := range vectors {
			s := Cosine(a, b)
			assert.GreaterOrEqual(t, s, -1.0-1e-9)
			assert.LessOrEqual(t, s, 1.0+1e-9)
		}
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosine_Opposite(t *testing.T) {
	assert.InDelta(t, -1.0, Cosine([]float32{2, 2}, []float32{-2, -2}), 1e-9)
}

func TestCosine_MagnitudeIndependent(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{10, 20, 30}
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-6)
}

func TestCosine_KnownValue(t *testing.T) {
	// cos(45°) between (1,0) and (1,1)
	got := Cosine([]float32{1, 0}, []float32{1, 1})
	assert.InDelta(t, 1/math.Sqrt2, got, 1e-9)
}

func TestIsZeroVector(t *testing.T) {
	assert.True(t, IsZeroVector(nil))
	assert.True(t, IsZeroVector([]float32{}))
	assert.True(t, IsZeroVector([]float32{0, 0, 0}))
	assert.False(t, IsZeroVector([]float32{0, 1e-9, 0}))
}
