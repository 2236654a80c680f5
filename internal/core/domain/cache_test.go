package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey_Deterministic(t *testing.T) {
	k1 := CacheKey(42, "what is the deadline", "ctx")
	k2 := CacheKey(42, "what is the deadline", "ctx")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64) // hex sha256
}

func TestCacheKey_ContextIsPartOfIdentity(t *testing.T) {
	base := CacheKey(1, "q", "context A")

	assert.NotEqual(t, base, CacheKey(1, "q", "context B"))
	assert.NotEqual(t, base, CacheKey(1, "other q", "context A"))
	assert.NotEqual(t, base, CacheKey(2, "q", "context A"))
}

func TestCacheKey_SeparatorPreventsAliasing(t *testing.T) {
	// Shifting characters between the fields must change the digest.
	assert.NotEqual(t, CacheKey(1, "ab", "c"), CacheKey(1, "a", "bc"))
	assert.NotEqual(t, CacheKey(12, "3", "x"), CacheKey(1, "23", "x"))
}
