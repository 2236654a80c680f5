package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// CacheEntry is a memoized answer for one (owner, query, context)
// triple.
type CacheEntry struct {
	// Key is the content-addressed digest of the triple.
	Key string `json:"key"`

	// OwnerID is the user the answer was generated for.
	OwnerID int64 `json:"owner_id"`

	// Query is the surface query text, kept for inspection.
	Query string `json:"query"`

	// Answer is the cached generation result.
	Answer string `json:"answer"`

	// CreatedAt is when the entry was written. An entry older than
	// the store's TTL is expired and removed on read.
	CreatedAt time.Time `json:"created_at"`
}

// CacheStats summarises an answer cache.
type CacheStats struct {
	// TotalEntries is the number of stored entries.
	TotalEntries int

	// ExpiredEntries is how many of those have outlived the TTL.
	ExpiredEntries int

	// TotalBytes is the aggregate stored size.
	TotalBytes int64
}

// CacheKey derives the content-addressed cache identity for one
// (owner, query, context) triple. The assembled retrieval context is
// part of the key on purpose: a changed document set or routing
// strategy invalidates the cache even for an identical question.
func CacheKey(ownerID int64, query, context string) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(ownerID, 10)))
	h.Write([]byte{':'})
	h.Write([]byte(query))
	h.Write([]byte{':'})
	h.Write([]byte(context))
	return hex.EncodeToString(h.Sum(nil))
}
