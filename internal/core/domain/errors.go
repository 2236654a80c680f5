package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist or is
	// not owned by the caller. Deletion and lookup report it instead
	// of leaking whether another user owns the id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates an embedding or generation
	// call exhausted its retries or returned an empty vector.
	// Ingestion fails atomically on it; no partial document persists.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrStorageUnreadable indicates a backing full-text blob is
	// missing or corrupt. Search absorbs it per candidate by falling
	// back to the summary; it is never fatal to a whole search.
	ErrStorageUnreadable = errors.New("storage unreadable")

	// Transient AI client error kinds. The retry policy treats
	// exactly these as retryable.

	// ErrRateLimited indicates the AI API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrConnection indicates the AI API could not be reached.
	ErrConnection = errors.New("connection failed")

	// ErrTimeout indicates the AI API call timed out.
	ErrTimeout = errors.New("timed out")

	// ErrUpstream indicates a generic upstream AI API failure.
	ErrUpstream = errors.New("upstream API error")

	// ErrExhausted indicates the retry budget was spent. The final
	// transient error remains reachable through errors.Is.
	ErrExhausted = errors.New("retry budget exhausted")
)

// IsTransient reports whether err is one of the transient AI client
// error kinds that the retry policy may retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrConnection) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUpstream)
}
