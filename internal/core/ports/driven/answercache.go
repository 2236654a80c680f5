package driven

import (
	"context"

	"github.com/docent-dev/docent/internal/core/domain"
)

// AnswerCache memoizes generated answers keyed by the content-addressed
// digest of (owner, query, assembled context), with a single TTL per
// store instance.
//
// Implementations remove expired or corrupt entries as a side effect
// of reads and report them as domain.ErrNotFound; callers treat every
// error as a cache miss.
type AnswerCache interface {
	// Get returns the entry stored under key, or domain.ErrNotFound
	// when absent, expired, or unreadable.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)

	// Set stores the entry under entry.Key, overwriting
	// unconditionally.
	Set(ctx context.Context, entry domain.CacheEntry) error

	// DeleteExpired removes every entry older than the TTL and
	// returns how many were removed.
	DeleteExpired(ctx context.Context) (int, error)

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Stats summarises the cache contents.
	Stats(ctx context.Context) (domain.CacheStats, error)
}
