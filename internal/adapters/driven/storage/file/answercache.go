package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
	"github.com/docent-dev/docent/internal/logger"
)

// Ensure AnswerCache implements the interface.
var _ driven.AnswerCache = (*AnswerCache)(nil)

// DefaultCacheTTL is the production answer lifetime.
const DefaultCacheTTL = time.Hour

// AnswerCache keeps one JSON file per cached answer, named by the
// cache key. Expired and unreadable entries are removed as a side
// effect of reads.
type AnswerCache struct {
	dir string
	ttl time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewAnswerCache opens (or creates) the cache directory under dataDir.
// A non-positive ttl falls back to DefaultCacheTTL.
func NewAnswerCache(dataDir string, ttl time.Duration) (*AnswerCache, error) {
	dir := filepath.Join(dataDir, "cache")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &AnswerCache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Get returns the entry stored under key, removing it and reporting
// domain.ErrNotFound when absent, expired, or unreadable.
func (c *AnswerCache) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	path, err := c.entryPath(key)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		logger.Warn("Removing unreadable cache entry %s: %v", key, err)
		os.Remove(path)
		return nil, domain.ErrNotFound
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		logger.Warn("Removing corrupt cache entry %s: %v", key, err)
		os.Remove(path)
		return nil, domain.ErrNotFound
	}
	if c.expired(entry) {
		os.Remove(path)
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Set stores the entry under entry.Key, overwriting unconditionally.
func (c *AnswerCache) Set(_ context.Context, entry domain.CacheEntry) error {
	path, err := c.entryPath(entry.Key)
	if err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now().UTC()
	}
	return writeJSONAtomic(path, &entry)
}

// DeleteExpired removes every entry older than the TTL.
func (c *AnswerCache) DeleteExpired(_ context.Context) (int, error) {
	removed := 0
	err := c.walk(func(path string, entry *domain.CacheEntry) {
		if entry == nil || c.expired(*entry) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	})
	return removed, err
}

// Clear removes every entry.
func (c *AnswerCache) Clear(_ context.Context) (int, error) {
	removed := 0
	err := c.walk(func(path string, _ *domain.CacheEntry) {
		if os.Remove(path) == nil {
			removed++
		}
	})
	return removed, err
}

// Stats summarises the cache contents.
func (c *AnswerCache) Stats(_ context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats
	err := c.walk(func(path string, entry *domain.CacheEntry) {
		stats.TotalEntries++
		if info, err := os.Stat(path); err == nil {
			stats.TotalBytes += info.Size()
		}
		if entry == nil || c.expired(*entry) {
			stats.ExpiredEntries++
		}
	})
	return stats, err
}

// walk visits every cache file, passing a nil entry for unreadable
// ones.
func (c *AnswerCache) walk(fn func(path string, entry *domain.CacheEntry)) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(c.dir, de.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			fn(path, nil)
			continue
		}
		var entry domain.CacheEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			fn(path, nil)
			continue
		}
		fn(path, &entry)
	}
	return nil
}

func (c *AnswerCache) expired(entry domain.CacheEntry) bool {
	return c.now().Sub(entry.CreatedAt) > c.ttl
}

func (c *AnswerCache) entryPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: bad cache key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(c.dir, key+".json"), nil
}
