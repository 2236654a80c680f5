// Package memory provides in-memory implementations of the storage
// ports. They back unit tests and ephemeral runs; nothing survives a
// restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// ==================== Document Store ====================

// Ensure DocStore implements the interface.
var _ driven.DocumentStore = (*DocStore)(nil)

// DocStore keeps documents in an ordered slice with a per-user
// position index, mirroring the file backend's layout.
type DocStore struct {
	mu    sync.Mutex
	docs  []domain.Document
	index map[int64][]int
}

// NewDocStore creates an empty in-memory document store.
func NewDocStore() *DocStore {
	return &DocStore{index: map[int64][]int{}}
}

// Add appends a document and indexes it for its owner.
func (s *DocStore) Add(_ context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	s.docs = append(s.docs, *doc)
	s.index[doc.OwnerID] = append(s.index[doc.OwnerID], len(s.docs)-1)
	return nil
}

// Search ranks the owner's documents by cosine similarity.
func (s *DocStore) Search(_ context.Context, ownerID int64, query []float32, topK int, threshold float64) ([]domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []domain.SearchResult
	for _, pos := range s.index[ownerID] {
		doc := s.docs[pos]
		if len(doc.Embedding) == 0 {
			continue
		}
		sim := domain.Cosine(query, doc.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, domain.SearchResult{Document: doc, Similarity: sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// OwnedBy returns the owner's documents in insertion order.
func (s *DocStore) OwnedBy(_ context.Context, ownerID int64) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := s.index[ownerID]
	docs := make([]domain.Document, 0, len(positions))
	for _, pos := range positions {
		docs = append(docs, s.docs[pos])
	}
	return docs, nil
}

// Get retrieves one document, verifying ownership.
func (s *DocStore) Get(_ context.Context, id string, ownerID int64) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pos := range s.index[ownerID] {
		if s.docs[pos].ID == id {
			doc := s.docs[pos]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes one owned document and renumbers the index.
func (s *DocStore) Delete(_ context.Context, id string, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := -1
	for _, pos := range s.index[ownerID] {
		if s.docs[pos].ID == id {
			removed = pos
			break
		}
	}
	if removed == -1 {
		return domain.ErrNotFound
	}

	s.docs = append(s.docs[:removed], s.docs[removed+1:]...)
	for owner, positions := range s.index {
		kept := positions[:0]
		for _, pos := range positions {
			switch {
			case pos == removed:
			case pos > removed:
				kept = append(kept, pos-1)
			default:
				kept = append(kept, pos)
			}
		}
		if len(kept) == 0 {
			delete(s.index, owner)
			continue
		}
		s.index[owner] = kept
	}
	return nil
}

// ==================== Blob Store ====================

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore keeps full texts in a map.
type BlobStore struct {
	mu    sync.Mutex
	blobs map[string]string
}

// NewBlobStore creates an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: map[string]string{}}
}

// Put stores the full text under key.
func (s *BlobStore) Put(_ context.Context, key, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = text
	return nil
}

// Get loads the full text stored under key.
func (s *BlobStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.blobs[key]
	if !ok {
		return "", fmt.Errorf("%w: blob %s missing", domain.ErrStorageUnreadable, key)
	}
	return text, nil
}

// Delete removes the blob.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Close releases resources.
func (s *BlobStore) Close() error {
	return nil
}

// ==================== Answer Cache ====================

// Ensure AnswerCache implements the interface.
var _ driven.AnswerCache = (*AnswerCache)(nil)

// AnswerCache keeps cached answers in a map with TTL expiry on read.
type AnswerCache struct {
	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	ttl     time.Duration

	// Now is swappable for expiry tests.
	Now func() time.Time
}

// NewAnswerCache creates an empty in-memory cache. A non-positive ttl
// falls back to one hour.
func NewAnswerCache(ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AnswerCache{
		entries: map[string]domain.CacheEntry{},
		ttl:     ttl,
		Now:     time.Now,
	}
}

// Get returns the entry stored under key, removing it and reporting
// domain.ErrNotFound when absent or expired.
func (c *AnswerCache) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.Now().Sub(entry.CreatedAt) > c.ttl {
		delete(c.entries, key)
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Set stores the entry under entry.Key.
func (c *AnswerCache) Set(_ context.Context, entry domain.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.Now().UTC()
	}
	c.entries[entry.Key] = entry
	return nil
}

// DeleteExpired removes every entry older than the TTL.
func (c *AnswerCache) DeleteExpired(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.Now().Sub(entry.CreatedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Clear removes every entry.
func (c *AnswerCache) Clear(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = map[string]domain.CacheEntry{}
	return removed, nil
}

// Stats summarises the cache contents.
func (c *AnswerCache) Stats(_ context.Context) (domain.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stats domain.CacheStats
	for _, entry := range c.entries {
		stats.TotalEntries++
		stats.TotalBytes += int64(len(entry.Query) + len(entry.Answer))
		if c.Now().Sub(entry.CreatedAt) > c.ttl {
			stats.ExpiredEntries++
		}
	}
	return stats, nil
}

// ==================== Conversation Store ====================

// Ensure HistoryStore implements the interface.
var _ driven.ConversationStore = (*HistoryStore)(nil)

// HistoryStore keeps per-user dialogue logs in a map.
type HistoryStore struct {
	mu       sync.Mutex
	logs     map[int64][]domain.ConversationTurn
	maxPairs int
}

// NewHistoryStore creates an empty in-memory history store. A
// non-positive maxPairs falls back to ten.
func NewHistoryStore(maxPairs int) *HistoryStore {
	if maxPairs <= 0 {
		maxPairs = 10
	}
	return &HistoryStore{logs: map[int64][]domain.ConversationTurn{}, maxPairs: maxPairs}
}

// Append adds one turn, dropping the oldest pair when over capacity.
func (s *HistoryStore) Append(_ context.Context, ownerID int64, turn domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.logs[ownerID], turn)
	for len(turns) > s.maxPairs*2 {
		turns = turns[2:]
	}
	s.logs[ownerID] = turns
	return nil
}

// History returns the most recent turns, newest last.
func (s *HistoryStore) History(_ context.Context, ownerID int64, limit int) ([]domain.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.logs[ownerID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]domain.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear drops the owner's log.
func (s *HistoryStore) Clear(_ context.Context, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.logs[ownerID]) == 0 {
		return false, nil
	}
	delete(s.logs, ownerID)
	return true, nil
}

// Stats summarises the owner's retained log.
func (s *HistoryStore) Stats(_ context.Context, ownerID int64) (domain.ConversationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.ConversationStats{TotalTurns: len(s.logs[ownerID])}
	for _, turn := range s.logs[ownerID] {
		switch turn.Role {
		case domain.RoleUser:
			stats.UserTurns++
		case domain.RoleAssistant:
			stats.AssistantTurns++
		}
	}
	return stats, nil
}
