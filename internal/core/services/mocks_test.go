package services

import (
	"context"

	"github.com/docent-dev/docent/internal/core/domain"
)

// Function-backed port fakes. Unset functions return zero values.

type mockAI struct {
	summarizeFn func(ctx context.Context, text string, maxLen int) (string, error)
	embedFn     func(ctx context.Context, text string) ([]float32, error)
	generateFn  func(ctx context.Context, query, docContext string, history []domain.ConversationTurn, maxTokens int) (string, error)
}

func (m *mockAI) Summarize(ctx context.Context, text string, maxLen int) (string, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, text, maxLen)
	}
	return "summary of: " + text[:min(20, len(text))], nil
}

func (m *mockAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockAI) GenerateAnswer(ctx context.Context, query, docContext string, history []domain.ConversationTurn, maxTokens int) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, query, docContext, history, maxTokens)
	}
	return "generated answer", nil
}

func (m *mockAI) ModelName() string          { return "mock" }
func (m *mockAI) Ping(context.Context) error { return nil }
func (m *mockAI) Close() error               { return nil }

type mockDocStore struct {
	addFn     func(ctx context.Context, doc *domain.Document) error
	searchFn  func(ctx context.Context, ownerID int64, query []float32, topK int, threshold float64) ([]domain.SearchResult, error)
	ownedByFn func(ctx context.Context, ownerID int64) ([]domain.Document, error)
	getFn     func(ctx context.Context, id string, ownerID int64) (*domain.Document, error)
	deleteFn  func(ctx context.Context, id string, ownerID int64) error
}

func (m *mockDocStore) Add(ctx context.Context, doc *domain.Document) error {
	if m.addFn != nil {
		return m.addFn(ctx, doc)
	}
	return nil
}

func (m *mockDocStore) Search(ctx context.Context, ownerID int64, query []float32, topK int, threshold float64) ([]domain.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, ownerID, query, topK, threshold)
	}
	return nil, nil
}

func (m *mockDocStore) OwnedBy(ctx context.Context, ownerID int64) ([]domain.Document, error) {
	if m.ownedByFn != nil {
		return m.ownedByFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockDocStore) Get(ctx context.Context, id string, ownerID int64) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id, ownerID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocStore) Delete(ctx context.Context, id string, ownerID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil
}

type mockBlobStore struct {
	putFn    func(ctx context.Context, key, text string) error
	getFn    func(ctx context.Context, key string) (string, error)
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockBlobStore) Put(ctx context.Context, key, text string) error {
	if m.putFn != nil {
		return m.putFn(ctx, key, text)
	}
	return nil
}

func (m *mockBlobStore) Get(ctx context.Context, key string) (string, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return "", domain.ErrStorageUnreadable
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockBlobStore) Close() error { return nil }

type mockCache struct {
	getFn func(ctx context.Context, key string) (*domain.CacheEntry, error)
	setFn func(ctx context.Context, entry domain.CacheEntry) error
}

func (m *mockCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, entry domain.CacheEntry) error {
	if m.setFn != nil {
		return m.setFn(ctx, entry)
	}
	return nil
}

func (m *mockCache) DeleteExpired(context.Context) (int, error) { return 0, nil }
func (m *mockCache) Clear(context.Context) (int, error)         { return 0, nil }
func (m *mockCache) Stats(context.Context) (domain.CacheStats, error) {
	return domain.CacheStats{}, nil
}

type mockHistory struct {
	appendFn  func(ctx context.Context, ownerID int64, turn domain.ConversationTurn) error
	historyFn func(ctx context.Context, ownerID int64, limit int) ([]domain.ConversationTurn, error)
	clearFn   func(ctx context.Context, ownerID int64) (bool, error)
	statsFn   func(ctx context.Context, ownerID int64) (domain.ConversationStats, error)
}

func (m *mockHistory) Append(ctx context.Context, ownerID int64, turn domain.ConversationTurn) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, ownerID, turn)
	}
	return nil
}

func (m *mockHistory) History(ctx context.Context, ownerID int64, limit int) ([]domain.ConversationTurn, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, ownerID, limit)
	}
	return nil, nil
}

func (m *mockHistory) Clear(ctx context.Context, ownerID int64) (bool, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx, ownerID)
	}
	return false, nil
}

func (m *mockHistory) Stats(ctx context.Context, ownerID int64) (domain.ConversationStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, ownerID)
	}
	return domain.ConversationStats{}, nil
}

func newTestAssistant(ai *mockAI, docs *mockDocStore, blobs *mockBlobStore, cache *mockCache, history *mockHistory) *Assistant {
	if ai == nil {
		ai = &mockAI{}
	}
	if docs == nil {
		docs = &mockDocStore{}
	}
	if blobs == nil {
		blobs = &mockBlobStore{}
	}
	if cache == nil {
		cache = &mockCache{}
	}
	if history == nil {
		history = &mockHistory{}
	}
	return NewAssistant(ai, docs, blobs, cache, history, DefaultOptions())
}
