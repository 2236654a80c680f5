package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-dev/docent/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func doc(id string, ownerID int64, embedding []float32) *domain.Document {
	return &domain.Document{
		ID:        id,
		OwnerID:   ownerID,
		Title:     "title " + id,
		Summary:   "summary " + id,
		Embedding: embedding,
		TextRef:   id,
	}
}

func TestNewStore_MigratesIdempotently(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening must not re-run applied migrations.
	s2, err := NewStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	docs := s2.DocumentStore()
	require.NoError(t, docs.Add(context.Background(), doc("a", 1, []float32{1})))
}

func TestDocumentStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	docs := s.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx, doc("a", 1, []float32{0.5, -1.25, 3})))

	got, err := docs.Get(ctx, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, "title a", got.Title)
	assert.Equal(t, "summary a", got.Summary)
	assert.Equal(t, []float32{0.5, -1.25, 3}, got.Embedding)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDocumentStore_OwnedByInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	docs := s.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx, doc("first", 1, nil)))
	require.NoError(t, docs.Add(ctx, doc("second", 1, nil)))
	require.NoError(t, docs.Add(ctx, doc("other", 2, nil)))

	got, err := docs.OwnedBy(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestDocumentStore_Search(t *testing.T) {
	s := newTestStore(t)
	docs := s.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx, doc("close", 1, []float32{1, 0})))
	require.NoError(t, docs.Add(ctx, doc("mid", 1, []float32{1, 1})))
	require.NoError(t, docs.Add(ctx, doc("far", 1, []float32{0, 1})))
	require.NoError(t, docs.Add(ctx, doc("unembedded", 1, nil)))
	require.NoError(t, docs.Add(ctx, doc("foreign", 2, []float32{1, 0})))

	results, err := docs.Search(ctx, 1, []float32{1, 0}, 2, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].Document.ID)
	assert.Equal(t, "mid", results[1].Document.ID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestDocumentStore_DeleteOwnership(t *testing.T) {
	s := newTestStore(t)
	docs := s.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Add(ctx, doc("a", 1, nil)))

	assert.ErrorIs(t, docs.Delete(ctx, "a", 2), domain.ErrNotFound)
	require.NoError(t, docs.Delete(ctx, "a", 1))

	_, err := docs.Get(ctx, "a", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnswerCache_RoundTripAndExpiry(t *testing.T) {
	s := newTestStore(t)
	cache := s.AnswerCache(time.Hour).(*answerCache)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, domain.CacheEntry{
		Key: "k1", OwnerID: 1, Query: "q", Answer: "the answer",
	}))

	got, err := cache.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "the answer", got.Answer)

	// Jump past the TTL: the entry expires and is removed on read.
	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = cache.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cache.now = time.Now
	_, err = cache.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnswerCache_DeleteExpiredAndStats(t *testing.T) {
	s := newTestStore(t)
	cache := s.AnswerCache(time.Hour).(*answerCache)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, domain.CacheEntry{
		Key: "old", OwnerID: 1, Query: "q", Answer: "a",
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}))
	require.NoError(t, cache.Set(ctx, domain.CacheEntry{
		Key: "fresh", OwnerID: 1, Query: "q", Answer: "b",
	}))

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.ExpiredEntries)
	assert.Positive(t, stats.TotalBytes)

	removed, err := cache.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = cache.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestAnswerCache_Clear(t *testing.T) {
	s := newTestStore(t)
	cache := s.AnswerCache(time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, domain.CacheEntry{Key: "a", Answer: "1"}))
	require.NoError(t, cache.Set(ctx, domain.CacheEntry{Key: "b", Answer: "2"}))

	removed, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestConversationStore_AppendTruncatesPairs(t *testing.T) {
	s := newTestStore(t)
	conv := s.ConversationStore(2)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, conv.Append(ctx, 1, domain.ConversationTurn{
			Role: domain.RoleUser, Content: fmt.Sprintf("question %d", i),
		}))
		require.NoError(t, conv.Append(ctx, 1, domain.ConversationTurn{
			Role: domain.RoleAssistant, Content: fmt.Sprintf("answer %d", i),
		}))
	}

	turns, err := conv.History(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, turns, 4)
	assert.Equal(t, "question 2", turns[0].Content)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "answer 3", turns[3].Content)
}

func TestConversationStore_HistoryLimit(t *testing.T) {
	s := newTestStore(t)
	conv := s.ConversationStore(10)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, conv.Append(ctx, 1, domain.ConversationTurn{
			Role: domain.RoleUser, Content: fmt.Sprintf("q%d", i),
		}))
		require.NoError(t, conv.Append(ctx, 1, domain.ConversationTurn{
			Role: domain.RoleAssistant, Content: fmt.Sprintf("a%d", i),
		}))
	}

	turns, err := conv.History(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "q3", turns[0].Content)
	assert.Equal(t, "a3", turns[1].Content)
}

func TestConversationStore_ClearAndStats(t *testing.T) {
	s := newTestStore(t)
	conv := s.ConversationStore(10)
	ctx := context.Background()

	cleared, err := conv.Clear(ctx, 1)
	require.NoError(t, err)
	assert.False(t, cleared)

	require.NoError(t, conv.Append(ctx, 1, domain.ConversationTurn{Role: domain.RoleUser, Content: "q"}))
	require.NoError(t, conv.Append(ctx, 1, domain.ConversationTurn{Role: domain.RoleAssistant, Content: "a"}))

	stats, err := conv.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTurns)
	assert.Equal(t, 1, stats.UserTurns)
	assert.Equal(t, 1, stats.AssistantTurns)

	cleared, err = conv.Clear(ctx, 1)
	require.NoError(t, err)
	assert.True(t, cleared)
}
