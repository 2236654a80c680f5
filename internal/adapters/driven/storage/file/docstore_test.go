package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-dev/docent/internal/core/domain"
)

func newDoc(id string, ownerID int64, embedding []float32) *domain.Document {
	return &domain.Document{
		ID:        id,
		OwnerID:   ownerID,
		Title:     "title " + id,
		Summary:   "summary " + id,
		Embedding: embedding,
		TextRef:   id,
	}
}

func TestDocStore_AddAndList(t *testing.T) {
	s, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, newDoc("a", 1, []float32{1, 0})))
	require.NoError(t, s.Add(ctx, newDoc("b", 2, []float32{0, 1})))
	require.NoError(t, s.Add(ctx, newDoc("c", 1, []float32{1, 1})))

	docs, err := s.OwnedBy(ctx, 1)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)
	assert.False(t, docs[0].CreatedAt.IsZero())

	other, err := s.OwnedBy(ctx, 2)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "b", other[0].ID)
}

func TestDocStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewDocStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, newDoc("a", 1, []float32{1, 0})))

	reopened, err := NewDocStore(dir)
	require.NoError(t, err)

	docs, err := reopened.OwnedBy(ctx, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, []float32{1, 0}, docs[0].Embedding)
}

func TestDocStore_Search(t *testing.T) {
	s, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, newDoc("close", 1, []float32{1, 0})))
	require.NoError(t, s.Add(ctx, newDoc("far", 1, []float32{0, 1})))
	require.NoError(t, s.Add(ctx, newDoc("mid", 1, []float32{1, 1})))
	require.NoError(t, s.Add(ctx, newDoc("other-user", 2, []float32{1, 0})))

	t.Run("ranked descending and scoped to owner", func(t *testing.T) {
		results, err := s.Search(ctx, 1, []float32{1, 0}, 10, 0.0)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "close", results[0].Document.ID)
		assert.Equal(t, "mid", results[1].Document.ID)
		assert.Equal(t, "far", results[2].Document.ID)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	})

	t.Run("topK caps results", func(t *testing.T) {
		results, err := s.Search(ctx, 1, []float32{1, 0}, 2, 0.0)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("threshold filters", func(t *testing.T) {
		results, err := s.Search(ctx, 1, []float32{1, 0}, 10, 0.5)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "close", results[0].Document.ID)
	})

	t.Run("unknown owner yields empty", func(t *testing.T) {
		results, err := s.Search(ctx, 99, []float32{1, 0}, 10, 0.0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("results not hydrated", func(t *testing.T) {
		results, err := s.Search(ctx, 1, []float32{1, 0}, 1, 0.0)
		require.NoError(t, err)
		assert.Empty(t, results[0].FullText)
	})
}

func TestDocStore_SearchSkipsUnembedded(t *testing.T) {
	s, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, newDoc("embedded", 1, []float32{1, 0})))
	require.NoError(t, s.Add(ctx, newDoc("unembedded", 1, nil)))

	results, err := s.Search(ctx, 1, []float32{1, 0}, 10, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "embedded", results[0].Document.ID)

	// Listing still shows both.
	docs, err := s.OwnedBy(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocStore_Get(t *testing.T) {
	s, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, newDoc("a", 1, []float32{1})))

	t.Run("found", func(t *testing.T) {
		doc, err := s.Get(ctx, "a", 1)
		require.NoError(t, err)
		assert.Equal(t, "title a", doc.Title)
	})

	t.Run("wrong owner", func(t *testing.T) {
		_, err := s.Get(ctx, "a", 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("absent", func(t *testing.T) {
		_, err := s.Get(ctx, "zzz", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDocStore_DeleteRenumbersIndex(t *testing.T) {
	s, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, newDoc("a", 1, []float32{1, 0})))
	require.NoError(t, s.Add(ctx, newDoc("b", 2, []float32{1, 0})))
	require.NoError(t, s.Add(ctx, newDoc("c", 1, []float32{0, 1})))

	require.NoError(t, s.Delete(ctx, "a", 1))

	// User 1 keeps c; user 2's index still resolves to b after the
	// positions shifted down.
	docs, err := s.OwnedBy(ctx, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "c", docs[0].ID)

	other, err := s.OwnedBy(ctx, 2)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "b", other[0].ID)

	// Search still returns the right documents.
	results, err := s.Search(ctx, 2, []float32{1, 0}, 10, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Document.ID)
}

func TestDocStore_DeleteOwnership(t *testing.T) {
	s, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, newDoc("a", 1, []float32{1})))

	assert.ErrorIs(t, s.Delete(ctx, "a", 2), domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "zzz", 1), domain.ErrNotFound)

	// Still present for its real owner.
	_, err = s.Get(ctx, "a", 1)
	assert.NoError(t, err)
}

func TestDocStore_DeletePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewDocStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, newDoc("a", 1, []float32{1})))
	require.NoError(t, s.Add(ctx, newDoc("b", 1, []float32{1})))
	require.NoError(t, s.Delete(ctx, "a", 1))

	reopened, err := NewDocStore(dir)
	require.NoError(t, err)

	docs, err := reopened.OwnedBy(ctx, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)
}
