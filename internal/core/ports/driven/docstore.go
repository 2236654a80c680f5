package driven

import (
	"context"

	"github.com/docent-dev/docent/internal/core/domain"
)

// DocumentStore owns document metadata and the per-user index, and
// answers nearest-neighbor queries scoped to one owner.
//
// Implementations maintain the invariant that every document with a
// non-empty embedding is indexed, and that deleting a document leaves
// the per-user index consistent with the remaining collection.
type DocumentStore interface {
	// Add appends a document and indexes it for its owner.
	Add(ctx context.Context, doc *domain.Document) error

	// Search ranks the owner's documents by cosine similarity against
	// the query vector, drops candidates below threshold, and returns
	// at most topK results in stable descending order. Results are
	// not hydrated; FullText is left empty.
	//
	// An owner with no documents yields an empty slice, not an error.
	Search(ctx context.Context, ownerID int64, query []float32, topK int, threshold float64) ([]domain.SearchResult, error)

	// OwnedBy returns all documents of one owner in insertion order.
	OwnedBy(ctx context.Context, ownerID int64) ([]domain.Document, error)

	// Get retrieves one document, verifying ownership.
	// Returns domain.ErrNotFound when absent or owned by another user.
	Get(ctx context.Context, id string, ownerID int64) (*domain.Document, error)

	// Delete removes one document after verifying ownership and
	// repairs the per-user index. Returns domain.ErrNotFound when the
	// id is absent or owned by another user.
	Delete(ctx context.Context, id string, ownerID int64) error
}

// BlobStore persists full document bodies as individually addressable
// blobs keyed by document id.
type BlobStore interface {
	// Put stores the full text under key.
	Put(ctx context.Context, key string, text string) error

	// Get loads the full text stored under key. Returns
	// domain.ErrStorageUnreadable when the blob is missing or
	// unreadable.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
