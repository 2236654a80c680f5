// Package bolt provides a bbolt-backed blob store for full document
// bodies, as a single-file alternative to the per-file text layout.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// textsBucket holds all document bodies, keyed by document id.
var textsBucket = []byte("texts")

// BlobStore keeps document bodies in one bbolt database file.
type BlobStore struct {
	db *bbolt.DB
}

// NewBlobStore opens (or creates) the blob database under dataDir.
func NewBlobStore(dataDir string) (*BlobStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, "texts.db")
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening blob database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(textsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating texts bucket: %w", err)
	}

	return &BlobStore{db: db}, nil
}

// Put stores the full text under key.
func (s *BlobStore) Put(_ context.Context, key, text string) error {
	if key == "" {
		return fmt.Errorf("%w: empty blob key", domain.ErrInvalidInput)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(textsBucket).Put([]byte(key), []byte(text))
	})
	if err != nil {
		return fmt.Errorf("storing blob %s: %w", key, err)
	}
	return nil
}

// Get loads the full text stored under key.
func (s *BlobStore) Get(_ context.Context, key string) (string, error) {
	var text string
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(textsBucket).Get([]byte(key)); v != nil {
			text = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: blob %s: %v", domain.ErrStorageUnreadable, key, err)
	}
	if !found {
		return "", fmt.Errorf("%w: blob %s missing", domain.ErrStorageUnreadable, key)
	}
	return text, nil
}

// Delete removes the blob. Deleting an absent key is not an error.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(textsBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}

// Close releases the database file.
func (s *BlobStore) Close() error {
	return s.db.Close()
}
