package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore keeps one text file per document body under a dedicated
// directory. Keys are document ids and never contain path separators;
// anything else is rejected.
type BlobStore struct {
	dir string
}

// NewBlobStore opens (or creates) the blob directory under dataDir.
func NewBlobStore(dataDir string) (*BlobStore, error) {
	dir := filepath.Join(dataDir, "texts")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

// Put stores the full text under key.
func (s *BlobStore) Put(_ context.Context, key, text string) error {
	path, err := s.blobPath(key)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0600); err != nil {
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing blob %s: %w", key, err)
	}
	return nil
}

// Get loads the full text stored under key.
func (s *BlobStore) Get(_ context.Context, key string) (string, error) {
	path, err := s.blobPath(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: blob %s: %v", domain.ErrStorageUnreadable, key, err)
	}
	return string(data), nil
}

// Delete removes the blob. Deleting an absent key is not an error.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	path, err := s.blobPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}

// Close releases resources.
func (s *BlobStore) Close() error {
	return nil
}

func (s *BlobStore) blobPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: bad blob key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key+".txt"), nil
}
