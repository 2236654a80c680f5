package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// Ensure DocStore implements the interface.
var _ driven.DocumentStore = (*DocStore)(nil)

// metadataFile is the single JSON file holding the whole collection.
const metadataFile = "metadata.json"

// storedDocument is the on-disk document record.
type storedDocument struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Embedding []float32 `json:"embedding"`
	TextRef   string    `json:"text_ref"`
	CreatedAt time.Time `json:"created_at"`
}

// collection is the metadata.json layout: one ordered list of
// documents plus a per-user index of positions into that list. JSON
// object keys are strings, so owner ids are stored in decimal form.
type collection struct {
	Documents []storedDocument `json:"documents"`
	UserIndex map[string][]int `json:"user_index"`
}

// DocStore keeps document metadata and the per-user positional index
// in one JSON file, loaded at open and rewritten atomically on every
// mutation. A single mutex serialises all access.
type DocStore struct {
	mu   sync.Mutex
	path string
	data collection
}

// NewDocStore opens (or initialises) the metadata file under dataDir.
func NewDocStore(dataDir string) (*DocStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &DocStore{
		path: filepath.Join(dataDir, metadataFile),
		data: collection{UserIndex: map[string][]int{}},
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", metadataFile, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrStorageUnreadable, metadataFile, err)
	}
	if s.data.UserIndex == nil {
		s.data.UserIndex = map[string][]int{}
	}
	return s, nil
}

// Add appends the document and indexes its position for the owner.
func (s *DocStore) Add(_ context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	s.data.Documents = append(s.data.Documents, storedDocument{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Title:     doc.Title,
		Summary:   doc.Summary,
		Embedding: doc.Embedding,
		TextRef:   doc.TextRef,
		CreatedAt: doc.CreatedAt,
	})

	key := ownerKey(doc.OwnerID)
	s.data.UserIndex[key] = append(s.data.UserIndex[key], len(s.data.Documents)-1)

	if err := writeJSONAtomic(s.path, &s.data); err != nil {
		// Roll the in-memory state back so memory and disk agree.
		s.data.Documents = s.data.Documents[:len(s.data.Documents)-1]
		s.data.UserIndex[key] = s.data.UserIndex[key][:len(s.data.UserIndex[key])-1]
		return err
	}
	return nil
}

// Search ranks the owner's documents by cosine similarity, drops
// candidates below threshold, and returns at most topK hits in stable
// descending order.
func (s *DocStore) Search(_ context.Context, ownerID int64, query []float32, topK int, threshold float64) ([]domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := s.data.UserIndex[ownerKey(ownerID)]
	results := make([]domain.SearchResult, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(s.data.Documents) {
			continue
		}
		doc := s.data.Documents[pos]
		if len(doc.Embedding) == 0 {
			continue
		}
		sim := domain.Cosine(query, doc.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, domain.SearchResult{
			Document:   toDomain(doc),
			Similarity: sim,
		})
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

	positions := s.data.UserIndex[ownerKey(ownerID)]
	docs := make([]domain.Document, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(s.data.Documents) {
			continue
		}
		docs = append(docs, toDomain(s.data.Documents[pos]))
	}
	return docs, nil
}

// Get retrieves one document, verifying ownership.
func (s *DocStore) Get(_ context.Context, id string, ownerID int64) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pos := range s.data.UserIndex[ownerKey(ownerID)] {
		if pos < 0 || pos >= len(s.data.Documents) {
			continue
		}
		if s.data.Documents[pos].ID == id {
			doc := toDomain(s.data.Documents[pos])
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes one owned document and renumbers every index entry
// that pointed past it.
func (s *DocStore) Delete(_ context.Context, id string, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := -1
	for _, pos := range s.data.UserIndex[ownerKey(ownerID)] {
		if pos >= 0 && pos < len(s.data.Documents) && s.data.Documents[pos].ID == id {
			removed = pos
			break
		}
	}
	if removed == -1 {
		return domain.ErrNotFound
	}

	backup := s.snapshot()

	s.data.Documents = append(s.data.Documents[:removed], s.data.Documents[removed+1:]...)
	for key, positions := range s.data.UserIndex {
		kept := positions[:0]
		for _, pos := range positions {
			switch {
			case pos == removed:
				// Dropped with the document.
			case pos > removed:
				kept = append(kept, pos-1)
			default:
				kept = append(kept, pos)
			}
		}
		if len(kept) == 0 {
			delete(s.data.UserIndex, key)
			continue
		}
		s.data.UserIndex[key] = kept
	}

	if err := writeJSONAtomic(s.path, &s.data); err != nil {
		s.data = backup
		return err
	}
	return nil
}

// snapshot deep-copies the collection for mutation rollback.
func (s *DocStore) snapshot() collection {
	docs := make([]storedDocument, len(s.data.Documents))
	copy(docs, s.data.Documents)
	index := make(map[string][]int, len(s.data.UserIndex))
	for key, positions := range s.data.UserIndex {
		cp := make([]int, len(positions))
		copy(cp, positions)
		index[key] = cp
	}
	return collection{Documents: docs, UserIndex: index}
}

func ownerKey(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}

func toDomain(d storedDocument) domain.Document {
	return domain.Document{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Title:     d.Title,
		Summary:   d.Summary,
		Embedding: d.Embedding,
		TextRef:   d.TextRef,
		CreatedAt: d.CreatedAt,
	}
}
