package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docent-dev/docent/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// document, cache and conversation store interfaces through wrapper
// types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docent", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docent.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// AnswerCache returns an AnswerCache interface backed by this store.
// Non-positive ttl falls back to one hour.
func (s *Store) AnswerCache(ttl time.Duration) driven.AnswerCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &answerCache{store: s, ttl: ttl, now: time.Now}
}

// ConversationStore returns a ConversationStore interface backed by
// this store. Non-positive maxPairs falls back to ten.
func (s *Store) ConversationStore(maxPairs int) driven.ConversationStore {
	if maxPairs <= 0 {
		maxPairs = 10
	}
	return &conversationStore{store: s, maxPairs: maxPairs}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Add appends a document.
func (s *documentStore) Add(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, owner_id, title, summary, embedding, text_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.OwnerID, doc.Title, doc.Summary,
		float32SliceToBytes(doc.Embedding), doc.TextRef, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Search ranks the owner's documents by cosine similarity in memory;
// a personal corpus is small enough that a table scan per query is
// the simplest thing that works.
func (s *documentStore) Search(ctx context.Context, ownerID int64, query []float32, topK int, threshold float64) ([]domain.SearchResult, error) {
	docs, err := s.OwnedBy(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(docs))
	for _, doc := range docs {
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
func (s *documentStore) OwnedBy(ctx context.Context, ownerID int64) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, summary, embedding, text_ref, created_at
		FROM documents WHERE owner_id = ?
		ORDER BY rowid
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Get retrieves one document, verifying ownership.
func (s *documentStore) Get(ctx context.Context, id string, ownerID int64) (*domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, summary, embedding, text_ref, created_at
		FROM documents WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying document: %w", err)
		}
		return nil, domain.ErrNotFound
	}
	return scanDocument(rows)
}

// Delete removes one owned document.
func (s *documentStore) Delete(ctx context.Context, id string, ownerID int64) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanDocument scans one document row.
func scanDocument(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var embedding []byte
	if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.Summary,
		&embedding, &doc.TextRef, &doc.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Embedding = bytesToFloat32Slice(embedding)
	return &doc, nil
}

// ==================== Answer Cache ====================

// answerCache implements driven.AnswerCache.
type answerCache struct {
	store *Store
	ttl   time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

var _ driven.AnswerCache = (*answerCache)(nil)

// Get returns the entry stored under key, removing it and reporting
// domain.ErrNotFound when absent or expired.
func (c *answerCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT key, owner_id, query, answer, created_at
		FROM answer_cache WHERE key = ?
	`, key)

	var entry domain.CacheEntry
	if err := row.Scan(&entry.Key, &entry.OwnerID, &entry.Query,
		&entry.Answer, &entry.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	if c.now().Sub(entry.CreatedAt) > c.ttl {
		_, _ = c.store.db.ExecContext(ctx, "DELETE FROM answer_cache WHERE key = ?", key)
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Set stores the entry under entry.Key, overwriting unconditionally.
func (c *answerCache) Set(ctx context.Context, entry domain.CacheEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now().UTC()
	}

	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO answer_cache (key, owner_id, query, answer, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			owner_id = excluded.owner_id,
			query = excluded.query,
			answer = excluded.answer,
			created_at = excluded.created_at
	`, entry.Key, entry.OwnerID, entry.Query, entry.Answer, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return nil
}

// DeleteExpired removes every entry older than the TTL.
func (c *answerCache) DeleteExpired(ctx context.Context) (int, error) {
	cutoff := c.now().Add(-c.ttl)
	res, err := c.store.db.ExecContext(ctx,
		"DELETE FROM answer_cache WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting expired entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting expired entries: %w", err)
	}
	return int(affected), nil
}

// Clear removes every entry.
func (c *answerCache) Clear(ctx context.Context) (int, error) {
	res, err := c.store.db.ExecContext(ctx, "DELETE FROM answer_cache")
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return int(affected), nil
}

// Stats summarises the cache contents.
func (c *answerCache) Stats(ctx context.Context) (domain.CacheStats, error) {
	cutoff := c.now().Add(-c.ttl)
	row := c.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(created_at < ?), 0),
		       COALESCE(SUM(LENGTH(query) + LENGTH(answer)), 0)
		FROM answer_cache
	`, cutoff)

	var stats domain.CacheStats
	if err := row.Scan(&stats.TotalEntries, &stats.ExpiredEntries, &stats.TotalBytes); err != nil {
		return domain.CacheStats{}, fmt.Errorf("scanning cache stats: %w", err)
	}
	return stats, nil
}

// ==================== Conversation Store ====================

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	store    *Store
	maxPairs int
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// Append adds one turn, dropping the oldest pair while the retained
// log exceeds capacity.
func (s *conversationStore) Append(ctx context.Context, ownerID int64, turn domain.ConversationTurn) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversation_turns (owner_id, role, content)
		VALUES (?, ?, ?)
	`, ownerID, turn.Role, turn.Content); err != nil {
		return fmt.Errorf("appending turn: %w", err)
	}

	var count int
	row := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM conversation_turns WHERE owner_id = ?", ownerID)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("counting turns: %w", err)
	}

	for count > s.maxPairs*2 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM conversation_turns WHERE id IN (
				SELECT id FROM conversation_turns
				WHERE owner_id = ? ORDER BY id LIMIT 2
			)
		`, ownerID); err != nil {
			return fmt.Errorf("truncating turns: %w", err)
		}
		count -= 2
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// History returns the most recent turns, newest last.
func (s *conversationStore) History(ctx context.Context, ownerID int64, limit int) ([]domain.ConversationTurn, error) {
	query := `
		SELECT role, content FROM conversation_turns
		WHERE owner_id = ? ORDER BY id
	`
	args := []any{ownerID}
	if limit > 0 {
		// Window the newest rows, then restore chronological order.
		query = `
			SELECT role, content FROM (
				SELECT id, role, content FROM conversation_turns
				WHERE owner_id = ? ORDER BY id DESC LIMIT ?
			) ORDER BY id
		`
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn //nolint:prealloc // size unknown from query
	for rows.Next() {
		var turn domain.ConversationTurn
		if err := rows.Scan(&turn.Role, &turn.Content); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return turns, nil
}

// Clear drops the owner's log.
func (s *conversationStore) Clear(ctx context.Context, ownerID int64) (bool, error) {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM conversation_turns WHERE owner_id = ?", ownerID)
	if err != nil {
		return false, fmt.Errorf("clearing turns: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clearing turns: %w", err)
	}
	return affected > 0, nil
}

// Stats summarises the owner's retained log.
func (s *conversationStore) Stats(ctx context.Context, ownerID int64) (domain.ConversationStats, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(role = ?), 0),
		       COALESCE(SUM(role = ?), 0)
		FROM conversation_turns WHERE owner_id = ?
	`, domain.RoleUser, domain.RoleAssistant, ownerID)

	var stats domain.ConversationStats
	if err := row.Scan(&stats.TotalTurns, &stats.UserTurns, &stats.AssistantTurns); err != nil {
		return domain.ConversationStats{}, fmt.Errorf("scanning turn stats: %w", err)
	}
	return stats, nil
}

// ==================== Embedding encoding ====================

// float32SliceToBytes converts a float32 slice to a little-endian byte
// blob for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
