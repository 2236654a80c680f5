package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.ConversationStore = (*HistoryStore)(nil)

// DefaultMaxPairs is the production retention: ten question/answer
// pairs per user.
const DefaultMaxPairs = 10

// HistoryStore keeps one JSON file of conversation turns per user,
// truncated to the oldest pair first when over capacity.
type HistoryStore struct {
	mu       sync.Mutex
	dir      string
	maxPairs int
}

// NewHistoryStore opens (or creates) the history directory under
// dataDir. A non-positive maxPairs falls back to DefaultMaxPairs.
func NewHistoryStore(dataDir string, maxPairs int) (*HistoryStore, error) {
	dir := filepath.Join(dataDir, "history")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	if maxPairs <= 0 {
		maxPairs = DefaultMaxPairs
	}
	return &HistoryStore{dir: dir, maxPairs: maxPairs}, nil
}

// Append adds one turn to the owner's log, dropping the oldest pair
// when the retained log exceeds capacity.
func (s *HistoryStore) Append(_ context.Context, ownerID int64, turn domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.load(ownerID)
	if err != nil {
		return err
	}

	turns = append(turns, turn)
	for len(turns) > s.maxPairs*2 {
		turns = turns[2:]
	}
	return writeJSONAtomic(s.userPath(ownerID), turns)
}

// History returns the most recent turns, newest last. A non-positive
// limit returns the whole retained log.
func (s *HistoryStore) History(_ context.Context, ownerID int64, limit int) ([]domain.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

// Clear drops the owner's log.
func (s *HistoryStore) Clear(_ context.Context, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.userPath(ownerID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("clearing history for user %d: %w", ownerID, err)
	}
	return true, nil
}

// Stats summarises the owner's retained log.
func (s *HistoryStore) Stats(_ context.Context, ownerID int64) (domain.ConversationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.load(ownerID)
	if err != nil {
		return domain.ConversationStats{}, err
	}

	stats := domain.ConversationStats{TotalTurns: len(turns)}
	for _, turn := range turns {
		switch turn.Role {
		case domain.RoleUser:
			stats.UserTurns++
		case domain.RoleAssistant:
			stats.AssistantTurns++
		}
	}
	return stats, nil
}

func (s *HistoryStore) load(ownerID int64) ([]domain.ConversationTurn, error) {
	raw, err := os.ReadFile(s.userPath(ownerID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: history for user %d: %v", domain.ErrStorageUnreadable, ownerID, err)
	}

	var turns []domain.ConversationTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("%w: history for user %d: %v", domain.ErrStorageUnreadable, ownerID, err)
	}
	return turns, nil
}

func (s *HistoryStore) userPath(ownerID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("user_%d.json", ownerID))
}
