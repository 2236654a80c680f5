package driven

import (
	"context"

	"github.com/docent-dev/docent/internal/core/domain"
)

// ConversationStore keeps a bounded per-user dialogue log.
//
// Implementations truncate the log to their configured retention,
// always dropping the oldest user/assistant pair first so the log
// never starts mid-turn.
type ConversationStore interface {
	// Append adds one turn to the owner's log, truncating the oldest
	// pair when over capacity.
	Append(ctx context.Context, ownerID int64, turn domain.ConversationTurn) error

	// History returns the most recent turns for the owner, newest
	// last. A non-positive limit returns the whole retained log.
	History(ctx context.Context, ownerID int64, limit int) ([]domain.ConversationTurn, error)

	// Clear drops the owner's log. Returns false when there was
	// nothing to clear.
	Clear(ctx context.Context, ownerID int64) (bool, error)

	// Stats summarises the owner's retained log.
	Stats(ctx context.Context, ownerID int64) (domain.ConversationStats, error)
}
