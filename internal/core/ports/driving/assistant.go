package driving

import (
	"context"

	"github.com/docent-dev/docent/internal/core/domain"
)

// Answer is the outcome of one question against a user's corpus.
type Answer struct {
	// Text is the generated (or cached) answer.
	Text string

	// Cached is true when the answer was served from the cache
	// without a generation call.
	Cached bool

	// Routing is the decision that shaped the retrieval pass.
	Routing domain.RoutingDecision

	// DocumentsFound is how many documents retrieval returned.
	DocumentsFound int

	// DocumentsUsed is how many of those fit the context budget.
	DocumentsUsed int
}

// AssistantService defines the operations exposed by the application
// core: per-user document management and question answering.
type AssistantService interface {
	// Ask answers a question from the owner's documents. An owner
	// with no documents, or a question with no relevant documents,
	// yields an Answer with empty Text and no error.
	Ask(ctx context.Context, ownerID int64, query string) (*Answer, error)

	// AddDocument ingests a document and returns its generated id.
	AddDocument(ctx context.Context, ownerID int64, title, fullText string) (string, error)

	// Documents lists the owner's documents in insertion order.
	Documents(ctx context.Context, ownerID int64) ([]domain.Document, error)

	// DeleteDocument removes one owned document and its full text.
	DeleteDocument(ctx context.Context, ownerID int64, id string) error

	// ClearHistory drops the owner's conversation log and reports
	// what was dropped.
	ClearHistory(ctx context.Context, ownerID int64) (bool, domain.ConversationStats, error)
}
