package driven

import (
	"context"

	"github.com/docent-dev/docent/internal/core/domain"
)

// AIService is the opaque capability boundary to the language model:
// summarize text, embed text, generate an answer from a context. Its
// prompting and HTTP concerns stay behind this interface.
//
// All three calls may fail with the transient error kinds in
// domain/errors.go; callers are expected to hold a retry-wrapped
// instance.
type AIService interface {
	// Summarize produces a short summary of text, aiming at maxLen
	// characters. The adapter bounds its own input length.
	Summarize(ctx context.Context, text string, maxLen int) (string, error)

	// Embed generates a vector embedding for the given text.
	// An empty vector without an error means the upstream produced
	// nothing usable; callers treat it as embedding unavailable.
	Embed(ctx context.Context, text string) ([]float32, error)

	// GenerateAnswer produces an answer to query grounded in the
	// assembled document context, with recent conversation history
	// for dialogue continuity. The context is truncated to
	// maxContextTokens before the call.
	GenerateAnswer(ctx context.Context, query, docContext string, history []domain.ConversationTurn, maxContextTokens int) (string, error)

	// ModelName returns the name of the underlying model.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
