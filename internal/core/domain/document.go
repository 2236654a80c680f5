package domain

import "time"

// Document represents a persisted per-user unit of knowledge.
// Documents are immutable after creation; the only lifecycle
// transition is deletion.
type Document struct {
	// ID is the unique identifier, generated at ingestion.
	ID string

	// OwnerID is the numeric identifier of the uploading user.
	// It is never reassigned; search is always scoped to one owner.
	OwnerID int64

	// Title is the human-readable title.
	Title string

	// Summary is a short text derived once at ingestion from the full
	// text. It doubles as display metadata and as the text that is
	// actually embedded.
	Summary string

	// Embedding is the vector representation of Summary.
	// A document with a non-empty embedding is always indexed.
	Embedding []float32

	// TextRef is the blob key under which the full document body is
	// stored. The body is loaded lazily on search-result hydration.
	TextRef string

	// CreatedAt is the capture time. Advisory only.
	CreatedAt time.Time
}

// SearchResult is a single retrieval hit against one user's corpus.
type SearchResult struct {
	// Document is the matched document's metadata.
	Document Document

	// FullText is the hydrated document body. Falls back to the
	// summary when the backing blob is missing or unreadable.
	FullText string

	// Similarity is the cosine similarity between the query vector
	// and the document embedding.
	Similarity float64
}

// Conversation roles.
const (
	// RoleUser marks a turn authored by the user.
	RoleUser = "user"

	// RoleAssistant marks a turn authored by the assistant.
	RoleAssistant = "assistant"
)

// ConversationTurn is one entry in a per-user dialogue log.
// Turns are append-only and always retained in user/assistant pairs.
type ConversationTurn struct {
	// Role is RoleUser or RoleAssistant.
	Role string `json:"role"`

	// Content is the turn text.
	Content string `json:"content"`
}

// ConversationStats summarises one user's dialogue log.
type ConversationStats struct {
	// TotalTurns is the number of retained turns.
	TotalTurns int

	// UserTurns is the number of retained user turns.
	UserTurns int

	// AssistantTurns is the number of retained assistant turns.
	AssistantTurns int
}
