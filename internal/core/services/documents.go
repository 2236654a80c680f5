package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/logger"
)

// AddDocument ingests a document: stores the full text, summarizes it,
// embeds the summary, and registers the metadata. A failed summary
// degrades to the head of the text, but a failed embedding aborts the
// whole ingestion; no partial document survives it.
func (a *Assistant) AddDocument(ctx context.Context, ownerID int64, title, fullText string) (string, error) {
	title = strings.TrimSpace(title)
	fullText = strings.TrimSpace(fullText)
	if title == "" || fullText == "" {
		return "", fmt.Errorf("%w: document needs a title and text", domain.ErrInvalidInput)
	}

	logger.Section("Add document")
	id := uuid.NewString()

	if err := a.blobs.Put(ctx, id, fullText); err != nil {
		return "", fmt.Errorf("store full text: %w", err)
	}

	summary := a.summarize(ctx, fullText)
	embedding, err := a.embedSummary(ctx, summary)
	if err != nil {
		if derr := a.blobs.Delete(ctx, id); derr != nil {
			logger.Error("Orphan blob %s left behind: %v", id, derr)
		}
		return "", err
	}

	doc := &domain.Document{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Summary:   summary,
		Embedding: embedding,
		TextRef:   id,
	}
	if err := a.docs.Add(ctx, doc); err != nil {
		// Roll the blob back so no orphan body survives a failed add.
		if derr := a.blobs.Delete(ctx, id); derr != nil {
			logger.Error("Orphan blob %s left behind: %v", id, derr)
		}
		return "", fmt.Errorf("register document: %w", err)
	}

	logger.Info("Added document %s (%d chars, summary %d chars)",
		id, utf8.RuneCountInString(fullText), utf8.RuneCountInString(summary))
	return id, nil
}

// summarizeInputMarker flags a summarize input cut to the input
// budget, so the model knows the document continues.
const summarizeInputMarker = "... [document truncated for summarization]"

// summarize produces the document summary, bounding the input and
// degrading to a plain head-of-text cut when the model is unavailable.
func (a *Assistant) summarize(ctx context.Context, fullText string) string {
	input := fullText
	if utf8.RuneCountInString(input) > a.opts.SummarizeInputChars {
		input = headRunes(input, a.opts.SummarizeInputChars) + summarizeInputMarker
	}

	summary, err := a.ai.Summarize(ctx, input, a.opts.SummaryMaxLen)
	if err != nil || strings.TrimSpace(summary) == "" {
		logger.Warn("Summarization unavailable, using text head: %v", err)
		if utf8.RuneCountInString(fullText) <= a.opts.SummaryMaxLen {
			return fullText
		}
		return headRunes(fullText, a.opts.SummaryMaxLen) + "..."
	}
	return summary
}

// embedSummary produces the search embedding. An error or an empty
// vector fails the ingestion; an unsearchable document is worse than a
// rejected one.
func (a *Assistant) embedSummary(ctx context.Context, summary string) ([]float32, error) {
	vec, err := a.ai.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector for summary", domain.ErrEmbeddingUnavailable)
	}
	return vec, nil
}

// Documents lists the owner's documents in insertion order.
func (a *Assistant) Documents(ctx context.Context, ownerID int64) ([]domain.Document, error) {
	docs, err := a.docs.OwnedBy(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes one owned document: metadata, index entry and
// full-text blob.
func (a *Assistant) DeleteDocument(ctx context.Context, ownerID int64, id string) error {
	doc, err := a.docs.Get(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if err := a.docs.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := a.blobs.Delete(ctx, doc.TextRef); err != nil {
		logger.Error("Blob delete failed for document %s: %v", id, err)
	}

	logger.Info("Deleted document %s (%s)", id, doc.Title)
	return nil
}

// ClearHistory drops the owner's conversation log, reporting whether
// anything existed and what it held.
func (a *Assistant) ClearHistory(ctx context.Context, ownerID int64) (bool, domain.ConversationStats, error) {
	stats, err := a.history.Stats(ctx, ownerID)
	if err != nil {
		return false, domain.ConversationStats{}, fmt.Errorf("history stats: %w", err)
	}
	if stats.TotalTurns == 0 {
		return false, stats, nil
	}
	cleared, err := a.history.Clear(ctx, ownerID)
	if err != nil {
		return false, stats, fmt.Errorf("clear history: %w", err)
	}
	return cleared, stats, nil
}
