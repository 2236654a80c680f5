package retry

import (
	"context"
	"unicode/utf8"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
	"github.com/docent-dev/docent/internal/logger"
)

// Ensure SummaryFallback implements the interface.
var _ driven.AIService = (*SummaryFallback)(nil)

// SummaryFallback decorates an AI service so that a failed
// summarization degrades to the head of the original text instead of
// failing document ingestion. Embedding and generation pass through
// untouched; only summaries have a meaningful degraded form.
type SummaryFallback struct {
	inner driven.AIService
}

// WithSummaryFallback wraps inner with head-of-text degradation.
func WithSummaryFallback(inner driven.AIService) *SummaryFallback {
	return &SummaryFallback{inner: inner}
}

// Summarize tries the model, degrading to a truncated head of text on
// any failure.
func (s *SummaryFallback) Summarize(ctx context.Context, text string, maxLen int) (string, error) {
	out, err := s.inner.Summarize(ctx, text, maxLen)
	if err == nil && out != "" {
		return out, nil
	}

	logger.Warn("Summarization degraded to text head: %v", err)
	if utf8.RuneCountInString(text) <= maxLen {
		return text, nil
	}
	return string([]rune(text)[:maxLen]) + "...", nil
}

// Embed passes through.
func (s *SummaryFallback) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.inner.Embed(ctx, text)
}

// GenerateAnswer passes through.
func (s *SummaryFallback) GenerateAnswer(ctx context.Context, query, docContext string, history []domain.ConversationTurn, maxContextTokens int) (string, error) {
	return s.inner.GenerateAnswer(ctx, query, docContext, history, maxContextTokens)
}

// ModelName returns the underlying model name.
func (s *SummaryFallback) ModelName() string { return s.inner.ModelName() }

// Ping passes through.
func (s *SummaryFallback) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close releases the underlying service.
func (s *SummaryFallback) Close() error { return s.inner.Close() }
