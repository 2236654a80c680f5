package retry

import (
	"context"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.AIService = (*Service)(nil)

// Service decorates an AI service so that every model call runs under
// the backoff policy.
type Service struct {
	inner  driven.AIService
	policy Policy
}

// Wrap decorates inner with the given policy.
func Wrap(inner driven.AIService, policy Policy) *Service {
	return &Service{inner: inner, policy: policy}
}

// Summarize retries transient summarization failures.
func (s *Service) Summarize(ctx context.Context, text string, maxLen int) (string, error) {
	var out string
	err := s.policy.Do(ctx, "summarize", func() error {
		var err error
		out, err = s.inner.Summarize(ctx, text, maxLen)
		return err
	})
	return out, err
}

// Embed retries transient embedding failures.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.policy.Do(ctx, "embed", func() error {
		var err error
		out, err = s.inner.Embed(ctx, text)
		return err
	})
	return out, err
}

// GenerateAnswer retries transient generation failures.
func (s *Service) GenerateAnswer(ctx context.Context, query, docContext string, history []domain.ConversationTurn, maxContextTokens int) (string, error) {
	var out string
	err := s.policy.Do(ctx, "generate answer", func() error {
		var err error
		out, err = s.inner.GenerateAnswer(ctx, query, docContext, history, maxContextTokens)
		return err
	})
	return out, err
}

// ModelName returns the underlying model name.
func (s *Service) ModelName() string {
	return s.inner.ModelName()
}

// Ping passes through without retry; health checks should report the
// first failure.
func (s *Service) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the underlying service.
func (s *Service) Close() error {
	return s.inner.Close()
}
