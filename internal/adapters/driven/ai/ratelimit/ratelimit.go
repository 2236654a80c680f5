// Package ratelimit wraps an AI service with a client-side token
// bucket so bursts of requests never hit the upstream quota head-on.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.AIService = (*Service)(nil)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultConfig is deliberately conservative; the upstream quota is
// the real ceiling.
func DefaultConfig() Config {
	return Config{RequestsPerSecond: 2.0, BurstSize: 5}
}

// Service decorates an AI service with a token bucket applied to every
// model call.
type Service struct {
	inner   driven.AIService
	limiter *rate.Limiter
}

// Wrap decorates inner with the given limits.
func Wrap(inner driven.AIService, cfg Config) *Service {
	if cfg.RequestsPerSecond <= 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Summarize waits for a token, then delegates.
func (s *Service) Summarize(ctx context.Context, text string, maxLen int) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Summarize(ctx, text, maxLen)
}

// Embed waits for a token, then delegates.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Embed(ctx, text)
}

// GenerateAnswer waits for a token, then delegates.
func (s *Service) GenerateAnswer(ctx context.Context, query, docContext string, history []domain.ConversationTurn, maxContextTokens int) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.GenerateAnswer(ctx, query, docContext, history, maxContextTokens)
}

// ModelName returns the underlying model name.
func (s *Service) ModelName() string { return s.inner.ModelName() }

// Ping is not rate limited; health checks should stay cheap.
func (s *Service) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close releases the underlying service.
func (s *Service) Close() error { return s.inner.Close() }
