// Package ai assembles the model client used by the assistant.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/docent-dev/docent/internal/adapters/driven/ai/openai"
	"github.com/docent-dev/docent/internal/adapters/driven/ai/ratelimit"
	"github.com/docent-dev/docent/internal/adapters/driven/ai/retry"
	"github.com/docent-dev/docent/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// Settings selects and tunes the model client built by New.
type Settings struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string

	// Client-side rate limiting.
	RequestsPerSecond float64
	BurstSize         int

	// Retry policy for transient upstream failures.
	Retry retry.Policy
}

// New builds the decorated model client: the OpenAI adapter wrapped in
// the retry policy, the summary fallback, then the client-side rate
// limiter. Callers own the returned service and must Close it.
func New(settings Settings) (driven.AIService, error) {
	client, err := openai.New(openai.Config{
		APIKey:         settings.APIKey,
		BaseURL:        settings.BaseURL,
		ChatModel:      settings.ChatModel,
		EmbeddingModel: settings.EmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	var svc driven.AIService = retry.Wrap(client, settings.Retry)
	svc = retry.WithSummaryFallback(svc)
	svc = ratelimit.Wrap(svc, ratelimit.Config{
		RequestsPerSecond: settings.RequestsPerSecond,
		BurstSize:         settings.BurstSize,
	})
	return svc, nil
}

// ValidateConnection pings the service with a bounded timeout.
// Intended for an explicit connectivity check, not for the request path.
func ValidateConnection(svc driven.AIService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("model service unreachable: %w", err)
	}
	return nil
}
