// Package retry wraps an AI service with bounded exponential backoff
// and graceful degradation for transient upstream failures.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/logger"
)

// Default policy values.
const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 1 * time.Second
	DefaultMaxDelay     = 30 * time.Second
	DefaultBase         = 2.0
)

// Policy describes a bounded exponential backoff schedule.
type Policy struct {
	// MaxRetries is the total number of attempts.
	MaxRetries int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps every computed delay.
	MaxDelay time.Duration

	// Base is the exponential growth factor between retries.
	Base float64
}

// DefaultPolicy returns the production backoff schedule: three
// attempts with 1s then 2s between them, delays capped at 30s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Base:         DefaultBase,
	}
}

// Delay returns the wait before retry attempt (zero-based), growing
// exponentially and capped at MaxDelay.
func (p Policy) Delay(attempt int) time.Duration {
	d := time.Duration(float64(p.InitialDelay) * math.Pow(p.Base, float64(attempt)))
	if d > p.MaxDelay || d < 0 {
		return p.MaxDelay
	}
	return d
}

// Do runs fn under the policy, retrying only transient failures.
// A non-transient error returns immediately; fn runs at most
// MaxRetries times, and exhaustion wraps the last error in
// domain.ErrExhausted while keeping its kind reachable via errors.Is.
func (p Policy) Do(ctx context.Context, op string, fn func() error) error {
	attempts := p.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.Delay(attempt - 1)
			logger.Debug("Retrying %s in %s (attempt %d/%d): %v",
				op, delay, attempt+1, attempts, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !domain.IsTransient(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("%w: %s after %d attempts: %w",
		domain.ErrExhausted, op, attempts, lastErr)
}
