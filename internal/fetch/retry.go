package fetch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/metrics"
)

// RetryPolicy decides how many attempts a fetch gets and how long to wait
// between them.
type RetryPolicy interface {
	MaxAttempts() int
	Delay(attempt int) time.Duration
}

// FixedDelayPolicy retries up to Attempts times with a constant wait.
type FixedDelayPolicy struct {
	Attempts int
	Wait     time.Duration
}

// NewFixedDelayPolicy builds the default policy: 3 attempts, 1s apart.
func NewFixedDelayPolicy() FixedDelayPolicy {
	return FixedDelayPolicy{Attempts: 3, Wait: time.Second}
}

// MaxAttempts returns the total attempt budget.
func (p FixedDelayPolicy) MaxAttempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

// Delay returns the constant wait, regardless of attempt number.
func (p FixedDelayPolicy) Delay(int) time.Duration {
	return p.Wait
}

// RetryExhaustedError reports that every attempt for one fetch failed. It
// carries the last underlying error.
type RetryExhaustedError struct {
	URL      string
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("fetch %s: %d attempts exhausted: %v", e.URL, e.Attempts, e.Last)
}

// Unwrap exposes the last underlying error for errors.Is/As.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Last
}

// runWithRetry invokes fn under the policy. Any failure is retryable; the
// context is only consulted between attempts so an in-flight request runs to
// completion.
func runWithRetry(ctx context.Context, policy RetryPolicy, logger *zap.Logger, url string, fn func() error) error {
	var lastErr error
	attempts := policy.MaxAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			metrics.ObserveRetry()
			select {
			case <-time.After(policy.Delay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		logger.Warn("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
	}
	return &RetryExhaustedError{URL: url, Attempts: attempts, Last: lastErr}
}
