package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunWithRetrySucceedsOnThirdAttempt(t *testing.T) {
	t.Parallel()

	policy := FixedDelayPolicy{Attempts: 3, Wait: time.Millisecond}
	calls := 0
	err := runWithRetry(context.Background(), policy, zap.NewNop(), "http://example.test", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunWithRetryExhaustion(t *testing.T) {
	t.Parallel()

	policy := FixedDelayPolicy{Attempts: 3, Wait: time.Millisecond}
	boom := errors.New("boom")
	calls := 0
	err := runWithRetry(context.Background(), policy, zap.NewNop(), "http://example.test", func() error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, boom)
}

func TestRunWithRetryStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	policy := FixedDelayPolicy{Attempts: 3, Wait: time.Second}
	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- runWithRetry(ctx, policy, zap.NewNop(), "http://example.test", func() error {
			calls++
			return errors.New("transient")
		})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop did not observe cancellation")
	}
}

func TestFixedDelayPolicyDefaults(t *testing.T) {
	t.Parallel()

	p := NewFixedDelayPolicy()
	assert.Equal(t, 3, p.MaxAttempts())
	assert.Equal(t, time.Second, p.Delay(1))

	zero := FixedDelayPolicy{}
	assert.Equal(t, 1, zero.MaxAttempts())
}
