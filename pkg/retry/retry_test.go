package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRateLimited = errors.New("429 resource exhausted")

func isRateLimited(err error) bool {
	return errors.Is(err, errRateLimited)
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, Retryable: isRateLimited}.
		WithSleep(func(ctx context.Context, d time.Duration) error {
			t.Fatal("sleep should not be called on first-attempt success")
			return nil
		})

	out, err := Do(context.Background(), cfg, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestDo_DelayDoublesPerRetry(t *testing.T) {
	var delays []time.Duration
	cfg := Config{MaxRetries: 3, BaseDelay: 2 * time.Second, Retryable: isRateLimited, Operation: "plan"}.
		WithSleep(func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		})

	attempts := 0
	out, err := Do(context.Background(), cfg, func(ctx context.Context) (int, error) {
		attempts++
		if attempts < 4 {
			return 0, errRateLimited
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, delays)
}

func TestDo_NonRetryableErrorPropagatesImmediately(t *testing.T) {
	boom := errors.New("invalid argument")
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, Retryable: isRateLimited}.
		WithSleep(func(ctx context.Context, d time.Duration) error {
			t.Fatal("sleep should not be called for non-retryable errors")
			return nil
		})

	attempts := 0
	_, err := Do(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestDo_ExhaustionReturnsLastError(t *testing.T) {
	cfg := Config{MaxRetries: 2, BaseDelay: time.Second, Retryable: isRateLimited}.
		WithSleep(func(ctx context.Context, d time.Duration) error { return nil })

	attempts := 0
	_, err := Do(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		return "", errRateLimited
	})
	require.ErrorIs(t, err, errRateLimited)
	// 首次调用 + 2 次重试
	assert.Equal(t, 3, attempts)
}

func TestDo_ZeroRetriesNeverSleeps(t *testing.T) {
	cfg := Config{MaxRetries: 0, BaseDelay: time.Second, Retryable: isRateLimited}.
		WithSleep(func(ctx context.Context, d time.Duration) error {
			t.Fatal("sleep should not be called with zero retry budget")
			return nil
		})

	attempts := 0
	_, err := Do(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		return "", errRateLimited
	})
	require.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxRetries: 3, BaseDelay: time.Second, Retryable: isRateLimited}.
		WithSleep(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		})

	_, err := Do(ctx, cfg, func(ctx context.Context) (string, error) {
		return "", errRateLimited
	})
	require.ErrorIs(t, err, context.Canceled)
}
