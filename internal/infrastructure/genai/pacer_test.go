package genai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_NoWaitBeforeFirstCall(t *testing.T) {
	p := NewPacer(2 * time.Second).WithSleep(func(ctx context.Context, d time.Duration) error {
		t.Fatal("first call must not wait")
		return nil
	})
	require.NoError(t, p.Wait(context.Background()))
}

func TestPacer_FixedIntervalAfterFirstCall(t *testing.T) {
	var waits []time.Duration
	p := NewPacer(2 * time.Second).WithSleep(func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	})

	for i := 0; i < 4; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second}, waits)
}

func TestPacer_ZeroIntervalNeverSleeps(t *testing.T) {
	p := NewPacer(0).WithSleep(func(ctx context.Context, d time.Duration) error {
		t.Fatal("zero interval must not wait")
		return nil
	})
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
}

func TestPacer_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPacer(time.Second)
	require.NoError(t, p.Wait(ctx)) // 首次不等待
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
}
