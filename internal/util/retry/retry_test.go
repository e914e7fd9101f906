package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fast() []Option {
	return []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond)}
}

func TestDo_Success(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, fast()...)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	var retried []int
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, append(fast(), WithOnRetry(func(attempt int, _ time.Duration, err error) {
		assert.ErrorIs(t, err, errTransient)
		retried = append(retried, attempt)
	}))...)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_AttemptsExhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	}, append(fast(), WithMaxAttempts(3))...)

	require.ErrorIs(t, err, errTransient)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestDo_FatalError(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Fatal(errTransient)
	}, fast()...)

	require.ErrorIs(t, err, errTransient)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, calls)
}

func TestDo_RetryIf(t *testing.T) {
	t.Parallel()

	permanent := errors.New("permanent")
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return errTransient
		}
		return permanent
	}, append(fast(), WithRetryIf(func(err error) bool { return errors.Is(err, errTransient) }))...)

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 2, calls)
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	}, WithInitialDelay(time.Hour))

	require.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextAlreadyDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, func(context.Context) error {
		t.Fatal("operation must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_BackoffCapped(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	_ = Do(context.Background(), func(context.Context) error { return errTransient },
		WithMaxAttempts(5),
		WithInitialDelay(time.Millisecond),
		WithMultiplier(3),
		WithMaxDelay(5*time.Millisecond),
		WithOnRetry(func(_ int, d time.Duration, _ error) { delays = append(delays, d) }),
	)
	assert.Equal(t, []time.Duration{time.Millisecond, 3 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond}, delays)
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Fatal(nil))
	err := Fatal(errTransient)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, "transient", err.Error())
	assert.False(t, IsFatal(errTransient))
}
