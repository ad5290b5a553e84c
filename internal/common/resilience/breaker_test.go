package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchase-advisor/internal/common/config"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
)

func testBreaker(t *testing.T, timeout time.Duration) *Breaker {
	return NewBreaker(t.Name(), config.CapabilityConfig{
		Timeout:         int(timeout / time.Millisecond),
		BreakerFailures: 2,
		BreakerOpenFor:  60000,
		BreakerHalfOpen: 1,
		BreakerInterval: 60000,
	}, logger.NewTestLogger(t))
}

func TestCall_Success(t *testing.T) {
	b := testBreaker(t, time.Second)

	got, err := Call(context.Background(), b, func(ctx context.Context) ([]string, error) {
		return []string{"a4 paper"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a4 paper"}, got)
}

func TestCall_Timeout(t *testing.T) {
	b := testBreaker(t, 20*time.Millisecond)

	_, err := Call(context.Background(), b, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	assert.ErrorIs(t, err, apperrors.ErrCapabilityTimeout)
	assert.True(t, apperrors.IsDegradation(err))
}

func TestCall_FailureMapsToUnavailable(t *testing.T) {
	b := testBreaker(t, time.Second)
	cause := errors.New("503 service unavailable")

	_, err := Call(context.Background(), b, func(ctx context.Context) (int, error) {
		return 0, cause
	})

	assert.ErrorIs(t, err, apperrors.ErrCapabilityUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestCall_OpensAfterConsecutiveFailures(t *testing.T) {
	b := testBreaker(t, time.Second)
	calls := 0
	failing := func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("down")
	}

	for i := 0; i < 2; i++ {
		_, _ = Call(context.Background(), b, failing)
	}
	assert.False(t, b.Available())

	_, err := Call(context.Background(), b, failing)
	assert.ErrorIs(t, err, apperrors.ErrCapabilityUnavailable)
	assert.Equal(t, 2, calls, "open breaker must not reach the capability")
}

func TestCall_MalformedDoesNotTrip(t *testing.T) {
	b := testBreaker(t, time.Second)

	for i := 0; i < 5; i++ {
		_, err := Call(context.Background(), b, func(ctx context.Context) (int, error) {
			return 0, fmt.Errorf("bad json: %w", apperrors.ErrMalformedOutput)
		})
		assert.ErrorIs(t, err, apperrors.ErrMalformedOutput)
	}
	assert.True(t, b.Available())
}

func TestCall_CallerCancellation(t *testing.T) {
	b := testBreaker(t, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Call(ctx, b, func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, apperrors.IsDegradation(err))
}

func TestCall_NilBreaker(t *testing.T) {
	_, err := Call(context.Background(), nil, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	assert.ErrorIs(t, err, apperrors.ErrCapabilityUnavailable)
	assert.False(t, (*Breaker)(nil).Available())
}
