package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"purchase-advisor/internal/common/config"
	apperrors "purchase-advisor/internal/common/errors"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/metrics"
)

// Breaker guards one external capability with a circuit breaker and a fixed
// per-call timeout. Calls are never retried. It is the only state shared
// between requests and holds no request data.
type Breaker struct {
	name    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[any]
}

func NewBreaker(name string, cfg config.CapabilityConfig, log logger.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerHalfOpen,
		Interval:    config.GetDuration(cfg.BreakerInterval),
		Timeout:     config.GetDuration(cfg.BreakerOpenFor),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"capability": name,
				"from":       from.String(),
				"to":         to.String(),
			})
		},
		// A caller hanging up or a model producing junk says nothing about
		// the health of the remote service.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, apperrors.ErrMalformedOutput)
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return &Breaker{
		name:    name,
		timeout: config.GetDuration(cfg.Timeout),
		cb:      gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) Timeout() time.Duration {
	return b.timeout
}

// Available reports whether a call would currently be attempted.
func (b *Breaker) Available() bool {
	return b != nil && b.cb.State() != gobreaker.StateOpen
}

// Call runs fn under the breaker with the capability timeout applied. Every
// failure is mapped to ErrCapabilityUnavailable, ErrCapabilityTimeout or
// ErrMalformedOutput, except caller cancellation which is returned as-is.
func Call[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if b == nil {
		return zero, apperrors.ErrCapabilityUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	out, err := b.cb.Execute(func() (any, error) {
		return fn(callCtx)
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		err = b.classify(ctx, callCtx, err)
		metrics.RecordCapability(b.name, resultLabel(err), elapsed)
		return zero, err
	}

	metrics.RecordCapability(b.name, "ok", elapsed)
	v, _ := out.(T)
	return v, nil
}

func (b *Breaker) classify(parent, callCtx context.Context, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%s: %w: %w", b.name, apperrors.ErrCapabilityUnavailable, err)
	case errors.Is(parent.Err(), context.Canceled):
		return parent.Err()
	case errors.Is(err, apperrors.ErrMalformedOutput),
		errors.Is(err, apperrors.ErrCapabilityTimeout),
		errors.Is(err, apperrors.ErrCapabilityUnavailable):
		return err
	case callCtx.Err() == context.DeadlineExceeded, errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s after %s: %w", b.name, b.timeout, apperrors.ErrCapabilityTimeout)
	default:
		return fmt.Errorf("%s: %w: %w", b.name, apperrors.ErrCapabilityUnavailable, err)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrCapabilityTimeout):
		return "timeout"
	case errors.Is(err, apperrors.ErrMalformedOutput):
		return "malformed"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "unavailable"
	}
}
