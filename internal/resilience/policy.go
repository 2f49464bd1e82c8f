// internal/resilience/policy.go
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

var (
	// ErrUnavailable reports that the circuit is open and the call failed
	// fast without reaching the remote service.
	ErrUnavailable = errors.New("fraud check unavailable: circuit open")

	// ErrTimeout reports that the bounded call exceeded its deadline.
	ErrTimeout = errors.New("fraud check timed out")
)

// CheckFunc is the shape of a fraud check call: customer id in, fraud verdict
// out. Policies wrap a CheckFunc without knowing what is underneath.
type CheckFunc func(ctx context.Context, customerID uuid.UUID) (bool, error)

// Policy decorates a CheckFunc with one resilience behavior.
type Policy interface {
	Wrap(next CheckFunc) CheckFunc
}

// Chain applies policies in order, each wrapping the result of the previous
// one. Chain(fn, timeout, retry, breaker, fallback) yields
// fallback(breaker(retry(timeout(fn)))).
func Chain(fn CheckFunc, policies ...Policy) CheckFunc {
	for _, p := range policies {
		fn = p.Wrap(fn)
	}
	return fn
}

// Config carries the tunable knobs for the fraud check policy chain.
type Config struct {
	CallTimeout      time.Duration
	MaxRetries       uint
	RetryInterval    time.Duration
	BreakerMaxProbes uint32
	BreakerInterval  time.Duration
	BreakerCooldown  time.Duration
	FailureThreshold uint32
	FallbackEnabled  bool
}

// DefaultConfig mirrors the production tuning: short calls, few retries, a
// breaker that opens after a burst of consecutive failures.
func DefaultConfig() Config {
	return Config{
		CallTimeout:      2 * time.Second,
		MaxRetries:       3,
		RetryInterval:    100 * time.Millisecond,
		BreakerMaxProbes: 1,
		BreakerInterval:  60 * time.Second,
		BreakerCooldown:  30 * time.Second,
		FailureThreshold: 5,
		FallbackEnabled:  true,
	}
}

// TimeoutPolicy bounds each underlying call with its own deadline. The
// deadline cancels only the fraud sub-call, never the whole registration.
type TimeoutPolicy struct {
	Timeout time.Duration
}

func (p TimeoutPolicy) Wrap(next CheckFunc) CheckFunc {
	return func(ctx context.Context, customerID uuid.UUID) (bool, error) {
		callCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		defer cancel()

		fraudulent, err := next(callCtx, customerID)
		if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return false, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fraudulent, err
	}
}

// RetryPolicy retries transient failures with exponential backoff. It sits
// inside the breaker, so an open circuit is never retried against.
type RetryPolicy struct {
	MaxRetries      uint
	InitialInterval time.Duration
}

func (p RetryPolicy) Wrap(next CheckFunc) CheckFunc {
	return func(ctx context.Context, customerID uuid.UUID) (bool, error) {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = p.InitialInterval

		return backoff.Retry(ctx, func() (bool, error) {
			return next(ctx, customerID)
		}, backoff.WithBackOff(bo), backoff.WithMaxTries(p.MaxRetries+1))
	}
}

// BreakerPolicy routes the call through a shared circuit breaker. The breaker
// state is process-wide: one slow fraud service trips it for every caller.
type BreakerPolicy struct {
	Breaker *gobreaker.CircuitBreaker
}

func (p BreakerPolicy) Wrap(next CheckFunc) CheckFunc {
	return func(ctx context.Context, customerID uuid.UUID) (bool, error) {
		result, err := p.Breaker.Execute(func() (interface{}, error) {
			return next(ctx, customerID)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			return false, err
		}
		return result.(bool), nil
	}
}

// FallbackPolicy absorbs any remaining failure with a conservative verdict:
// a degraded or unreachable fraud service is treated as fraud, blocking the
// registration rather than silently allowing risk. When disabled, the error
// propagates so callers can surface the outage instead.
type FallbackPolicy struct {
	Enabled bool
	Logger  *slog.Logger
}

func (p FallbackPolicy) Wrap(next CheckFunc) CheckFunc {
	return func(ctx context.Context, customerID uuid.UUID) (bool, error) {
		fraudulent, err := next(ctx, customerID)
		if err == nil {
			return fraudulent, nil
		}
		if !p.Enabled {
			return false, err
		}

		if p.Logger != nil {
			p.Logger.WarnContext(ctx, "fraud service degraded, using conservative fallback",
				"customer_id", customerID,
				"error", err,
			)
		}
		return true, nil
	}
}

// NewFraudBreaker builds the shared breaker for fraud check calls. It starts
// CLOSED, opens after cfg.FailureThreshold consecutive failures, probes with
// cfg.BreakerMaxProbes trial calls after the cooldown, and lives for the
// process lifetime.
func NewFraudBreaker(cfg Config, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fraud-service",
		MaxRequests: cfg.BreakerMaxProbes,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state change",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			}
		},
	})
}

// NewFraudCheck assembles the full policy chain around a raw fraud check
// call: timeout, then retry, then breaker, then fallback.
func NewFraudCheck(raw CheckFunc, cfg Config, breaker *gobreaker.CircuitBreaker, logger *slog.Logger) CheckFunc {
	return Chain(raw,
		TimeoutPolicy{Timeout: cfg.CallTimeout},
		RetryPolicy{MaxRetries: cfg.MaxRetries, InitialInterval: cfg.RetryInterval},
		BreakerPolicy{Breaker: breaker},
		FallbackPolicy{Enabled: cfg.FallbackEnabled, Logger: logger},
	)
}
