package resilience

import (
	"context"

	"bdget/circuitbreaker"
	"bdget/retry"
)

// Operation is a failable unit of work guarded by the orchestrator.
type Operation[T any] func(ctx context.Context) (T, error)

// Fallback produces an always-succeeding degraded result. It must not
// fail; a nil fallback is a configuration error and panics at call time.
type Fallback[T any] func() T

// Orchestrator composes one circuit breaker and one retry policy around
// caller-supplied operations. It holds no per-call state; every
// invocation is independent and safe to run concurrently.
type Orchestrator struct {
	breaker circuitbreaker.CircuitBreaker
	policy  *retry.Policy

	// onError receives the original failure whenever a call degrades to
	// its fallback, so the detail stays observable even though the
	// caller sees a successful result.
	onError func(error)
}

type Option func(*Orchestrator)

// WithErrorObserver sets the side-channel notified with the original
// error each time a fallback substitutes for a failed or rejected call.
func WithErrorObserver(fn func(error)) Option {
	return func(o *Orchestrator) {
		o.onError = fn
	}
}

func New(breaker circuitbreaker.CircuitBreaker, policy *retry.Policy, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		breaker: breaker,
		policy:  policy,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *Orchestrator) Breaker() circuitbreaker.CircuitBreaker {
	return o.breaker
}

func (o *Orchestrator) Policy() *retry.Policy {
	return o.policy
}

func (o *Orchestrator) observe(err error) {
	if o.onError != nil {
		o.onError(err)
	}
}

// Call guards fn with the circuit breaker only. A rejected or failed
// call returns the fallback's result; the caller sees success either way.
func Call[T any](ctx context.Context, o *Orchestrator, fn Operation[T], fallback Fallback[T]) (T, error) {
	mustFallback(fallback)

	result, err := circuitbreaker.Execute(ctx, o.breaker, fn)
	return degrade(ctx, o, result, err, fallback)
}

// CallWithRetry guards fn with the retry policy only; the breaker is not
// consulted and records nothing.
func CallWithRetry[T any](ctx context.Context, o *Orchestrator, fn Operation[T], fallback Fallback[T]) (T, error) {
	mustFallback(fallback)

	result, err := retry.Execute(ctx, o.policy, fn)
	return degrade(ctx, o, result, err, fallback)
}

// CallWithBoth applies the full composition: breaker admission first,
// then the retry loop inside it, then exactly one outcome recorded for
// the whole sequence. Exhausted retries or a rejection degrade to the
// fallback.
func CallWithBoth[T any](ctx context.Context, o *Orchestrator, fn Operation[T], fallback Fallback[T]) (T, error) {
	mustFallback(fallback)

	result, err := circuitbreaker.Execute(ctx, o.breaker, func(ctx context.Context) (T, error) {
		return retry.Execute(ctx, o.policy, fn)
	})
	return degrade(ctx, o, result, err, fallback)
}

// degrade resolves the terminal result: success passes through,
// cancellation propagates untouched, anything else substitutes the
// fallback exactly once.
func degrade[T any](ctx context.Context, o *Orchestrator, result T, err error, fallback Fallback[T]) (T, error) {
	if err == nil {
		return result, nil
	}

	if canceled(ctx, err) {
		var zero T
		return zero, err
	}

	o.observe(err)
	return fallback(), nil
}

func mustFallback[T any](fallback Fallback[T]) {
	if fallback == nil {
		panic("resilience: fallback must not be nil")
	}
}
