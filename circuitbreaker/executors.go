package circuitbreaker

import (
	"context"
	"errors"
	"runtime/debug"
	"time"
)

type PanicError struct {
	Recover any
	Stack   []byte
}

func (r *PanicError) Error() string {
	return "circuitbreaker: panic occurred"
}

func IsPanicError(err error) bool {
	var panicError *PanicError
	return errors.As(err, &panicError)
}

func safeExecute[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Recover: r,
				Stack:   debug.Stack(),
			}
		}
	}()

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	return fn(ctx)
}

// canceled reports whether err came from the surrounding context rather
// than the operation itself. A canceled call is neither a success nor a
// failure and must not feed the breaker's window.
func canceled(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
}

// Execute runs fn under cb's admission control, recording exactly one
// outcome for the call. A call abandoned by context cancellation records
// no outcome and hands back any half-open lease it was admitted under.
func Execute[T any](ctx context.Context, cb CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := cb.AllowCall(); err != nil {
		return zero, err
	}

	start := time.Now()
	result, err := safeExecute(ctx, fn)
	duration := time.Since(start)

	if canceled(ctx, err) {
		cb.releaseLease()
		return result, err
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	cb.OnOutcome(outcome)

	cb.reporter().RecordCallResult(ctx, CallResult{
		Name:     cb.Name(),
		Outcome:  outcome,
		Duration: duration,
		Error:    err,
	})

	return result, err
}

func Do(ctx context.Context, cb CircuitBreaker, fn func(context.Context) error) error {
	_, err := Execute(ctx, cb, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})

	return err
}
