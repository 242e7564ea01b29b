package resilience

import (
	"context"
	"errors"

	"bdget/circuitbreaker"
)

// ErrNonRetryable marks failures caused by caller input rather than the
// downstream dependency. They are never retried but still count as
// failure outcomes for the breaker.
var ErrNonRetryable = errors.New("resilience: non-retryable failure")

type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string {
	return e.err.Error()
}

func (e *nonRetryableError) Unwrap() error {
	return e.err
}

func (e *nonRetryableError) Is(target error) bool {
	return target == ErrNonRetryable
}

// NonRetryable wraps err so that retry policies configured with
// WithIgnoreErrors(ErrNonRetryable) short-circuit on it.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsRejection reports whether err means the breaker refused the call
// without attempting it, as opposed to the operation failing.
func IsRejection(err error) bool {
	return circuitbreaker.IsCallNotPermittedError(err)
}

// canceled reports whether err originates from the surrounding context.
// A canceled call is neither success nor failure: it bypasses both the
// breaker's window and the fallback.
func canceled(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
}
