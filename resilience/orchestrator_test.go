package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bdget/backoff"
	"bdget/circuitbreaker"
	"bdget/retry"
)

var errBackend = errors.New("backend unavailable")

func newOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()

	cb := circuitbreaker.New("test",
		circuitbreaker.WithSlidingWindowSize(4),
		circuitbreaker.WithFailureRateThreshold(50.0),
		circuitbreaker.WithWaitDurationInOpenState(time.Minute),
		circuitbreaker.WithPermittedCallsInHalfOpen(2),
	)

	policy := retry.MustNewPolicy("test",
		retry.WithMaxAttempts(3),
		retry.WithBackoff(backoff.NewFixed(time.Millisecond)),
		retry.WithIgnoreErrors(ErrNonRetryable),
	)

	return New(cb, policy, opts...)
}

func countingFallback(count *int) Fallback[string] {
	return func() string {
		*count++
		return "degraded"
	}
}

func TestCall_SuccessSkipsFallback(t *testing.T) {
	o := newOrchestrator(t)

	fallbacks := 0
	result, err := Call(context.Background(), o, func(ctx context.Context) (string, error) {
		return "ok", nil
	}, countingFallback(&fallbacks))

	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Zero(t, fallbacks, "fallback never invoked on success")

	snapshot := o.Breaker().Metrics()
	require.Equal(t, uint64(1), snapshot.SuccessCount)
}

func TestCall_FailureDegradesToFallback(t *testing.T) {
	var observed error
	o := newOrchestrator(t, WithErrorObserver(func(err error) { observed = err }))

	fallbacks := 0
	result, err := Call(context.Background(), o, func(ctx context.Context) (string, error) {
		return "", errBackend
	}, countingFallback(&fallbacks))

	require.NoError(t, err, "the caller sees a successful degraded result")
	require.Equal(t, "degraded", result)
	require.Equal(t, 1, fallbacks)
	require.ErrorIs(t, observed, errBackend, "original failure stays observable")

	snapshot := o.Breaker().Metrics()
	require.Equal(t, uint64(1), snapshot.FailureCount)
}

func TestCall_RejectionDegradesWithoutInvokingOperation(t *testing.T) {
	var observed error
	o := newOrchestrator(t, WithErrorObserver(func(err error) { observed = err }))

	// Trip the breaker: 4 failures over a 4-wide window.
	for i := 0; i < 4; i++ {
		o.Breaker().OnOutcome(circuitbreaker.OutcomeFailure)
	}
	require.Equal(t, circuitbreaker.StateOpen, o.Breaker().State())
	before := o.Breaker().Metrics()

	invoked := false
	fallbacks := 0
	result, err := Call(context.Background(), o, func(ctx context.Context) (string, error) {
		invoked = true
		return "ok", nil
	}, countingFallback(&fallbacks))

	require.NoError(t, err)
	require.Equal(t, "degraded", result)
	require.Equal(t, 1, fallbacks)
	require.False(t, invoked)
	require.True(t, IsRejection(observed), "rejection is distinguishable from operation failure")

	after := o.Breaker().Metrics()
	require.Equal(t, before.SuccessCount, after.SuccessCount, "rejections are not outcomes")
	require.Equal(t, before.FailureCount, after.FailureCount)
}

func TestCallWithRetry_DoesNotTouchBreaker(t *testing.T) {
	o := newOrchestrator(t)

	calls := 0
	fallbacks := 0
	result, err := CallWithRetry(context.Background(), o, func(ctx context.Context) (string, error) {
		calls++
		return "", errBackend
	}, countingFallback(&fallbacks))

	require.NoError(t, err)
	require.Equal(t, "degraded", result)
	require.Equal(t, 3, calls, "retries exhausted")
	require.Equal(t, 1, fallbacks)

	snapshot := o.Breaker().Metrics()
	require.Zero(t, snapshot.SuccessCount+snapshot.FailureCount, "breaker untouched on the retry-only path")
}

func TestCallWithBoth_OneOutcomePerOrchestratedCall(t *testing.T) {
	o := newOrchestrator(t)

	calls := 0
	fallbacks := 0
	result, err := CallWithBoth(context.Background(), o, func(ctx context.Context) (string, error) {
		calls++
		return "", errBackend
	}, countingFallback(&fallbacks))

	require.NoError(t, err)
	require.Equal(t, "degraded", result)
	require.Equal(t, 3, calls)
	require.Equal(t, 1, fallbacks)

	snapshot := o.Breaker().Metrics()
	require.Equal(t, uint64(1), snapshot.FailureCount, "three attempts feed the breaker a single outcome")
}

func TestCallWithBoth_RecoversMidRetry(t *testing.T) {
	o := newOrchestrator(t)

	calls := 0
	fallbacks := 0
	result, err := CallWithBoth(context.Background(), o, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errBackend
		}
		return "ok", nil
	}, countingFallback(&fallbacks))

	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Zero(t, fallbacks)

	snapshot := o.Breaker().Metrics()
	require.Equal(t, uint64(1), snapshot.SuccessCount)
	require.Zero(t, snapshot.FailureCount)
}

func TestCallWithBoth_NonRetryableCountsOnce(t *testing.T) {
	o := newOrchestrator(t)
	errInput := NonRetryable(errors.New("bad request"))

	calls := 0
	fallbacks := 0
	_, err := CallWithBoth(context.Background(), o, func(ctx context.Context) (string, error) {
		calls++
		return "", errInput
	}, countingFallback(&fallbacks))

	require.NoError(t, err)
	require.Equal(t, 1, calls, "non-retryable failures are attempted exactly once")
	require.Equal(t, 1, fallbacks)

	snapshot := o.Breaker().Metrics()
	require.Equal(t, uint64(1), snapshot.FailureCount, "still counted as a breaker failure")
}

func TestCallWithBoth_CancellationPropagates(t *testing.T) {
	o := newOrchestrator(t)

	ctx, cancel := context.WithCancel(context.Background())
	fallbacks := 0
	_, err := CallWithBoth(ctx, o, func(ctx context.Context) (string, error) {
		cancel()
		return "", ctx.Err()
	}, countingFallback(&fallbacks))

	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, fallbacks, "cancellation bypasses the fallback")

	snapshot := o.Breaker().Metrics()
	require.Zero(t, snapshot.SuccessCount+snapshot.FailureCount, "canceled calls record no outcome")
}

func TestNonRetryableMarker(t *testing.T) {
	base := errors.New("bad input")
	marked := NonRetryable(base)

	require.ErrorIs(t, marked, ErrNonRetryable)
	require.ErrorIs(t, marked, base)
	require.Equal(t, "bad input", marked.Error())
	require.Nil(t, NonRetryable(nil))
}

func TestNilFallbackPanics(t *testing.T) {
	o := newOrchestrator(t)

	require.Panics(t, func() {
		_, _ = Call[string](context.Background(), o, func(ctx context.Context) (string, error) {
			return "", nil
		}, nil)
	})
}
