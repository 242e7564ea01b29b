package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastSimulator(opts ...Option) *Simulator {
	base := []Option{
		WithLatencyRange(0, 0),
		WithFailureProbability(0),
	}

	return NewSimulator(append(base, opts...)...)
}

func TestCallSucceeds(t *testing.T) {
	s := fastSimulator()

	result, err := s.Call(context.Background(), false)
	require.NoError(t, err)
	require.NotEmpty(t, result)
}

func TestCallForcedFailure(t *testing.T) {
	s := fastSimulator()

	_, err := s.Call(context.Background(), true)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCallRandomFailure(t *testing.T) {
	s := fastSimulator(
		WithFailureProbability(0.1),
		WithRandom(func() float64 { return 0.05 }),
	)

	_, err := s.Call(context.Background(), false)
	require.ErrorIs(t, err, ErrUnavailable)

	s = fastSimulator(
		WithFailureProbability(0.1),
		WithRandom(func() float64 { return 0.5 }),
	)

	_, err = s.Call(context.Background(), false)
	require.NoError(t, err)
}

func TestCallRespectsCancellation(t *testing.T) {
	s := NewSimulator(
		WithLatencyRange(time.Minute, time.Minute),
		WithFailureProbability(0),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Call(ctx, false)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
