// Package backend simulates the downstream dependency the resilience
// patterns protect. In a real deployment this would be an HTTP call to
// another microservice or a database query. Fault injection is explicit:
// the shouldFail flag and the configured failure probability are the
// only failure sources.
package backend

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

var ErrUnavailable = errors.New("backend service is unavailable")

type Simulator struct {
	minLatency         time.Duration
	maxLatency         time.Duration
	failureProbability float64

	// randFloat is injectable so tests control the simulated randomness.
	randFloat func() float64
}

type Option func(*Simulator)

func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Simulator) {
		s.minLatency = minLatency
		s.maxLatency = maxLatency
	}
}

func WithFailureProbability(p float64) Option {
	return func(s *Simulator) {
		s.failureProbability = p
	}
}

func WithRandom(fn func() float64) Option {
	return func(s *Simulator) {
		s.randFloat = fn
	}
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		minLatency:         100 * time.Millisecond,
		maxLatency:         500 * time.Millisecond,
		failureProbability: 0.1,
		randFloat:          rand.Float64,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Call simulates one backend invocation. shouldFail forces a failure so
// callers can exercise the breaker and retry paths deterministically.
func (s *Simulator) Call(ctx context.Context, shouldFail bool) (string, error) {
	if err := s.sleep(ctx); err != nil {
		return "", err
	}

	if shouldFail {
		return "", ErrUnavailable
	}

	if s.failureProbability > 0 && s.randFloat() < s.failureProbability {
		return "", ErrUnavailable
	}

	return "Backend call successful - Data retrieved", nil
}

func (s *Simulator) sleep(ctx context.Context) error {
	latency := s.minLatency
	if spread := s.maxLatency - s.minLatency; spread > 0 {
		latency += time.Duration(s.randFloat() * float64(spread))
	}
	if latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
