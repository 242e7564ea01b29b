package circuitbreaker

import (
	"time"
)

type Config struct {
	// Window overrides the outcome window. When nil, a CountWindow of
	// SlidingWindowSize entries is used.
	Window Window

	Metrics Metrics

	// SlidingWindowSize is the number of recent call outcomes considered
	// when computing the rolling failure rate.
	SlidingWindowSize int

	// MinimumNumberOfCalls is the number of recorded outcomes required
	// before the failure rate is evaluated. Zero means the full window.
	MinimumNumberOfCalls int

	// FailureRateThreshold is the failure rate percentage at or above
	// which the breaker trips open.
	FailureRateThreshold float64

	// WaitDurationInOpenState is how long the breaker stays open before
	// the next admission check moves it to half-open.
	WaitDurationInOpenState time.Duration

	// PermittedCallsInHalfOpen is the number of probe calls admitted in
	// the half-open state before the breaker closes again.
	PermittedCallsInHalfOpen int

	// Clock supplies the current time. Injectable for deterministic tests.
	Clock func() time.Time
}

type Option func(*Config)

func defaultConfig() Config {
	return Config{
		SlidingWindowSize:        10,
		FailureRateThreshold:     50.0,
		WaitDurationInOpenState:  60 * time.Second,
		PermittedCallsInHalfOpen: 3,
	}
}

func (c Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func WithWindow(window Window) Option {
	return func(c *Config) {
		c.Window = window
	}
}

func WithMetrics(metrics Metrics) Option {
	return func(c *Config) {
		c.Metrics = metrics
	}
}

func WithSlidingWindowSize(n int) Option {
	return func(c *Config) {
		c.SlidingWindowSize = n
	}
}

func WithMinimumNumberOfCalls(n int) Option {
	return func(c *Config) {
		c.MinimumNumberOfCalls = n
	}
}

func WithFailureRateThreshold(threshold float64) Option {
	return func(c *Config) {
		c.FailureRateThreshold = threshold
	}
}

func WithWaitDurationInOpenState(duration time.Duration) Option {
	return func(c *Config) {
		c.WaitDurationInOpenState = duration
	}
}

func WithPermittedCallsInHalfOpen(n int) Option {
	return func(c *Config) {
		c.PermittedCallsInHalfOpen = n
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}
