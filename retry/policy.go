package retry

import (
	"errors"
	"time"

	"bdget/backoff"
	"bdget/circuitbreaker"
)

// Policy describes how an operation is retried. Policies are immutable
// after construction and safe to share across concurrent calls.
type Policy struct {
	// name is the name of the policy
	name string

	// metrics is the observer notified per attempt and per outcome.
	// Nil means no observation.
	metrics Metrics

	// maxAttempts is the maximum number of attempts
	// including the initial call as the first attempt
	maxAttempts int

	// attemptTimeout is the maximum duration for each attempt
	// If zero, attempts have no timeout
	attemptTimeout time.Duration

	// backoff is the function to calculate the wait duration between attempts
	backoff backoff.Backoff

	// retryOnErrorPredicate is the predicate to determine if an error should trigger a retry
	// true means retry, false means do not retry
	retryOnErrorPredicate func(error) bool

	// retryErrors is a list of error types that should trigger a retry
	retryErrors []error

	// ignoreErrors is a list of error types that short-circuit the retry loop
	ignoreErrors []error
}

type Option func(*Policy)

func WithMetrics(metrics Metrics) Option {
	return func(p *Policy) {
		p.metrics = metrics
	}
}

func WithMaxAttempts(attempts int) Option {
	return func(p *Policy) {
		p.maxAttempts = attempts
	}
}

func WithAttemptTimeout(timeout time.Duration) Option {
	return func(p *Policy) {
		p.attemptTimeout = timeout
	}
}

func WithBackoff(f backoff.Backoff) Option {
	return func(p *Policy) {
		p.backoff = f
	}
}

// WithRetryOnErrorPredicate sets a custom predicate function to determine
// whether an error should trigger a retry. If this exists, it takes precedence
// over the retryErrors and ignoreErrors lists.
func WithRetryOnErrorPredicate(predicate func(error) bool) Option {
	return func(p *Policy) {
		p.retryOnErrorPredicate = predicate
	}
}

func WithRetryErrors(errs ...error) Option {
	return func(p *Policy) {
		p.retryErrors = append(p.retryErrors, errs...)
	}
}

func WithIgnoreErrors(errs ...error) Option {
	return func(p *Policy) {
		p.ignoreErrors = append(p.ignoreErrors, errs...)
	}
}

func (p *Policy) Validate() error {
	if p.maxAttempts < 1 {
		return &ValidationError{Field: "maxAttempts", Message: "must be at least 1"}
	}

	if p.backoff == nil {
		return &ValidationError{
			Field:   "backoff",
			Message: "backoff must be set",
		}
	}

	return nil
}

func NewPolicy(name string, options ...Option) (*Policy, error) {
	policy := &Policy{
		name:        name,
		maxAttempts: 3,
		backoff:     backoff.NewExponential(),
	}

	for _, option := range options {
		option(policy)
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return policy, nil
}

// NewCircuitAwarePolicy builds a policy that never retries circuit
// breaker rejections. Retrying a fail-fast rejection only hammers an
// already-open breaker.
func NewCircuitAwarePolicy(name string, opts ...Option) (*Policy, error) {
	baseOpts := []Option{
		WithIgnoreErrors(
			circuitbreaker.ErrOpenState,
			circuitbreaker.ErrHalfOpenState,
		),
	}

	return NewPolicy(name, append(baseOpts, opts...)...)
}

func MustNewPolicy(name string, options ...Option) *Policy {
	policy, err := NewPolicy(name, options...)
	if err != nil {
		panic(err)
	}

	return policy
}

func MustNewCircuitAwarePolicy(name string, opts ...Option) *Policy {
	policy, err := NewCircuitAwarePolicy(name, opts...)
	if err != nil {
		panic(err)
	}

	return policy
}

func (p *Policy) metricsReporter() Metrics {
	if p.metrics != nil {
		return p.metrics
	}

	return &NoopMetrics{}
}

func (p *Policy) ShouldRetryError(err error) bool {
	if err == nil {
		return false
	}

	if p.retryOnErrorPredicate != nil {
		return p.retryOnErrorPredicate(err)
	}

	for _, ignoreErr := range p.ignoreErrors {
		if errors.Is(err, ignoreErr) {
			return false
		}
	}

	// If allowlist is defined, error must match
	if len(p.retryErrors) > 0 {
		for _, retryErr := range p.retryErrors {
			if errors.Is(err, retryErr) {
				return true
			}
		}

		return false
	}

	return true
}

func (p *Policy) Name() string {
	return p.name
}

func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}

func (p *Policy) AttemptTimeout() time.Duration {
	return p.attemptTimeout
}

func (p *Policy) Backoff() backoff.Backoff {
	return p.backoff
}
