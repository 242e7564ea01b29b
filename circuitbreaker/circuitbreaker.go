package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateHalfOpen:
		return "HALF_OPEN"
	case StateOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrOpenState     = errors.New("circuitbreaker: open state")
	ErrHalfOpenState = errors.New("circuitbreaker: half-open state with no available calls")
)

// IsCallNotPermittedError reports whether err represents a call rejected
// by the breaker rather than an operation failure.
func IsCallNotPermittedError(err error) bool {
	return errors.Is(err, ErrOpenState) || errors.Is(err, ErrHalfOpenState)
}

// Snapshot is a read-only view of a breaker's counters. Success and
// failure counts are cumulative since the last reset; the failure rate
// is the current rolling percentage from the window.
type Snapshot struct {
	Name         string
	State        State
	SuccessCount uint64
	FailureCount uint64
	FailureRate  float64
}

// CircuitBreaker admits or rejects calls against a single downstream
// dependency based on the rolling failure rate of recent outcomes.
//
// AllowCall and OnOutcome form the low-level contract: OnOutcome must be
// called exactly once per admitted call, after the call completes, and
// never for rejected calls. Execute and Do wrap that pairing.
type CircuitBreaker interface {
	Name() string
	State() State

	// AllowCall decides admission. It returns nil when the call may
	// proceed, ErrOpenState or ErrHalfOpenState otherwise. The check may
	// transition the breaker from OPEN to HALF_OPEN once the configured
	// open wait has elapsed.
	AllowCall() error

	// OnOutcome records the result of an admitted call and applies the
	// state transition rules.
	OnOutcome(outcome CallOutcome)

	// Metrics returns a point-in-time snapshot without mutating state.
	Metrics() Snapshot

	// Reset forces the breaker to CLOSED from any state, clearing the
	// window and all counters. Operator/test override.
	Reset()

	// releaseLease returns a half-open admission whose call was abandoned
	// without an outcome, so canceled probes do not shrink the budget.
	releaseLease()

	reporter() Metrics
}

var _ CircuitBreaker = (*circuitBreakerImpl)(nil)

type circuitBreakerImpl struct {
	name    string
	config  Config
	metrics Metrics

	mu       sync.Mutex
	state    State
	window   Window
	openedAt time.Time

	successTotal uint64
	failureTotal uint64

	halfOpenLeases    int
	halfOpenSuccesses int
}

func New(name string, opts ...Option) CircuitBreaker {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	window := config.Window
	if window == nil {
		window = NewCountWindow(config.SlidingWindowSize)
	}

	minCalls := config.MinimumNumberOfCalls
	if minCalls <= 0 {
		minCalls = config.SlidingWindowSize
	}
	config.MinimumNumberOfCalls = minCalls

	metrics := config.Metrics
	if metrics == nil {
		metrics = &NoopMetrics{}
	}

	return &circuitBreakerImpl{
		name:    name,
		config:  config,
		metrics: metrics,
		state:   StateClosed,
		window:  window,
	}
}

func (cb *circuitBreakerImpl) Name() string {
	return cb.name
}

func (cb *circuitBreakerImpl) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// transitionToUnsafe moves the breaker to state and returns the event to
// report once the lock is released. Caller holds cb.mu.
func (cb *circuitBreakerImpl) transitionToUnsafe(state State) StateTransition {
	transition := StateTransition{
		Name:      cb.name,
		FromState: cb.state,
		ToState:   state,
		Timestamp: cb.config.now(),
	}

	switch state {
	case StateOpen:
		cb.openedAt = transition.Timestamp
	case StateHalfOpen:
		cb.halfOpenLeases = cb.config.PermittedCallsInHalfOpen
		cb.halfOpenSuccesses = 0
		cb.window.Reset()
	case StateClosed:
		cb.window.Reset()
	}

	cb.state = state
	return transition
}

func (cb *circuitBreakerImpl) AllowCall() error {
	cb.mu.Lock()

	var transitions []StateTransition
	if cb.state == StateOpen && cb.config.now().Sub(cb.openedAt) >= cb.config.WaitDurationInOpenState {
		transitions = append(transitions, cb.transitionToUnsafe(StateHalfOpen))
	}

	var err error
	switch cb.state {
	case StateOpen:
		err = ErrOpenState
	case StateHalfOpen:
		if cb.halfOpenLeases <= 0 {
			err = ErrHalfOpenState
		} else {
			cb.halfOpenLeases--
		}
	}

	state := cb.state
	cb.mu.Unlock()

	cb.report(transitions)
	if err != nil {
		cb.metrics.RecordCallRejection(context.Background(), CallRejection{
			Name:  cb.name,
			State: state,
			Error: err,
		})
	}

	return err
}

func (cb *circuitBreakerImpl) OnOutcome(outcome CallOutcome) {
	cb.mu.Lock()

	cb.window.RecordOutcome(outcome)
	if outcome == OutcomeSuccess {
		cb.successTotal++
	} else {
		cb.failureTotal++
	}

	var transitions []StateTransition
	switch cb.state {
	case StateClosed:
		if cb.window.Size() >= cb.config.MinimumNumberOfCalls &&
			cb.window.FailureRate() >= cb.config.FailureRateThreshold {
			transitions = append(transitions, cb.transitionToUnsafe(StateOpen))
		}
	case StateHalfOpen:
		if outcome == OutcomeFailure {
			// A single probe failure trips straight back to OPEN and
			// discards the remaining half-open budget.
			cb.halfOpenLeases = 0
			transitions = append(transitions, cb.transitionToUnsafe(StateOpen))
		} else {
			cb.halfOpenSuccesses++
			if cb.halfOpenSuccesses >= cb.config.PermittedCallsInHalfOpen {
				transitions = append(transitions, cb.transitionToUnsafe(StateClosed))
			}
		}
	}

	snapshot := cb.snapshotUnsafe()
	cb.mu.Unlock()

	cb.report(transitions)
	cb.metrics.RecordSnapshot(context.Background(), snapshot)
}

func (cb *circuitBreakerImpl) Metrics() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.snapshotUnsafe()
}

func (cb *circuitBreakerImpl) snapshotUnsafe() Snapshot {
	return Snapshot{
		Name:         cb.name,
		State:        cb.state,
		SuccessCount: cb.successTotal,
		FailureCount: cb.failureTotal,
		FailureRate:  cb.window.FailureRate(),
	}
}

func (cb *circuitBreakerImpl) Reset() {
	cb.mu.Lock()

	var transitions []StateTransition
	if cb.state != StateClosed {
		transitions = append(transitions, cb.transitionToUnsafe(StateClosed))
	}
	cb.window.Reset()
	cb.successTotal = 0
	cb.failureTotal = 0
	cb.halfOpenLeases = 0
	cb.halfOpenSuccesses = 0

	cb.mu.Unlock()

	cb.report(transitions)
}

func (cb *circuitBreakerImpl) releaseLease() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// Only meaningful while still half-open: a transition since the
	// admission already discarded or rebuilt the lease budget.
	if cb.state == StateHalfOpen && cb.halfOpenLeases < cb.config.PermittedCallsInHalfOpen {
		cb.halfOpenLeases++
	}
}

func (cb *circuitBreakerImpl) reporter() Metrics {
	return cb.metrics
}

func (cb *circuitBreakerImpl) report(transitions []StateTransition) {
	for _, transition := range transitions {
		cb.metrics.RecordStateTransition(context.Background(), transition)
	}
}
