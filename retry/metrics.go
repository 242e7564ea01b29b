package retry

import (
	"context"
	"time"
)

var _ Metrics = (*NoopMetrics)(nil)

// OutcomeStatus represents the final status of a retry sequence
type OutcomeStatus string

const (
	OutcomeStatusSuccess OutcomeStatus = "success"
	OutcomeStatusError   OutcomeStatus = "error"
)

type OutcomeFailureReason string

const (
	OutcomeFailureReasonExhausted    OutcomeFailureReason = "exhausted"
	OutcomeFailureReasonTimeout      OutcomeFailureReason = "timeout"
	OutcomeFailureReasonCanceled     OutcomeFailureReason = "canceled"
	OutcomeFailureReasonNonRetryable OutcomeFailureReason = "non_retryable"
)

// AttemptStatus represents the status of a single attempt
type AttemptStatus string

const (
	AttemptStatusSuccess AttemptStatus = "success"
	AttemptStatusError   AttemptStatus = "error"
)

// AttemptFailureReason represents the reason for a failed attempt
type AttemptFailureReason string

const (
	AttemptFailureReasonError    AttemptFailureReason = "error"
	AttemptFailureReasonTimeout  AttemptFailureReason = "timeout"
	AttemptFailureReasonCanceled AttemptFailureReason = "canceled"
)

// Attempt contains information about a single retry attempt
type Attempt struct {
	PolicyName string
	Number     int
	Timestamp  time.Time
	Duration   time.Duration

	Status        AttemptStatus
	FailureReason AttemptFailureReason
	Error         error
	Retryable     bool
}

func (a Attempt) IsSuccess() bool {
	return a.Status == AttemptStatusSuccess
}

// Outcome contains information about the complete retry sequence
type Outcome struct {
	PolicyName    string
	TotalAttempts int
	TotalDuration time.Duration

	Status        OutcomeStatus
	FailureReason OutcomeFailureReason
}

func (o Outcome) IsSuccess() bool {
	return o.Status == OutcomeStatusSuccess
}

// Metrics is the injected per-attempt observer interface. Implementations
// must be safe for concurrent use.
type Metrics interface {
	// RecordAttempt records metrics for a single attempt
	RecordAttempt(ctx context.Context, result Attempt)

	// RecordOutcome records the final outcome of a retry sequence
	RecordOutcome(ctx context.Context, outcome Outcome)

	// RecordBackoff records time spent waiting between attempts
	RecordBackoff(ctx context.Context, policyName string, attempt int, duration time.Duration)
}

// NoopMetrics is a no-operation implementation of the Metrics interface
type NoopMetrics struct{}

func (n *NoopMetrics) RecordAttempt(ctx context.Context, result Attempt) {}

func (n *NoopMetrics) RecordOutcome(ctx context.Context, outcome Outcome) {}

func (n *NoopMetrics) RecordBackoff(ctx context.Context, policyName string, attempt int, duration time.Duration) {
}
