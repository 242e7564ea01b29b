package circuitbreaker

import (
	"container/ring"
)

type CallOutcome int

const (
	OutcomeSuccess CallOutcome = iota
	OutcomeFailure
)

func (o CallOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Window is a bounded record of recent call outcomes used to compute a
// rolling failure rate. Implementations are not safe for concurrent use;
// the owning breaker serializes access.
type Window interface {
	Size() int

	RecordOutcome(CallOutcome)

	// FailureRate returns the rolling failure percentage in [0, 100].
	// An empty window reports 0.
	FailureRate() float64

	Reset()
}

var _ Window = (*CountWindow)(nil)

// CountWindow keeps the last N outcomes in a ring buffer, evicting the
// oldest entry once full.
type CountWindow struct {
	ring *ring.Ring

	successCount int
	failureCount int
}

func NewCountWindow(size int) *CountWindow {
	return &CountWindow{
		ring: ring.New(size),
	}
}

func (w *CountWindow) RecordOutcome(outcome CallOutcome) {
	if evicted, ok := w.ring.Value.(CallOutcome); ok {
		if evicted == OutcomeSuccess {
			w.successCount--
		} else {
			w.failureCount--
		}
	}

	w.ring.Value = outcome
	w.ring = w.ring.Next()

	if outcome == OutcomeSuccess {
		w.successCount++
	} else {
		w.failureCount++
	}
}

func (w *CountWindow) Size() int {
	return w.successCount + w.failureCount
}

func (w *CountWindow) FailureRate() float64 {
	total := w.Size()
	if total == 0 {
		return 0
	}

	return (float64(w.failureCount) / float64(total)) * 100
}

func (w *CountWindow) Reset() {
	w.ring = ring.New(w.ring.Len())
	w.successCount = 0
	w.failureCount = 0
}
