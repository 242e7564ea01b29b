package backoff

import (
	"time"
)

var _ Backoff = (*Linear)(nil)

// Linear grows the wait by one interval per failed attempt.
type Linear struct {
	interval time.Duration
}

func NewLinear(interval time.Duration) Linear {
	return Linear{
		interval: interval,
	}
}

func (l Linear) Next(attempt uint) time.Duration {
	return time.Duration(attempt) * l.interval
}
