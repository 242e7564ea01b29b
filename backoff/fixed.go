package backoff

import (
	"time"
)

var _ Backoff = (*Fixed)(nil)

// Fixed waits the same interval before every attempt regardless of how
// many have already failed. Suited to downstreams that recover on their
// own schedule, and to tests that want deterministic waits.
type Fixed struct {
	interval time.Duration
}

func NewFixed(d time.Duration) Fixed {
	return Fixed{interval: d}
}

func (f Fixed) Next(_ uint) time.Duration {
	return f.interval
}
