package backoff

import (
	"time"
)

// Backoff computes the wait duration before the next retry attempt.
// Attempt numbering starts at 1 (the wait after the first failed attempt).
type Backoff interface {
	Next(attempt uint) time.Duration
}
