package backoff

import (
	"testing"
	"time"
)

func TestExponential_Next(t *testing.T) {
	e := NewExponential(
		WithInitialInterval(time.Second),
		WithMultiplier(2.0),
		WithMaxInterval(10*time.Second),
	)

	tests := []struct {
		attempt  uint
		expected time.Duration
	}{
		{attempt: 1, expected: time.Second},
		{attempt: 2, expected: 2 * time.Second},
		{attempt: 3, expected: 4 * time.Second},
		{attempt: 4, expected: 8 * time.Second},
		{attempt: 5, expected: 10 * time.Second}, // capped at max
		{attempt: 10, expected: 10 * time.Second},
	}

	for _, tt := range tests {
		if got := e.Next(tt.attempt); got != tt.expected {
			t.Errorf("Exponential.Next(%d) = %v; want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestExponential_Jitter(t *testing.T) {
	e := NewExponential(
		WithInitialInterval(time.Second),
		WithMultiplier(2.0),
		WithJitter(0.5),
	)

	for i := 0; i < 100; i++ {
		got := e.Next(2)
		if got < time.Second || got > 3*time.Second {
			t.Fatalf("Exponential.Next(2) with 0.5 jitter = %v; want within [1s, 3s]", got)
		}
	}
}

func TestExponential_Defaults(t *testing.T) {
	e := NewExponential()

	if got := e.Next(1); got != time.Second {
		t.Errorf("default Next(1) = %v; want 1s", got)
	}
	if got := e.Next(2); got != 2*time.Second {
		t.Errorf("default Next(2) = %v; want 2s", got)
	}
}
