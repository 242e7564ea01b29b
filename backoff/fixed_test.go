package backoff

import (
	"testing"
	"time"
)

func TestFixed_Next(t *testing.T) {
	tests := []struct {
		interval time.Duration
		attempt  uint
		expected time.Duration
	}{
		{interval: time.Second, attempt: 1, expected: time.Second},
		{interval: 500 * time.Millisecond, attempt: 5, expected: 500 * time.Millisecond},
		{interval: 2 * time.Second, attempt: 10, expected: 2 * time.Second},
	}

	for _, tt := range tests {
		fixed := NewFixed(tt.interval)
		result := fixed.Next(tt.attempt)
		if result != tt.expected {
			t.Errorf("Fixed.Next(%d) = %v; want %v", tt.attempt, result, tt.expected)
		}
	}
}

func TestLinear_Next(t *testing.T) {
	tests := []struct {
		interval time.Duration
		attempt  uint
		expected time.Duration
	}{
		{interval: time.Second, attempt: 1, expected: time.Second},
		{interval: time.Second, attempt: 2, expected: 2 * time.Second},
		{interval: 500 * time.Millisecond, attempt: 3, expected: 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		l := NewLinear(tt.interval)
		if got := l.Next(tt.attempt); got != tt.expected {
			t.Errorf("Linear.Next(%d) with interval %v = %v; want %v", tt.attempt, tt.interval, got, tt.expected)
		}
	}
}
