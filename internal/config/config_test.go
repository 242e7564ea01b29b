package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 10, cfg.Breaker.SlidingWindowSize)
	require.Equal(t, 50.0, cfg.Breaker.FailureRateThreshold)
	require.Equal(t, 60*time.Second, cfg.Breaker.WaitDurationInOpenState)
	require.Equal(t, 3, cfg.Breaker.PermittedCallsInHalfOpen)
	require.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.Equal(t, time.Second, cfg.Retry.InitialWait)
	require.Equal(t, 2.0, cfg.Retry.BackoffMultiplier)
	require.False(t, cfg.Redis.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CB_WINDOW_SIZE", "20")
	t.Setenv("CB_FAILURE_RATE_THRESHOLD", "75.5")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("BACKEND_FAILURE_PROBABILITY", "0")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 20, cfg.Breaker.SlidingWindowSize)
	require.Equal(t, 75.5, cfg.Breaker.FailureRateThreshold)
	require.Equal(t, 5, cfg.Retry.MaxAttempts)
	require.Equal(t, 0.0, cfg.Backend.FailureProbability)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero window", env: map[string]string{"CB_WINDOW_SIZE": "0"}},
		{name: "threshold above 100", env: map[string]string{"CB_FAILURE_RATE_THRESHOLD": "150"}},
		{name: "zero attempts", env: map[string]string{"RETRY_MAX_ATTEMPTS": "0"}},
		{name: "latency bounds inverted", env: map[string]string{"BACKEND_MAX_LATENCY": "10ms"}},
		{name: "probability above 1", env: map[string]string{"BACKEND_FAILURE_PROBABILITY": "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestServerAddress(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: "9000"}
	require.Equal(t, "127.0.0.1:9000", cfg.Address())
}
