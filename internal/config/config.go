package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Logging LogConfig
	Breaker BreakerConfig
	Retry   RetryConfig
	Backend BackendConfig
	Redis   RedisConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"8080"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// BreakerConfig holds circuit breaker tuning.
type BreakerConfig struct {
	SlidingWindowSize        int           `envconfig:"CB_WINDOW_SIZE" default:"10"`
	FailureRateThreshold     float64       `envconfig:"CB_FAILURE_RATE_THRESHOLD" default:"50.0"`
	WaitDurationInOpenState  time.Duration `envconfig:"CB_WAIT_IN_OPEN" default:"60s"`
	PermittedCallsInHalfOpen int           `envconfig:"CB_HALF_OPEN_CALLS" default:"3"`
}

// RetryConfig holds retry policy tuning.
type RetryConfig struct {
	MaxAttempts       int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	InitialWait       time.Duration `envconfig:"RETRY_INITIAL_WAIT" default:"1s"`
	BackoffMultiplier float64       `envconfig:"RETRY_BACKOFF_MULTIPLIER" default:"2.0"`
	AttemptTimeout    time.Duration `envconfig:"RETRY_ATTEMPT_TIMEOUT" default:"0"`
}

// BackendConfig holds the simulated downstream dependency settings.
type BackendConfig struct {
	MinLatency         time.Duration `envconfig:"BACKEND_MIN_LATENCY" default:"100ms"`
	MaxLatency         time.Duration `envconfig:"BACKEND_MAX_LATENCY" default:"500ms"`
	FailureProbability float64       `envconfig:"BACKEND_FAILURE_PROBABILITY" default:"0.1"`
}

// RedisConfig holds the optional second cache tier.
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Address  string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Breaker.SlidingWindowSize < 1 {
		return fmt.Errorf("CB_WINDOW_SIZE must be at least 1, got %d", c.Breaker.SlidingWindowSize)
	}
	if c.Breaker.FailureRateThreshold < 0 || c.Breaker.FailureRateThreshold > 100 {
		return fmt.Errorf("CB_FAILURE_RATE_THRESHOLD must be in [0, 100], got %v", c.Breaker.FailureRateThreshold)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Backend.MaxLatency < c.Backend.MinLatency {
		return fmt.Errorf("BACKEND_MAX_LATENCY must not be below BACKEND_MIN_LATENCY")
	}
	if c.Backend.FailureProbability < 0 || c.Backend.FailureProbability > 1 {
		return fmt.Errorf("BACKEND_FAILURE_PROBABILITY must be in [0, 1], got %v", c.Backend.FailureProbability)
	}

	return nil
}

// Address returns the host:port pair the HTTP server binds to.
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}
