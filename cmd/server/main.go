package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"bdget/backoff"
	"bdget/cache"
	"bdget/circuitbreaker"
	"bdget/internal/api"
	"bdget/internal/backend"
	"bdget/internal/config"
	"bdget/internal/logging"
	"bdget/internal/monitoring"
	"bdget/internal/server"
	"bdget/internal/service"
	"bdget/kv"
	"bdget/resilience"
	"bdget/retry"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	breakerMetrics, err := circuitbreaker.NewOTelMetrics()
	if err != nil {
		log.Fatal("circuit breaker metrics", zap.Error(err))
	}

	breaker := circuitbreaker.New("backendService",
		circuitbreaker.WithSlidingWindowSize(cfg.Breaker.SlidingWindowSize),
		circuitbreaker.WithFailureRateThreshold(cfg.Breaker.FailureRateThreshold),
		circuitbreaker.WithWaitDurationInOpenState(cfg.Breaker.WaitDurationInOpenState),
		circuitbreaker.WithPermittedCallsInHalfOpen(cfg.Breaker.PermittedCallsInHalfOpen),
		circuitbreaker.WithMetrics(breakerMetrics),
	)

	retryMetrics := retry.NewInMemoryMetrics()
	policyOpts := []retry.Option{
		retry.WithMaxAttempts(cfg.Retry.MaxAttempts),
		retry.WithBackoff(backoff.NewExponential(
			backoff.WithInitialInterval(cfg.Retry.InitialWait),
			backoff.WithMultiplier(cfg.Retry.BackoffMultiplier),
		)),
		retry.WithIgnoreErrors(resilience.ErrNonRetryable),
		retry.WithMetrics(retryMetrics),
	}
	if cfg.Retry.AttemptTimeout > 0 {
		policyOpts = append(policyOpts, retry.WithAttemptTimeout(cfg.Retry.AttemptTimeout))
	}

	policy, err := retry.NewPolicy("backendService", policyOpts...)
	if err != nil {
		log.Fatal("retry policy", zap.Error(err))
	}

	sim := backend.NewSimulator(
		backend.WithLatencyRange(cfg.Backend.MinLatency, cfg.Backend.MaxLatency),
		backend.WithFailureProbability(cfg.Backend.FailureProbability),
	)

	stores := []kv.Store{kv.NewMemoryStore()}
	if cfg.Redis.Enabled {
		redisStore := kv.NewRedisStore(&kv.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisStore.Close() }()

		stores = append(stores, redisStore)
		log.Info("redis cache tier enabled", zap.String("addr", cfg.Redis.Address))
	}

	svc := service.New(log, breaker, policy, sim, cache.NewClient(stores...), retryMetrics)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		monitoring.NewBreakerCollector(breaker),
	)
	metrics := monitoring.NewMetrics(registry)

	handlers := api.NewHandlers(log, svc, metrics, version)
	srv := server.New(cfg.Server, log, handlers, metrics, registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting",
		zap.String("version", version),
		zap.Int("breakerWindow", cfg.Breaker.SlidingWindowSize),
		zap.Int("retryMaxAttempts", cfg.Retry.MaxAttempts),
	)

	if err := srv.Run(ctx); err != nil {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("stopped")
}
