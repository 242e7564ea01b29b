// Package service wires the resilience primitives around the simulated
// backend and the degraded-response cache, mirroring what a request
// handler needs: one guarded call per pattern plus breaker inspection.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bdget/cache"
	"bdget/circuitbreaker"
	"bdget/internal/backend"
	"bdget/resilience"
	"bdget/retry"
)

const (
	cacheKey        = "backend:last-result"
	fallbackMessage = "Fallback response: Service temporarily unavailable, using cached data"
)

// Result is what the HTTP layer renders. Degraded marks fallback
// substitution; the caller still sees a successful response.
type Result struct {
	Message      string `json:"message"`
	Degraded     bool   `json:"degraded"`
	BreakerState string `json:"circuitBreakerState"`
}

type Service struct {
	log          *zap.Logger
	orchestrator *resilience.Orchestrator
	backend      *backend.Simulator
	cache        cache.Client
	retryMetrics *retry.InMemoryMetrics
}

func New(
	log *zap.Logger,
	breaker circuitbreaker.CircuitBreaker,
	policy *retry.Policy,
	sim *backend.Simulator,
	cacheClient cache.Client,
	retryMetrics *retry.InMemoryMetrics,
) *Service {
	s := &Service{
		log:          log,
		backend:      sim,
		cache:        cacheClient,
		retryMetrics: retryMetrics,
	}

	s.orchestrator = resilience.New(breaker, policy,
		resilience.WithErrorObserver(func(err error) {
			log.Warn("call degraded to fallback", zap.Error(err))
		}),
	)

	return s
}

// CallResilient guards the backend with the circuit breaker only.
func (s *Service) CallResilient(ctx context.Context, shouldFail bool) (Result, error) {
	s.log.Info("executing resilient operation", zap.Bool("shouldFail", shouldFail))

	return resilience.Call(ctx, s.orchestrator, s.operation(shouldFail), s.fallback(ctx))
}

// CallWithRetry guards the backend with the retry policy only.
func (s *Service) CallWithRetry(ctx context.Context, shouldFail bool) (Result, error) {
	s.log.Info("executing operation with retry", zap.Bool("shouldFail", shouldFail))

	return resilience.CallWithRetry(ctx, s.orchestrator, s.operation(shouldFail), s.fallback(ctx))
}

// CallCombined applies circuit breaker and retry together.
func (s *Service) CallCombined(ctx context.Context, shouldFail bool) (Result, error) {
	s.log.Info("executing operation with combined resilience", zap.Bool("shouldFail", shouldFail))

	return resilience.CallWithBoth(ctx, s.orchestrator, s.operation(shouldFail), s.fallback(ctx))
}

// operation runs one backend call and caches the successful result for
// later degraded responses.
func (s *Service) operation(shouldFail bool) resilience.Operation[Result] {
	return func(ctx context.Context) (Result, error) {
		message, err := s.backend.Call(ctx, shouldFail)
		if err != nil {
			return Result{}, err
		}

		if cacheErr := s.cache.Set(ctx, []byte(cacheKey), []byte(message)); cacheErr != nil {
			s.log.Warn("failed to cache backend result", zap.Error(cacheErr))
		}

		return Result{
			Message:      message,
			BreakerState: s.BreakerState(),
		}, nil
	}
}

// fallback serves the last cached backend result, or the static
// degraded message when nothing has been cached yet. It never fails.
func (s *Service) fallback(ctx context.Context) resilience.Fallback[Result] {
	return func() Result {
		message := fallbackMessage
		if cached, err := s.cache.Get(ctx, []byte(cacheKey)); err == nil {
			message = fmt.Sprintf("Fallback response (cached): %s", cached)
		}

		return Result{
			Message:      message,
			Degraded:     true,
			BreakerState: s.BreakerState(),
		}
	}
}

func (s *Service) BreakerState() string {
	return s.orchestrator.Breaker().State().String()
}

func (s *Service) BreakerMetrics() circuitbreaker.Snapshot {
	return s.orchestrator.Breaker().Metrics()
}

func (s *Service) ResetBreaker() {
	s.log.Warn("manually resetting circuit breaker")
	s.orchestrator.Breaker().Reset()
}

func (s *Service) RetryMetrics() map[string]int64 {
	if s.retryMetrics == nil {
		return nil
	}
	return s.retryMetrics.GetMetrics()
}

func (s *Service) Breaker() circuitbreaker.CircuitBreaker {
	return s.orchestrator.Breaker()
}
