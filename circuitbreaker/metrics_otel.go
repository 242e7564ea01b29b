package circuitbreaker

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Exported instruments:
//
// circuitbreaker_calls_total (Counter) - calls admitted through the breaker
// * name (string), outcome ("success" | "failure")
//
// circuitbreaker_calls_duration_milliseconds (Histogram) - admitted call duration
// * name (string), outcome (string)
//
// circuitbreaker_rejections_total (Counter) - calls rejected fail-fast
// * name (string), state ("OPEN" | "HALF_OPEN")
//
// circuitbreaker_state_transitions_total (Counter)
// * name (string), from_state (string), to_state (string)
//
// circuitbreaker_state (Gauge) - 1 for the active state per name/state pair
//
// circuitbreaker_failure_rate (Gauge) - rolling failure rate percentage

const (
	instrumentationName    = "bdget/circuitbreaker"
	instrumentationVersion = "v0.1.0"
)

const (
	unitCall         = "{call}"
	unitRejection    = "{rejection}"
	unitTransition   = "{transition}"
	unitMilliseconds = "ms"
	unitPercent      = "%"
)

var _ Metrics = (*OTelMetrics)(nil)

type OTelMetrics struct {
	callsTotal    metric.Int64Counter
	callsDuration metric.Float64Histogram

	rejectionsTotal metric.Int64Counter

	stateTransitionsTotal metric.Int64Counter
	currentState          metric.Int64Gauge

	failureRate metric.Float64Gauge
}

type OTelConfig struct {
	MeterProvider metric.MeterProvider
	MetricPrefix  string
}

type OTelOption func(*OTelConfig)

func WithMeterProvider(meterProvider metric.MeterProvider) OTelOption {
	return func(cfg *OTelConfig) {
		cfg.MeterProvider = meterProvider
	}
}

func WithMetricPrefix(prefix string) OTelOption {
	return func(cfg *OTelConfig) {
		cfg.MetricPrefix = prefix
	}
}

func NewOTelMetrics(opts ...OTelOption) (*OTelMetrics, error) {
	cfg := &OTelConfig{
		MeterProvider: otel.GetMeterProvider(),
		MetricPrefix:  "circuitbreaker_",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.MeterProvider.Meter(instrumentationName, metric.WithInstrumentationVersion(instrumentationVersion))

	callsTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"calls_total",
		metric.WithDescription("Total number of calls admitted through the circuit breaker"),
		metric.WithUnit(unitCall),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calls_total counter: %w", err)
	}

	callsDuration, err := meter.Float64Histogram(
		cfg.MetricPrefix+"calls_duration_milliseconds",
		metric.WithDescription("Duration of admitted calls in milliseconds"),
		metric.WithUnit(unitMilliseconds),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calls_duration_milliseconds histogram: %w", err)
	}

	rejectionsTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"rejections_total",
		metric.WithDescription("Total number of rejected calls"),
		metric.WithUnit(unitRejection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rejections_total counter: %w", err)
	}

	stateTransitionsTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"state_transitions_total",
		metric.WithDescription("Total number of state transitions"),
		metric.WithUnit(unitTransition),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create state_transitions_total counter: %w", err)
	}

	currentState, err := meter.Int64Gauge(
		cfg.MetricPrefix+"state",
		metric.WithDescription("Current state of the circuit breaker"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create state gauge: %w", err)
	}

	failureRate, err := meter.Float64Gauge(
		cfg.MetricPrefix+"failure_rate",
		metric.WithDescription("Current rolling failure rate percentage"),
		metric.WithUnit(unitPercent),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failure_rate gauge: %w", err)
	}

	return &OTelMetrics{
		callsTotal:            callsTotal,
		callsDuration:         callsDuration,
		rejectionsTotal:       rejectionsTotal,
		stateTransitionsTotal: stateTransitionsTotal,
		currentState:          currentState,
		failureRate:           failureRate,
	}, nil
}

func (m *OTelMetrics) RecordStateTransition(ctx context.Context, transition StateTransition) {
	m.stateTransitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("name", transition.Name),
		attribute.String("from_state", transition.FromState.String()),
		attribute.String("to_state", transition.ToState.String()),
	))

	for state := StateClosed; state <= StateOpen; state++ {
		var value int64
		if state == transition.ToState {
			value = 1
		}

		m.currentState.Record(
			ctx, value, metric.WithAttributes(
				attribute.String("name", transition.Name), attribute.String("state", state.String()),
			),
		)
	}
}

func (m *OTelMetrics) RecordCallResult(ctx context.Context, result CallResult) {
	attrs := []attribute.KeyValue{
		attribute.String("name", result.Name),
		attribute.String("outcome", result.Outcome.String()),
	}

	m.callsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.callsDuration.Record(ctx, float64(result.Duration.Milliseconds()), metric.WithAttributes(attrs...))
}

func (m *OTelMetrics) RecordCallRejection(ctx context.Context, rejection CallRejection) {
	m.rejectionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("name", rejection.Name),
		attribute.String("state", rejection.State.String()),
	))
}

func (m *OTelMetrics) RecordSnapshot(ctx context.Context, snapshot Snapshot) {
	m.failureRate.Record(ctx, snapshot.FailureRate, metric.WithAttributes(
		attribute.String("name", snapshot.Name),
	))
}
