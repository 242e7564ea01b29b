package retry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Exported instruments:
//
// retry_attempts_total (Counter) - individual attempts
// * policy (string), status ("success" | "error"), reason (string, failed attempts only)
//
// retry_outcomes_total (Counter) - completed retry sequences
// * policy (string), status (string), reason (string, failed sequences only)
//
// retry_attempts_per_outcome (Histogram) - attempts consumed by a sequence
// * policy (string)
//
// retry_backoff_duration_milliseconds (Histogram) - time spent waiting between attempts
// * policy (string)

const (
	instrumentationName    = "bdget/retry"
	instrumentationVersion = "v0.1.0"
)

var _ Metrics = (*OTelMetrics)(nil)

type OTelMetrics struct {
	attemptsTotal      metric.Int64Counter
	outcomesTotal      metric.Int64Counter
	attemptsPerOutcome metric.Int64Histogram
	backoffDuration    metric.Float64Histogram
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
		MetricPrefix:  "retry_",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.MeterProvider.Meter(instrumentationName, metric.WithInstrumentationVersion(instrumentationVersion))

	attemptsTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"attempts_total",
		metric.WithDescription("Total number of individual retry attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attempts_total counter: %w", err)
	}

	outcomesTotal, err := meter.Int64Counter(
		cfg.MetricPrefix+"outcomes_total",
		metric.WithDescription("Total number of completed retry sequences"),
		metric.WithUnit("{outcome}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outcomes_total counter: %w", err)
	}

	attemptsPerOutcome, err := meter.Int64Histogram(
		cfg.MetricPrefix+"attempts_per_outcome",
		metric.WithDescription("Number of attempts consumed by a retry sequence"),
		metric.WithUnit("{attempt}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 8, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attempts_per_outcome histogram: %w", err)
	}

	backoffDuration, err := meter.Float64Histogram(
		cfg.MetricPrefix+"backoff_duration_milliseconds",
		metric.WithDescription("Time spent waiting between attempts in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backoff_duration_milliseconds histogram: %w", err)
	}

	return &OTelMetrics{
		attemptsTotal:      attemptsTotal,
		outcomesTotal:      outcomesTotal,
		attemptsPerOutcome: attemptsPerOutcome,
		backoffDuration:    backoffDuration,
	}, nil
}

func (m *OTelMetrics) RecordAttempt(ctx context.Context, attempt Attempt) {
	attrs := []attribute.KeyValue{
		attribute.String("policy", attempt.PolicyName),
		attribute.String("status", string(attempt.Status)),
	}
	if attempt.FailureReason != "" {
		attrs = append(attrs, attribute.String("reason", string(attempt.FailureReason)))
	}

	m.attemptsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *OTelMetrics) RecordOutcome(ctx context.Context, outcome Outcome) {
	attrs := []attribute.KeyValue{
		attribute.String("policy", outcome.PolicyName),
		attribute.String("status", string(outcome.Status)),
	}
	if outcome.FailureReason != "" {
		attrs = append(attrs, attribute.String("reason", string(outcome.FailureReason)))
	}

	m.outcomesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.attemptsPerOutcome.Record(ctx, int64(outcome.TotalAttempts), metric.WithAttributes(
		attribute.String("policy", outcome.PolicyName),
	))
}

func (m *OTelMetrics) RecordBackoff(ctx context.Context, policyName string, _ int, duration time.Duration) {
	m.backoffDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("policy", policyName),
	))
}
