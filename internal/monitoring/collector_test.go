package monitoring

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"bdget/circuitbreaker"
)

func TestBreakerCollector(t *testing.T) {
	breaker := circuitbreaker.New("backendService",
		circuitbreaker.WithSlidingWindowSize(4),
		circuitbreaker.WithFailureRateThreshold(101),
	)

	breaker.OnOutcome(circuitbreaker.OutcomeSuccess)
	breaker.OnOutcome(circuitbreaker.OutcomeFailure)

	collector := NewBreakerCollector(breaker)

	expected := `
		# HELP bdget_circuitbreaker_failed_calls_total Cumulative failed calls since the last reset
		# TYPE bdget_circuitbreaker_failed_calls_total counter
		bdget_circuitbreaker_failed_calls_total{name="backendService"} 1
		# HELP bdget_circuitbreaker_failure_rate Rolling failure rate percentage over the sliding window
		# TYPE bdget_circuitbreaker_failure_rate gauge
		bdget_circuitbreaker_failure_rate{name="backendService"} 50
		# HELP bdget_circuitbreaker_state Current circuit breaker state (1 for the active state)
		# TYPE bdget_circuitbreaker_state gauge
		bdget_circuitbreaker_state{name="backendService",state="CLOSED"} 1
		bdget_circuitbreaker_state{name="backendService",state="HALF_OPEN"} 0
		bdget_circuitbreaker_state{name="backendService",state="OPEN"} 0
		# HELP bdget_circuitbreaker_successful_calls_total Cumulative successful calls since the last reset
		# TYPE bdget_circuitbreaker_successful_calls_total counter
		bdget_circuitbreaker_successful_calls_total{name="backendService"} 1
	`

	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected)))
}

func TestMetricsRecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRequest("GET", "/api/test", 200, 5*time.Millisecond)
	m.RecordRequest("GET", "/api/test", 500, 5*time.Millisecond)

	require.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/test", "200")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/test", "500")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal))
}
