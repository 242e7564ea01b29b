package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"bdget/circuitbreaker"
)

var _ prometheus.Collector = (*BreakerCollector)(nil)

// BreakerCollector samples circuit breaker snapshots at scrape time.
type BreakerCollector struct {
	breakers []circuitbreaker.CircuitBreaker

	stateDesc       *prometheus.Desc
	failureRateDesc *prometheus.Desc
	successDesc     *prometheus.Desc
	failureDesc     *prometheus.Desc
}

func NewBreakerCollector(breakers ...circuitbreaker.CircuitBreaker) *BreakerCollector {
	return &BreakerCollector{
		breakers: breakers,
		stateDesc: prometheus.NewDesc(
			"bdget_circuitbreaker_state",
			"Current circuit breaker state (1 for the active state)",
			[]string{"name", "state"}, nil,
		),
		failureRateDesc: prometheus.NewDesc(
			"bdget_circuitbreaker_failure_rate",
			"Rolling failure rate percentage over the sliding window",
			[]string{"name"}, nil,
		),
		successDesc: prometheus.NewDesc(
			"bdget_circuitbreaker_successful_calls_total",
			"Cumulative successful calls since the last reset",
			[]string{"name"}, nil,
		),
		failureDesc: prometheus.NewDesc(
			"bdget_circuitbreaker_failed_calls_total",
			"Cumulative failed calls since the last reset",
			[]string{"name"}, nil,
		),
	}
}

func (c *BreakerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.stateDesc
	ch <- c.failureRateDesc
	ch <- c.successDesc
	ch <- c.failureDesc
}

func (c *BreakerCollector) Collect(ch chan<- prometheus.Metric) {
	states := []circuitbreaker.State{
		circuitbreaker.StateClosed,
		circuitbreaker.StateHalfOpen,
		circuitbreaker.StateOpen,
	}

	for _, breaker := range c.breakers {
		snapshot := breaker.Metrics()

		for _, state := range states {
			var value float64
			if state == snapshot.State {
				value = 1
			}
			ch <- prometheus.MustNewConstMetric(
				c.stateDesc, prometheus.GaugeValue, value, snapshot.Name, state.String(),
			)
		}

		ch <- prometheus.MustNewConstMetric(
			c.failureRateDesc, prometheus.GaugeValue, snapshot.FailureRate, snapshot.Name,
		)
		ch <- prometheus.MustNewConstMetric(
			c.successDesc, prometheus.CounterValue, float64(snapshot.SuccessCount), snapshot.Name,
		)
		ch <- prometheus.MustNewConstMetric(
			c.failureDesc, prometheus.CounterValue, float64(snapshot.FailureCount), snapshot.Name,
		)
	}
}
