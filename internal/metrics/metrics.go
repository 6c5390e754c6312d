package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Confirmation flow metrics
var (
	// FlowsTotal counts finished confirmation flows by terminal outcome
	// (success, rejected, invalid, timeout, cancelled, failed)
	FlowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confirmation_flows_total",
			Help: "Total confirmation flows by outcome",
		},
		[]string{"outcome"},
	)

	// RequestDuration tracks confirm-quantity call latency in seconds
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confirmation_request_duration_seconds",
			Help:    "Duration of calls to the confirmation API in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"result"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
