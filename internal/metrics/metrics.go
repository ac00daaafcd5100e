package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal counts validated payloads by overall status.
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "offercheck",
			Name:      "validations_total",
			Help:      "The total number of validated payloads",
		},
		[]string{"status", "source"},
	)

	// ViolationsTotal counts reported violations by rule and severity.
	ViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "offercheck",
			Name:      "violations_total",
			Help:      "The total number of reported violations",
		},
		[]string{"rule", "severity"},
	)

	// ValidationDuration summarises time spent in the engine (quantiles 0.5, 0.9, 0.99).
	ValidationDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "offercheck",
			Name:       "validation_duration_seconds",
			Help:       "The time spent validating a payload",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"source"},
	)

	// CacheRequests counts result cache lookups.
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "offercheck",
			Name:      "cache_requests_total",
			Help:      "The total number of result cache lookups",
		},
		[]string{"result"},
	)

	// InfraFailures counts failed side effects (store, publish, cache) that did not fail the request.
	InfraFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "offercheck",
			Name:      "infra_failures_total",
			Help:      "The total number of failed store, publish or cache operations",
		},
		[]string{"operation"},
	)
)
