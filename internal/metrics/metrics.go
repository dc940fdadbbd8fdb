// Package metrics declares the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration observes HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "splitscenario",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// ScenariosCreated counts successfully persisted scenarios.
	ScenariosCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "splitscenario",
		Name:      "scenarios_created_total",
		Help:      "Scenarios successfully created.",
	})

	// ScenariosFailed counts scenario entries that failed, by reason class.
	ScenariosFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitscenario",
		Name:      "scenarios_failed_total",
		Help:      "Scenario entries that failed processing.",
	}, []string{"reason"})

	// ExtractionAttempts counts calls to the extraction oracle, including
	// retries.
	ExtractionAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "splitscenario",
		Name:      "extraction_attempts_total",
		Help:      "Extraction oracle attempts, including retries.",
	})

	// ExtractionFailures counts extraction calls that exhausted all retries.
	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "splitscenario",
		Name:      "extraction_failures_total",
		Help:      "Extraction calls that failed after all retries.",
	})
)
