// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

var (
	MatchingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_operations_total",
			Help: "Total number of matching engine operations by outcome",
		},
		[]string{"operation", "status"},
	)

	MatchingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_operation_duration_seconds",
			Help:    "Duration of matching engine operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	CandidatesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_candidates_scored_total",
			Help: "Number of candidate properties scored",
		},
		[]string{"operation"},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
	)
)

var (
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_cache_requests_total",
			Help: "Property cache lookups by operation and result",
		},
		[]string{"operation", "result"},
	)

	BreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_breaker_state_changes_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "repository_breaker_state",
			Help: "Current circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)
