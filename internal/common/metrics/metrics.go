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

	// outcome is one of primary, fallback, skipped or error.
	PipelineStageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_total",
			Help: "Recommendation pipeline stage executions by outcome",
		},
		[]string{"stage", "outcome"},
	)

	CapabilityCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capability_calls_total",
			Help: "External capability calls by result",
		},
		[]string{"capability", "result"},
	)

	CapabilityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capability_call_duration_seconds",
			Help:    "Latency of external capability calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"capability"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state per capability (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendations produced by selection source",
		},
		[]string{"source"},
	)

	BudgetUtilization = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_budget_utilization_ratio",
			Help:    "Share of the budget committed by a recommendation",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	ReorderAlertsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reorder_alerts_published_total",
			Help: "Reorder alerts published by result",
		},
		[]string{"result"},
	)
)

func RecordStage(stage, outcome string) {
	PipelineStageTotal.WithLabelValues(stage, outcome).Inc()
}

func RecordCapability(capability, result string, seconds float64) {
	CapabilityCalls.WithLabelValues(capability, result).Inc()
	CapabilityDuration.WithLabelValues(capability).Observe(seconds)
}

func RecordRecommendation(source string, committed, budget float64) {
	RecommendationsTotal.WithLabelValues(source).Inc()
	if budget > 0 {
		BudgetUtilization.Observe(committed / budget)
	}
}
