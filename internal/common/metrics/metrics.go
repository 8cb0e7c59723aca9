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

// Allocation outcomes.
var (
	CandidatesConsidered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_candidates_considered_total",
		Help: "Candidates in the ranked list handed to the allocation loop",
	})

	CandidatesAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_candidates_assigned_total",
		Help: "Assignment records created",
	})

	DuplicateAssignments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_duplicate_assignments_total",
		Help: "Assignments skipped because another run created them first",
	})

	CandidateErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_candidate_errors_total",
			Help: "Per-candidate failures that did not stop the run",
		},
		[]string{"stage"},
	)

	ScoringFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_scoring_fallbacks_total",
		Help: "Candidates scored by the legacy scorer after the engine failed",
	})

	CursorAdvances = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_cursor_advances_total",
		Help: "Successful round-robin cursor advances",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_notification_failures_total",
		Help: "Candidate-assigned notifications that could not be published",
	})

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "allocation_run_duration_seconds",
			Help:    "Duration of allocation runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)
)
