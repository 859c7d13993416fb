// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "qa-workers/internal/common/errors"
)

var (
	StageExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_stage_executions_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"task_type", "status"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_stage_failures_total",
			Help: "Total number of failed stage executions by error code",
		},
		[]string{"task_type", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qa_stage_duration_seconds",
			Help:    "Duration of stage executions in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qa_worker_jobs_active",
			Help: "Number of Zeebe jobs currently being handled per worker",
		},
		[]string{"task_type"},
	)

	PagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_pages_processed_total",
			Help: "Pages handled by the extractor by result (extracted, cached, dropped)",
		},
		[]string{"result"},
	)

	PageCacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_page_cache_operations_total",
			Help: "Redis page cache operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// ObserveStage records one stage execution started at start.
func ObserveStage(taskType string, start time.Time, err error) {
	StageDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if err != nil {
		StageExecutions.WithLabelValues(taskType, "failed").Inc()
		StageFailures.WithLabelValues(taskType, string(apperrors.CodeOf(err))).Inc()
		return
	}
	StageExecutions.WithLabelValues(taskType, "completed").Inc()
}
