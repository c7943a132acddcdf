// Package observability exposes Prometheus metrics for the sync engine.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	fetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetrack",
		Subsystem: "platform",
		Name:      "fetch_failures_total",
		Help:      "Failed platform fetch attempts, labeled by platform.",
	}, []string{"platform"})
	studentsSynced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "codetrack",
		Subsystem: "sync",
		Name:      "students_synced_total",
		Help:      "Students whose daily activity was persisted.",
	})
	studentFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "codetrack",
		Subsystem: "sync",
		Name:      "student_failures_total",
		Help:      "Students skipped because of a processing error.",
	})
	runOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetrack",
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Daily sync run outcomes.",
	}, []string{"status"})
	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "codetrack",
		Subsystem: "sync",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of a full daily sync run.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
	lastSuccessGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "codetrack",
		Subsystem: "sync",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful daily sync run.",
	})
)

func init() {
	prometheus.MustRegister(
		fetchFailures,
		studentsSynced,
		studentFailures,
		runOutcomes,
		runDuration,
		lastSuccessGauge,
	)
}

// RecordFetchFailure counts a failed platform fetch.
func RecordFetchFailure(platform string) {
	fetchFailures.WithLabelValues(platform).Inc()
}

// RecordStudentSynced counts a student whose activity row was written.
func RecordStudentSynced() {
	studentsSynced.Inc()
}

// RecordStudentFailure counts a student skipped due to a processing error.
func RecordStudentFailure() {
	studentFailures.Inc()
}

// RecordRun records the outcome and duration of a daily sync run.
func RecordRun(status string, elapsed time.Duration) {
	runOutcomes.WithLabelValues(status).Inc()
	runDuration.Observe(elapsed.Seconds())
	if status == "success" {
		lastSuccessGauge.Set(float64(time.Now().Unix()))
	}
}
