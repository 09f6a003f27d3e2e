package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"drepo-hq/portage/pkg/config"
)

// ExportMetrics tracks export sessions and their stages.
type ExportMetrics struct {
	exportsTotal   *prometheus.CounterVec
	exportDuration prometheus.Histogram
	stageDuration  *prometheus.HistogramVec
	stageFailures  *prometheus.CounterVec
}

// NewExportMetrics creates and registers export metrics with registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "exports_total",
				Help:      "Export sessions by terminal status",
			},
			[]string{"status"},
		),

		exportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of export sessions in seconds",
				Buckets:   cfg.StageDurationBuckets,
			},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of export stages in seconds",
				Buckets:   cfg.StageDurationBuckets,
			},
			[]string{"stage"},
		),

		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stage_failures_total",
				Help:      "Export stages that reported failure",
			},
			[]string{"stage"},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.exportDuration,
		em.stageDuration,
		em.stageFailures,
	)

	return em
}

// RecordStage observes a stage duration and counts failures.
func (em *ExportMetrics) RecordStage(stage string, duration time.Duration, ok bool) {
	em.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if !ok {
		em.stageFailures.WithLabelValues(stage).Inc()
	}
}

// RecordExport counts a session and observes its duration.
func (em *ExportMetrics) RecordExport(status string, duration time.Duration) {
	em.exportsTotal.WithLabelValues(status).Inc()
	em.exportDuration.Observe(duration.Seconds())
}
