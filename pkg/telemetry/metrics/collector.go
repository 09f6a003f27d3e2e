package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"drepo-hq/portage/pkg/config"
)

// Collector owns the export metrics and the registry they live in.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	export  *ExportMetrics
	cleanup prometheus.Counter
}

// NewCollector creates a collector registering into registry, or into a
// fresh registry when registry is nil.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.StageDurationBuckets) == 0 {
		cfg.StageDurationBuckets = append([]float64(nil), config.DefaultStageDurationBuckets...)
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		export:   NewExportMetrics(cfg, registry),
		cleanup: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cleanup_removed_total",
			Help:      "Stale export directories and archives removed by cleanup",
		}),
	}
	registry.MustRegister(c.cleanup)

	return c
}

// RecordStage records one stage run. Failed stages are also counted in
// stage_failures_total.
func (c *Collector) RecordStage(stage string, duration time.Duration, ok bool) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.export.RecordStage(stage, duration, ok)
}

// RecordExport records a finished session with its terminal status.
func (c *Collector) RecordExport(status string, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.export.RecordExport(status, duration)
}

// RecordCleanup adds n removed entries.
func (c *Collector) RecordCleanup(n int) {
	if c == nil || !c.config.Enabled || n <= 0 {
		return
	}
	c.cleanup.Add(float64(n))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
