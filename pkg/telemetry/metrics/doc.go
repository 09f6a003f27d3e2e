// Package metrics provides Prometheus metrics for project exports.
//
// # Metrics
//
//   - portage_export_exports_total{status}: finished export sessions by
//     outcome ("finished", "failed", "after_export_failed")
//   - portage_export_duration_seconds: wall time of whole sessions
//   - portage_export_stage_duration_seconds{stage}: wall time per stage
//   - portage_export_stage_failures_total{stage}: stages that returned false
//   - portage_export_cleanup_removed_total: stale entries removed by cleanup
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordStage("repository", 1200*time.Millisecond, true)
//	collector.RecordExport("finished", 3*time.Second)
//
//	http.Handle("/metrics", collector.Handler())
//
// A collector built from a disabled configuration accepts every call and
// records nothing, so callers never need to nil-check it.
package metrics
