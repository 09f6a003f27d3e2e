// Package telemetry groups the observability packages used by portage.
//
// # Components
//
//   - logging: structured slog logging with secret redaction and context fields
//   - metrics: Prometheus stage, export and cleanup metrics
//   - tracing: OpenTelemetry spans for export sessions and stages
//   - health: liveness and readiness probes for the cleanup daemon
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.FromConfig(cfg.Telemetry.Logging)
//	slog.SetDefault(logger.Slog())
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordStage("tree", 120*time.Millisecond, true)
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	ctx, span := tracer.Start(ctx, tracing.SpanExport)
//	defer span.End()
//
// # Secret Redaction
//
// Log arguments are scrubbed before they are written. Built-in patterns
// cover URL credentials, access tokens, bearer tokens and passwords;
// custom patterns come from telemetry.logging.redact_patterns.
package telemetry
