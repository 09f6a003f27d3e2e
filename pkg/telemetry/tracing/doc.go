// Package tracing provides OpenTelemetry tracing for export sessions.
//
// Each export produces one "export.execute" span with one "export.stage"
// child per stage that ran, plus an "export.after_export" child when a
// post-export strategy is invoked. Spans carry portage.* attributes (see
// attributes.go) and are shipped to an OTLP gRPC collector.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio      # always | never | ratio
//	    sample_ratio: 0.25
//	    exporter: otlp
//	    endpoint: localhost:4317
//	    otlp:
//	      insecure: true
//
// A disabled configuration yields a noop tracer; every method is safe to
// call on it.
package tracing
