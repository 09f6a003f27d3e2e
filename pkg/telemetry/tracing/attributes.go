package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrProjectID   = "portage.project.id"
	AttrProjectPath = "portage.project.full_path"
	AttrExportPath  = "portage.export.path"
	AttrExportID    = "portage.export.id"
	AttrStage       = "portage.stage"
	AttrStageOK     = "portage.stage.ok"
	AttrStatus      = "portage.export.status"
	AttrErrorCount  = "portage.export.error_count"
)

// Span names.
const (
	SpanExport = "export.execute"
	SpanStage  = "export.stage"
	SpanAfter  = "export.after_export"
)

// ProjectAttributes returns the attributes identifying a project.
func ProjectAttributes(id int64, fullPath string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(AttrProjectID, id),
		attribute.String(AttrProjectPath, fullPath),
	}
}

// SetStageResult records the outcome of a stage on its span.
func SetStageResult(span trace.Span, stage string, ok bool) {
	span.SetAttributes(
		attribute.String(AttrStage, stage),
		attribute.Bool(AttrStageOK, ok),
	)
}

// SetExportResult records the terminal status of a session.
func SetExportResult(span trace.Span, status string, errorCount int) {
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrErrorCount, errorCount),
	)
}
