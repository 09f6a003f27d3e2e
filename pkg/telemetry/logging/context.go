package logging

import (
	"context"
)

type contextKey string

// Context keys for export session fields.
const (
	ExportIDKey    contextKey = "export_id"
	ProjectIDKey   contextKey = "project_id"
	ProjectPathKey contextKey = "project_path"
	StageKey       contextKey = "stage"
	TraceIDKey     contextKey = "trace_id"
)

// WithExportID adds the export session ID to ctx.
func WithExportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ExportIDKey, id)
}

// GetExportID returns the export session ID in ctx, or "".
func GetExportID(ctx context.Context) string {
	v, _ := ctx.Value(ExportIDKey).(string)
	return v
}

// WithProjectID adds a project ID to ctx.
func WithProjectID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ProjectIDKey, id)
}

// GetProjectID returns the project ID in ctx and whether one is set.
func GetProjectID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ProjectIDKey).(int64)
	return v, ok
}

// WithProjectPath adds a project full path to ctx.
func WithProjectPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ProjectPathKey, path)
}

// GetProjectPath returns the project full path in ctx, or "".
func GetProjectPath(ctx context.Context) string {
	v, _ := ctx.Value(ProjectPathKey).(string)
	return v
}

// WithStage adds the running stage name to ctx.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// GetStage returns the stage name in ctx, or "".
func GetStage(ctx context.Context) string {
	v, _ := ctx.Value(StageKey).(string)
	return v
}

// WithTraceID adds a trace ID to ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// GetTraceID returns the trace ID in ctx, or "".
func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}

// extractContextFields returns the session fields present in ctx as
// key/value pairs.
func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if v := GetExportID(ctx); v != "" {
		fields = append(fields, string(ExportIDKey), v)
	}
	if v, ok := GetProjectID(ctx); ok {
		fields = append(fields, string(ProjectIDKey), v)
	}
	if v := GetProjectPath(ctx); v != "" {
		fields = append(fields, string(ProjectPathKey), v)
	}
	if v := GetStage(ctx); v != "" {
		fields = append(fields, string(StageKey), v)
	}
	if v := GetTraceID(ctx); v != "" {
		fields = append(fields, string(TraceIDKey), v)
	}
	return fields
}

// Fields returns the session fields present in ctx as slog key/value pairs,
// for loggers that are not a *Logger.
//
//	logger.InfoContext(ctx, "stage finished", logging.Fields(ctx)...)
func Fields(ctx context.Context) []any {
	return extractContextFields(ctx)
}
