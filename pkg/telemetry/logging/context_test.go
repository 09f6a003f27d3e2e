package logging

import (
	"context"
	"reflect"
	"testing"
)

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()

	if GetExportID(ctx) != "" || GetProjectPath(ctx) != "" || GetStage(ctx) != "" || GetTraceID(ctx) != "" {
		t.Error("empty context returned values")
	}
	if _, ok := GetProjectID(ctx); ok {
		t.Error("empty context reported a project ID")
	}

	ctx = WithExportID(ctx, "e1")
	ctx = WithProjectID(ctx, 7)
	ctx = WithProjectPath(ctx, "group/project")
	ctx = WithStage(ctx, "uploads")
	ctx = WithTraceID(ctx, "trace")

	if GetExportID(ctx) != "e1" {
		t.Errorf("GetExportID() = %q", GetExportID(ctx))
	}
	if id, ok := GetProjectID(ctx); !ok || id != 7 {
		t.Errorf("GetProjectID() = %d, %v", id, ok)
	}
	if GetProjectPath(ctx) != "group/project" {
		t.Errorf("GetProjectPath() = %q", GetProjectPath(ctx))
	}
	if GetStage(ctx) != "uploads" {
		t.Errorf("GetStage() = %q", GetStage(ctx))
	}
	if GetTraceID(ctx) != "trace" {
		t.Errorf("GetTraceID() = %q", GetTraceID(ctx))
	}
}

func TestExtractContextFields(t *testing.T) {
	if fields := extractContextFields(context.Background()); len(fields) != 0 {
		t.Errorf("extractContextFields(empty) = %v", fields)
	}

	ctx := WithStage(WithProjectID(WithExportID(context.Background(), "e1"), 3), "lfs")
	got := extractContextFields(ctx)
	want := []any{"export_id", "e1", "project_id", int64(3), "stage", "lfs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractContextFields() = %v, want %v", got, want)
	}
}
