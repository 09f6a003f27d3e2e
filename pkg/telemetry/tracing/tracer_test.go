package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"drepo-hq/portage/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.TracingConfig
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:    "disabled tracing",
			config:  &config.TracingConfig{Enabled: false},
			wantErr: false,
		},
		{
			name: "enabled with otlp",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Exporter:    "otlp",
				Endpoint:    "localhost:4317",
				ServiceName: "portage-test",
				OTLP:        config.OTLPConfig{Insecure: true, Timeout: time.Second},
			},
			wantErr: false,
		},
		{
			name: "unknown sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  "sometimes",
				Exporter: "otlp",
				Endpoint: "localhost:4317",
			},
			wantErr: true,
		},
		{
			name: "unsupported exporter",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  SamplerAlways,
				Exporter: "zipkin",
				Endpoint: "localhost:9411",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.config.Enabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.config.Enabled)
			}
		})
	}
}

func TestTracer_NoopSpans(t *testing.T) {
	tracer := NewNoop()
	ctx, span := tracer.Start(context.Background(), SpanExport)
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("noop tracer produced a valid span context")
	}
	if TraceID(ctx) != "" {
		t.Errorf("TraceID() = %q, want empty", TraceID(ctx))
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_NilIsSafe(t *testing.T) {
	var tracer *Tracer
	ctx, span := tracer.Start(context.Background(), SpanStage)
	span.End()
	if ctx == nil {
		t.Fatal("Start() returned nil context")
	}
	if tracer.Enabled() {
		t.Error("nil tracer reports enabled")
	}
}

func TestTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(context.Background())

	tracer := NewWithProvider(provider)

	ctx, parent := tracer.Start(context.Background(), SpanExport)
	if TraceID(ctx) == "" {
		t.Error("TraceID() empty inside a recorded span")
	}

	_, child := tracer.Start(ctx, SpanStage)
	SetStageResult(child, "repository", false)
	SetError(child, errors.New("bundle failed"))
	child.End()

	SetExportResult(parent, "failed", 1)
	parent.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}

	stage := spans[0]
	if stage.Name() != SpanStage {
		t.Errorf("first span = %q, want %q", stage.Name(), SpanStage)
	}
	if stage.Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("stage span is not a child of the export span")
	}
	if stage.Status().Code != codes.Error {
		t.Errorf("stage status = %v, want Error", stage.Status().Code)
	}
	if !hasAttr(stage.Attributes(), attribute.Bool(AttrStageOK, false)) {
		t.Errorf("stage attributes = %v", stage.Attributes())
	}
	if !hasAttr(spans[1].Attributes(), attribute.String(AttrStatus, "failed")) {
		t.Errorf("export attributes = %v", spans[1].Attributes())
	}
}

func TestSetStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(context.Background())
	tracer := NewWithProvider(provider)

	_, ok := tracer.Start(context.Background(), "ok")
	SetStatus(ok, nil)
	ok.End()

	_, failed := tracer.Start(context.Background(), "failed")
	SetStatus(failed, errors.New("boom"))
	failed.End()

	spans := recorder.Ended()
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", spans[0].Status().Code)
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "boom" {
		t.Errorf("status = %+v, want Error boom", spans[1].Status())
	}
}

func TestProjectAttributes(t *testing.T) {
	attrs := ProjectAttributes(42, "group/project")
	if !hasAttr(attrs, attribute.Int64(AttrProjectID, 42)) {
		t.Errorf("missing project id in %v", attrs)
	}
	if !hasAttr(attrs, attribute.String(AttrProjectPath, "group/project")) {
		t.Errorf("missing project path in %v", attrs)
	}
}

func hasAttr(attrs []attribute.KeyValue, want attribute.KeyValue) bool {
	for _, kv := range attrs {
		if kv.Key == want.Key && kv.Value == want.Value {
			return true
		}
	}
	return false
}
