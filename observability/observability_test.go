package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestTraceContextHandlerAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))

	provider := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span")
	span.End()

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["trace_id"] == nil || record["span_id"] == nil {
		t.Errorf("missing trace correlation fields: %v", record)
	}
}

func TestTraceContextHandlerOutsideSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("no span")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if _, ok := record["trace_id"]; ok {
		t.Error("trace_id present outside a span")
	}
}

func TestMetricsRecordCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	m.LLMCall(ctx, "test-model")
	m.LLMCall(ctx, "test-model")
	m.ToolCall(ctx, "web_search", true)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	counts := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if sum, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					counts[metric.Name] += dp.Value
				}
			}
		}
	}
	if counts["inquire.llm.calls"] != 2 {
		t.Errorf("llm calls = %d, want 2", counts["inquire.llm.calls"])
	}
	if counts["inquire.tool.calls"] != 1 {
		t.Errorf("tool calls = %d, want 1", counts["inquire.tool.calls"])
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	// Must not panic.
	m.LLMCall(context.Background(), "model")
	m.ToolCall(context.Background(), "web_search", true)
}
