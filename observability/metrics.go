package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the research loop's counters. A nil *Metrics is valid
// and records nothing, so callers never need nil checks.
type Metrics struct {
	llmCalls   metric.Int64Counter
	toolCalls  metric.Int64Counter
	iterations metric.Int64Counter
}

// NewMetrics registers the loop's instruments on the global meter
// provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/scttfrdmn/inquire")

	llmCalls, err := meter.Int64Counter("inquire.llm.calls",
		metric.WithDescription("Number of LLM completions issued"))
	if err != nil {
		return nil, fmt.Errorf("create llm counter: %w", err)
	}

	toolCalls, err := meter.Int64Counter("inquire.tool.calls",
		metric.WithDescription("Number of tool executions"))
	if err != nil {
		return nil, fmt.Errorf("create tool counter: %w", err)
	}

	iterations, err := meter.Int64Counter("inquire.loop.iterations",
		metric.WithDescription("Number of loop node visits"))
	if err != nil {
		return nil, fmt.Errorf("create iteration counter: %w", err)
	}

	return &Metrics{llmCalls: llmCalls, toolCalls: toolCalls, iterations: iterations}, nil
}

// LLMCall records one completion against the given model.
func (m *Metrics) LLMCall(ctx context.Context, model string) {
	if m == nil {
		return
	}
	m.llmCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
	))
}

// Iteration records one loop node visit.
func (m *Metrics) Iteration(ctx context.Context, node string) {
	if m == nil {
		return
	}
	m.iterations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node", node),
	))
}

// ToolCall records one tool execution and whether it succeeded.
func (m *Metrics) ToolCall(ctx context.Context, tool string, success bool) {
	if m == nil {
		return
	}
	m.toolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("success", success),
	))
}
