package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/agent"
)

// slowTool blocks until its context is cancelled.
type slowTool struct{}

func (slowTool) Name() string                       { return "slow" }
func (slowTool) Description() string                { return "blocks forever" }
func (slowTool) Parameters() map[string]interface{} { return map[string]interface{}{} }
func (slowTool) Execute(ctx context.Context, _ map[string]interface{}) (*agent.ToolResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// fastTool returns immediately.
type fastTool struct{}

func (fastTool) Name() string                       { return "fast" }
func (fastTool) Description() string                { return "returns at once" }
func (fastTool) Parameters() map[string]interface{} { return map[string]interface{}{} }
func (fastTool) Execute(context.Context, map[string]interface{}) (*agent.ToolResult, error) {
	return agent.NewToolResult("done"), nil
}

func TestWithTimeoutConvertsDeadlineToToolError(t *testing.T) {
	tool := WithTimeout(slowTool{}, 20*time.Millisecond)

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Success {
		t.Error("expected timed-out call to fail")
	}
	if !strings.Contains(result.Error, "timed out") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestWithTimeoutPassesThroughFastCalls(t *testing.T) {
	tool := WithTimeout(fastTool{}, time.Second)

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !result.Success || result.Output != "done" {
		t.Errorf("result = %+v", result)
	}
}

func TestWithTimeoutPreservesIdentity(t *testing.T) {
	tool := WithTimeout(fastTool{}, time.Second)
	if tool.Name() != "fast" {
		t.Errorf("Name = %q", tool.Name())
	}
	if tool.Description() == "" {
		t.Error("Description is empty")
	}
}

// flakyLLM fails a fixed number of times before succeeding.
type flakyLLM struct {
	failures int
	calls    int
}

func (f *flakyLLM) Complete(_ context.Context, _ []*agent.Message, _ ...llm.CallOption) (*agent.Message, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient failure")
	}
	return agent.NewMessage("assistant", "ok"), nil
}

func (f *flakyLLM) Model() string       { return "flaky-model" }
func (f *flakyLLM) Unwrap() interface{} { return nil }

func TestWithRetryEventuallySucceeds(t *testing.T) {
	inner := &flakyLLM{failures: 2}
	model := WithRetry(inner, RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	})

	reply, err := model.Complete(context.Background(), []*agent.Message{
		agent.NewMessage("user", "hello"),
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply.Content != "ok" {
		t.Errorf("reply = %q", reply.Content)
	}
	if inner.calls != 3 {
		t.Errorf("got %d calls, want 3", inner.calls)
	}
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyLLM{failures: 10}
	model := WithRetry(inner, RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
	})

	_, err := model.Complete(context.Background(), []*agent.Message{
		agent.NewMessage("user", "hello"),
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if inner.calls != 2 {
		t.Errorf("got %d calls, want 2", inner.calls)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("error = %v", err)
	}
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	inner := &flakyLLM{failures: 10}
	model := WithRetry(inner, RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := model.Complete(ctx, []*agent.Message{agent.NewMessage("user", "hello")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
