// Package middleware provides decorators for tools and LLMs: per-call
// timeouts and opt-in retry with backoff.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scttfrdmn/inquire/agent"
)

// timeoutTool wraps a tool with a per-call deadline.
type timeoutTool struct {
	tool    agent.Tool
	timeout time.Duration
}

// WithTimeout returns a tool whose Execute runs under the given
// deadline. A call that overruns returns an error-shaped ToolResult,
// not an error, so the research loop surfaces the timeout to the LLM
// as transcript text.
func WithTimeout(tool agent.Tool, timeout time.Duration) agent.Tool {
	return &timeoutTool{tool: tool, timeout: timeout}
}

func (t *timeoutTool) Name() string        { return t.tool.Name() }
func (t *timeoutTool) Description() string { return t.tool.Description() }

func (t *timeoutTool) Parameters() map[string]interface{} {
	return t.tool.Parameters()
}

func (t *timeoutTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type outcome struct {
		result *agent.ToolResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := t.tool.Execute(callCtx, params)
		done <- outcome{result, err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) {
			return agent.NewToolError(timeoutMessage(t.tool.Name(), t.timeout)), nil
		}
		return out.result, out.err
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return agent.NewToolError(timeoutMessage(t.tool.Name(), t.timeout)), nil
		}
		return nil, callCtx.Err()
	}
}

func timeoutMessage(name string, timeout time.Duration) string {
	return fmt.Sprintf("tool %q timed out after %s", name, timeout)
}
