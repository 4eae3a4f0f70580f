package research

import (
	"context"
	"fmt"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/prompts"
)

// runExecutor works on the current plan step. The full tool set is
// advertised to the LLM; whether the reply carries tool calls decides
// the next node. The executor never advances the step counter, that is
// the verificator's job.
func (a *Agent) runExecutor(ctx context.Context, state *State) error {
	prompt, err := a.prompts.Render(prompts.ExecutorPrompt, map[string]string{
		"plan":             state.Plan,
		"previous_results": state.RenderResults(),
		"current_step":     state.CurrentStep,
	})
	if err != nil {
		return fmt.Errorf("executor: %w", err)
	}

	reply, err := a.complete(ctx, prompt, []llm.CallOption{llm.WithTools(a.tools.All())})
	if err != nil {
		return fmt.Errorf("executor: %w", err)
	}

	a.append(ctx, state, reply)

	a.logger.Debug("executor reply",
		"session_id", state.SessionID,
		"step", state.CurrentStep,
		"tool_calls", len(reply.ToolCalls))
	return nil
}
