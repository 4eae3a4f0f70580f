package research

import (
	"context"
	"fmt"

	"github.com/scttfrdmn/inquire/prompts"
)

// runPlanner asks the LLM for a fresh execution plan and resets the
// step counter. An empty reply is tolerated: the plan stays empty and
// the loop proceeds, letting the executor work from the bare question.
func (a *Agent) runPlanner(ctx context.Context, state *State) error {
	prompt, err := a.prompts.Render(prompts.PlannerPrompt, map[string]string{
		"question": state.Question,
		"tools":    a.tools.Describe(),
	})
	if err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	reply, err := a.complete(ctx, prompt, nil)
	if err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	state.Plan = reply.Content
	state.CurrentStep = "Step 1"

	a.logger.Info("plan created",
		"session_id", state.SessionID,
		"plan_len", len(state.Plan))
	return nil
}
