package research

import (
	"context"
	"fmt"

	"github.com/scttfrdmn/inquire/prompts"
)

// runVerificator reviews progress on the current step and decides
// where the loop goes next. The decision is extracted from the reply by
// Classify; only a continue-executing decision advances the step label.
func (a *Agent) runVerificator(ctx context.Context, state *State) error {
	prompt, err := a.prompts.Render(prompts.VerificatorPrompt, map[string]string{
		"plan":             state.Plan,
		"previous_results": state.RenderResults(),
		"current_step":     state.CurrentStep,
	})
	if err != nil {
		return fmt.Errorf("verificator: %w", err)
	}

	reply, err := a.complete(ctx, prompt, nil)
	if err != nil {
		return fmt.Errorf("verificator: %w", err)
	}

	a.append(ctx, state, reply)

	state.NextAction = Classify(reply.Content)
	if state.NextAction == DecisionExecutor {
		state.CurrentStep = AdvanceStep(state.CurrentStep)
	}

	a.logger.Info("verification decision",
		"session_id", state.SessionID,
		"decision", state.NextAction,
		"step", state.CurrentStep)
	return nil
}
