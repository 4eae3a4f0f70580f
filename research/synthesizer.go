package research

import (
	"context"
	"fmt"

	"github.com/scttfrdmn/inquire/prompts"
)

// runSynthesizer condenses the transcript into the final answer. It is
// the loop's only exit node and the only writer of FinalAnswer.
func (a *Agent) runSynthesizer(ctx context.Context, state *State) error {
	prompt, err := a.prompts.Render(prompts.SynthesizerPrompt, map[string]string{
		"question":          state.Question,
		"execution_results": state.RenderResults(),
	})
	if err != nil {
		return fmt.Errorf("synthesizer: %w", err)
	}

	reply, err := a.complete(ctx, prompt, nil)
	if err != nil {
		return fmt.Errorf("synthesizer: %w", err)
	}

	a.append(ctx, state, reply)
	state.FinalAnswer = reply.Content

	a.logger.Info("answer synthesized",
		"session_id", state.SessionID,
		"answer_len", len(state.FinalAnswer))
	return nil
}
