// Package research implements the plan-execute-verify-synthesize loop
// that answers open-ended questions by orchestrating an LLM and a set
// of tools.
package research

import (
	"strings"

	"github.com/google/uuid"
	"github.com/scttfrdmn/inquire/agent"
)

// State is the mutable session record that flows through the loop.
//
// One State is created per incoming question and discarded once the
// final answer is produced. The question is set once and never changes;
// the plan is replaced wholesale on a re-plan; the transcript only ever
// grows. A State is owned by a single run and is not safe for
// concurrent use.
type State struct {
	// SessionID identifies this run in logs and transcript mirrors.
	SessionID string

	// Question is the original user question. Immutable after creation.
	Question string

	// Plan is the LLM-authored free-text execution plan. Opaque to the
	// loop; consumed only as prompt context.
	Plan string

	// CurrentStep is the loop's heuristic step label ("Step 1", ...).
	// Advanced only by the verificator, never by the executor.
	CurrentStep string

	// NextAction is the verificator's routing decision. Written only by
	// the verificator node, read only by the graph's router.
	NextAction Decision

	// FinalAnswer is written once by the synthesizer. Terminal.
	FinalAnswer string

	transcript []*agent.Message
}

// NewState creates the session state for one question.
func NewState(question string) *State {
	return &State{
		SessionID: uuid.NewString(),
		Question:  question,
	}
}

// Append adds a message to the transcript. The transcript is
// append-only: entries are never edited or removed.
func (s *State) Append(msg *agent.Message) {
	s.transcript = append(s.transcript, msg)
}

// Transcript returns a copy of the transcript slice. The messages
// themselves are shared; callers must not mutate them.
func (s *State) Transcript() []*agent.Message {
	out := make([]*agent.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Len returns the number of transcript entries.
func (s *State) Len() int {
	return len(s.transcript)
}

// LastMessage returns the most recent transcript entry, or nil when the
// transcript is empty.
func (s *State) LastMessage() *agent.Message {
	if len(s.transcript) == 0 {
		return nil
	}
	return s.transcript[len(s.transcript)-1]
}

// RenderResults joins the transcript into the single text block the
// prompts embed as "previous results". The transcript is the only
// source for this rendering, so no entry is ever counted twice.
func (s *State) RenderResults() string {
	if len(s.transcript) == 0 {
		return "No results yet."
	}
	lines := make([]string, 0, len(s.transcript))
	for _, msg := range s.transcript {
		lines = append(lines, msg.Render())
	}
	return strings.Join(lines, "\n")
}
