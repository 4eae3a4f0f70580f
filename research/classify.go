package research

import (
	"strconv"
	"strings"
)

// Decision is the control-flow label extracted from a verificator
// reply. It names the node the loop should visit next.
type Decision string

const (
	// DecisionExecutor continues work on the current plan step.
	DecisionExecutor Decision = "executor"
	// DecisionPlanner discards the current plan and re-plans.
	DecisionPlanner Decision = "planner"
	// DecisionSynthesizer declares the gathered results sufficient.
	DecisionSynthesizer Decision = "synthesizer"
)

// Classify maps a free-text verificator reply onto a Decision by
// case-insensitive substring match. When a reply mentions several
// labels, "synthesizer" wins over "planner" wins over "executor", so a
// hedging reply terminates rather than loops. A reply mentioning no
// label defaults to the executor: unrecognized output continues the
// current step instead of aborting the run.
func Classify(reply string) Decision {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, string(DecisionSynthesizer)):
		return DecisionSynthesizer
	case strings.Contains(lower, string(DecisionPlanner)):
		return DecisionPlanner
	default:
		return DecisionExecutor
	}
}

// AdvanceStep produces the step label that follows the given one.
//
// A label of the form "Step <n>" with integer n advances to
// "Step <n+1>". A label starting with "Step " whose remainder is not an
// integer becomes the literal "Next Step". Any other label, including
// the empty string, resets to "Step 2" on the assumption that plan
// execution began at step one.
func AdvanceStep(label string) string {
	const prefix = "Step "
	if strings.HasPrefix(label, prefix) {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(label, prefix)))
		if err != nil {
			return "Next Step"
		}
		return prefix + strconv.Itoa(n+1)
	}
	return "Step 2"
}
