package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/agent"
	"github.com/scttfrdmn/inquire/prompts"
)

// FinalAnswerTool rewrites a free-text summary into a single normalized
// answer string: plain digits without thousands separators or units,
// strings without articles or abbreviations, lists comma-joined.
type FinalAnswerTool struct {
	llm     llm.LLM
	prompts *prompts.Registry
}

// NewFinalAnswerTool creates a final-answer formatting tool. The
// registry must carry the FINAL_ANSWER_PROMPT template.
func NewFinalAnswerTool(model llm.LLM, registry *prompts.Registry) *FinalAnswerTool {
	return &FinalAnswerTool{llm: model, prompts: registry}
}

// Name implements agent.Tool.
func (t *FinalAnswerTool) Name() string { return "provide_final_answer" }

// Description implements agent.Tool.
func (t *FinalAnswerTool) Description() string {
	return "Rewrite a summary of findings into a single strictly formatted final answer. Use once all required information has been gathered."
}

// Parameters implements agent.Tool.
func (t *FinalAnswerTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "Summary of the findings to turn into the final answer",
			},
		},
		"required": []string{"summary"},
	}
}

// Execute implements agent.Tool.
func (t *FinalAnswerTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	summary, _ := params["summary"].(string)
	if strings.TrimSpace(summary) == "" {
		return agent.NewToolError("summary parameter is required"), nil
	}

	prompt, err := t.prompts.Render(prompts.FinalAnswerPrompt, map[string]string{
		"summary": summary,
	})
	if err != nil {
		return agent.NewToolError(fmt.Sprintf("Error formatting answer: %v", err)), nil
	}

	reply, err := t.llm.Complete(ctx, []*agent.Message{agent.NewMessage("user", prompt)})
	if err != nil {
		return agent.NewToolResult(fmt.Sprintf("Error formatting %v", err)), nil
	}
	return agent.NewToolResult(strings.TrimSpace(reply.Content)), nil
}
