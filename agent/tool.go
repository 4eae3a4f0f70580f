package agent

import "context"

// Tool represents an executable capability advertised to the LLM.
//
// Tool implementations trap their own failures: Execute returns an
// error-shaped ToolResult for anything that goes wrong during the call
// and reserves the Go error for programming mistakes (nil parameters,
// cancelled contexts). The research loop feeds both shapes back to the
// LLM as ordinary transcript text.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Parameters returns the JSON-schema object describing the tool's
	// named arguments, in the shape chat-completion APIs expect.
	Parameters() map[string]interface{}

	// Execute runs the tool with the given parameters and returns a result.
	Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error)
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	Success  bool                   `json:"success"`
	Output   string                 `json:"output,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata"`
}

// NewToolResult creates a successful tool result.
func NewToolResult(output string) *ToolResult {
	return &ToolResult{
		Success:  true,
		Output:   output,
		Metadata: make(map[string]interface{}),
	}
}

// NewToolError creates a tool result representing a trapped failure.
func NewToolError(err string) *ToolResult {
	return &ToolResult{
		Success:  false,
		Error:    err,
		Metadata: make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the tool result and returns it for chaining.
func (t *ToolResult) WithMetadata(key string, value interface{}) *ToolResult {
	t.Metadata[key] = value
	return t
}

// Text returns the payload handed back to the LLM: the output on
// success, the trapped error text otherwise.
func (t *ToolResult) Text() string {
	if t.Success {
		return t.Output
	}
	return t.Error
}
