package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/scttfrdmn/inquire/agent"
)

// specTool is a minimal Tool used to exercise schema conversion.
type specTool struct {
	name        string
	description string
	parameters  map[string]interface{}
}

func (s *specTool) Name() string                       { return s.name }
func (s *specTool) Description() string                { return s.description }
func (s *specTool) Parameters() map[string]interface{} { return s.parameters }
func (s *specTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	return agent.NewToolResult("ok"), nil
}

func TestBuildCallOptions(t *testing.T) {
	tool := &specTool{name: "web_search"}
	opts := BuildCallOptions(
		WithTemperature(0.2),
		WithMaxTokens(512),
		WithTopP(0.9),
		WithTools([]agent.Tool{tool}),
		WithExtra("stop", []string{"END"}),
	)

	if opts.Temperature == nil || *opts.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", opts.Temperature)
	}
	if opts.MaxTokens == nil || *opts.MaxTokens != 512 {
		t.Errorf("Expected max tokens 512, got %v", opts.MaxTokens)
	}
	if opts.TopP == nil || *opts.TopP != 0.9 {
		t.Errorf("Expected top_p 0.9, got %v", opts.TopP)
	}
	if len(opts.Tools) != 1 || opts.Tools[0].Name() != "web_search" {
		t.Errorf("Expected one advertised tool, got %v", opts.Tools)
	}
	if _, ok := opts.Extra["stop"]; !ok {
		t.Error("Expected extra option 'stop' to be set")
	}
}

func TestOpenAIConvertMessagesRoles(t *testing.T) {
	client := NewOpenAILLM("test-key", "gpt-4o")

	messages := []*agent.Message{
		agent.NewMessage("system", "You are helpful."),
		agent.NewMessage("user", "Hello"),
		agent.NewMessage("assistant", "Hi there"),
		agent.NewToolMessage("call-1", "web_search", "results"),
	}

	converted := client.convertMessages(messages)
	if len(converted) != 4 {
		t.Fatalf("Expected 4 converted messages, got %d", len(converted))
	}

	wantRoles := []string{"system", "user", "assistant", "tool"}
	for i, want := range wantRoles {
		if converted[i].Role != want {
			t.Errorf("Message %d: expected role %q, got %q", i, want, converted[i].Role)
		}
	}
	if converted[3].ToolCallID != "call-1" {
		t.Errorf("Expected tool call ID 'call-1', got %q", converted[3].ToolCallID)
	}
}

func TestOpenAIConvertMessagesToolCallRoundTrip(t *testing.T) {
	client := NewOpenAILLM("test-key", "gpt-4o")

	msg := agent.NewMessage("assistant", "")
	msg.ToolCalls = []agent.ToolCall{{
		ID:        "call-7",
		Name:      "wikipedia_search",
		Arguments: map[string]interface{}{"query": "Mercedes Sosa"},
	}}

	converted := client.convertMessages([]*agent.Message{msg})
	if len(converted[0].ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(converted[0].ToolCalls))
	}
	call := converted[0].ToolCalls[0]
	if call.Function.Name != "wikipedia_search" {
		t.Errorf("Expected function name 'wikipedia_search', got %q", call.Function.Name)
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		t.Fatalf("Arguments are not valid JSON: %v", err)
	}
	if args["query"] != "Mercedes Sosa" {
		t.Errorf("Expected query argument to survive round trip, got %v", args)
	}
}

func TestOpenAIConvertMessagesImages(t *testing.T) {
	client := NewOpenAILLM("test-key", "gpt-4o")

	msg := agent.NewMessage("user", "What is in this image?")
	msg.WithImage("image/png", []byte{0x89, 0x50})

	converted := client.convertMessages([]*agent.Message{msg})
	if len(converted[0].MultiContent) != 2 {
		t.Fatalf("Expected 2 content parts (text + image), got %d", len(converted[0].MultiContent))
	}
	if converted[0].Content != "" {
		t.Error("Content must be empty when MultiContent is used")
	}
}

func TestConvertToolCallsMalformedArguments(t *testing.T) {
	if calls := convertToolCalls(nil); calls != nil {
		t.Errorf("Expected nil for no tool calls, got %v", calls)
	}

	calls := convertToolCalls([]openai.ToolCall{{
		ID:       "call-1",
		Type:     openai.ToolTypeFunction,
		Function: openai.FunctionCall{Name: "read_file", Arguments: "{not json"},
	}})
	if len(calls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(calls))
	}
	// Malformed payloads degrade to a raw argument instead of dropping the call.
	if calls[0].Arguments["_raw"] != "{not json" {
		t.Errorf("Expected raw argument fallback, got %v", calls[0].Arguments)
	}
}

func TestGeminiSchemaFromJSON(t *testing.T) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url":      map[string]interface{}{"type": "string", "description": "Page URL"},
			"timeout":  map[string]interface{}{"type": "integer"},
			"headless": map[string]interface{}{"type": "boolean"},
		},
		"required": []string{"url"},
	}

	converted := schemaFromJSON(schema)
	if converted == nil {
		t.Fatal("Expected non-nil schema")
	}
	if len(converted.Properties) != 3 {
		t.Errorf("Expected 3 properties, got %d", len(converted.Properties))
	}
	if len(converted.Required) != 1 || converted.Required[0] != "url" {
		t.Errorf("Expected required [url], got %v", converted.Required)
	}
}

func TestAnthropicComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.System != "You are helpful." {
			t.Errorf("Expected system prompt, got %q", req.System)
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"id":    "msg-1",
			"model": req.Model,
			"content": []map[string]string{
				{"type": "text", "text": "4"},
			},
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 10, "output_tokens": 1},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewAnthropicLLM("test-key", "claude-3-5-haiku-20241022")
	client.baseURL = server.URL

	messages := []*agent.Message{
		agent.NewMessage("system", "You are helpful."),
		agent.NewMessage("user", "What is 2+2?"),
	}
	resp, err := client.Complete(context.Background(), messages)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Content != "4" {
		t.Errorf("Expected content '4', got %q", resp.Content)
	}
	if resp.Role != "assistant" {
		t.Errorf("Expected role 'assistant', got %q", resp.Role)
	}
}
