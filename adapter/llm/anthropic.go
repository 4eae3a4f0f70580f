package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/scttfrdmn/inquire/agent"
)

// AnthropicLLM is an adapter for Anthropic's Claude models.
//
// Talks to the Messages API directly over net/http; no SDK dependency.
// This adapter is text-only: advertised tools are ignored, so when it
// backs the research loop the executor works from plain model text and
// the tool branch of the graph is never taken. Use the OpenAI or Gemini
// adapter when tool dispatch matters.
type AnthropicLLM struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicLLM creates a new Anthropic LLM adapter.
//
// Parameters:
//   - apiKey: Anthropic API key
//   - model: Model identifier (e.g., "claude-sonnet-4-20250514")
func NewAnthropicLLM(apiKey, model string) *AnthropicLLM {
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	return &AnthropicLLM{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://api.anthropic.com/v1",
		httpClient: &http.Client{},
	}
}

// Model returns the model identifier.
func (a *AnthropicLLM) Model() string {
	return a.model
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	TopP        *float64           `json:"top_p,omitempty"`
	System      string             `json:"system,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete generates a completion from Claude.
func (a *AnthropicLLM) Complete(ctx context.Context, messages []*agent.Message, opts ...CallOption) (*agent.Message, error) {
	options := BuildCallOptions(opts...)

	req := anthropicRequest{
		Model:       a.model,
		MaxTokens:   4096,
		Temperature: options.Temperature,
		TopP:        options.TopP,
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}

	// The Messages API takes system text separately and alternating
	// user/assistant turns; tool transcript lines are folded into user
	// turns since this adapter does not bind tools.
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			req.System = msg.Content
		case "assistant":
			req.Messages = append(req.Messages, anthropicMessage{Role: "assistant", Content: msg.Content})
		default:
			req.Messages = append(req.Messages, anthropicMessage{Role: "user", Content: msg.Content})
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr anthropicErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("anthropic api error [%s]: %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("anthropic api error: status %d", resp.StatusCode)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var content string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	response := agent.NewMessage("assistant", content)
	response.Metadata["model"] = parsed.Model
	response.Metadata["usage"] = map[string]interface{}{
		"prompt_tokens":     parsed.Usage.InputTokens,
		"completion_tokens": parsed.Usage.OutputTokens,
		"total_tokens":      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
	}
	response.Metadata["finish_reason"] = parsed.StopReason
	response.Metadata["id"] = parsed.ID

	return response, nil
}

// Unwrap returns the underlying HTTP client.
func (a *AnthropicLLM) Unwrap() interface{} {
	return a.httpClient
}
