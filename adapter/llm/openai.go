package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/scttfrdmn/inquire/agent"
)

// OpenAILLM is an adapter for OpenAI's GPT models.
//
// Wraps the go-openai SDK to provide a consistent inquire interface for
// GPT models, including structured tool calling, inline images for
// vision-capable models, and audio transcription. Because the adapter
// accepts a custom base URL, OpenAI-compatible endpoints (LiteLLM
// proxies, Ollama's compatibility server, vLLM) are reached through
// this same adapter rather than through dedicated ones.
//
// Example:
//
//	client := NewOpenAILLM("sk-...", "gpt-4o")
//	response, err := client.Complete(ctx, messages, WithTools(registry.All()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if response.HasToolCalls() {
//	    // dispatch to the tool layer
//	}
type OpenAILLM struct {
	client *openai.Client
	model  string
}

// NewOpenAILLM creates a new OpenAI LLM adapter.
//
// Parameters:
//   - apiKey: OpenAI API key
//   - model: Model identifier (e.g., "gpt-4o", "gpt-4-turbo")
func NewOpenAILLM(apiKey, model string) *OpenAILLM {
	return NewOpenAILLMWithBaseURL(apiKey, model, "")
}

// NewOpenAILLMWithBaseURL creates an adapter pointed at an
// OpenAI-compatible endpoint. An empty baseURL uses the public API.
func NewOpenAILLMWithBaseURL(apiKey, model, baseURL string) *OpenAILLM {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAILLM{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Model returns the model identifier.
func (o *OpenAILLM) Model() string {
	return o.model
}

// Complete generates a completion from GPT.
//
// When options carry advertised tools, the request binds their JSON
// schemas and the response may contain structured tool calls, which are
// mapped back onto the returned message's ToolCalls field.
func (o *OpenAILLM) Complete(ctx context.Context, messages []*agent.Message, opts ...CallOption) (*agent.Message, error) {
	options := BuildCallOptions(opts...)

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: o.convertMessages(messages),
	}

	if options.Temperature != nil {
		req.Temperature = float32(*options.Temperature)
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}
	if options.TopP != nil {
		req.TopP = float32(*options.TopP)
	}
	if stop, ok := options.Extra["stop"].([]string); ok {
		req.Stop = stop
	}
	if len(options.Tools) > 0 {
		req.Tools = convertToolSpecs(options.Tools)
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}

	choice := resp.Choices[0]
	response := agent.NewMessage("assistant", choice.Message.Content)
	response.ToolCalls = convertToolCalls(choice.Message.ToolCalls)
	response.Metadata["model"] = resp.Model
	response.Metadata["usage"] = map[string]interface{}{
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	}
	response.Metadata["finish_reason"] = choice.FinishReason
	response.Metadata["id"] = resp.ID

	return response, nil
}

// Describe answers a question grounded in the given images via the
// chat-completion vision path (base64 data URLs).
func (o *OpenAILLM) Describe(ctx context.Context, question string, images []agent.ImagePart) (string, error) {
	msg := agent.NewMessage("user", question)
	for _, img := range images {
		msg.Images = append(msg.Images, img)
	}
	resp, err := o.Complete(ctx, []*agent.Message{msg})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Transcribe converts an audio file to text with the Whisper API.
func (o *OpenAILLM) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription error: %w", err)
	}
	return resp.Text, nil
}

// convertMessages converts agent Messages to OpenAI format, preserving
// tool-call round trips and inline images.
func (o *OpenAILLM) convertMessages(messages []*agent.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))

	for _, msg := range messages {
		var role string
		switch msg.Role {
		case "system", "user", "tool":
			role = msg.Role
		default:
			role = "assistant"
		}

		oc := openai.ChatCompletionMessage{
			Role:       role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}

		for _, tc := range msg.ToolCalls {
			args, _ := json.Marshal(tc.Arguments)
			oc.ToolCalls = append(oc.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}

		if len(msg.Images) > 0 {
			parts := []openai.ChatMessagePart{{
				Type: openai.ChatMessagePartTypeText,
				Text: msg.Content,
			}}
			for _, img := range msg.Images {
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: dataURL(img),
					},
				})
			}
			oc.Content = ""
			oc.MultiContent = parts
		}

		out = append(out, oc)
	}

	return out
}

// convertToolSpecs maps agent Tools onto OpenAI function declarations.
func convertToolSpecs(tools []agent.Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return out
}

// convertToolCalls maps OpenAI tool calls back to agent ToolCalls.
// Malformed argument payloads degrade to an empty argument map so the
// tool layer can surface a descriptive error instead of the loop dying.
func convertToolCalls(calls []openai.ToolCall) []agent.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]agent.ToolCall, 0, len(calls))
	for _, c := range calls {
		args := make(map[string]interface{})
		if c.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(c.Function.Arguments), &args); err != nil {
				args = map[string]interface{}{"_raw": c.Function.Arguments}
			}
		}
		out = append(out, agent.ToolCall{
			ID:        c.ID,
			Name:      c.Function.Name,
			Arguments: args,
		})
	}
	return out
}

// dataURL encodes an image part as a base64 data URL.
func dataURL(img agent.ImagePart) string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64Encode(img.Data))
}

// Unwrap returns the underlying OpenAI client.
func (o *OpenAILLM) Unwrap() interface{} {
	return o.client
}
