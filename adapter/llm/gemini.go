package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/scttfrdmn/inquire/agent"
	"google.golang.org/api/option"
)

// GeminiLLM is an adapter for Google's Gemini models.
//
// Wraps the Google GenAI SDK to provide the inquire LLM interface for
// Gemini models, including function calling and inline image parts.
// Gemini is the default provider: the research loop was tuned against
// gemini-2.0-flash.
//
// Example:
//
//	client, err := NewGeminiLLM("your-api-key", "gemini-2.0-flash")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//	response, err := client.Complete(ctx, messages, WithTools(registry.All()))
type GeminiLLM struct {
	client *genai.Client
	model  string
}

// NewGeminiLLM creates a new Gemini LLM adapter.
//
// Parameters:
//   - apiKey: Google API key. If empty, will use GEMINI_API_KEY or GOOGLE_API_KEY env var
//   - model: Model identifier (e.g., "gemini-2.0-flash", "gemini-1.5-pro")
func NewGeminiLLM(apiKey, model string) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("gemini api key required: provide apiKey parameter or set GEMINI_API_KEY or GOOGLE_API_KEY environment variable")
		}
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiLLM{
		client: client,
		model:  model,
	}, nil
}

// Model returns the model identifier.
func (g *GeminiLLM) Model() string {
	return g.model
}

// Complete generates a completion from Gemini.
//
// Advertised tools are bound as function declarations; a function-call
// part in the response is mapped onto the returned message's ToolCalls.
func (g *GeminiLLM) Complete(ctx context.Context, messages []*agent.Message, opts ...CallOption) (*agent.Message, error) {
	options := BuildCallOptions(opts...)

	model := g.client.GenerativeModel(g.model)
	g.configureModel(model, options)

	history, lastParts := g.convertMessages(messages)
	if len(lastParts) == 0 {
		return nil, errors.New("gemini requires at least one message")
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, lastParts...)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	content, toolCalls := g.extractContent(resp)

	response := agent.NewMessage("assistant", content)
	response.ToolCalls = toolCalls
	response.Metadata["model"] = g.model
	if resp.UsageMetadata != nil {
		response.Metadata["usage"] = map[string]interface{}{
			"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
			"completion_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens":      resp.UsageMetadata.TotalTokenCount,
		}
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != 0 {
		response.Metadata["finish_reason"] = resp.Candidates[0].FinishReason.String()
	}

	return response, nil
}

// Describe answers a question grounded in the given images.
func (g *GeminiLLM) Describe(ctx context.Context, question string, images []agent.ImagePart) (string, error) {
	model := g.client.GenerativeModel(g.model)

	parts := []genai.Part{genai.Text(question)}
	for _, img := range images {
		parts = append(parts, genai.ImageData(imageFormat(img.MIMEType), img.Data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	content, _ := g.extractContent(resp)
	return content, nil
}

// imageFormat derives the genai image format label ("jpeg", "png")
// from a MIME type.
func imageFormat(mimeType string) string {
	if i := strings.IndexByte(mimeType, '/'); i >= 0 {
		return mimeType[i+1:]
	}
	return "jpeg"
}

// convertMessages converts agent Messages to Gemini format.
//
// Gemini expects role "user" or "model" with content parts. System
// messages are folded in as user messages; tool-role messages become
// function responses. Returns the conversation history and the parts of
// the final message to send.
func (g *GeminiLLM) convertMessages(messages []*agent.Message) ([]*genai.Content, []genai.Part) {
	if len(messages) == 0 {
		return nil, nil
	}

	var history []*genai.Content
	for i := 0; i < len(messages)-1; i++ {
		history = append(history, g.toContent(messages[i]))
	}

	last := messages[len(messages)-1]
	return history, g.toContent(last).Parts
}

// toContent converts one message into a genai Content node.
func (g *GeminiLLM) toContent(msg *agent.Message) *genai.Content {
	var parts []genai.Part

	switch {
	case msg.Role == "tool":
		name, _ := msg.Metadata["tool_name"].(string)
		parts = append(parts, genai.FunctionResponse{
			Name:     name,
			Response: map[string]interface{}{"output": msg.Content},
		})
	case msg.HasToolCalls():
		if msg.Content != "" {
			parts = append(parts, genai.Text(msg.Content))
		}
		for _, tc := range msg.ToolCalls {
			parts = append(parts, genai.FunctionCall{
				Name: tc.Name,
				Args: tc.Arguments,
			})
		}
	default:
		parts = append(parts, genai.Text(msg.Content))
	}

	for _, img := range msg.Images {
		parts = append(parts, genai.ImageData(imageFormat(img.MIMEType), img.Data))
	}

	return &genai.Content{
		Role:  g.mapRole(msg.Role),
		Parts: parts,
	}
}

// mapRole maps an agent role to a Gemini role.
func (g *GeminiLLM) mapRole(role string) string {
	switch role {
	case "user", "system", "tool":
		return "user"
	default:
		return "model"
	}
}

// configureModel applies call options to the model, including bound tools.
func (g *GeminiLLM) configureModel(model *genai.GenerativeModel, options *CallOptions) {
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		model.Temperature = &temp
	}
	if options.MaxTokens != nil {
		maxTokens := int32(*options.MaxTokens)
		model.MaxOutputTokens = &maxTokens
	}
	if options.TopP != nil {
		topP := float32(*options.TopP)
		model.TopP = &topP
	}
	if stopSequences, ok := options.Extra["stop_sequences"].([]string); ok {
		model.StopSequences = stopSequences
	}
	if len(options.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(options.Tools))
		for _, t := range options.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  schemaFromJSON(t.Parameters()),
			})
		}
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
}

// schemaFromJSON converts a JSON-schema object map into a genai Schema.
// Only the subset the tool layer emits is supported: object, string,
// integer, number, boolean, and flat arrays.
func schemaFromJSON(schema map[string]interface{}) *genai.Schema {
	if schema == nil {
		return nil
	}
	out := &genai.Schema{Type: genaiType(schema["type"])}
	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]interface{}); ok {
				out.Properties[name] = schemaFromJSON(sub)
			}
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		out.Items = schemaFromJSON(items)
	}
	if required, ok := schema["required"].([]string); ok {
		out.Required = required
	} else if raw, ok := schema["required"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}
	return out
}

// genaiType maps a JSON-schema type name to the genai type enum.
func genaiType(t interface{}) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

// extractContent pulls text and function calls out of a Gemini response.
func (g *GeminiLLM) extractContent(resp *genai.GenerateContentResponse) (string, []agent.ToolCall) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}

	var content string
	var toolCalls []agent.ToolCall
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			content += string(p)
		case genai.FunctionCall:
			toolCalls = append(toolCalls, agent.ToolCall{
				Name:      p.Name,
				Arguments: p.Args,
			})
		}
	}
	return content, toolCalls
}

// Close closes the Gemini client.
func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Unwrap returns the underlying Gemini client.
func (g *GeminiLLM) Unwrap() interface{} {
	return g.client
}
