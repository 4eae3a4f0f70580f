// Package agent provides the core types shared by the research loop,
// the LLM adapters, and the tool layer.
package agent

import (
	"fmt"
	"strings"
	"time"
)

// Message represents a message exchanged with the LLM or produced by a tool.
type Message struct {
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	ToolCalls []ToolCall             `json:"tool_calls,omitempty"`
	// ToolCallID links a tool-role message back to the call that produced it.
	ToolCallID string                 `json:"tool_call_id,omitempty"`
	// Images holds raw image payloads for vision-capable models.
	Images    []ImagePart            `json:"images,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// ToolCall is a structured tool-invocation request returned by the LLM.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ImagePart is an inline image attached to a message.
type ImagePart struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// NewMessage creates a new message with the given role and content.
func NewMessage(role, content string) *Message {
	return &Message{
		Role:      role,
		Content:   content,
		Metadata:  make(map[string]interface{}),
		Timestamp: time.Now().UTC(),
	}
}

// NewToolMessage creates a tool-role message carrying a tool's output.
func NewToolMessage(callID, toolName, content string) *Message {
	m := NewMessage("tool", content)
	m.ToolCallID = callID
	m.Metadata["tool_name"] = toolName
	return m
}

// WithMetadata adds metadata to the message and returns the message for chaining.
func (m *Message) WithMetadata(key string, value interface{}) *Message {
	m.Metadata[key] = value
	return m
}

// WithImage attaches an inline image and returns the message for chaining.
func (m *Message) WithImage(mimeType string, data []byte) *Message {
	m.Images = append(m.Images, ImagePart{MIMEType: mimeType, Data: data})
	return m
}

// HasToolCalls reports whether the LLM requested one or more tool invocations.
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Validate validates the message role and content size.
func (m *Message) Validate() error {
	if m.Role == "" {
		return fmt.Errorf("message role cannot be empty")
	}
	allowedRoles := map[string]bool{
		"user":      true,
		"assistant": true,
		"system":    true,
		"tool":      true,
	}
	if !allowedRoles[m.Role] {
		return fmt.Errorf("invalid message role: %s. Must be one of: user, assistant, system, tool", m.Role)
	}
	maxContentSize := 1024 * 1024 // 1MB
	if len(m.Content) > maxContentSize {
		return fmt.Errorf("message content exceeds maximum size of %d bytes (got %d bytes)", maxContentSize, len(m.Content))
	}
	return nil
}

// Render formats the message as a single transcript line for prompt
// embedding. Tool messages are prefixed with the tool's name so the LLM
// can attribute the output.
func (m *Message) Render() string {
	if m.Role == "tool" {
		name, _ := m.Metadata["tool_name"].(string)
		if name != "" {
			return fmt.Sprintf("[tool:%s] %s", name, m.Content)
		}
		return "[tool] " + m.Content
	}
	if m.HasToolCalls() && m.Content == "" {
		names := make([]string, 0, len(m.ToolCalls))
		for _, tc := range m.ToolCalls {
			names = append(names, tc.Name)
		}
		return fmt.Sprintf("[%s] requested tools: %s", m.Role, strings.Join(names, ", "))
	}
	return fmt.Sprintf("[%s] %s", m.Role, m.Content)
}
