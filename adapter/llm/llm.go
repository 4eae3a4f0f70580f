// Package llm provides minimal LLM interfaces for inquire.
//
// This package defines the contract the research loop uses to talk to a
// chat-completion backend. The interface is intentionally small: one
// blocking Complete call per loop step, with functional options for
// sampling parameters and advertised tools. Providers that cannot honor
// an option ignore it.
package llm

import (
	"context"
	"encoding/base64"

	"github.com/scttfrdmn/inquire/agent"
)

// LLM is the minimal interface for loop-LLM interaction.
//
// Every step of the research loop is a single blocking Complete call.
// The conversation is passed as a list of agent Messages, which the
// adapter converts to the provider's wire format. When tools are
// advertised via WithTools, the returned message may carry structured
// ToolCalls instead of (or alongside) text content.
//
// Example:
//
//	client := NewOpenAILLM("sk-...", "gpt-4o")
//	messages := []*agent.Message{
//	    agent.NewMessage("user", "What is 2+2?"),
//	}
//	response, err := client.Complete(ctx, messages, WithTemperature(0.2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(response.Content)
type LLM interface {
	// Complete generates a single completion from the LLM.
	//
	// Returns a response message with Role "assistant". If the LLM
	// requested tool invocations, the response's ToolCalls field is
	// populated and Content may be empty. Metadata carries
	// provider-specific data (usage stats, model name, finish reason).
	Complete(ctx context.Context, messages []*agent.Message, opts ...CallOption) (*agent.Message, error)

	// Model returns the model identifier for this LLM instance.
	Model() string

	// Unwrap returns the underlying provider client for advanced features.
	// Using Unwrap breaks provider portability.
	Unwrap() interface{}
}

// Vision is implemented by adapters whose models accept inline images.
// The image-analysis and video-analysis tools depend on this interface
// rather than on a concrete provider.
type Vision interface {
	// Describe answers a single question grounded in the given images.
	Describe(ctx context.Context, question string, images []agent.ImagePart) (string, error)
}

// CallOptions holds provider-specific options for LLM calls.
type CallOptions struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64

	// Tools to advertise for this call. Providers without tool-calling
	// support ignore this and return plain text.
	Tools []agent.Tool

	// Provider-specific options
	Extra map[string]interface{}
}

// CallOption is a functional option for configuring LLM calls.
type CallOption func(*CallOptions)

// WithTemperature sets the sampling temperature (typically 0.0-2.0).
func WithTemperature(temperature float64) CallOption {
	return func(opts *CallOptions) {
		opts.Temperature = &temperature
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(maxTokens int) CallOption {
	return func(opts *CallOptions) {
		opts.MaxTokens = &maxTokens
	}
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(topP float64) CallOption {
	return func(opts *CallOptions) {
		opts.TopP = &topP
	}
}

// WithTools advertises tools the model may invoke for this call.
func WithTools(tools []agent.Tool) CallOption {
	return func(opts *CallOptions) {
		opts.Tools = tools
	}
}

// WithExtra adds a provider-specific option.
func WithExtra(key string, value interface{}) CallOption {
	return func(opts *CallOptions) {
		if opts.Extra == nil {
			opts.Extra = make(map[string]interface{})
		}
		opts.Extra[key] = value
	}
}

// base64Encode encodes raw bytes for inline image payloads.
func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// BuildCallOptions creates CallOptions from functional options.
func BuildCallOptions(opts ...CallOption) *CallOptions {
	options := &CallOptions{
		Extra: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
