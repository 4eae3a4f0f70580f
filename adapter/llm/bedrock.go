package llm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/scttfrdmn/inquire/agent"
)

// BedrockLLM is an adapter for Amazon Bedrock foundation models.
//
// Uses the Converse API, so any text model available through Bedrock
// (Claude, Llama, Mistral, Titan) can back the loop's planning,
// verification, and synthesis calls. Like the Anthropic adapter it is
// text-only: advertised tools are ignored.
//
// Credentials resolve through the standard AWS chain (environment,
// shared config, IAM role).
//
// Example:
//
//	client, err := NewBedrockLLM(ctx, BedrockConfig{
//	    ModelID: "anthropic.claude-3-5-haiku-20241022-v1:0",
//	    Region:  "us-west-2",
//	})
type BedrockLLM struct {
	client  *bedrockruntime.Client
	modelID string
}

// BedrockConfig holds configuration for creating a Bedrock LLM adapter.
type BedrockConfig struct {
	// ModelID is the Bedrock model identifier.
	ModelID string

	// Region is the AWS region (default: us-east-1).
	Region string

	// Profile is the AWS profile name (optional).
	Profile string

	// EndpointURL is a custom endpoint URL for VPC endpoints (optional).
	EndpointURL string
}

// NewBedrockLLM creates a new Bedrock LLM adapter.
func NewBedrockLLM(ctx context.Context, cfg BedrockConfig) (*BedrockLLM, error) {
	if cfg.ModelID == "" {
		cfg.ModelID = "anthropic.claude-3-5-haiku-20241022-v1:0"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))
	if cfg.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*bedrockruntime.Options)
	if cfg.EndpointURL != "" {
		clientOpts = append(clientOpts, func(o *bedrockruntime.Options) {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		})
	}

	return &BedrockLLM{
		client:  bedrockruntime.NewFromConfig(awsConfig, clientOpts...),
		modelID: cfg.ModelID,
	}, nil
}

// Model returns the model identifier.
func (b *BedrockLLM) Model() string {
	return b.modelID
}

// Complete generates a completion via the Bedrock Converse API.
func (b *BedrockLLM) Complete(ctx context.Context, messages []*agent.Message, opts ...CallOption) (*agent.Message, error) {
	options := BuildCallOptions(opts...)

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.modelID),
	}

	inferenceConfig := &types.InferenceConfiguration{}
	if options.Temperature != nil {
		inferenceConfig.Temperature = aws.Float32(float32(*options.Temperature))
	}
	if options.MaxTokens != nil {
		inferenceConfig.MaxTokens = aws.Int32(int32(*options.MaxTokens))
	}
	if options.TopP != nil {
		inferenceConfig.TopP = aws.Float32(float32(*options.TopP))
	}
	input.InferenceConfig = inferenceConfig

	// Converse takes system text separately and alternating
	// user/assistant turns; tool transcript lines fold into user turns.
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			input.System = append(input.System, &types.SystemContentBlockMemberText{Value: msg.Content})
		case "assistant":
			input.Messages = append(input.Messages, types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
			})
		default:
			input.Messages = append(input.Messages, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
			})
		}
	}

	output, err := b.client.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse error: %w", err)
	}

	var content string
	if outMsg, ok := output.Output.(*types.ConverseOutputMemberMessage); ok {
		for _, block := range outMsg.Value.Content {
			if text, ok := block.(*types.ContentBlockMemberText); ok {
				content += text.Value
			}
		}
	}

	response := agent.NewMessage("assistant", content)
	response.Metadata["model"] = b.modelID
	response.Metadata["finish_reason"] = string(output.StopReason)
	if output.Usage != nil {
		response.Metadata["usage"] = map[string]interface{}{
			"prompt_tokens":     aws.ToInt32(output.Usage.InputTokens),
			"completion_tokens": aws.ToInt32(output.Usage.OutputTokens),
			"total_tokens":      aws.ToInt32(output.Usage.TotalTokens),
		}
	}

	return response, nil
}

// Unwrap returns the underlying Bedrock runtime client.
func (b *BedrockLLM) Unwrap() interface{} {
	return b.client
}
