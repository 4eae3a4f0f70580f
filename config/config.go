// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted by ProviderName.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config carries every runtime setting the agent needs. Values come
// from environment variables with sensible defaults; only credentials
// are validated lazily, by the provider adapters themselves.
type Config struct {
	// Provider selects the LLM backend: openai, gemini, anthropic or
	// bedrock. Default gemini.
	Provider string

	// Model overrides the provider's default model when non-empty.
	Model string

	// OpenAIAPIKey, OpenAIBaseURL configure the OpenAI adapter. The
	// base URL also points the adapter at OpenAI-compatible servers.
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// GeminiAPIKey configures the Gemini adapter.
	GeminiAPIKey string

	// AnthropicAPIKey configures the Anthropic adapter.
	AnthropicAPIKey string

	// BedrockRegion and BedrockProfile configure the AWS Bedrock
	// adapter.
	BedrockRegion  string
	BedrockProfile string

	// MaxIterations caps loop node visits per question.
	MaxIterations int

	// ToolTimeout bounds each tool execution.
	ToolTimeout time.Duration

	// RedisAddr enables the Redis transcript mirror when non-empty.
	RedisAddr string

	// PromptOverrides optionally points at a YAML file replacing
	// built-in prompt texts.
	PromptOverrides string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Trace enables stdout span export.
	Trace bool
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:        getenv("INQUIRE_PROVIDER", ProviderGemini),
		Model:           os.Getenv("INQUIRE_MODEL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		BedrockRegion:   getenv("AWS_REGION", "us-east-1"),
		BedrockProfile:  os.Getenv("AWS_PROFILE"),
		RedisAddr:       os.Getenv("INQUIRE_REDIS_ADDR"),
		PromptOverrides: os.Getenv("INQUIRE_PROMPT_OVERRIDES"),
		LogLevel:        getenv("INQUIRE_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MaxIterations, err = getenvInt("INQUIRE_MAX_ITERATIONS", 25); err != nil {
		return nil, err
	}
	toolTimeoutSecs, err := getenvInt("INQUIRE_TOOL_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.ToolTimeout = time.Duration(toolTimeoutSecs) * time.Second

	if cfg.Trace, err = getenvBool("INQUIRE_TRACE", false); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderBedrock:
	default:
		return nil, fmt.Errorf("config: unknown provider %q", cfg.Provider)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean", key, v)
	}
	return b, nil
}
