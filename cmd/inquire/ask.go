package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/agent"
	"github.com/scttfrdmn/inquire/config"
	"github.com/scttfrdmn/inquire/memory"
	"github.com/scttfrdmn/inquire/middleware"
	"github.com/scttfrdmn/inquire/observability"
	"github.com/scttfrdmn/inquire/prompts"
	"github.com/scttfrdmn/inquire/research"
	"github.com/scttfrdmn/inquire/tools"
)

func newAskCmd() *cobra.Command {
	var (
		provider      string
		model         string
		maxIterations int
		redisAddr     string
		trace         bool
	)

	cmd := &cobra.Command{
		Use:   "ask \"question\"",
		Short: "Answer a question with the research loop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Flags override the environment.
			if provider != "" {
				cfg.Provider = provider
			}
			if model != "" {
				cfg.Model = model
			}
			if maxIterations > 0 {
				cfg.MaxIterations = maxIterations
			}
			if redisAddr != "" {
				cfg.RedisAddr = redisAddr
			}
			if trace {
				cfg.Trace = true
			}
			return runAsk(cmd.Context(), cfg, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: openai, gemini, anthropic or bedrock")
	cmd.Flags().StringVar(&model, "model", "", "model name override")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "loop iteration ceiling")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for transcript mirroring")
	cmd.Flags().BoolVar(&trace, "trace", false, "export spans to stdout")
	return cmd
}

func runAsk(ctx context.Context, cfg *config.Config, question string, cmd *cobra.Command) error {
	logger := observability.NewLogger(parseLevel(cfg.LogLevel))

	if cfg.Trace {
		shutdown, err := observability.SetupTracing("inquire")
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("trace shutdown failed", "error", err)
			}
		}()
	}

	model, closeModel, err := buildModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeModel()

	promptRegistry, err := prompts.NewRegistry()
	if err != nil {
		return err
	}
	if cfg.PromptOverrides != "" {
		promptRegistry, err = promptRegistry.WithOverrides(cfg.PromptOverrides)
		if err != nil {
			return fmt.Errorf("load prompt overrides: %w", err)
		}
	}

	registry, err := buildTools(ctx, cfg, model, promptRegistry, logger)
	if err != nil {
		return err
	}

	var store memory.Store
	if cfg.RedisAddr != "" {
		redisStore := memory.NewRedisStore(cfg.RedisAddr)
		defer redisStore.Close()
		store = redisStore
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	a, err := research.New(research.Config{
		LLM:           model,
		Tools:         registry,
		Prompts:       promptRegistry,
		Logger:        logger,
		MaxIterations: cfg.MaxIterations,
		Store:         store,
		Metrics:       metrics,
	})
	if err != nil {
		return err
	}

	answer, err := a.Answer(ctx, question)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

// buildModel constructs the configured LLM adapter and a close func.
func buildModel(ctx context.Context, cfg *config.Config) (llm.LLM, func(), error) {
	noop := func() {}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIBaseURL != "" {
			return llm.NewOpenAILLMWithBaseURL(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL), noop, nil
		}
		return llm.NewOpenAILLM(cfg.OpenAIAPIKey, cfg.Model), noop, nil
	case config.ProviderGemini:
		m, err := llm.NewGeminiLLM(cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { _ = m.Close() }, nil
	case config.ProviderAnthropic:
		return llm.NewAnthropicLLM(cfg.AnthropicAPIKey, cfg.Model), noop, nil
	case config.ProviderBedrock:
		m, err := llm.NewBedrockLLM(ctx, llm.BedrockConfig{
			ModelID: cfg.Model,
			Region:  cfg.BedrockRegion,
			Profile: cfg.BedrockProfile,
		})
		return m, noop, err
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// buildTools assembles the tool registry. Vision and transcription
// tools are registered only when the configuration can back them.
func buildTools(ctx context.Context, cfg *config.Config, model llm.LLM, promptRegistry *prompts.Registry, logger *slog.Logger) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	wrap := func(tool agent.Tool) agent.Tool {
		return middleware.WithTimeout(tool, cfg.ToolTimeout)
	}

	base := []agent.Tool{
		tools.NewWebSearchTool(),
		tools.NewWikipediaTool(),
		tools.NewWebPageTool(),
		tools.NewDocumentTool(),
		tools.NewReadFileTool(),
		tools.NewYouTubeTool(),
		tools.NewFinalAnswerTool(model, promptRegistry),
	}

	if vision, ok := model.(llm.Vision); ok {
		base = append(base,
			tools.NewImageTool(vision),
			tools.NewVideoTool(vision),
		)
	} else {
		logger.Warn("provider has no vision support, image and video analysis disabled",
			"provider", cfg.Provider)
	}

	if transcriber := buildTranscriber(ctx, cfg, model); transcriber != nil {
		base = append(base, tools.NewTranscribeTool(transcriber))
	} else {
		logger.Warn("no transcription backend available, transcribe_media disabled")
	}

	for _, tool := range base {
		if err := registry.Register(wrap(tool)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// buildTranscriber returns a speech-to-text backend. Only the OpenAI
// adapter exposes one; other providers fall back to it when an OpenAI
// key is present.
func buildTranscriber(_ context.Context, cfg *config.Config, model llm.LLM) tools.Transcriber {
	if t, ok := model.(tools.Transcriber); ok {
		return t
	}
	if cfg.OpenAIAPIKey != "" {
		return llm.NewOpenAILLM(cfg.OpenAIAPIKey, "")
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
