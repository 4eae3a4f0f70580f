package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scttfrdmn/inquire/adapter/llm"
	"github.com/scttfrdmn/inquire/agent"
	"github.com/scttfrdmn/inquire/graph"
	"github.com/scttfrdmn/inquire/memory"
	"github.com/scttfrdmn/inquire/observability"
	"github.com/scttfrdmn/inquire/prompts"
	"github.com/scttfrdmn/inquire/tools"
)

// Node names of the research graph.
const (
	nodePlanner     = "planner"
	nodeExecutor    = "executor"
	nodeTools       = "tools"
	nodeVerificator = "verificator"
	nodeSynthesizer = "synthesizer"
)

// Config configures a research Agent.
type Config struct {
	// LLM is the model used for all loop prompts. Required.
	LLM llm.LLM

	// Tools is the registry advertised to the executor. Required; an
	// empty registry is allowed.
	Tools *tools.Registry

	// Prompts supplies the loop's prompt templates. Defaults to the
	// built-in registry.
	Prompts *prompts.Registry

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// MaxIterations caps graph node visits per question. Zero means
	// graph.DefaultMaxVisits.
	MaxIterations int

	// Store optionally mirrors every transcript append for later
	// inspection. Mirror failures are logged, never fatal.
	Store memory.Store

	// Metrics optionally records loop counters. Nil disables them.
	Metrics *observability.Metrics
}

// Agent answers open-ended questions by driving an LLM through a
// plan-execute-verify-synthesize graph.
type Agent struct {
	llm     llm.LLM
	tools   *tools.Registry
	prompts *prompts.Registry
	logger  *slog.Logger
	store   memory.Store
	metrics *observability.Metrics
	graph   *graph.Graph[*State]
}

// New builds a research Agent and wires its graph.
func New(cfg Config) (*Agent, error) {
	if cfg.LLM == nil {
		return nil, fmt.Errorf("research: LLM is required")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("research: tool registry is required")
	}
	if cfg.Prompts == nil {
		reg, err := prompts.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("research: %w", err)
		}
		cfg.Prompts = reg
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	maxVisits := cfg.MaxIterations
	if maxVisits <= 0 {
		maxVisits = graph.DefaultMaxVisits
	}

	a := &Agent{
		llm:     cfg.LLM,
		tools:   cfg.Tools,
		prompts: cfg.Prompts,
		logger:  cfg.Logger,
		store:   cfg.Store,
		metrics: cfg.Metrics,
	}

	g := graph.New[*State]("research",
		graph.WithMaxVisits[*State](maxVisits),
		graph.WithLogger[*State](cfg.Logger),
	)
	nodes := map[string]graph.Handler[*State]{
		nodePlanner:     a.runPlanner,
		nodeExecutor:    a.runExecutor,
		nodeTools:       a.runTools,
		nodeVerificator: a.runVerificator,
		nodeSynthesizer: a.runSynthesizer,
	}
	for name, handler := range nodes {
		node, run := name, handler
		counted := func(ctx context.Context, state *State) error {
			a.metrics.Iteration(ctx, node)
			return run(ctx, state)
		}
		if err := g.AddNode(node, counted); err != nil {
			return nil, fmt.Errorf("research: %w", err)
		}
	}

	g.AddEdge(nodePlanner, nodeExecutor)
	g.AddConditionalEdge(nodeExecutor, func(state *State) string {
		if last := state.LastMessage(); last != nil && last.HasToolCalls() {
			return nodeTools
		}
		return nodeVerificator
	})
	g.AddEdge(nodeTools, nodeVerificator)
	g.AddConditionalEdge(nodeVerificator, func(state *State) string {
		switch state.NextAction {
		case DecisionPlanner:
			return nodePlanner
		case DecisionSynthesizer:
			return nodeSynthesizer
		default:
			return nodeExecutor
		}
	})

	g.SetEntry(nodePlanner)
	g.SetExit(nodeSynthesizer)

	a.graph = g
	return a, nil
}

// Answer runs the full loop for one question and returns the final
// answer. Hitting the iteration ceiling is not fatal: the graph forces
// a last synthesis pass, and whatever answer that produced is returned.
func (a *Agent) Answer(ctx context.Context, question string) (string, error) {
	state := NewState(question)
	a.logger.Info("question received",
		"session_id", state.SessionID,
		"question_len", len(question))

	err := a.graph.Run(ctx, state)
	if err != nil {
		if errors.Is(err, graph.ErrCeilingReached) && state.FinalAnswer != "" {
			a.logger.Warn("iteration ceiling reached, returning forced synthesis",
				"session_id", state.SessionID)
			return state.FinalAnswer, nil
		}
		return "", fmt.Errorf("research: %w", err)
	}
	return state.FinalAnswer, nil
}

// runTools executes every tool call carried by the last executor reply
// and appends one tool message per call. Unknown tools and tool errors
// become error-text tool messages so the verificator sees the failure
// instead of the run aborting.
func (a *Agent) runTools(ctx context.Context, state *State) error {
	last := state.LastMessage()
	if last == nil || !last.HasToolCalls() {
		return nil
	}

	for _, call := range last.ToolCalls {
		tool, ok := a.tools.Get(call.Name)
		if !ok {
			a.metrics.ToolCall(ctx, call.Name, false)
			a.append(ctx, state, agent.NewToolMessage(call.ID, call.Name,
				fmt.Sprintf("Error: tool %q is not available", call.Name)))
			continue
		}

		result, err := tool.Execute(ctx, call.Arguments)
		if err != nil {
			a.metrics.ToolCall(ctx, call.Name, false)
			a.logger.Warn("tool failed",
				"session_id", state.SessionID,
				"tool", call.Name,
				"error", err)
			a.append(ctx, state, agent.NewToolMessage(call.ID, call.Name,
				fmt.Sprintf("Error: %v", err)))
			continue
		}

		a.metrics.ToolCall(ctx, call.Name, result.Success)
		a.append(ctx, state, agent.NewToolMessage(call.ID, call.Name, result.Text()))
	}
	return nil
}

// complete sends a single-user-message prompt to the LLM.
func (a *Agent) complete(ctx context.Context, prompt string, opts []llm.CallOption) (*agent.Message, error) {
	a.metrics.LLMCall(ctx, a.llm.Model())
	reply, err := a.llm.Complete(ctx, []*agent.Message{agent.NewMessage("user", prompt)}, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}
	return reply, nil
}

// append is the single write path into the transcript. Every node goes
// through it, so the transcript and its mirror stay consistent.
func (a *Agent) append(ctx context.Context, state *State, msg *agent.Message) {
	state.Append(msg)
	if a.store == nil {
		return
	}
	if err := a.store.Append(ctx, state.SessionID, msg); err != nil {
		a.logger.Warn("transcript mirror failed",
			"session_id", state.SessionID,
			"error", err)
	}
}
