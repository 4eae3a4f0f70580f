// Package graph provides a small directed-graph runner for agent
// control loops.
//
// A graph is a set of named node handlers connected by unconditional
// edges and conditional routers. Execution starts at the entry node and
// follows edges until the exit node completes. The only branching
// signal is the router's returned node name, so the calling package
// decides routing from its own state.
//
// Run enforces an iteration ceiling: once the visit budget is spent the
// graph force-routes to the exit node so a terminal result is still
// produced instead of looping forever.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxVisits bounds the total number of node executions per run.
const DefaultMaxVisits = 25

// ErrCeilingReached reports that a run spent its visit budget and was
// force-routed to the exit node.
var ErrCeilingReached = errors.New("graph iteration ceiling reached")

// Handler executes one node against the shared state.
type Handler[S any] func(ctx context.Context, state S) error

// Router picks the next node name from the shared state.
type Router[S any] func(state S) string

// Graph is a directed graph of named handlers with one entry and one
// exit node. Construction is not safe for concurrent use; Run may be
// called concurrently once the graph is built.
type Graph[S any] struct {
	name      string
	handlers  map[string]Handler[S]
	edges     map[string]string
	routers   map[string]Router[S]
	entry     string
	exit      string
	maxVisits int
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Option configures a Graph.
type Option[S any] func(*Graph[S])

// WithMaxVisits overrides the per-run node execution budget.
func WithMaxVisits[S any](n int) Option[S] {
	return func(g *Graph[S]) {
		if n > 0 {
			g.maxVisits = n
		}
	}
}

// WithLogger sets the logger used for per-node progress records.
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(g *Graph[S]) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates an empty graph with the given name.
func New[S any](name string, opts ...Option[S]) *Graph[S] {
	g := &Graph[S]{
		name:      name,
		handlers:  make(map[string]Handler[S]),
		edges:     make(map[string]string),
		routers:   make(map[string]Router[S]),
		maxVisits: DefaultMaxVisits,
		logger:    slog.Default(),
		tracer:    otel.Tracer("inquire/graph"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode registers a handler under a unique name.
func (g *Graph[S]) AddNode(name string, handler Handler[S]) error {
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for node %q cannot be nil", name)
	}
	if _, exists := g.handlers[name]; exists {
		return fmt.Errorf("node %q is already registered", name)
	}
	g.handlers[name] = handler
	return nil
}

// AddEdge wires an unconditional transition between two nodes.
func (g *Graph[S]) AddEdge(from, to string) {
	g.edges[from] = to
}

// AddConditionalEdge wires a router that picks the successor of a node
// from the shared state. A conditional edge takes precedence over an
// unconditional one on the same node.
func (g *Graph[S]) AddConditionalEdge(from string, router Router[S]) {
	g.routers[from] = router
}

// SetEntry marks the node execution starts from.
func (g *Graph[S]) SetEntry(name string) {
	g.entry = name
}

// SetExit marks the terminal node. Run returns after it completes.
func (g *Graph[S]) SetExit(name string) {
	g.exit = name
}

// validate checks the graph is runnable: entry and exit exist, and
// every edge endpoint resolves to a registered node.
func (g *Graph[S]) validate() error {
	if _, ok := g.handlers[g.entry]; !ok {
		return fmt.Errorf("graph %q: entry node %q is not registered", g.name, g.entry)
	}
	if _, ok := g.handlers[g.exit]; !ok {
		return fmt.Errorf("graph %q: exit node %q is not registered", g.name, g.exit)
	}
	for from, to := range g.edges {
		if _, ok := g.handlers[from]; !ok {
			return fmt.Errorf("graph %q: edge source %q is not registered", g.name, from)
		}
		if _, ok := g.handlers[to]; !ok {
			return fmt.Errorf("graph %q: edge target %q is not registered", g.name, to)
		}
	}
	return nil
}

// Run drives the graph from entry to exit against the given state.
//
// Each node executes inside its own span. A node error aborts the run.
// When the visit budget is exhausted before the exit node is reached,
// the exit node is executed once and Run returns an error wrapping
// ErrCeilingReached alongside the terminal result the exit node
// produced in the state.
func (g *Graph[S]) Run(ctx context.Context, state S) error {
	if err := g.validate(); err != nil {
		return err
	}

	current := g.entry
	forced := false
	for visits := 1; ; visits++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("graph %q cancelled at node %q: %w", g.name, current, err)
		}

		if err := g.runNode(ctx, current, visits, state); err != nil {
			return fmt.Errorf("graph %q: node %q failed: %w", g.name, current, err)
		}

		if current == g.exit {
			if forced {
				return fmt.Errorf("graph %q: %w after %d node visits", g.name, ErrCeilingReached, visits)
			}
			return nil
		}

		if visits >= g.maxVisits {
			g.logger.Warn("iteration ceiling reached, forcing exit node",
				"graph", g.name, "visits", visits, "exit", g.exit)
			current = g.exit
			forced = true
			continue
		}

		next, err := g.next(current, state)
		if err != nil {
			return err
		}
		current = next
	}
}

// runNode executes a single node inside a span.
func (g *Graph[S]) runNode(ctx context.Context, name string, visit int, state S) error {
	ctx, span := g.tracer.Start(ctx, "graph.node",
		trace.WithAttributes(
			attribute.String("graph.name", g.name),
			attribute.String("graph.node", name),
			attribute.Int("graph.visit", visit),
		))
	defer span.End()

	g.logger.Debug("running node", "graph", g.name, "node", name, "visit", visit)

	if err := g.handlers[name](ctx, state); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// next resolves the successor of a node.
func (g *Graph[S]) next(current string, state S) (string, error) {
	if router, ok := g.routers[current]; ok {
		next := router(state)
		if _, exists := g.handlers[next]; !exists {
			return "", fmt.Errorf("graph %q: router on %q chose unknown node %q", g.name, current, next)
		}
		return next, nil
	}
	if next, ok := g.edges[current]; ok {
		return next, nil
	}
	return "", fmt.Errorf("graph %q: node %q has no outgoing edge", g.name, current)
}
