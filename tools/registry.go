// Package tools provides the research agent's tool set: web search,
// Wikipedia lookup, page scraping, document and media analysis, and
// answer formatting.
package tools

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/scttfrdmn/inquire/agent"
)

// Registry holds the tools advertised to the LLM, keyed by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]agent.Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]agent.Tool)}
}

// Register adds a tool. Registering a duplicate name is an error so a
// misconfigured tool set fails at startup rather than shadowing.
func (r *Registry) Register(tool agent.Tool) error {
	if tool == nil {
		return fmt.Errorf("cannot register nil tool")
	}
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("cannot register tool with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (agent.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns every registered tool, sorted by name for stable
// advertising order.
func (r *Registry) All() []agent.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]agent.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Describe renders a "name: description" line per tool for embedding in
// planning prompts.
func (r *Registry) Describe() string {
	all := r.All()
	if len(all) == 0 {
		return "No tools available."
	}
	lines := make([]string, 0, len(all))
	for _, tool := range all {
		lines = append(lines, fmt.Sprintf("- %s: %s", tool.Name(), tool.Description()))
	}
	return strings.Join(lines, "\n")
}
