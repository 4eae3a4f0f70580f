// Package prompts provides the prompt-template registry for the
// research loop.
//
// Templates are plain strings with {name} placeholders. The registry is
// built once at startup from the built-in set (optionally overridden
// from a YAML file) and is immutable afterwards. Construction validates
// every template: each declared variable must appear in the template
// text, so a broken override fails at load time rather than mid-run.
package prompts

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownTemplate is returned when a template name is not registered.
var ErrUnknownTemplate = errors.New("unknown prompt template")

// Template is a named prompt template with its required variables.
type Template struct {
	Name     string
	Text     string
	Required []string
}

// placeholderPattern matches {variable_name} placeholders.
var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Placeholders returns the distinct variable names appearing in the
// template text, sorted.
func (t Template) Placeholders() []string {
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.Text, -1) {
		seen[m[1]] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validate checks that every declared variable appears in the text.
func (t Template) validate() error {
	present := make(map[string]bool)
	for _, name := range t.Placeholders() {
		present[name] = true
	}
	for _, name := range t.Required {
		if !present[name] {
			return fmt.Errorf("template %q declares variable %q but the text never references it", t.Name, name)
		}
	}
	return nil
}

// Registry is an immutable lookup of prompt templates by name.
type Registry struct {
	templates map[string]Template
}

// NewRegistry builds a registry from the built-in template set.
func NewRegistry() (*Registry, error) {
	return newRegistry(builtinTemplates())
}

func newRegistry(templates []Template) (*Registry, error) {
	m := make(map[string]Template, len(templates))
	for _, t := range templates {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, exists := m[t.Name]; exists {
			return nil, fmt.Errorf("duplicate prompt template: %s", t.Name)
		}
		m[t.Name] = t
	}
	return &Registry{templates: m}, nil
}

// WithOverrides returns a new registry with template texts replaced
// from a YAML file mapping template names to texts. Overridden
// templates keep their declared variables and are re-validated;
// overriding an unknown name is an error.
func (r *Registry) WithOverrides(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt overrides: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse prompt overrides: %w", err)
	}

	templates := make([]Template, 0, len(r.templates))
	for name, t := range r.templates {
		if text, ok := overrides[name]; ok {
			t.Text = text
			delete(overrides, name)
		}
		templates = append(templates, t)
	}
	for name := range overrides {
		return nil, fmt.Errorf("%w: %s (override target does not exist)", ErrUnknownTemplate, name)
	}

	return newRegistry(templates)
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the template with the given name.
func (r *Registry) Get(name string) (Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Render substitutes vars into the named template. All of the
// template's declared variables must be supplied.
func (r *Registry) Render(name string, vars map[string]string) (string, error) {
	t, err := r.Get(name)
	if err != nil {
		return "", err
	}

	for _, required := range t.Required {
		if _, ok := vars[required]; !ok {
			return "", fmt.Errorf("template %q requires variable %q", name, required)
		}
	}

	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(t.Text), nil
}
