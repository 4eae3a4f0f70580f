package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRegistryValidatesBuiltins(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	if len(registry.Names()) == 0 {
		t.Fatal("Expected built-in templates")
	}
}

func TestRenderSubstitutesVariables(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	rendered, err := registry.Render(FinalAnswerPrompt, map[string]string{
		"summary": "the answer is four",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(rendered, "the answer is four") {
		t.Error("Expected summary to be substituted into the template")
	}
	if strings.Contains(rendered, "{summary}") {
		t.Error("Placeholder was not replaced")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	_, err = registry.Render("NO_SUCH_PROMPT", nil)
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("Expected ErrUnknownTemplate, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "NO_SUCH_PROMPT") {
		t.Errorf("Error should name the missing template, got %v", err)
	}
}

func TestRenderMissingRequiredVariable(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	_, err = registry.Render(PlannerPrompt, map[string]string{"question": "What is 2+2?"})
	if err == nil {
		t.Fatal("Expected error for missing 'tools' variable")
	}
	if !strings.Contains(err.Error(), "tools") {
		t.Errorf("Error should name the missing variable, got %v", err)
	}
}

func TestWithOverrides(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	path := filepath.Join(t.TempDir(), "prompts.yaml")
	override := "FINAL_ANSWER_PROMPT: |\n  Short answer for {summary}\n"
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("Failed to write override file: %v", err)
	}

	overridden, err := registry.WithOverrides(path)
	if err != nil {
		t.Fatalf("WithOverrides failed: %v", err)
	}

	rendered, err := overridden.Render(FinalAnswerPrompt, map[string]string{"summary": "x"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(rendered, "Short answer for x") {
		t.Errorf("Expected overridden text, got %q", rendered)
	}
}

func TestWithOverridesRejectsDroppedVariable(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	path := filepath.Join(t.TempDir(), "prompts.yaml")
	// Override drops the required {summary} placeholder.
	override := "FINAL_ANSWER_PROMPT: Just answer.\n"
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("Failed to write override file: %v", err)
	}

	if _, err := registry.WithOverrides(path); err == nil {
		t.Fatal("Expected validation error for override missing a declared variable")
	}
}

func TestWithOverridesRejectsUnknownName(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("BOGUS_PROMPT: hi\n"), 0o644); err != nil {
		t.Fatalf("Failed to write override file: %v", err)
	}

	if _, err := registry.WithOverrides(path); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("Expected ErrUnknownTemplate, got %v", err)
	}
}
