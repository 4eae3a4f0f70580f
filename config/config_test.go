package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderGemini)
	}
	if cfg.MaxIterations != 25 {
		t.Errorf("MaxIterations = %d, want 25", cfg.MaxIterations)
	}
	if cfg.ToolTimeout != 60*time.Second {
		t.Errorf("ToolTimeout = %v, want 60s", cfg.ToolTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INQUIRE_PROVIDER", ProviderOpenAI)
	t.Setenv("INQUIRE_MAX_ITERATIONS", "7")
	t.Setenv("INQUIRE_TOOL_TIMEOUT_SECONDS", "5")
	t.Setenv("INQUIRE_TRACE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("MaxIterations = %d", cfg.MaxIterations)
	}
	if cfg.ToolTimeout != 5*time.Second {
		t.Errorf("ToolTimeout = %v", cfg.ToolTimeout)
	}
	if !cfg.Trace {
		t.Error("Trace = false, want true")
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("INQUIRE_PROVIDER", "mystery")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoadRejectsBadInteger(t *testing.T) {
	t.Setenv("INQUIRE_MAX_ITERATIONS", "many")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-integer max iterations")
	}
}
