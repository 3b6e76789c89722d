package agent

import (
	"strings"
	"testing"

	configpkg "github.com/fkayakent/recipe-pipeline/pkg/config"
)

func TestNewDefaultsModelForProvider(t *testing.T) {
	cfg := configpkg.DefaultConfig()
	cfg.Provider = configpkg.ProviderAnthropic
	cfg.APIKey = "test-key"
	cfg.Model = "   "

	loop, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("expected New to succeed, got error: %v", err)
	}
	if loop.config.Model != "claude-3-5-haiku-latest" {
		t.Fatalf("expected anthropic default model, got %q", loop.config.Model)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := configpkg.DefaultConfig()

	_, err := New(nil, cfg)
	if err == nil || !strings.Contains(err.Error(), "APIKey is not set") {
		t.Fatalf("expected API key error, got: %v", err)
	}
}

func TestNewRejectsUnknownToolMode(t *testing.T) {
	cfg := configpkg.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.ToolMode = "fuzzy"

	if _, err := New(nil, cfg); err == nil {
		t.Fatal("expected error for unknown tool mode")
	}
}

func TestNewBuildsProviderFromConfig(t *testing.T) {
	cfg := configpkg.DefaultConfig()
	cfg.APIKey = "test-key"

	loop, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("expected New to succeed, got error: %v", err)
	}
	if loop == nil || loop.completer == nil {
		t.Fatal("expected completer to be initialized")
	}
	if len(loop.SessionID()) == 0 {
		t.Fatal("expected a generated session id")
	}
}

func TestNewLoadsPersonaFile(t *testing.T) {
	cfg := configpkg.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.PersonaFile = "/path/that/does/not/exist/PERSONA.md"

	if _, err := New(nil, cfg); err == nil || !strings.Contains(err.Error(), "load persona") {
		t.Fatalf("expected persona load error, got: %v", err)
	}
}
