package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	configpkg "github.com/fkayakent/recipe-pipeline/pkg/config"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseCLIConfigDefaults(t *testing.T) {
	cfg, err := parseCLIConfig(nil, envMap(map[string]string{"OPENAI_API_KEY": "sk"}), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "gpt-4o-mini" || cfg.ToolMode != configpkg.ToolModeStrict || cfg.APIKey != "sk" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseCLIConfigRequiresKey(t *testing.T) {
	_, err := parseCLIConfig(nil, envMap(nil), io.Discard)
	if err == nil || !strings.Contains(err.Error(), "APIKey is not set") {
		t.Fatalf("expected API key error, got %v", err)
	}
}

func TestParseCLIConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe-agent.yaml")
	content := "model: from-file\nmax_tool_calls: 4\ntool_mode: legacy\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	env := envMap(map[string]string{
		"OPENAI_API_KEY": "sk",
		"OPENAI_MODEL":   "from-env",
	})

	cfg, err := parseCLIConfig([]string{"-config", path, "-max_tool_calls", "2", "-timeout", "5s"}, env, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "from-env" {
		t.Fatalf("expected env to override file, got model %q", cfg.Model)
	}
	if cfg.MaxToolCalls != 2 || cfg.Timeout != 5*time.Second {
		t.Fatalf("expected flags to override file: %+v", cfg)
	}
	if cfg.ToolMode != configpkg.ToolModeLegacy {
		t.Fatalf("expected file tool mode to survive, got %q", cfg.ToolMode)
	}
}

func TestParseCLIConfigProviderFlagSelectsEnv(t *testing.T) {
	env := envMap(map[string]string{
		"OPENAI_API_KEY":    "sk",
		"ANTHROPIC_API_KEY": "ak",
		"ANTHROPIC_MODEL":   "claude-test",
	})
	cfg, err := parseCLIConfig([]string{"-provider", "anthropic"}, env, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != configpkg.ProviderAnthropic || cfg.APIKey != "ak" || cfg.Model != "claude-test" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseCLIConfigProviderFlagBeatsEnvProvider(t *testing.T) {
	env := envMap(map[string]string{
		"RECIPE_AGENT_PROVIDER": "openai",
		"OPENAI_API_KEY":        "sk",
		"OPENAI_MODEL":          "gpt-4.1",
		"ANTHROPIC_API_KEY":     "ak",
	})
	cfg, err := parseCLIConfig([]string{"-provider", "anthropic"}, env, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != configpkg.ProviderAnthropic {
		t.Fatalf("expected -provider to win, got %q", cfg.Provider)
	}
	if cfg.APIKey != "ak" {
		t.Fatalf("anthropic provider got key %q", cfg.APIKey)
	}
	if cfg.Model != configpkg.DefaultModel(configpkg.ProviderAnthropic) {
		t.Fatalf("expected anthropic default model, got %q", cfg.Model)
	}
}

func TestParseCLIConfigAnthropicDefaultModel(t *testing.T) {
	env := envMap(map[string]string{"ANTHROPIC_API_KEY": "ak"})
	cfg, err := parseCLIConfig([]string{"-provider", "anthropic"}, env, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "claude-3-5-haiku-latest" {
		t.Fatalf("expected anthropic default model, got %q", cfg.Model)
	}

	cfg, err = parseCLIConfig(nil, envMap(map[string]string{
		"RECIPE_AGENT_PROVIDER": "anthropic",
		"ANTHROPIC_API_KEY":     "ak",
	}), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != configpkg.ProviderAnthropic || cfg.Model != "claude-3-5-haiku-latest" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseCLIConfigRejectsBadInput(t *testing.T) {
	env := envMap(map[string]string{"OPENAI_API_KEY": "sk"})
	tests := [][]string{
		{"-tool_mode", "fuzzy"},
		{"-timeout", "10ms"},
		{"-config", "/path/that/does/not/exist.yaml"},
		{"-unknown"},
		{"stray"},
	}
	for _, args := range tests {
		if _, err := parseCLIConfig(args, env, io.Discard); err == nil {
			t.Fatalf("expected error for args %v", args)
		}
	}
}
