package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported completion providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// defaultModels is the model used per provider when none is configured.
var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// Tool detection modes.
const (
	ToolModeStrict = "strict"
	ToolModeLegacy = "legacy"
)

// Config holds all runtime configuration for the recipe agent.
type Config struct {
	Provider     string        `yaml:"provider"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"-"`
	Temperature  float64       `yaml:"temperature"`
	MaxToolCalls int           `yaml:"max_tool_calls"`
	Timeout      time.Duration `yaml:"timeout"`
	ToolMode     string        `yaml:"tool_mode"`
	Render       bool          `yaml:"render"`
	Verbose      bool          `yaml:"verbose"`
	PersonaFile  string        `yaml:"persona_file"`
}

// DefaultConfig returns a baseline configuration without side effects.
// Model is left empty so Normalize can pick one for the final provider.
func DefaultConfig() Config {
	return Config{
		Provider:     ProviderOpenAI,
		Temperature:  0.7,
		MaxToolCalls: 8,
		Timeout:      60 * time.Second,
		ToolMode:     ToolModeStrict,
		Render:       true,
	}
}

// LoadFile overlays the YAML file at path onto cfg.
// Keys missing from the file keep their value in cfg.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays the provider and its credentials from the environment onto cfg.
// getenv is usually os.Getenv.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	cfg = ApplyEnvProvider(cfg, getenv)
	return ApplyEnvCredentials(cfg, getenv)
}

// ApplyEnvProvider overlays RECIPE_AGENT_PROVIDER onto cfg.
func ApplyEnvProvider(cfg Config, getenv func(string) string) Config {
	if v := strings.TrimSpace(getenv("RECIPE_AGENT_PROVIDER")); v != "" {
		cfg.Provider = v
	}
	return cfg
}

// ApplyEnvCredentials overlays the key, endpoint and model variables of
// cfg.Provider. The provider must already be final.
func ApplyEnvCredentials(cfg Config, getenv func(string) string) Config {
	prefix := "OPENAI_"
	if strings.ToLower(strings.TrimSpace(cfg.Provider)) == ProviderAnthropic {
		prefix = "ANTHROPIC_"
	}
	if v := strings.TrimSpace(getenv(prefix + "API_KEY")); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(getenv(prefix + "BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(prefix + "MODEL")); v != "" {
		cfg.Model = v
	}
	return cfg
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.ToolMode = strings.ToLower(strings.TrimSpace(cfg.ToolMode))
	cfg.PersonaFile = strings.TrimSpace(cfg.PersonaFile)

	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if cfg.ToolMode == "" {
		cfg.ToolMode = ToolModeStrict
	}
	if cfg.MaxToolCalls <= 0 {
		cfg.MaxToolCalls = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = 0
	}
	return cfg
}

// Validate reports the first setting that prevents the agent from starting.
func Validate(cfg Config) error {
	switch cfg.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
	switch cfg.ToolMode {
	case ToolModeStrict, ToolModeLegacy:
	default:
		return fmt.Errorf("unknown tool mode: %q", cfg.ToolMode)
	}
	if cfg.APIKey == "" {
		return errors.New("APIKey is not set")
	}
	if cfg.Model == "" {
		return errors.New("Model is not set")
	}
	return nil
}
