package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	configpkg "github.com/fkayakent/recipe-pipeline/pkg/config"
)

// parseCLIConfig layers defaults, the optional YAML file, the environment and
// explicitly set flags, in that order.
func parseCLIConfig(args []string, getenv func(string) string, errOut io.Writer) (configpkg.Config, error) {
	defaults := configpkg.DefaultConfig()

	fs := flag.NewFlagSet("recipe-agent", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configFile := fs.String("config", "", "Path to a YAML config file")
	provider := fs.String("provider", defaults.Provider, "Completion provider: openai or anthropic")
	model := fs.String("model", defaults.Model, "Model name (defaults per provider)")
	baseURL := fs.String("base_url", defaults.BaseURL, "Override the provider endpoint (OpenAI-compatible servers, proxies)")
	temperature := fs.Float64("temperature", defaults.Temperature, "Sampling temperature")
	maxToolCalls := fs.Int("max_tool_calls", defaults.MaxToolCalls, "Max tool calls per message before giving up")
	timeout := fs.Duration("timeout", defaults.Timeout, "Timeout for each completion request")
	toolMode := fs.String("tool_mode", defaults.ToolMode, "Tool request detection: strict or legacy")
	render := fs.Bool("render", defaults.Render, "Render replies as markdown when stdout is a terminal")
	verbose := fs.Bool("verbose", defaults.Verbose, "Verbose logging to stderr")
	personaFile := fs.String("persona", defaults.PersonaFile, "Markdown persona file with YAML front matter")
	if err := fs.Parse(args); err != nil {
		return configpkg.Config{}, err
	}
	if fs.NArg() > 0 {
		return configpkg.Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := defaults
	if path := strings.TrimSpace(*configFile); path != "" {
		loaded, err := configpkg.LoadFile(cfg, path)
		if err != nil {
			return configpkg.Config{}, err
		}
		cfg = loaded
	}

	// The provider decides which credential variables apply, so it is settled
	// (file, then environment, then -provider) before they are read.
	cfg = configpkg.ApplyEnvProvider(cfg, getenv)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "provider" {
			cfg.Provider = *provider
		}
	})
	cfg = configpkg.ApplyEnvCredentials(cfg, getenv)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model = *model
		case "base_url":
			cfg.BaseURL = *baseURL
		case "temperature":
			cfg.Temperature = *temperature
		case "max_tool_calls":
			cfg.MaxToolCalls = *maxToolCalls
		case "timeout":
			cfg.Timeout = *timeout
		case "tool_mode":
			cfg.ToolMode = *toolMode
		case "render":
			cfg.Render = *render
		case "verbose":
			cfg.Verbose = *verbose
		case "persona":
			cfg.PersonaFile = *personaFile
		}
	})

	cfg = configpkg.Normalize(cfg)
	if err := configpkg.Validate(cfg); err != nil {
		return configpkg.Config{}, err
	}
	if cfg.Timeout < time.Second {
		return configpkg.Config{}, fmt.Errorf("timeout too short: %s", cfg.Timeout)
	}
	return cfg, nil
}
