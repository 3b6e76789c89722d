package agent

import (
	"github.com/fkayakent/recipe-pipeline/pkg/completion"
	loggerpkg "github.com/fkayakent/recipe-pipeline/pkg/logger"
	"github.com/fkayakent/recipe-pipeline/pkg/persona"
)

// AgentOption configures optional runtime dependencies for AgentLoop.
type AgentOption func(*agentDeps)

type agentDeps struct {
	logger    loggerpkg.Logger
	completer completion.Completer
	persona   *persona.Persona
	onTool    func(name string)
	sessionID string
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) AgentOption {
	return func(d *agentDeps) {
		d.logger = l
	}
}

// WithCompleter replaces the provider selected from the config.
func WithCompleter(c completion.Completer) AgentOption {
	return func(d *agentDeps) {
		d.completer = c
	}
}

// WithPersona overrides the persona loaded from the config.
func WithPersona(p persona.Persona) AgentOption {
	return func(d *agentDeps) {
		d.persona = &p
	}
}

// WithToolObserver registers fn to be called with the tool name before each dispatch.
func WithToolObserver(fn func(name string)) AgentOption {
	return func(d *agentDeps) {
		d.onTool = fn
	}
}

// WithSessionID fixes the session id instead of generating one.
func WithSessionID(id string) AgentOption {
	return func(d *agentDeps) {
		d.sessionID = id
	}
}
