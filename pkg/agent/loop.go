package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fkayakent/recipe-pipeline/pkg/completion"
	configpkg "github.com/fkayakent/recipe-pipeline/pkg/config"
	loggerpkg "github.com/fkayakent/recipe-pipeline/pkg/logger"
	"github.com/fkayakent/recipe-pipeline/pkg/persona"
	"github.com/fkayakent/recipe-pipeline/pkg/toolcall"
	"github.com/fkayakent/recipe-pipeline/pkg/tools"
	"github.com/fkayakent/recipe-pipeline/pkg/transcript"
	"github.com/google/uuid"
)

const (
	toolResultPrefix   = "Tool result: "
	invalidToolMessage = "Invalid tool name"
)

var (
	// ErrToolLoopExceeded is returned when the model keeps requesting tools
	// past the configured limit for one human turn.
	ErrToolLoopExceeded = errors.New("tool loop exceeded")
	// ErrNothingToRetry is returned by Retry when the last turn already has a reply.
	ErrNothingToRetry = errors.New("nothing to retry")
)

// Reply is the assistant text surfaced for one human turn.
type Reply struct {
	Content   string
	ToolCalls int
}

// AgentLoop holds one chat session: its transcript and the collaborators
// that extend it.
type AgentLoop struct {
	config     configpkg.Config
	completer  completion.Completer
	tools      *tools.Registry
	detector   toolcall.Detector
	persona    persona.Persona
	transcript *transcript.Transcript
	sessionID  string
	onTool     func(name string)

	ctx     context.Context
	logger  loggerpkg.Logger
	verbose bool
}

// New initializes an AgentLoop with the provided context, config, and dependencies.
func New(ctx context.Context, cfg configpkg.Config, opts ...AgentOption) (*AgentLoop, error) {
	cfg = configpkg.Normalize(cfg)
	deps := agentDeps{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	if deps.logger == nil {
		deps.logger = loggerpkg.NopLogger{}
	}
	if deps.sessionID == "" {
		deps.sessionID = uuid.NewString()
	}
	logger := loggerpkg.With(deps.logger, map[string]any{"session_id": deps.sessionID})
	if ctx == nil {
		ctx = context.Background()
	}

	loggerpkg.Debug(cfg.Verbose, logger, "agent_loop init", map[string]any{
		"provider":       cfg.Provider,
		"model":          cfg.Model,
		"base_url":       cfg.BaseURL,
		"tool_mode":      cfg.ToolMode,
		"max_tool_calls": cfg.MaxToolCalls,
		"timeout":        cfg.Timeout.String(),
	})

	registry := tools.New(tools.Context{Verbose: cfg.Verbose, Logger: logger})
	detector, err := toolcall.ForMode(toolcall.Mode(cfg.ToolMode), registry.Has)
	if err != nil {
		return nil, err
	}

	completer := deps.completer
	if completer == nil {
		if err := configpkg.Validate(cfg); err != nil {
			return nil, err
		}
		if completer, err = completion.New(cfg); err != nil {
			return nil, err
		}
	}

	p := persona.Default()
	switch {
	case deps.persona != nil:
		p = *deps.persona
	case cfg.PersonaFile != "":
		if p, err = persona.Load(cfg.PersonaFile); err != nil {
			return nil, fmt.Errorf("load persona: %w", err)
		}
	}
	if strings.TrimSpace(p.Instructions) == "" {
		return nil, errors.New("system instructions are empty")
	}
	loggerpkg.Debug(cfg.Verbose, logger, "persona ready", map[string]any{
		"name":  p.Name,
		"path":  p.Path,
		"bytes": len(p.Instructions),
	})

	loggerpkg.Info(logger, "session started", map[string]any{
		"provider":  cfg.Provider,
		"model":     cfg.Model,
		"tool_mode": cfg.ToolMode,
	})

	return &AgentLoop{
		config:     cfg,
		completer:  completer,
		tools:      registry,
		detector:   detector,
		persona:    p,
		transcript: transcript.New(p.Instructions),
		sessionID:  deps.sessionID,
		onTool:     deps.onTool,

		ctx:     ctx,
		logger:  logger,
		verbose: cfg.Verbose,
	}, nil
}

// Run appends one human turn and drives completions until a reply can be
// surfaced. Everything appended along the way stays in the transcript, even
// when an error is returned.
func (a *AgentLoop) Run(userInput string) (Reply, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return Reply{}, errors.New("user input is required")
	}
	if err := a.transcript.Append(transcript.RoleHuman, userInput); err != nil {
		return Reply{}, err
	}
	return a.runIteration()
}

// Retry resumes a turn that ended in an error, without a new human message.
func (a *AgentLoop) Retry() (Reply, error) {
	if a.transcript.Last().Role == transcript.RoleAssistant || a.transcript.Len() == 1 {
		return Reply{}, ErrNothingToRetry
	}
	a.debugf("retry: resuming with %d messages", a.transcript.Len())
	return a.runIteration()
}

// runIteration alternates completions and tool dispatches for one human turn.
func (a *AgentLoop) runIteration() (Reply, error) {
	maxCalls := a.config.MaxToolCalls
	calls := 0

	for {
		a.debugf("iteration: completion with %d messages, tool calls %d/%d", a.transcript.Len(), calls, maxCalls)
		text, err := a.completer.Complete(a.ctx, a.transcript.Messages())
		if err != nil {
			loggerpkg.Warn(a.logger, "completion failed", map[string]any{"error": err.Error()})
			return Reply{ToolCalls: calls}, err
		}

		req, isTool := a.detector.Detect(text)
		if !isTool {
			if err := a.transcript.Append(transcript.RoleAssistant, text); err != nil {
				return Reply{}, err
			}
			a.debugf("iteration: surfaced reply after %d tool call(s)", calls)
			return Reply{Content: text, ToolCalls: calls}, nil
		}

		if calls >= maxCalls {
			loggerpkg.Warn(a.logger, "tool loop exceeded", map[string]any{
				"limit": maxCalls,
				"tool":  req.Name,
			})
			return Reply{ToolCalls: calls}, fmt.Errorf("%w: more than %d tool call(s) in one turn", ErrToolLoopExceeded, maxCalls)
		}
		calls++
		if err := a.dispatch(req); err != nil {
			return Reply{ToolCalls: calls}, err
		}
	}
}

// dispatch runs the requested builder and records its output as a system message.
func (a *AgentLoop) dispatch(req toolcall.Request) error {
	if a.onTool != nil {
		a.onTool(req.Name)
	}

	output, err := a.tools.Execute(req.Name, req.Input)
	if errors.Is(err, tools.ErrUnknownTool) {
		a.debugf("dispatch: unknown tool %q", req.Name)
		return a.transcript.Append(transcript.RoleSystem, invalidToolMessage)
	}
	if err != nil {
		return err
	}
	a.debugf("dispatch: %s returned %d bytes", req.Name, len(output))
	return a.transcript.Append(transcript.RoleSystem, toolResultPrefix+output)
}

// Transcript returns a copy of the conversation so far.
func (a *AgentLoop) Transcript() []transcript.Message {
	return a.transcript.Messages()
}

// Persona returns the persona the session was started with.
func (a *AgentLoop) Persona() persona.Persona {
	return a.persona
}

// SessionID identifies the session in logs.
func (a *AgentLoop) SessionID() string {
	return a.sessionID
}

// Tools lists the tools the model may request.
func (a *AgentLoop) Tools() []tools.Definition {
	return a.tools.Definitions()
}

func (a *AgentLoop) debugf(format string, args ...any) {
	loggerpkg.Debugf(a.verbose, a.logger, format, args...)
}
