package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fkayakent/recipe-pipeline/pkg/agent"
	"github.com/fkayakent/recipe-pipeline/pkg/completion"
	loggerpkg "github.com/fkayakent/recipe-pipeline/pkg/logger"
)

const rule = "============================================================"

// replOptions configures REPL behavior.
type replOptions struct {
	Verbose bool
	Logger  loggerpkg.Logger
	Style   styler
}

// runREPL reads one line at a time and hands it to the agent until the user
// quits or input ends.
func runREPL(app *agent.AgentLoop, opts replOptions, in io.Reader, out io.Writer) error {
	if app == nil {
		return fmt.Errorf("agent loop is required")
	}
	if in == nil {
		return fmt.Errorf("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}

	loggerpkg.Debug(opts.Verbose, opts.Logger, "repl start", map[string]any{
		"session_id": app.SessionID(),
	})

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	printWelcome(app, opts.Style, out)

	for {
		_, _ = fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			_, _ = fmt.Fprintln(out, "Please enter a question or request.")
			_, _ = fmt.Fprintln(out)
			continue
		}

		if isQuit(input) {
			printFarewell(app, out)
			return nil
		}

		if strings.HasPrefix(input, "/") {
			handleCommand(input, app, opts.Style, out)
			continue
		}

		_, _ = fmt.Fprintln(out, opts.Style.dim("\n🤖 Agent thinking...\n"))
		reply, err := app.Run(input)
		if err != nil {
			printError(err, opts.Style, out)
			continue
		}
		printReply(app, reply, opts.Style, out)
	}

	if err := scanner.Err(); err != nil {
		loggerpkg.Error(opts.Logger, "read input failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// isQuit matches the exit words case-insensitively.
func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "bye", "/quit", "/exit", "/q":
		return true
	default:
		return false
	}
}

// toolNotifier prints a notice each time the model asks for a tool.
func toolNotifier(out io.Writer, style styler) func(name string) {
	return func(name string) {
		_, _ = fmt.Fprintln(out, style.dim(fmt.Sprintf("🔧 Using tool: %s", name)))
	}
}

func printWelcome(app *agent.AgentLoop, style styler, out io.Writer) {
	p := app.Persona()
	_, _ = fmt.Fprintln(out, rule)
	_, _ = fmt.Fprintln(out, style.title("👩‍🍳 "+strings.ToUpper(p.Name)))
	_, _ = fmt.Fprintln(out, rule)
	if p.Description != "" {
		_, _ = fmt.Fprintln(out, p.Description)
	}
	_, _ = fmt.Fprintln(out, "Type 'quit' to exit, '/help' for commands")
	_, _ = fmt.Fprintln(out, rule)
	_, _ = fmt.Fprintln(out)
}

func printFarewell(app *agent.AgentLoop, out io.Writer) {
	_, _ = fmt.Fprintf(out, "\n👋 %s\n\n", app.Persona().Farewell)
}

func printReply(app *agent.AgentLoop, reply agent.Reply, style styler, out io.Writer) {
	_, _ = fmt.Fprintf(out, "\n👩‍🍳 %s: %s\n\n", app.Persona().Name, style.reply(reply.Content))
}

func printError(err error, style styler, out io.Writer) {
	var cerr *completion.Error
	switch {
	case errors.As(err, &cerr):
		_, _ = fmt.Fprintln(out, style.err(fmt.Sprintf("Error: %v", err)))
		if cerr.Temporary() {
			_, _ = fmt.Fprintln(out, "The model endpoint did not answer. Type /retry to try again.")
		} else {
			_, _ = fmt.Fprintln(out, "Check your configuration, then type /retry to try again.")
		}
	case errors.Is(err, agent.ErrToolLoopExceeded):
		_, _ = fmt.Fprintln(out, style.err(fmt.Sprintf("Error: %v", err)))
		_, _ = fmt.Fprintln(out, "The assistant kept asking for tools. Try rephrasing your request.")
	default:
		_, _ = fmt.Fprintln(out, style.err(fmt.Sprintf("Error: %v", err)))
	}
	_, _ = fmt.Fprintln(out)
}

func handleCommand(input string, app *agent.AgentLoop, style styler, out io.Writer) {
	cmd := strings.ToLower(input)
	switch cmd {
	case "/help", "/h":
		printHelp(app, out)
	case "/retry", "/r":
		_, _ = fmt.Fprintln(out, style.dim("\n🤖 Agent thinking...\n"))
		reply, err := app.Retry()
		if errors.Is(err, agent.ErrNothingToRetry) {
			_, _ = fmt.Fprintln(out, "Nothing to retry.")
			_, _ = fmt.Fprintln(out)
			return
		}
		if err != nil {
			printError(err, style, out)
			return
		}
		printReply(app, reply, style, out)
	case "/history":
		printHistory(app, out)
	default:
		_, _ = fmt.Fprintf(out, "Unknown command: %s. Type /help for available commands.\n\n", input)
	}
}

func printHelp(app *agent.AgentLoop, out io.Writer) {
	_, _ = fmt.Fprintln(out, "Commands:")
	_, _ = fmt.Fprintln(out, "  /help    - Show this help message")
	_, _ = fmt.Fprintln(out, "  /retry   - Resend the conversation after an error")
	_, _ = fmt.Fprintln(out, "  /history - Show the conversation so far")
	_, _ = fmt.Fprintln(out, "  quit     - Exit the program (also exit, bye)")
	_, _ = fmt.Fprintln(out, "Tools the assistant can use:")
	for _, def := range app.Tools() {
		_, _ = fmt.Fprintf(out, "  %s(%s) - %s\n", def.Name, strings.Join(def.Parameters, ", "), def.Description)
	}
	_, _ = fmt.Fprintln(out)
}

// printHistory lists every transcript message with the first line of its text.
func printHistory(app *agent.AgentLoop, out io.Writer) {
	for i, msg := range app.Transcript() {
		line := msg.Text
		if idx := strings.IndexByte(line, '\n'); idx >= 0 {
			line = line[:idx] + " ..."
		}
		_, _ = fmt.Fprintf(out, "%3d %-9s %s\n", i, msg.Role, line)
	}
	_, _ = fmt.Fprintln(out)
}
