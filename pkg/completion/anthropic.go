package completion

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fkayakent/recipe-pipeline/pkg/transcript"
)

const anthropicMaxTokens = 4096

// Anthropic completes transcripts with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	opts   Options
}

// NewAnthropic builds an Anthropic-backed Completer. Requests are not retried.
func NewAnthropic(opts Options) *Anthropic {
	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	return &Anthropic{client: anthropic.NewClient(reqOpts...), opts: opts}
}

func (p *Anthropic) Complete(ctx context.Context, messages []transcript.Message) (string, error) {
	callCtx, cancel := withTimeout(ctx, p.opts.Timeout)
	defer cancel()

	resp, err := p.client.Messages.New(callCtx, p.newParams(messages))
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", classify("anthropic", callCtx, status, err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.AsText().Text)
		}
	}
	if len(parts) == 0 {
		return "", classify("anthropic", callCtx, 0, errEmptyReply)
	}
	return strings.Join(parts, "\n"), nil
}

func (p *Anthropic) newParams(messages []transcript.Message) anthropic.MessageNewParams {
	system, rest := splitSystem(messages)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.opts.Model),
		MaxTokens:   anthropicMaxTokens,
		Messages:    toAnthropicMessages(rest),
		Temperature: anthropic.Float(p.opts.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

// splitSystem separates the leading system instruction from the conversation.
func splitSystem(messages []transcript.Message) (string, []transcript.Message) {
	if len(messages) > 0 && messages[0].Role == transcript.RoleSystem {
		return messages[0].Text, messages[1:]
	}
	return "", messages
}

// toAnthropicMessages converts the conversation after the system instruction.
// The Messages API has no mid-conversation system role, so later system
// messages travel as user text tagged with [system].
func toAnthropicMessages(messages []transcript.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case transcript.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		case transcript.RoleSystem:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock("[system] "+m.Text)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	return out
}
