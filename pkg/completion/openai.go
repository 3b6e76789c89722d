package completion

import (
	"context"
	"errors"

	"github.com/fkayakent/recipe-pipeline/pkg/transcript"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI completes transcripts with the Chat Completions API or any
// OpenAI-compatible endpoint.
type OpenAI struct {
	client openai.Client
	opts   Options
}

// NewOpenAI builds an OpenAI-backed Completer. Requests are not retried.
func NewOpenAI(opts Options) *OpenAI {
	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	return &OpenAI{client: openai.NewClient(reqOpts...), opts: opts}
}

func (p *OpenAI) Complete(ctx context.Context, messages []transcript.Message) (string, error) {
	callCtx, cancel := withTimeout(ctx, p.opts.Timeout)
	defer cancel()

	completion, err := p.client.Chat.Completions.New(callCtx, p.newParams(messages))
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", classify("openai", callCtx, status, err)
	}
	if len(completion.Choices) == 0 {
		return "", classify("openai", callCtx, 0, errEmptyReply)
	}
	return completion.Choices[0].Message.Content, nil
}

func (p *OpenAI) newParams(messages []transcript.Message) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.opts.Model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(p.opts.Temperature),
	}
}

// toOpenAIMessages converts transcript messages to the OpenAI SDK union.
func toOpenAIMessages(messages []transcript.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case transcript.RoleSystem:
			out = append(out, openai.SystemMessage(m.Text))
		case transcript.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Text))
		default:
			out = append(out, openai.UserMessage(m.Text))
		}
	}
	return out
}
