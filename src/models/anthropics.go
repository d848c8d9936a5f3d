package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

// AnthropicLLM completes prompts through the Messages API and returns the
// concatenated text blocks of the reply.
type AnthropicLLM struct {
	Client       *anthropic.Client
	Model        string
	MaxTokens    int64
	PromptPrefix string
}

func NewAnthropicLLM(apiKey, baseURL, model, promptPrefix string) (*AnthropicLLM, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
	}
	opts := []anthropicopt.RequestOption{anthropicopt.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicLLM{
		Client:       &client,
		Model:        model,
		MaxTokens:    anthropicMaxTokens,
		PromptPrefix: promptPrefix,
	}, nil
}

func (a *AnthropicLLM) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: a.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(joinPrompt(a.PromptPrefix, prompt))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var out strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("anthropic: no text in response")
	}
	return out.String(), nil
}

var _ Agent = (*AnthropicLLM)(nil)
