package models

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

const DefaultOllamaHost = "http://localhost:11434"

// ---------------------------- Ollama -----------------------------------------

// OllamaLLM talks to a local Ollama server through /api/generate in non-streaming mode.
type OllamaLLM struct {
	Client       *ollama.Client
	Model        string
	PromptPrefix string
}

func NewOllamaLLM(host, model, promptPrefix string) (*OllamaLLM, error) {
	if strings.TrimSpace(host) == "" {
		host = DefaultOllamaHost
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}

	httpClient := &http.Client{
		Timeout: 120 * time.Second,
	}

	c := ollama.NewClient(u, httpClient)
	return &OllamaLLM{Client: c, Model: model, PromptPrefix: promptPrefix}, nil
}

func (o *OllamaLLM) Generate(ctx context.Context, prompt string) (string, error) {
	fullPrompt := prompt
	if o.PromptPrefix != "" {
		fullPrompt = fmt.Sprintf("%s\n\n%s", o.PromptPrefix, prompt)
	}

	stream := false
	req := &ollama.GenerateRequest{
		Model:  o.Model,
		Prompt: fullPrompt,
		Stream: &stream,
	}

	// With streaming disabled the callback fires once with the whole response.
	var text strings.Builder
	if err := o.Client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	return text.String(), nil
}

var _ Agent = (*OllamaLLM)(nil)
