package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned when a hosted provider is selected without a key.
var ErrMissingAPIKey = errors.New("missing api key")

// ProviderConfig selects and parameterises a completion backend.
// APIKey and BaseURL apply to the hosted providers; an empty BaseURL keeps
// the SDK default.
type ProviderConfig struct {
	Provider     string
	Model        string
	OllamaHost   string
	APIKey       string
	BaseURL      string
	PromptPrefix string
}

// NewLLMProvider returns a concrete Agent.
func NewLLMProvider(ctx context.Context, cfg ProviderConfig) (Agent, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "ollama":
		return NewOllamaLLM(cfg.OllamaHost, cfg.Model, cfg.PromptPrefix)
	case "openai":
		return NewOpenAILLM(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.PromptPrefix)
	case "gemini":
		return NewGeminiLLM(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.PromptPrefix)
	case "anthropic":
		return NewAnthropicLLM(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.PromptPrefix)
	case "dummy":
		return NewDummyLLM(cfg.PromptPrefix), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// WithCache wraps agent in a CachedLLM when size is positive and returns it unchanged otherwise.
func WithCache(agent Agent, size int, ttl time.Duration) Agent {
	if size <= 0 {
		return agent
	}
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return NewCachedLLM(agent, size, ttl)
}

func joinPrompt(prefix, prompt string) string {
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		return prompt
	}
	return prefix + "\n\n" + prompt
}
