// Package agent dispatches free-text prompts to a fixed set of tools chosen by a
// language model and shapes the outcome for the chat UI.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Protocol-Lattice/chat-agent/src/models"
)

// Agent runs the single-step tool-selection pipeline:
// compose, complete, parse, execute, format, envelope.
type Agent struct {
	model   models.Agent
	catalog *ToolCatalog
	logger  *slog.Logger
}

// Options configure a new Agent.
type Options struct {
	Model  models.Agent
	Tools  []Tool
	Logger *slog.Logger
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}
	catalog, err := NewToolCatalog(opts.Tools)
	if err != nil {
		return nil, fmt.Errorf("agent tools: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Agent{model: opts.Model, catalog: catalog, logger: logger}, nil
}

// ToolSpecs returns the registered tools in prompt order.
func (a *Agent) ToolSpecs() []ToolSpec {
	return a.catalog.Specs()
}

// Process asks the model to pick a tool for prompt, runs it once and returns
// the response envelope. Any stage failure aborts the request; nothing is retried.
func (a *Agent) Process(ctx context.Context, prompt string) (*Envelope, error) {
	start := time.Now()
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrValidation)
	}

	completion, load, err := a.complete(ctx, ComposePrompt(a.catalog.Specs(), prompt))
	if err != nil {
		return nil, err
	}

	decision, err := ParseDecision(completion)
	if err != nil {
		a.logger.Warn("model returned an unusable decision", slog.Any("error", err), slog.String("completion", completion))
		return nil, err
	}
	a.logger.Debug("tool selected", slog.String("tool", string(decision.Tool)), slog.Any("params", decision.Params))

	result, err := a.execute(ctx, decision)
	if err != nil {
		a.logger.Warn("tool failed", slog.String("tool", string(decision.Tool)), slog.Any("error", err))
		return nil, err
	}

	msg := FormatMessage(decision, result)
	total := time.Since(start)
	a.logger.Debug("prompt processed",
		slog.String("tool", string(decision.Tool)),
		slog.Duration("total", total),
		slog.Duration("load", load),
	)
	return buildEnvelope(decision, msg, result, total, load), nil
}

// Chat forwards prompt to the model as-is and returns the raw completion.
func (a *Agent) Chat(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	text, _, err := a.complete(ctx, prompt)
	return text, err
}

// complete performs exactly one completion call and measures it.
func (a *Agent) complete(ctx context.Context, prompt string) (string, time.Duration, error) {
	start := time.Now()
	text, err := a.model.Generate(ctx, prompt)
	load := time.Since(start)
	if err != nil {
		a.logger.Warn("completion failed", slog.Any("error", err), slog.Duration("elapsed", load))
		return "", load, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return text, load, nil
}

// execute runs the decision's tool with its params passed through unvalidated.
func (a *Agent) execute(ctx context.Context, d Decision) (any, error) {
	tool, ok := a.catalog.Lookup(d.Tool)
	if !ok {
		return nil, &UnknownToolError{Name: string(d.Tool)}
	}
	params := d.Params
	if params == nil {
		params = Params{}
	}
	result, err := tool.Invoke(ctx, params)
	if err != nil {
		return nil, &ToolError{Tool: d.Tool, Err: err}
	}
	return result, nil
}
