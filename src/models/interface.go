package models

import "context"

// Agent is a text-completion backend: a composed prompt in, the completion text out.
type Agent interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
