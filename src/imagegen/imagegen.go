// Package imagegen turns text prompts into images returned as data URIs.
package imagegen

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned before any network call when the backend key is missing.
	ErrNotConfigured = errors.New("image backend API key is not configured")
	// ErrTimeout is returned when the backend did not answer within the configured ceiling.
	ErrTimeout = errors.New("image generation timed out")
	// ErrNoImage is returned when the backend answered without image data.
	ErrNoImage = errors.New("no image was generated")
)

// Generator produces one image for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError carries a non-success answer from the image backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.StatusCode, e.Body)
}
