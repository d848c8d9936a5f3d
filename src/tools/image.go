package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	agent "github.com/Protocol-Lattice/chat-agent"
	"github.com/Protocol-Lattice/chat-agent/src/imagegen"
)

// ImageTool generates an image from the "prompt" param.
type ImageTool struct {
	Generator imagegen.Generator
}

func (i *ImageTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{Name: agent.ToolGenerateImage, Description: "Generate an image based on a text description"}
}

func (i *ImageTool) Invoke(ctx context.Context, params agent.Params) (any, error) {
	prompt := strings.TrimSpace(params.String("prompt"))
	if prompt == "" {
		return nil, errors.New("Image generation failed: prompt is required")
	}
	if i.Generator == nil {
		return nil, fmt.Errorf("Image generation failed: %w", imagegen.ErrNotConfigured)
	}
	image, err := i.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("Image generation failed: %w", err)
	}
	return agent.ImageResult{Image: image}, nil
}
