package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultHuggingFaceURL = "https://router.huggingface.co/hf-inference/models/stabilityai/stable-diffusion-3-medium-diffusers"
	DefaultTimeout        = 30 * time.Second
)

type inferenceParameters struct {
	NumInferenceSteps  int     `json:"num_inference_steps"`
	GuidanceScale      float64 `json:"guidance_scale"`
	NegativePrompt     string  `json:"negative_prompt"`
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	NumImagesPerPrompt int     `json:"num_images_per_prompt"`
	OutputType         string  `json:"output_type"`
	Quality            int     `json:"quality"`
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

var defaultParameters = inferenceParameters{
	NumInferenceSteps:  30,
	GuidanceScale:      7.5,
	NegativePrompt:     "blurry, bad quality, distorted, deformed",
	Width:              512,
	Height:             512,
	NumImagesPerPrompt: 1,
	OutputType:         "jpeg",
	Quality:            85,
}

// HuggingFaceGenerator calls a hosted text-to-image inference endpoint.
type HuggingFaceGenerator struct {
	APIKey  string
	URL     string
	Timeout time.Duration
	HTTP    *http.Client
}

func NewHuggingFaceGenerator(apiKey, url string, timeout time.Duration) *HuggingFaceGenerator {
	if strings.TrimSpace(url) == "" {
		url = DefaultHuggingFaceURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HuggingFaceGenerator{APIKey: apiKey, URL: url, Timeout: timeout, HTTP: &http.Client{}}
}

func (h *HuggingFaceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(h.APIKey) == "" {
		return "", fmt.Errorf("%w: HUGGINGFACE_API_KEY is not set", ErrNotConfigured)
	}

	body, err := json.Marshal(inferenceRequest{Inputs: prompt, Parameters: defaultParameters})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := h.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", h.mapTransportError(ctx, reqCtx, err, timeout)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", h.mapTransportError(ctx, reqCtx, err, timeout)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// mapTransportError reports our own deadline as ErrTimeout; a caller's cancellation passes through.
func (h *HuggingFaceGenerator) mapTransportError(parent, reqCtx context.Context, err error, timeout time.Duration) error {
	if parent.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return fmt.Errorf("image request: %w", err)
}
