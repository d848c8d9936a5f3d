package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultGeminiModel   = "gemini-2.0-flash-exp-image-generation"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiHTTPTimeout    = 60 * time.Second
)

// The image model only returns inline image parts when IMAGE is among the
// requested response modalities.
var geminiModalities = []string{"TEXT", "IMAGE"}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// GeminiGenerator asks a Gemini image model for an inline image part through
// the generateContent REST endpoint.
type GeminiGenerator struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{
		APIKey:  apiKey,
		Model:   DefaultGeminiModel,
		BaseURL: DefaultGeminiBaseURL,
		HTTP:    &http.Client{Timeout: geminiHTTPTimeout},
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrNotConfigured)
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{ResponseModalities: geminiModalities},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return imageFromResponse(data)
}

func (g *GeminiGenerator) endpoint() string {
	base := strings.TrimRight(g.BaseURL, "/")
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return base + "/models/" + model + ":generateContent"
}

// imageFromResponse returns the first inline image part as a data URI.
func imageFromResponse(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", errors.New("invalid response from Gemini API")
	}
	parts := gjson.GetBytes(data, "candidates.0.content.parts")
	if !parts.IsArray() {
		return "", errors.New("invalid response from Gemini API")
	}
	for _, part := range parts.Array() {
		payload := part.Get("inlineData.data").String()
		if payload == "" {
			continue
		}
		mime := part.Get("inlineData.mimeType").String()
		if mime == "" {
			mime = "image/png"
		}
		return "data:" + mime + ";base64," + payload, nil
	}
	return "", ErrNoImage
}
