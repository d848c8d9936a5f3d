// Package httpapi exposes the agent and the image generator over HTTP.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	agent "github.com/Protocol-Lattice/chat-agent"
	"github.com/Protocol-Lattice/chat-agent/src/imagegen"
)

const (
	DefaultMaxRequestBodyBytes = 1 << 20
	defaultImageTimeout        = imagegen.DefaultTimeout
)

// Dispatcher is the part of *agent.Agent the handlers depend on.
type Dispatcher interface {
	Process(ctx context.Context, prompt string) (*agent.Envelope, error)
	Chat(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	MaxRequestBodyBytes int64
	// ImageTimeout is only used to word the 504 message; the generator enforces the deadline.
	ImageTimeout time.Duration
	Logger       *slog.Logger
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxRequestBodyBytes <= 0 {
		cfg.MaxRequestBodyBytes = DefaultMaxRequestBodyBytes
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = defaultImageTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}

type handlers struct {
	agent  Dispatcher
	images imagegen.Generator
	cfg    Config
}

func NewRouter(dispatcher Dispatcher, images imagegen.Generator, cfg Config) http.Handler {
	h := &handlers{
		agent:  dispatcher,
		images: images,
		cfg:    normalizeConfig(cfg),
	}

	limitBody := bodyLimit(h.cfg.MaxRequestBodyBytes)

	mux := http.NewServeMux()
	mux.Handle("POST /api/agent", limitBody(http.HandlerFunc(h.handleAgent)))
	mux.Handle("POST /api/generate-image", limitBody(http.HandlerFunc(h.handleGenerateImage)))
	return mux
}

func bodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
