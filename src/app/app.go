// Package app owns runtime wiring and the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/Protocol-Lattice/chat-agent/src/config"
	"github.com/Protocol-Lattice/chat-agent/src/httpapi"
)

type App struct {
	cfg     config.Config
	logger  *slog.Logger
	runtime *runtime
	server  *http.Server
	ready   atomic.Bool
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("new app: nil logger")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new app config: %w", err)
	}

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("new app runtime: %w", err)
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		runtime: rt,
	}

	apiRouter := httpapi.NewRouter(rt.agent, rt.images, httpapi.Config{
		MaxRequestBodyBytes: cfg.MaxBodyBytes,
		ImageTimeout:        cfg.ImageTimeout,
		Logger:              logger,
	})
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/readyz", a.handleReadyz)
	mux.Handle("/", apiRouter)
	a.server = &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: requestLoggingMiddleware(logger)(mux),
	}

	return a, nil
}

// Handler exposes the full middleware chain, mostly for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Start() error {
	a.ready.Store(true)
	a.logger.Info("http server listening", slog.String("addr", a.cfg.HTTPAddr))

	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	a.ready.Store(false)
	return err
}

// Shutdown drains in-flight requests and then releases the todo store.
func (a *App) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return errors.New("shutdown: nil context")
	}
	a.ready.Store(false)

	err := a.server.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		a.logger.Warn("graceful shutdown timed out; forcing connection close")
		if closeErr := a.server.Close(); closeErr != nil {
			err = fmt.Errorf("shutdown timeout and forced close failed: %w", errors.Join(err, closeErr))
		} else {
			err = nil
		}
	}
	if storeErr := closeStore(a.runtime.todos); storeErr != nil {
		a.logger.Warn("closing todo store failed", slog.Any("error", storeErr))
		err = errors.Join(err, storeErr)
	}
	return err
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writePlain(w, http.StatusOK, "ok")
}

func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !a.ready.Load() || a.runtime == nil {
		writePlain(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writePlain(w, http.StatusOK, "ready")
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
