package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	agent "github.com/Protocol-Lattice/chat-agent"
	"github.com/Protocol-Lattice/chat-agent/src/config"
	"github.com/Protocol-Lattice/chat-agent/src/imagegen"
	"github.com/Protocol-Lattice/chat-agent/src/models"
	"github.com/Protocol-Lattice/chat-agent/src/todo"
	"github.com/Protocol-Lattice/chat-agent/src/tools"
	"github.com/Protocol-Lattice/chat-agent/src/weather"
)

// runtime is everything a request needs, built once at startup.
type runtime struct {
	agent  *agent.Agent
	images imagegen.Generator
	todos  todo.Store
}

func newRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*runtime, error) {
	model, err := models.NewLLMProvider(ctx, models.ProviderConfig{
		Provider:   cfg.ModelProvider,
		Model:      cfg.Model,
		OllamaHost: cfg.OllamaHost,
		APIKey:     cfg.ModelAPIKey(),
		BaseURL:    cfg.ModelBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("model provider: %w", err)
	}
	model = models.WithCache(model, cfg.CacheSize, cfg.CacheTTL)

	todos, err := newTodoStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("todo store: %w", err)
	}

	a, err := agent.New(agent.Options{
		Model: model,
		Tools: tools.Registry(tools.Deps{
			Todos:   todos,
			Weather: weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey),
			Images:  imagegen.NewGeminiGenerator(cfg.GeminiAPIKey),
		}),
		Logger: logger,
	})
	if err != nil {
		closeStore(todos)
		return nil, err
	}

	logger.Info("runtime ready",
		slog.String("provider", cfg.ModelProvider),
		slog.String("model", cfg.Model),
		slog.String("todo_store", string(cfg.TodoStore)),
		slog.String("tools", toolNames(a.ToolSpecs())),
	)

	return &runtime{
		agent:  a,
		images: imagegen.NewHuggingFaceGenerator(cfg.HuggingFaceAPIKey, cfg.HuggingFaceURL, cfg.ImageTimeout),
		todos:  todos,
	}, nil
}

func toolNames(specs []agent.ToolSpec) string {
	if len(specs) == 0 {
		return "<none>"
	}
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = string(spec.Name)
	}
	return strings.Join(names, ", ")
}

func newTodoStore(ctx context.Context, cfg config.Config) (todo.Store, error) {
	switch cfg.TodoStore {
	case config.TodoStoreMemory:
		return todo.NewInMemoryStore(), nil
	case config.TodoStorePostgres:
		return todo.NewPostgresStore(ctx, cfg.PostgresURL)
	case config.TodoStoreMongo:
		return todo.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, todo.DefaultMongoCollection)
	default:
		return nil, fmt.Errorf("unsupported todo store %q", cfg.TodoStore)
	}
}

func closeStore(store todo.Store) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
