// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/Protocol-Lattice/chat-agent/src/imagegen"
	"github.com/Protocol-Lattice/chat-agent/src/models"
	"github.com/Protocol-Lattice/chat-agent/src/weather"
)

const (
	defaultHTTPAddr        = "127.0.0.1:3000"
	defaultShutdownTimeout = 5 * time.Second
	defaultLogFormat       = LogFormatText
	defaultLogLevel        = slog.LevelInfo
	defaultModelProvider   = "ollama"
	defaultModel           = "mistral"
	defaultMaxBodyBytes    = 1 << 20
	defaultTodoStore       = TodoStoreMongo
	defaultMongoURI        = "mongodb://localhost:27017"
	defaultMongoDatabase   = "chat-agent"
)

// ModelProviders lists the completion backends models.NewLLMProvider builds.
var ModelProviders = []string{"ollama", "openai", "gemini", "anthropic", "dummy"}

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

type TodoStore string

const (
	TodoStoreMongo    TodoStore = "mongo"
	TodoStorePostgres TodoStore = "postgres"
	TodoStoreMemory   TodoStore = "memory"
)

// Config controls server boot, backends and shutdown behavior.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogFormat       LogFormat
	LogLevel        slog.Level
	MaxBodyBytes    int64

	ModelProvider string
	Model         string
	OllamaHost    string
	ModelBaseURL  string
	CacheSize     int
	CacheTTL      time.Duration

	OpenAIAPIKey    string
	AnthropicAPIKey string

	WeatherAPIKey  string
	WeatherBaseURL string

	TodoStore     TodoStore
	MongoURI      string
	MongoDatabase string
	PostgresURL   string

	GeminiAPIKey      string
	HuggingFaceAPIKey string
	HuggingFaceURL    string
	ImageTimeout      time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a validated Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if addr := env("CHAT_AGENT_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if v := env("CHAT_AGENT_SHUTDOWN_TIMEOUT"); v != "" {
		parsed, err := parsePositiveDuration("CHAT_AGENT_SHUTDOWN_TIMEOUT", v)
		if err != nil {
			return Config{}, err
		}
		cfg.ShutdownTimeout = parsed
	}
	if level := env("CHAT_AGENT_LOG_LEVEL"); level != "" {
		parsed, err := parseLogLevel(level)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = parsed
	}
	if format := env("CHAT_AGENT_LOG_FORMAT"); format != "" {
		parsed, err := parseLogFormat(format)
		if err != nil {
			return Config{}, err
		}
		cfg.LogFormat = parsed
	}
	if v := env("CHAT_AGENT_MAX_BODY_BYTES"); v != "" {
		n, err := cast.ToInt64E(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("parse CHAT_AGENT_MAX_BODY_BYTES: value must be a positive integer")
		}
		cfg.MaxBodyBytes = n
	}

	if provider := env("CHAT_AGENT_MODEL_PROVIDER"); provider != "" {
		cfg.ModelProvider = strings.ToLower(provider)
	}
	if model := env("CHAT_AGENT_MODEL"); model != "" {
		cfg.Model = model
	}
	if host := env("OLLAMA_HOST"); host != "" {
		cfg.OllamaHost = host
	}
	cfg.ModelBaseURL = env("CHAT_AGENT_MODEL_BASE_URL")
	cfg.OpenAIAPIKey = firstNonEmpty(env("OPENAI_API_KEY"), env("OPENAI_KEY"))
	cfg.AnthropicAPIKey = env("ANTHROPIC_API_KEY")
	if v := env("AGENT_LLM_CACHE_SIZE"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("parse AGENT_LLM_CACHE_SIZE: value must be a non-negative integer")
		}
		cfg.CacheSize = n
	}
	if v := env("AGENT_LLM_CACHE_TTL"); v != "" {
		parsed, err := parsePositiveDuration("AGENT_LLM_CACHE_TTL", v)
		if err != nil {
			return Config{}, err
		}
		cfg.CacheTTL = parsed
	}

	cfg.WeatherAPIKey = env("OPENWEATHER_API_KEY")
	if baseURL := env("OPENWEATHER_BASE_URL"); baseURL != "" {
		cfg.WeatherBaseURL = baseURL
	}

	if store := env("CHAT_AGENT_TODO_STORE"); store != "" {
		cfg.TodoStore = TodoStore(strings.ToLower(store))
	}
	if uri := env("MONGODB_URI"); uri != "" {
		cfg.MongoURI = uri
	}
	if db := env("MONGODB_DATABASE"); db != "" {
		cfg.MongoDatabase = db
	}
	cfg.PostgresURL = env("POSTGRES_URL")

	cfg.GeminiAPIKey = firstNonEmpty(env("GEMINI_API_KEY"), env("GOOGLE_API_KEY"))
	cfg.HuggingFaceAPIKey = env("HUGGINGFACE_API_KEY")
	if u := env("HUGGINGFACE_MODEL_URL"); u != "" {
		cfg.HuggingFaceURL = u
	}
	if v := env("CHAT_AGENT_IMAGE_TIMEOUT"); v != "" {
		parsed, err := parsePositiveDuration("CHAT_AGENT_IMAGE_TIMEOUT", v)
		if err != nil {
			return Config{}, err
		}
		cfg.ImageTimeout = parsed
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Default() Config {
	return Config{
		HTTPAddr:        defaultHTTPAddr,
		ShutdownTimeout: defaultShutdownTimeout,
		LogFormat:       defaultLogFormat,
		LogLevel:        defaultLogLevel,
		MaxBodyBytes:    defaultMaxBodyBytes,
		ModelProvider:   defaultModelProvider,
		Model:           defaultModel,
		OllamaHost:      models.DefaultOllamaHost,
		WeatherBaseURL:  weather.DefaultBaseURL,
		TodoStore:       defaultTodoStore,
		MongoURI:        defaultMongoURI,
		MongoDatabase:   defaultMongoDatabase,
		HuggingFaceURL:  imagegen.DefaultHuggingFaceURL,
		ImageTimeout:    imagegen.DefaultTimeout,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("validate config: CHAT_AGENT_HTTP_ADDR must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("validate config: CHAT_AGENT_SHUTDOWN_TIMEOUT must be > 0")
	}

	if !slices.Contains(ModelProviders, c.ModelProvider) {
		return fmt.Errorf(
			"validate config: unsupported CHAT_AGENT_MODEL_PROVIDER %q (allowed: %s)",
			c.ModelProvider,
			strings.Join(ModelProviders, ", "),
		)
	}
	if strings.TrimSpace(c.Model) == "" && c.ModelProvider != "dummy" {
		return errors.New("validate config: CHAT_AGENT_MODEL must not be empty")
	}
	if keyVar := modelKeyVars[c.ModelProvider]; keyVar != "" && c.ModelAPIKey() == "" {
		return fmt.Errorf("validate config: provider %q requires %s", c.ModelProvider, keyVar)
	}

	switch c.TodoStore {
	case TodoStoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("validate config: mongo todo store requires MONGODB_URI and MONGODB_DATABASE")
		}
	case TodoStorePostgres:
		if c.PostgresURL == "" {
			return errors.New("validate config: postgres todo store requires POSTGRES_URL")
		}
	case TodoStoreMemory:
	default:
		return fmt.Errorf(
			"validate config: unsupported CHAT_AGENT_TODO_STORE %q (allowed: %q, %q, %q)",
			c.TodoStore,
			TodoStoreMongo,
			TodoStorePostgres,
			TodoStoreMemory,
		)
	}

	switch c.LogLevel {
	case slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError:
	default:
		return fmt.Errorf("validate config: unsupported CHAT_AGENT_LOG_LEVEL %q", c.LogLevel.String())
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf(
			"validate config: unsupported CHAT_AGENT_LOG_FORMAT %q (allowed: %q, %q)",
			c.LogFormat,
			LogFormatText,
			LogFormatJSON,
		)
	}
	if c.ImageTimeout <= 0 {
		return errors.New("validate config: CHAT_AGENT_IMAGE_TIMEOUT must be > 0")
	}
	return nil
}

var modelKeyVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// ModelAPIKey returns the credential for the selected hosted provider, or ""
// for local providers.
func (c Config) ModelAPIKey() string {
	switch c.ModelProvider {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parsePositiveDuration(key, value string) (time.Duration, error) {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("parse %s: value must be > 0", key)
	}
	return parsed, nil
}

func parseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("parse CHAT_AGENT_LOG_LEVEL: unsupported value %q (allowed: debug, info, warn, error)", input)
	}
}

func parseLogFormat(input string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(LogFormatText):
		return LogFormatText, nil
	case string(LogFormatJSON):
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf(
			"parse CHAT_AGENT_LOG_FORMAT: unsupported value %q (allowed: %q, %q)",
			input,
			LogFormatText,
			LogFormatJSON,
		)
	}
}
