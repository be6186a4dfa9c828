package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	"github.com/jwebster45206/realm-engine/pkg/progression"
)

// Avatar generation modes.
const (
	AvatarModeInline = "inline" // goroutines in the API process
	AvatarModeQueue  = "queue"  // jobs go to Redis for cmd/worker
)

type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	Environment  string `env:"REALM_ENV" envDefault:"development"`
	LogLevelName string `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel     slog.Level

	RedisURL string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	DataDir  string        `env:"DATA_DIR" envDefault:"./data"`
	SaveTTL  time.Duration `env:"SAVE_TTL" envDefault:"168h"`

	LLMProvider      string `env:"LLM_PROVIDER" envDefault:"anthropic"`
	LLMBaseURL       string `env:"LLM_BASE_URL"`
	LLMAPIKey        string `env:"LLM_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	ModelName        string `env:"MODEL_NAME" envDefault:"claude-sonnet-4-20250514"`
	SummaryModelName string `env:"SUMMARY_MODEL_NAME"`

	ImageServiceURL string `env:"IMAGE_SERVICE_URL"`
	ImageAPIKey     string `env:"IMAGE_API_KEY"`
	AutoAvatars     bool   `env:"AUTO_AVATARS" envDefault:"false"`
	AvatarMode      string `env:"AVATAR_MODE" envDefault:"inline"`
	WorkerID        string `env:"WORKER_ID"`

	PageSize            int    `env:"PAGE_SIZE" envDefault:"10"`
	HistoryLimit        int    `env:"HISTORY_LIMIT" envDefault:"30"`
	PromptHistory       int    `env:"PROMPT_HISTORY" envDefault:"20"`
	RequireBreakthrough bool   `env:"REQUIRE_BREAKTHROUGH" envDefault:"false"`
	ProgressionFile     string `env:"PROGRESSION_FILE"`

	// In-memory session cache; evicted games reload from their saves.
	SessionCacheSize int           `env:"SESSION_CACHE_SIZE" envDefault:"256"`
	SessionIdleTTL   time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)
	cfg.AvatarMode = strings.ToLower(cfg.AvatarMode)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("SESSION_CACHE_SIZE must be positive, got %d", c.SessionCacheSize)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", c.SessionIdleTTL)
	}
	switch c.LLMProvider {
	case "anthropic", "openai", "mock":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	switch c.AvatarMode {
	case AvatarModeInline, AvatarModeQueue:
	default:
		return fmt.Errorf("unknown AVATAR_MODE %q", c.AvatarMode)
	}
	return nil
}

// Progression returns the ladder from PROGRESSION_FILE, or the built-in one.
func (c *Config) Progression() (progression.Table, error) {
	if c.ProgressionFile == "" {
		return progression.Default(), nil
	}
	return progression.LoadYAML(c.ProgressionFile)
}

// Engine returns the directive engine settings.
func (c *Config) Engine() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.AutoGenerateAvatars = c.AutoAvatars && c.ImageServiceURL != ""
	cfg.RequireBreakthrough = c.RequireBreakthrough
	return cfg
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
