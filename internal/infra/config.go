package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Update delivery modes for the Telegram transport.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv   string `env:"APP_ENV"`
	LogLevel string `env:"LOG_LEVEL"`
	Port     string `env:"PORT"`

	TelegramToken         string        `env:"TELEGRAM_TOKEN"`
	TelegramBaseURL       string        `env:"TELEGRAM_BASE_URL"`
	TelegramMode          string        `env:"TELEGRAM_MODE"`
	TelegramWebhookURL    string        `env:"TELEGRAM_WEBHOOK_URL"`
	TelegramWebhookSecret string        `env:"TELEGRAM_WEBHOOK_SECRET"`
	PollTimeout           time.Duration `env:"TELEGRAM_POLL_TIMEOUT"`

	LeoAPIKey  string `env:"LEO_API_KEY"`
	LeoBaseURL string `env:"LEO_BASE_URL"`

	EnhanceTimeout       time.Duration `env:"ENHANCE_TIMEOUT"`
	GenerateTimeout      time.Duration `env:"GENERATE_TIMEOUT"`
	GeneratePollInterval time.Duration `env:"GENERATE_POLL_INTERVAL"`
	GenerateRetries      int           `env:"GENERATE_RETRIES"`

	SessionTTL           time.Duration `env:"SESSION_TTL"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL"`
	SessionLimit         int           `env:"SESSION_LIMIT"`

	ArchiveDir string        `env:"ARCHIVE_DIR"`
	ArchiveTTL time.Duration `env:"ARCHIVE_TTL"`

	DefaultLocale string `env:"DEFAULT_LOCALE"`

	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT"`
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT"`
	RateLimitPerMin  int           `env:"RATE_LIMIT_PER_MINUTE"`
}

// defaultConfig returns the baseline configuration before environment
// overrides are applied.
func defaultConfig() *Config {
	return &Config{
		AppEnv:               "development",
		Port:                 "8080",
		TelegramBaseURL:      "https://api.telegram.org",
		TelegramMode:         ModePolling,
		PollTimeout:          30 * time.Second,
		LeoBaseURL:           "https://cloud.leonardo.ai/api/rest/v1",
		EnhanceTimeout:       15 * time.Second,
		GenerateTimeout:      90 * time.Second,
		GeneratePollInterval: 2 * time.Second,
		GenerateRetries:      1,
		SessionTTL:           24 * time.Hour,
		SessionSweepInterval: time.Hour,
		SessionLimit:         1000,
		ArchiveTTL:           72 * time.Hour,
		DefaultLocale:        "en",
		HTTPReadTimeout:      15 * time.Second,
		HTTPWriteTimeout:     30 * time.Second,
		HTTPIdleTimeout:      60 * time.Second,
		RateLimitPerMin:      30,
	}
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Missing credentials are a startup error, not
// something to discover on the first user message.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	if cfg.LeoAPIKey == "" {
		return nil, fmt.Errorf("LEO_API_KEY is required")
	}

	switch cfg.TelegramMode {
	case ModePolling:
	case ModeWebhook:
		if cfg.TelegramWebhookURL == "" {
			return nil, fmt.Errorf("TELEGRAM_WEBHOOK_URL is required when TELEGRAM_MODE=webhook")
		}
	default:
		return nil, fmt.Errorf("TELEGRAM_MODE must be %q or %q, got %q", ModePolling, ModeWebhook, cfg.TelegramMode)
	}

	if cfg.GenerateRetries < 0 {
		return nil, fmt.Errorf("GENERATE_RETRIES must not be negative")
	}

	return cfg, nil
}
