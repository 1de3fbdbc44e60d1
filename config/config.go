package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env         string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT" envDefault:"8080" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	APIBaseURL    string `env:"CRONJOB_API_BASE_URL,required" validate:"required,url"`
	APIToken      string `env:"CRONJOB_API_TOKEN,required"    validate:"required"`
	APITimeoutSec int    `env:"CRONJOB_API_TIMEOUT_SEC" envDefault:"30" validate:"min=1,max=120"`

	// How long /readyz reuses its last ping of the cron API. 0 pings every probe.
	HealthCacheSec int `env:"HEALTH_CACHE_SEC" envDefault:"30" validate:"min=0,max=3600"`

	DemoWebhookURL string `env:"DEMO_WEBHOOK_URL" envDefault:"https://webhook.site/8a8fb52d-b56f-4e79-8813-f091b7041efb" validate:"required,url"`

	// Empty leaves the demo API open.
	JWTSecret string `env:"JWT_SECRET" validate:"omitempty,min=32"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSec) * time.Second
}

func (c *Config) HealthCacheTTL() time.Duration {
	return time.Duration(c.HealthCacheSec) * time.Second
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AuthEnabled reports whether the demo API requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
