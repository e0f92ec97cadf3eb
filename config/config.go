package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// API
	Port        string `env:"PORT" envDefault:"3000"`
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Upstream profile service (system of record for creator profiles)
	UpstreamBaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:5000"`
	// Base URL embedded in success/cancel redirects. Falls back to the
	// upstream base URL, matching how the hosted profile pages are served.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// Stripe
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	// Notifications
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`

	// Sentry
	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Timeouts
	ProfileTimeoutSeconds int `env:"PROFILE_TIMEOUT_SECONDS" envDefault:"10"`
	StripeTimeoutSeconds  int `env:"STRIPE_TIMEOUT_SECONDS" envDefault:"30"`

	// Rate Limiting
	RateLimitRequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"60"`
	RateLimitBurst             int `env:"RATE_LIMIT_BURST" envDefault:"10"`
	WebhookRateLimitPerMinute  int `env:"WEBHOOK_RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	WebhookRateLimitBurst      int `env:"WEBHOOK_RATE_LIMIT_BURST" envDefault:"20"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = cfg.UpstreamBaseURL
	}

	return cfg, nil
}

// ProfileTimeout returns the bounded timeout for upstream profile fetches.
func (c *Config) ProfileTimeout() time.Duration {
	return time.Duration(c.ProfileTimeoutSeconds) * time.Second
}

// StripeTimeout returns the bounded timeout for Stripe API calls.
func (c *Config) StripeTimeout() time.Duration {
	return time.Duration(c.StripeTimeoutSeconds) * time.Second
}
