// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":4000".
	Addr string `koanf:"addr"`

	// RateLimitRequests caps requests per client per window on /users routes.
	RateLimitRequests int `koanf:"rate_limit_requests"`

	// RateLimitWindow is the fixed window length, e.g. "15m".
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSAllowedOrigins lists origins allowed by CORS; "*" allows all.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RuntimeMetrics adds Go runtime and process collectors to /metrics.
	RuntimeMetrics bool `koanf:"runtime_metrics"`
}

// Defaults.
const (
	DefaultPort              = "4000"
	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 15 * time.Minute
)

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":" + DefaultPort,
		RateLimitRequests:  DefaultRateLimitRequests,
		RateLimitWindow:    DefaultRateLimitWindow,
		CORSAllowedOrigins: []string{"*"},
	}
}
