package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "USERS_"
	EnvConfig = "USERS_CONFIG"
	EnvPort   = "PORT"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New), with PORT applied to the default address
//  2. file (YAML) if USERS_CONFIG is set
//  3. env (prefix USERS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	if port := strings.TrimSpace(os.Getenv(EnvPort)); port != "" {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("%w: PORT %q is not a valid port", ErrInvalidConfig, port)
		}
		base.Addr = ":" + port
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// USERS_RATE_LIMIT_WINDOW -> rate_limit_window. Underscores are kept to
	// match the flat koanf tags; USERS_CONFIG itself is not a config key.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfig {
			return ""
		}
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RateLimitRequests <= 0:
		return fmt.Errorf("%w: rate_limit_requests must be positive", ErrInvalidConfig)
	case c.RateLimitWindow <= 0:
		return fmt.Errorf("%w: rate_limit_window must be positive", ErrInvalidConfig)
	case len(c.CORSAllowedOrigins) == 0:
		return fmt.Errorf("%w: cors_allowed_origins must not be empty", ErrInvalidConfig)
	}
	return nil
}
