// Package config resolves client configuration from explicit values,
// environment variables, and built-in defaults, in that order of
// precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	heysolerrors "heysol.ai/client/pkg/errors"
)

const (
	DefaultBaseURL    = "https://core.heysol.ai/api/v1"
	DefaultSource     = "heysol-api-client"
	DefaultMCPURL     = DefaultBaseURL + "/mcp?source=" + DefaultSource
	DefaultProfileURL = "https://core.heysol.ai/api/profile"
	DefaultTimeout    = 60 * time.Second

	// APIKeyPrefix is the required prefix of every HeySol personal access
	// token.
	APIKeyPrefix = "rc_pat_"

	MinTimeout = 1 * time.Second
	MaxTimeout = 300 * time.Second
)

// Config carries everything both transports need. Values are fixed once
// the owning client is constructed.
type Config struct {
	APIKey     string
	BaseURL    string
	MCPURL     string
	ProfileURL string
	Source     string
	Timeout    time.Duration
}

// envConfig is the raw environment surface. Timeout is an integer number
// of seconds on the wire.
type envConfig struct {
	APIKey     string `env:"HEYSOL_API_KEY"`
	BaseURL    string `env:"HEYSOL_BASE_URL"`
	MCPURL     string `env:"HEYSOL_MCP_URL"`
	ProfileURL string `env:"HEYSOL_PROFILE_URL"`
	Source     string `env:"HEYSOL_SOURCE"`
	Timeout    int    `env:"HEYSOL_TIMEOUT"`
}

// Default returns the built-in configuration with no credential set.
func Default() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		MCPURL:     DefaultMCPURL,
		ProfileURL: DefaultProfileURL,
		Source:     DefaultSource,
		Timeout:    DefaultTimeout,
	}
}

// FromEnv overlays HEYSOL_* environment variables onto the defaults.
// Variables that are unset or empty leave the default in place.
func FromEnv() (Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Default()
	if raw.APIKey != "" {
		cfg.APIKey = raw.APIKey
	}
	if raw.BaseURL != "" {
		cfg.BaseURL = raw.BaseURL
	}
	if raw.MCPURL != "" {
		cfg.MCPURL = raw.MCPURL
	}
	if raw.ProfileURL != "" {
		cfg.ProfileURL = raw.ProfileURL
	}
	if raw.Source != "" {
		cfg.Source = raw.Source
	}
	if raw.Timeout != 0 {
		cfg.Timeout = time.Duration(raw.Timeout) * time.Second
	}
	return cfg, nil
}

// Validate rejects malformed configurations before any client is built.
// An empty API key passes here; constructors that need a credential check
// for presence themselves.
func (c Config) Validate() error {
	if c.APIKey != "" && !strings.HasPrefix(c.APIKey, APIKeyPrefix) {
		return heysolerrors.NewValidationError("API key must start with 'rc_pat_'")
	}
	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		return heysolerrors.NewValidationError("Timeout must be between 1 and 300 seconds")
	}
	return nil
}
