package heysol

import (
	"log"
	"time"

	"heysol.ai/client/internal/config"
)

type options struct {
	cfg       config.Config
	preferMCP bool
	skipMCP   bool
	logger    *log.Logger
}

// Option overrides one construction parameter. Explicit options win over
// environment variables, which win over defaults; empty values leave the
// lower layer in place.
type Option func(*options)

// WithBaseURL overrides the REST base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.cfg.BaseURL = baseURL
		}
	}
}

// WithMCPURL overrides the MCP endpoint URL.
func WithMCPURL(mcpURL string) Option {
	return func(o *options) {
		if mcpURL != "" {
			o.cfg.MCPURL = mcpURL
		}
	}
}

// WithProfileURL overrides the absolute profile endpoint URL.
func WithProfileURL(profileURL string) Option {
	return func(o *options) {
		if profileURL != "" {
			o.cfg.ProfileURL = profileURL
		}
	}
}

// WithSource overrides the default source tag attached to ingested content.
func WithSource(source string) Option {
	return func(o *options) {
		if source != "" {
			o.cfg.Source = source
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.cfg.Timeout = timeout
		}
	}
}

// WithPreferMCP selects the MCP transport for operations it can serve.
func WithPreferMCP(prefer bool) Option {
	return func(o *options) {
		o.preferMCP = prefer
	}
}

// WithSkipMCPInit skips the MCP availability probe entirely; the client
// runs REST-only.
func WithSkipMCPInit() Option {
	return func(o *options) {
		o.skipMCP = true
	}
}

// WithLogger routes client logging to the given logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
