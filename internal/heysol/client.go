// Package heysol provides the unified HeySol client. It fronts two
// transports: the REST API, always constructed, and an MCP session probed
// once at construction time. Each operation picks its transport; there is
// no mid-call fallback from one transport to the other.
package heysol

import (
	"context"
	"log"
	"os"

	"heysol.ai/client/internal/config"
	"heysol.ai/client/internal/infrastructure/api"
	"heysol.ai/client/internal/infrastructure/mcp"
	heysolerrors "heysol.ai/client/pkg/errors"
)

// ProbeState tracks the outcome of the one-shot MCP availability probe.
type ProbeState int

const (
	StateUninitialized ProbeState = iota
	StateProbing
	StateAvailable
	StateUnavailable
)

func (s ProbeState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateProbing:
		return "probing"
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Access method names reported by PreferredAccessMethod.
const (
	AccessMCP       = "mcp"
	AccessDirectAPI = "direct_api"
)

// Client is the unified facade over both transports. A client is intended
// for use from a single goroutine; construct one per concurrent worker.
type Client struct {
	cfg       config.Config
	logger    *log.Logger
	api       *api.Client
	mcp       *mcp.Client
	preferMCP bool
	state     ProbeState
	closed    bool
}

// New resolves configuration (explicit options > environment > defaults),
// constructs the REST transport, and probes MCP availability. A probe
// failure is logged and swallowed: the client comes up REST-only. This is
// the only place an error is deliberately absorbed.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}

	o := options{cfg: cfg}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(os.Stderr, "[heysol] ", log.LstdFlags)
	}

	apiClient, err := api.NewClient(o.cfg, o.logger)
	if err != nil {
		return nil, err
	}

	client := &Client{
		cfg:       o.cfg,
		logger:    o.logger,
		api:       apiClient,
		preferMCP: o.preferMCP,
		state:     StateUninitialized,
	}

	if !o.skipMCP {
		client.probeMCP()
	}
	return client, nil
}

// probeMCP runs the one-shot availability probe. Probe errors downgrade the
// client to REST-only instead of propagating.
func (c *Client) probeMCP() {
	c.state = StateProbing

	mcpClient, err := mcp.NewClient(c.cfg, c.logger)
	if err != nil {
		c.state = StateUnavailable
		c.logger.Printf("MCP initialization failed, falling back to direct API: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	if err := mcpClient.Initialize(ctx); err != nil {
		c.state = StateUnavailable
		c.logger.Printf("MCP initialization failed, falling back to direct API: %v", err)
		_ = mcpClient.Close()
		return
	}

	c.mcp = mcpClient
	if mcpClient.IsAvailable() {
		c.state = StateAvailable
	} else {
		c.state = StateUnavailable
	}
}

// State returns the probe outcome.
func (c *Client) State() ProbeState {
	return c.state
}

// Config returns the resolved configuration.
func (c *Client) Config() config.Config {
	return c.cfg
}

// IsMCPAvailable reports whether the MCP transport can serve calls.
func (c *Client) IsMCPAvailable() bool {
	return c.state == StateAvailable && c.mcp != nil && c.mcp.IsAvailable()
}

// PreferredAccessMethod names the transport an operation would use right
// now: "mcp" or "direct_api".
func (c *Client) PreferredAccessMethod(op mcp.Operation) string {
	if c.useMCP(op) {
		return AccessMCP
	}
	return AccessDirectAPI
}

// useMCP gates the per-operation transport choice: preference on, probe
// succeeded, and the session discovered the operation's tool.
func (c *Client) useMCP(op mcp.Operation) bool {
	return c.preferMCP && c.IsMCPAvailable() && c.mcp.SupportsOperation(op)
}

// Tools returns the tools discovered by the MCP session.
func (c *Client) Tools() ([]mcp.Tool, error) {
	if !c.IsMCPAvailable() {
		return nil, heysolerrors.NewUnavailableError("MCP is not available")
	}
	return c.mcp.Tools(), nil
}

// Stats returns the REST transport's request counters.
func (c *Client) Stats() api.Stats {
	return c.api.Stats()
}

// Close shuts down both transports. Calling it more than once is safe.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var firstErr error
	if c.mcp != nil {
		if err := c.mcp.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.api.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
