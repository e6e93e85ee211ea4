// Package mcp implements the JSON-RPC tool-calling transport. A client owns
// at most one session: the handshake issues a session identifier in a
// response header, tool discovery fills the tool table, and every later call
// echoes the identifier back. A session either exists with a non-empty tool
// table or does not exist at all.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"sync"

	"heysol.ai/client/internal/config"
	"heysol.ai/client/internal/jsonrpc"
	heysolerrors "heysol.ai/client/pkg/errors"
)

const (
	protocolVersion = "2025-03-26"
	sessionHeader   = "Mcp-Session-Id"
	clientName      = "heysol-go"
	clientVersion   = "1.0.0"
)

// Tool describes a remote operation discovered through tools/list.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// Client speaks JSON-RPC 2.0 against a single MCP endpoint. Construction
// performs no I/O; Initialize establishes the session.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger

	mutex     sync.RWMutex
	sessionID string
	tools     map[string]Tool
	closed    bool
}

// NewClient validates the configuration and builds an MCP client without
// touching the network.
func NewClient(cfg config.Config, logger *log.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, heysolerrors.NewValidationError("API key is required")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[heysol] ", log.LstdFlags)
	}

	return &Client{
		endpoint:   cfg.MCPURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      clientInfo     `json:"clientInfo"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Initialize performs the session handshake and discovers the remote tools.
// On any failure the client holds no partial state: the session identifier
// and tool table are cleared before the error is returned.
func (c *Client) Initialize(ctx context.Context) error {
	params := initializeParams{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      clientInfo{Name: clientName, Version: clientVersion},
	}

	_, header, err := c.sendRequest(ctx, "initialize", params)
	if err != nil {
		c.reset()
		return heysolerrors.NewProtocolError("Failed to initialize MCP session", err)
	}

	// The session identifier must be echoed on the discovery call already.
	c.mutex.Lock()
	c.sessionID = header.Get(sessionHeader)
	c.mutex.Unlock()

	result, _, err := c.sendRequest(ctx, "tools/list", nil)
	if err != nil {
		c.reset()
		return heysolerrors.NewProtocolError("Failed to initialize MCP session", err)
	}

	var listing struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(result, &listing); err != nil {
		c.reset()
		return heysolerrors.NewProtocolError("Failed to initialize MCP session", err)
	}

	tools := make(map[string]Tool, len(listing.Tools))
	for _, tool := range listing.Tools {
		tools[tool.Name] = tool
	}

	c.mutex.Lock()
	c.tools = tools
	c.mutex.Unlock()
	return nil
}

func (c *Client) reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sessionID = ""
	c.tools = nil
}

// IsAvailable reports whether a live session with at least one discovered
// tool exists.
func (c *Client) IsAvailable() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return !c.closed && c.sessionID != "" && len(c.tools) > 0
}

// SessionID returns the current session identifier, empty when no session
// is established.
func (c *Client) SessionID() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.sessionID
}

// Tools returns the discovered tools sorted by name.
func (c *Client) Tools() []Tool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	tools := make([]Tool, 0, len(c.tools))
	for _, tool := range c.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// HasTool reports whether the session discovered a tool with the given name.
func (c *Client) HasTool(name string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	_, ok := c.tools[name]
	return ok
}

// SupportsOperation reports whether op maps to a tool the session offers.
func (c *Client) SupportsOperation(op Operation) bool {
	name, err := op.ToolName()
	if err != nil {
		return false
	}
	return c.HasTool(name)
}

type callToolParams struct {
	Name      string `json:"name"`
	Arguments any    `json:"arguments,omitempty"`
}

// CallTool invokes a remote tool by name and returns its raw result.
func (c *Client) CallTool(ctx context.Context, name string, arguments any) (json.RawMessage, error) {
	if !c.IsAvailable() {
		return nil, heysolerrors.NewUnavailableError("MCP is not available")
	}

	result, _, err := c.sendRequest(ctx, "tools/call", callToolParams{Name: name, Arguments: arguments})
	return result, err
}

// Call dispatches one of the supported operations. Unknown operations fail
// before any network traffic.
func (c *Client) Call(ctx context.Context, op Operation, arguments any) (json.RawMessage, error) {
	name, err := op.ToolName()
	if err != nil {
		return nil, err
	}
	return c.CallTool(ctx, name, arguments)
}

// Close discards the session. Calling it more than once is safe.
func (c *Client) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.sessionID = ""
	c.tools = nil
	c.httpClient.CloseIdleConnections()
	return nil
}

// sendRequest posts a single JSON-RPC request and unwraps the result. Some
// deployments answer with the bare result object instead of a full envelope;
// those are accepted as-is.
func (c *Client) sendRequest(ctx context.Context, method string, params any) (json.RawMessage, http.Header, error) {
	request := jsonrpc.NewRequest(method, params)
	body, err := json.Marshal(request)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", clientName+"/"+clientVersion)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if sessionID := c.SessionID(); sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	c.logRequest(method, body)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logResponse(method, resp.StatusCode, respBody)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.Header, heysolerrors.NewAuthError("authentication failed - check your API key")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.Header, heysolerrors.NewTransportError(resp.StatusCode, string(respBody))
	}

	parsed, parseErr := jsonrpc.ParseResponse(respBody)
	if parseErr == nil {
		if rpcErr := parsed.Err(); rpcErr != nil {
			return nil, resp.Header, heysolerrors.NewProtocolError(fmt.Sprintf("MCP %s call failed", method), rpcErr)
		}
		if len(parsed.Result) > 0 {
			return parsed.Result, resp.Header, nil
		}
		return respBody, resp.Header, nil
	}
	if json.Valid(respBody) {
		return respBody, resp.Header, nil
	}
	return nil, resp.Header, heysolerrors.NewProtocolError("invalid MCP response", parseErr)
}

func (c *Client) isDebugEnabled() bool {
	return os.Getenv("HEYSOL_DEBUG") == "true"
}

func (c *Client) logRequest(method string, body []byte) {
	if !c.isDebugEnabled() {
		return
	}

	bodyPreview := string(body)
	if len(bodyPreview) > 1000 {
		bodyPreview = bodyPreview[:1000] + "... (truncated)"
	}

	c.logger.Printf("MCP request: %s body=%s", method, bodyPreview)
}

func (c *Client) logResponse(method string, status int, body []byte) {
	if !c.isDebugEnabled() {
		return
	}

	bodyPreview := string(body)
	if len(bodyPreview) > 1000 {
		bodyPreview = bodyPreview[:1000] + "... (truncated)"
	}

	c.logger.Printf("MCP response: %s status=%d body=%s", method, status, bodyPreview)
}
