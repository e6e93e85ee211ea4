// Package api implements the direct REST transport against the HeySol API.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"heysol.ai/client/internal/config"
	heysolerrors "heysol.ai/client/pkg/errors"
)

const userAgent = "heysol-go/1.0.0"

// Client talks to the HeySol REST endpoints. Each call issues exactly one
// HTTP request; failures surface to the caller without retry.
type Client struct {
	baseURL    string
	profileURL string
	source     string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
	stats      Stats
	closed     bool
	mutex      sync.RWMutex
}

// Stats tracks request counters for the lifetime of a client.
type Stats struct {
	TotalRequests      int64         `json:"total_requests"`
	SuccessfulRequests int64         `json:"successful_requests"`
	FailedRequests     int64         `json:"failed_requests"`
	TotalPayloadSize   int64         `json:"total_payload_size"`
	AverageLatency     time.Duration `json:"average_latency"`
	LastRequestTime    time.Time     `json:"last_request_time"`
	LastError          string        `json:"last_error,omitempty"`
}

// NewClient validates the configuration and builds a REST client. The
// credential must be present; the probe-free REST transport is always
// constructed eagerly.
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
		baseURL:    cfg.BaseURL,
		profileURL: cfg.ProfileURL,
		source:     cfg.Source,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

// Source returns the default source tag applied to ingestion calls.
func (c *Client) Source() string {
	return c.source
}

// Stats returns a snapshot of the request counters.
func (c *Client) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.stats
}

// Close releases idle connections. Calling it more than once is safe.
func (c *Client) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// doRequest issues a single HTTP request and returns the response body.
// 401 maps to an auth error, any other non-2xx to a transport error that
// embeds the status and body.
func (c *Client) doRequest(method, rawURL string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = data
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)
	c.logHTTPRequest(req, body)
	c.recordAttempt()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)

	if err != nil {
		c.recordFailure(err.Error())
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Read the body once for both logging and error reporting.
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(err.Error())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logHTTPResponse(resp, respBody, latency)

	if resp.StatusCode == http.StatusUnauthorized {
		authErr := heysolerrors.NewAuthError("authentication failed - check your API key")
		c.recordFailure(authErr.Error())
		return nil, authErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		transportErr := heysolerrors.NewTransportError(resp.StatusCode, string(respBody))
		c.recordFailure(transportErr.Error())
		return nil, transportErr
	}

	c.recordSuccess(int64(len(body)), latency)
	return respBody, nil
}

func (c *Client) get(rawURL string) ([]byte, error) {
	return c.doRequest(http.MethodGet, rawURL, nil)
}

func (c *Client) post(rawURL string, payload any) ([]byte, error) {
	return c.doRequest(http.MethodPost, rawURL, payload)
}

func (c *Client) put(rawURL string, payload any) ([]byte, error) {
	return c.doRequest(http.MethodPut, rawURL, payload)
}

func (c *Client) delete(rawURL string) ([]byte, error) {
	return c.doRequest(http.MethodDelete, rawURL, nil)
}

// setRequestHeaders sets common request headers
func (c *Client) setRequestHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) isDebugEnabled() bool {
	return os.Getenv("HEYSOL_DEBUG") == "true"
}

// logHTTPRequest logs request details when debug logging is enabled
func (c *Client) logHTTPRequest(req *http.Request, body []byte) {
	if !c.isDebugEnabled() {
		return
	}

	bodyPreview := string(body)
	if len(bodyPreview) > 1000 {
		bodyPreview = bodyPreview[:1000] + "... (truncated)"
	}

	c.logger.Printf("HTTP request: %s %s body_size=%d body=%s", req.Method, req.URL.String(), len(body), bodyPreview)
}

// logHTTPResponse logs response details when debug logging is enabled
func (c *Client) logHTTPResponse(resp *http.Response, body []byte, latency time.Duration) {
	if !c.isDebugEnabled() {
		return
	}

	bodyPreview := string(body)
	if len(bodyPreview) > 1000 {
		bodyPreview = bodyPreview[:1000] + "... (truncated)"
	}

	c.logger.Printf("HTTP response: status=%d latency_ms=%d body=%s", resp.StatusCode, latency.Milliseconds(), bodyPreview)
}

func (c *Client) recordAttempt() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stats.TotalRequests++
	c.stats.LastRequestTime = time.Now()
}

func (c *Client) recordSuccess(payloadSize int64, latency time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stats.SuccessfulRequests++
	c.stats.TotalPayloadSize += payloadSize
	c.stats.LastError = ""

	if c.stats.AverageLatency == 0 {
		c.stats.AverageLatency = latency
	} else {
		// Simple moving average
		c.stats.AverageLatency = (c.stats.AverageLatency + latency) / 2
	}
}

func (c *Client) recordFailure(errorMsg string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stats.FailedRequests++
	c.stats.LastError = errorMsg
}
