package heysol

import (
	"context"
	"encoding/json"

	"heysol.ai/client/internal/infrastructure/api"
	"heysol.ai/client/internal/infrastructure/mcp"
	"heysol.ai/client/internal/models"
)

// Ingest stores a message in memory. Served over MCP when preferred and
// available, otherwise over REST.
func (c *Client) Ingest(message string, opts api.IngestOptions) (*models.IngestResponse, error) {
	if !c.useMCP(mcp.OpIngest) {
		return c.api.Ingest(message, opts)
	}

	source := opts.Source
	if source == "" {
		source = c.cfg.Source
	}
	// Same validation gate as the REST path.
	request := models.NewIngestRequest(message, source)
	if err := request.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.mcp.Call(context.Background(), mcp.OpIngest, mcp.IngestArgs{
		Message:   message,
		Source:    source,
		SpaceID:   opts.SpaceID,
		SessionID: opts.SessionID,
	})
	if err != nil {
		return nil, err
	}

	var response models.IngestResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Search queries memory. Served over MCP when preferred and available,
// otherwise over REST.
func (c *Client) Search(query string, opts api.SearchOptions) (*models.SearchResult, error) {
	if !c.useMCP(mcp.OpSearch) {
		return c.api.Search(query, opts)
	}

	// Same validation gate as the REST path.
	request := models.NewSearchRequest(query)
	if err := request.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.mcp.Call(context.Background(), mcp.OpSearch, mcp.SearchArgs{
		Query:    query,
		SpaceIDs: opts.SpaceIDs,
		Limit:    opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	var result models.SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSpaces lists spaces. The MCP tool wraps the list in a "spaces" field;
// REST returns the bare array.
func (c *Client) GetSpaces() ([]models.Space, error) {
	if !c.useMCP(mcp.OpGetSpaces) {
		return c.api.GetSpaces()
	}

	raw, err := c.mcp.Call(context.Background(), mcp.OpGetSpaces, nil)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Spaces []models.Space `json:"spaces"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Spaces, nil
}

// GetUserProfile fetches the authenticated user's profile.
func (c *Client) GetUserProfile() (*models.UserProfile, error) {
	if !c.useMCP(mcp.OpGetUserProfile) {
		return c.api.GetUserProfile()
	}

	raw, err := c.mcp.Call(context.Background(), mcp.OpGetUserProfile, nil)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// The remaining operations have no MCP tool and always go over REST.

func (c *Client) CreateSpace(name, description string) (string, error) {
	return c.api.CreateSpace(name, description)
}

func (c *Client) GetSpace(spaceID string) (*models.Space, error) {
	return c.api.GetSpace(spaceID)
}

func (c *Client) UpdateSpace(spaceID string, request models.UpdateSpaceRequest) (*models.Space, error) {
	return c.api.UpdateSpace(spaceID, request)
}

func (c *Client) DeleteSpace(spaceID string) error {
	return c.api.DeleteSpace(spaceID)
}

func (c *Client) GetLogs(opts api.LogsOptions) ([]models.LogEntry, error) {
	return c.api.GetLogs(opts)
}

func (c *Client) GetLog(logID string) (*models.LogEntry, error) {
	return c.api.GetLog(logID)
}

func (c *Client) DeleteLog(logID string) error {
	return c.api.DeleteLog(logID)
}

func (c *Client) GetIngestionStatus() (*models.IngestionStatus, error) {
	return c.api.GetIngestionStatus()
}

func (c *Client) GetLogsBySource(source string, opts api.LogsOptions) ([]models.LogEntry, error) {
	return c.api.GetLogsBySource(source, opts)
}

func (c *Client) GetLogSources(opts api.LogsOptions) ([]string, error) {
	return c.api.GetLogSources(opts)
}

func (c *Client) DeleteLogsBySource(source string, opts api.LogsOptions) (int, error) {
	return c.api.DeleteLogsBySource(source, opts)
}

func (c *Client) CopyLogsToSource(targetSource string, opts api.LogsOptions) (int, error) {
	return c.api.CopyLogsToSource(targetSource, opts)
}

func (c *Client) MoveLogsToSource(targetSource string, opts api.LogsOptions) (int, error) {
	return c.api.MoveLogsToSource(targetSource, opts)
}

func (c *Client) CopyLogToSource(logID, targetSource string) error {
	return c.api.CopyLogToSource(logID, targetSource)
}

func (c *Client) ListWebhooks(limit int) ([]models.Webhook, error) {
	return c.api.ListWebhooks(limit)
}

func (c *Client) RegisterWebhook(webhookURL, secret string, events []string) (*models.Webhook, error) {
	return c.api.RegisterWebhook(webhookURL, secret, events)
}

func (c *Client) GetWebhook(webhookID string) (*models.Webhook, error) {
	return c.api.GetWebhook(webhookID)
}

func (c *Client) UpdateWebhook(webhookID string, request models.UpdateWebhookRequest) (*models.Webhook, error) {
	return c.api.UpdateWebhook(webhookID, request)
}

func (c *Client) DeleteWebhook(webhookID string) error {
	return c.api.DeleteWebhook(webhookID)
}
