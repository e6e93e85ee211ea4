package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"heysol.ai/client/internal/models"
	heysolerrors "heysol.ai/client/pkg/errors"
)

// IngestOptions carries the optional parts of an ingestion call. An empty
// Source falls back to the client's configured source tag.
type IngestOptions struct {
	Source    string
	SpaceID   string
	SessionID string
}

// SearchOptions narrows a search call.
type SearchOptions struct {
	SpaceIDs           []string
	Limit              int
	IncludeInvalidated bool
}

// LogsOptions filters log listings. Zero values are not sent.
type LogsOptions struct {
	Source  string
	SpaceID string
	Status  string
	Limit   int
	Offset  int
}

// Ingest submits a message to the memory pipeline via POST /add.
func (c *Client) Ingest(message string, opts IngestOptions) (*models.IngestResponse, error) {
	source := opts.Source
	if source == "" {
		source = c.source
	}

	request := models.NewIngestRequest(message, source)
	request.SessionID = opts.SessionID
	if opts.SpaceID != "" {
		spaceID := opts.SpaceID
		request.SpaceID = &spaceID
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	body, err := c.post(c.url("/add"), request)
	if err != nil {
		return nil, err
	}

	var response models.IngestResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode ingest response: %w", err)
	}
	return &response, nil
}

// Search queries episodic memory via POST /search.
func (c *Client) Search(query string, opts SearchOptions) (*models.SearchResult, error) {
	request := models.NewSearchRequest(query)
	if len(opts.SpaceIDs) > 0 {
		request.SpaceIDs = opts.SpaceIDs
	}
	request.Limit = opts.Limit
	request.IncludeInvalidated = opts.IncludeInvalidated
	if err := request.Validate(); err != nil {
		return nil, err
	}

	body, err := c.post(c.url("/search"), request)
	if err != nil {
		return nil, err
	}

	var result models.SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search result: %w", err)
	}
	return &result, nil
}

// GetSpaces lists all spaces visible to the credential.
func (c *Client) GetSpaces() ([]models.Space, error) {
	body, err := c.get(c.url("/spaces"))
	if err != nil {
		return nil, err
	}

	var spaces []models.Space
	if err := json.Unmarshal(body, &spaces); err != nil {
		return nil, fmt.Errorf("failed to decode spaces: %w", err)
	}
	return spaces, nil
}

// CreateSpace creates a space and returns its identifier.
func (c *Client) CreateSpace(name, description string) (string, error) {
	request := models.CreateSpaceRequest{Name: name, Description: description}
	if err := request.Validate(); err != nil {
		return "", err
	}

	body, err := c.post(c.url("/spaces"), request)
	if err != nil {
		return "", err
	}

	var response models.CreateSpaceResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode create space response: %w", err)
	}
	return response.Identifier(), nil
}

// GetSpace fetches details for one space.
func (c *Client) GetSpace(spaceID string) (*models.Space, error) {
	if !models.IsValidIDFormat(spaceID) {
		return nil, heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid space ID format: %q", spaceID)
	}

	body, err := c.get(c.url("/spaces/" + url.PathEscape(spaceID)))
	if err != nil {
		return nil, err
	}

	var space models.Space
	if err := json.Unmarshal(body, &space); err != nil {
		return nil, fmt.Errorf("failed to decode space: %w", err)
	}
	return &space, nil
}

// UpdateSpace applies a partial update to a space.
func (c *Client) UpdateSpace(spaceID string, request models.UpdateSpaceRequest) (*models.Space, error) {
	if !models.IsValidIDFormat(spaceID) {
		return nil, heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid space ID format: %q", spaceID)
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	body, err := c.put(c.url("/spaces/"+url.PathEscape(spaceID)), request)
	if err != nil {
		return nil, err
	}

	var space models.Space
	if err := json.Unmarshal(body, &space); err != nil {
		return nil, fmt.Errorf("failed to decode space: %w", err)
	}
	return &space, nil
}

// DeleteSpace removes a space permanently.
func (c *Client) DeleteSpace(spaceID string) error {
	if !models.IsValidIDFormat(spaceID) {
		return heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid space ID format: %q", spaceID)
	}

	_, err := c.delete(c.url("/spaces/" + url.PathEscape(spaceID)))
	return err
}

// GetLogs lists ingestion log entries, newest first.
func (c *Client) GetLogs(opts LogsOptions) ([]models.LogEntry, error) {
	query := url.Values{}
	if opts.Source != "" {
		query.Set("source", opts.Source)
	}
	if opts.SpaceID != "" {
		query.Set("space_id", opts.SpaceID)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	logsURL := c.url("/logs")
	if encoded := query.Encode(); encoded != "" {
		logsURL += "?" + encoded
	}

	body, err := c.get(logsURL)
	if err != nil {
		return nil, err
	}

	var entries []models.LogEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode logs: %w", err)
	}
	return entries, nil
}

// GetLog fetches a single ingestion log entry.
func (c *Client) GetLog(logID string) (*models.LogEntry, error) {
	if !models.IsValidIDFormat(logID) {
		return nil, heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid log ID format: %q", logID)
	}

	body, err := c.get(c.url("/logs/" + url.PathEscape(logID)))
	if err != nil {
		return nil, err
	}

	var entry models.LogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode log entry: %w", err)
	}
	return &entry, nil
}

// DeleteLog removes one ingestion log entry.
func (c *Client) DeleteLog(logID string) error {
	if !models.IsValidIDFormat(logID) {
		return heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid log ID format: %q", logID)
	}

	_, err := c.delete(c.url("/logs/" + url.PathEscape(logID)))
	return err
}

// GetIngestionStatus reports the state of the ingestion pipeline.
func (c *Client) GetIngestionStatus() (*models.IngestionStatus, error) {
	body, err := c.get(c.url("/logs/status"))
	if err != nil {
		return nil, err
	}

	var status models.IngestionStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode ingestion status: %w", err)
	}
	return &status, nil
}

// GetLogsBySource lists log entries recorded under one source tag.
func (c *Client) GetLogsBySource(source string, opts LogsOptions) ([]models.LogEntry, error) {
	if source == "" {
		return nil, heysolerrors.NewValidationError("Source is required")
	}

	opts.Source = source
	return c.GetLogs(opts)
}

// GetLogSources returns the distinct source tags present in the logs.
func (c *Client) GetLogSources(opts LogsOptions) ([]string, error) {
	entries, err := c.GetLogs(opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	sources := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Source == "" {
			continue
		}
		if _, ok := seen[entry.Source]; ok {
			continue
		}
		seen[entry.Source] = struct{}{}
		sources = append(sources, entry.Source)
	}
	return sources, nil
}

// DeleteLogsBySource removes every log entry recorded under the source tag
// and returns the number deleted. Deletion stops at the first failure.
func (c *Client) DeleteLogsBySource(source string, opts LogsOptions) (int, error) {
	entries, err := c.GetLogsBySource(source, opts)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, entry := range entries {
		if err := c.DeleteLog(entry.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// CopyLogsToSource re-ingests entries from opts.Source under targetSource
// and returns the number copied. Entries without ingestable text are
// skipped.
func (c *Client) CopyLogsToSource(targetSource string, opts LogsOptions) (int, error) {
	if targetSource == "" {
		return 0, heysolerrors.NewValidationError("Target source is required")
	}
	if opts.Source == "" {
		return 0, heysolerrors.NewValidationError("Source is required")
	}

	entries, err := c.GetLogs(opts)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, entry := range entries {
		if entry.IngestText == "" {
			continue
		}
		if _, err := c.Ingest(entry.IngestText, IngestOptions{Source: targetSource}); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

// MoveLogsToSource copies entries to targetSource and deletes the
// originals. Returns the number moved.
func (c *Client) MoveLogsToSource(targetSource string, opts LogsOptions) (int, error) {
	if targetSource == "" {
		return 0, heysolerrors.NewValidationError("Target source is required")
	}
	if opts.Source == "" {
		return 0, heysolerrors.NewValidationError("Source is required")
	}

	entries, err := c.GetLogs(opts)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, entry := range entries {
		if entry.IngestText == "" {
			continue
		}
		if _, err := c.Ingest(entry.IngestText, IngestOptions{Source: targetSource}); err != nil {
			return moved, err
		}
		if err := c.DeleteLog(entry.ID); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// CopyLogToSource re-ingests a single log entry under targetSource.
func (c *Client) CopyLogToSource(logID, targetSource string) error {
	if targetSource == "" {
		return heysolerrors.NewValidationError("Target source is required")
	}

	entry, err := c.GetLog(logID)
	if err != nil {
		return err
	}
	if entry.IngestText == "" {
		return heysolerrors.NewValidationError("Log entry has no ingestable text")
	}

	_, err = c.Ingest(entry.IngestText, IngestOptions{Source: targetSource})
	return err
}

// ListWebhooks lists registered webhooks. A zero limit defers to the
// server default.
func (c *Client) ListWebhooks(limit int) ([]models.Webhook, error) {
	webhooksURL := c.url("/webhooks")
	if limit > 0 {
		webhooksURL += "?limit=" + strconv.Itoa(limit)
	}

	body, err := c.get(webhooksURL)
	if err != nil {
		return nil, err
	}

	var webhooks []models.Webhook
	if err := json.Unmarshal(body, &webhooks); err != nil {
		return nil, fmt.Errorf("failed to decode webhooks: %w", err)
	}
	return webhooks, nil
}

// RegisterWebhook registers a webhook endpoint.
func (c *Client) RegisterWebhook(webhookURL, secret string, events []string) (*models.Webhook, error) {
	request := models.RegisterWebhookRequest{URL: webhookURL, Secret: secret, Events: events}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	body, err := c.post(c.url("/webhooks"), request)
	if err != nil {
		return nil, err
	}

	var webhook models.Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	return &webhook, nil
}

// GetWebhook fetches a single webhook.
func (c *Client) GetWebhook(webhookID string) (*models.Webhook, error) {
	if !models.IsValidIDFormat(webhookID) {
		return nil, heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid webhook ID format: %q", webhookID)
	}

	body, err := c.get(c.url("/webhooks/" + url.PathEscape(webhookID)))
	if err != nil {
		return nil, err
	}

	var webhook models.Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	return &webhook, nil
}

// UpdateWebhook replaces a webhook's configuration.
func (c *Client) UpdateWebhook(webhookID string, request models.UpdateWebhookRequest) (*models.Webhook, error) {
	if !models.IsValidIDFormat(webhookID) {
		return nil, heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid webhook ID format: %q", webhookID)
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	body, err := c.put(c.url("/webhooks/"+url.PathEscape(webhookID)), request)
	if err != nil {
		return nil, err
	}

	var webhook models.Webhook
	if err := json.Unmarshal(body, &webhook); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	return &webhook, nil
}

// DeleteWebhook removes a webhook registration.
func (c *Client) DeleteWebhook(webhookID string) error {
	if !models.IsValidIDFormat(webhookID) {
		return heysolerrors.Newf(heysolerrors.CategoryValidation, "Invalid webhook ID format: %q", webhookID)
	}

	_, err := c.delete(c.url("/webhooks/" + url.PathEscape(webhookID)))
	return err
}

// GetUserProfile fetches the authenticated user's profile. The profile
// endpoint lives outside the versioned API base.
func (c *Client) GetUserProfile() (*models.UserProfile, error) {
	body, err := c.get(c.profileURL)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode user profile: %w", err)
	}
	return &profile, nil
}
