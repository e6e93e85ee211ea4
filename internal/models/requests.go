// Package models contains the request and response records exchanged with
// the HeySol API. Request types validate themselves before any transport
// touches them; wire field names follow the API contract, which mixes
// camelCase (ingestion) and snake_case (everything else).
package models

import (
	"net/url"

	heysolerrors "heysol.ai/client/pkg/errors"
)

// DefaultReferenceTime is the reference timestamp applied to ingestion
// requests that do not carry their own.
const DefaultReferenceTime = "2023-11-07T05:31:56Z"

// IngestRequest is the payload for POST /add. SpaceID is a pointer so an
// unset target space is omitted from the wire entirely rather than sent as
// null.
type IngestRequest struct {
	EpisodeBody   string         `json:"episodeBody"`
	ReferenceTime string         `json:"referenceTime"`
	Metadata      map[string]any `json:"metadata"`
	Source        string         `json:"source"`
	SessionID     string         `json:"sessionId"`
	SpaceID       *string        `json:"spaceId,omitempty"`
}

// NewIngestRequest builds an ingestion payload with the default reference
// time and an empty metadata map.
func NewIngestRequest(message, source string) IngestRequest {
	return IngestRequest{
		EpisodeBody:   message,
		ReferenceTime: DefaultReferenceTime,
		Metadata:      map[string]any{},
		Source:        source,
	}
}

// Validate checks required fields before the request is sent.
func (r *IngestRequest) Validate() error {
	if r.EpisodeBody == "" {
		return heysolerrors.NewValidationError("Message is required")
	}
	if r.Source == "" {
		return heysolerrors.NewValidationError("Source is required")
	}
	return nil
}

// SearchRequest is the payload for POST /search. Limit is omitted when
// zero; the server applies its own default.
type SearchRequest struct {
	Query              string   `json:"query"`
	SpaceIDs           []string `json:"space_ids"`
	IncludeInvalidated bool     `json:"include_invalidated"`
	Limit              int      `json:"limit,omitempty"`
}

// NewSearchRequest builds a search payload with an empty space filter.
func NewSearchRequest(query string) SearchRequest {
	return SearchRequest{Query: query, SpaceIDs: []string{}}
}

// Validate checks required fields before the request is sent.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return heysolerrors.NewValidationError("Search query is required")
	}
	return nil
}

// CreateSpaceRequest is the payload for POST /spaces.
type CreateSpaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks required fields before the request is sent.
func (r *CreateSpaceRequest) Validate() error {
	if r.Name == "" {
		return heysolerrors.NewValidationError("Space name is required")
	}
	return nil
}

// UpdateSpaceRequest is the payload for PUT /spaces/{id}. All fields are
// optional, but an update with nothing to change is rejected.
type UpdateSpaceRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Validate checks that the update carries at least one change and that a
// provided name is non-empty.
func (r *UpdateSpaceRequest) Validate() error {
	if r.Name == nil && r.Description == nil && r.Metadata == nil {
		return heysolerrors.NewValidationError("At least one field is required for update")
	}
	if r.Name != nil && *r.Name == "" {
		return heysolerrors.NewValidationError("Space name is required")
	}
	return nil
}

// RegisterWebhookRequest is the payload for POST /webhooks. Events may be
// empty at registration; the hook then receives the server defaults.
type RegisterWebhookRequest struct {
	URL    string   `json:"url"`
	Secret string   `json:"secret"`
	Events []string `json:"events"`
}

// Validate checks required fields before the request is sent.
func (r *RegisterWebhookRequest) Validate() error {
	if r.URL == "" {
		return heysolerrors.NewValidationError("Webhook URL is required")
	}
	if !isAbsoluteURL(r.URL) {
		return heysolerrors.NewValidationError("Webhook URL must be a valid URL")
	}
	if r.Secret == "" {
		return heysolerrors.NewValidationError("Webhook secret is required")
	}
	return nil
}

// UpdateWebhookRequest is the payload for PUT /webhooks/{id}.
type UpdateWebhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
	Active bool     `json:"active"`
}

// NewUpdateWebhookRequest builds an update payload with Active defaulted
// to true.
func NewUpdateWebhookRequest(webhookURL, secret string, events []string) UpdateWebhookRequest {
	return UpdateWebhookRequest{
		URL:    webhookURL,
		Events: events,
		Secret: secret,
		Active: true,
	}
}

// Validate checks required fields before the request is sent.
func (r *UpdateWebhookRequest) Validate() error {
	if r.URL == "" {
		return heysolerrors.NewValidationError("Webhook URL is required")
	}
	if !isAbsoluteURL(r.URL) {
		return heysolerrors.NewValidationError("Webhook URL must be a valid URL")
	}
	if len(r.Events) == 0 {
		return heysolerrors.NewValidationError("Events list cannot be empty")
	}
	if r.Secret == "" {
		return heysolerrors.NewValidationError("Webhook secret is required")
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
