package models

// Space describes a memory space as returned by the spaces endpoints.
type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// SearchResult is the response of POST /search. Episodes are kept as loose
// maps; the server's episode shape varies by memory type.
type SearchResult struct {
	Episodes   []map[string]any `json:"episodes"`
	TotalCount *int             `json:"total_count,omitempty"`
}

// IngestResponse is the response of POST /add.
type IngestResponse struct {
	RunID   string `json:"run_id"`
	Message string `json:"message,omitempty"`
}

// CreateSpaceResponse is the response of POST /spaces. Some deployments
// return the identifier as space_id, others as id.
type CreateSpaceResponse struct {
	SpaceID string `json:"space_id"`
	ID      string `json:"id"`
}

// Identifier returns whichever identifier field the server populated.
func (r CreateSpaceResponse) Identifier() string {
	if r.SpaceID != "" {
		return r.SpaceID
	}
	return r.ID
}

// LogEntry is a single ingestion log record.
type LogEntry struct {
	ID         string         `json:"id"`
	IngestText string         `json:"ingest_text,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Time       string         `json:"time,omitempty"`
	Source     string         `json:"source,omitempty"`
}

// IngestionStatus summarizes the state of the ingestion pipeline.
type IngestionStatus struct {
	IngestionStatus  string   `json:"ingestion_status"`
	Recommendations  []string `json:"recommendations,omitempty"`
	AvailableMethods []string `json:"available_methods,omitempty"`
	RecentLogsCount  *int     `json:"recent_logs_count,omitempty"`
	SearchStatus     string   `json:"search_status,omitempty"`
}

// UserProfile is the response of the profile endpoint.
type UserProfile struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Webhook describes a registered webhook.
type Webhook struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Events    []string `json:"events,omitempty"`
	Active    bool     `json:"active"`
	CreatedAt string   `json:"created_at,omitempty"`
}
