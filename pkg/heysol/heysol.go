// Package heysol is the public surface of the HeySol client. It re-exports
// the unified client, the two transports, configuration, models, and the
// instance registry so external modules never import internal packages.
package heysol

import (
	"log"

	"heysol.ai/client/internal/config"
	"heysol.ai/client/internal/heysol"
	"heysol.ai/client/internal/infrastructure/api"
	"heysol.ai/client/internal/infrastructure/mcp"
	"heysol.ai/client/internal/models"
	"heysol.ai/client/internal/registry"
)

// Unified client.
type (
	Client     = heysol.Client
	Option     = heysol.Option
	ProbeState = heysol.ProbeState
)

const (
	StateUninitialized = heysol.StateUninitialized
	StateProbing       = heysol.StateProbing
	StateAvailable     = heysol.StateAvailable
	StateUnavailable   = heysol.StateUnavailable

	AccessMCP       = heysol.AccessMCP
	AccessDirectAPI = heysol.AccessDirectAPI
)

// Construction options.
var (
	WithBaseURL     = heysol.WithBaseURL
	WithMCPURL      = heysol.WithMCPURL
	WithProfileURL  = heysol.WithProfileURL
	WithSource      = heysol.WithSource
	WithTimeout     = heysol.WithTimeout
	WithPreferMCP   = heysol.WithPreferMCP
	WithSkipMCPInit = heysol.WithSkipMCPInit
	WithLogger      = heysol.WithLogger
)

// New builds the unified client: REST always, MCP when the availability
// probe succeeds.
func New(apiKey string, opts ...Option) (*Client, error) {
	return heysol.New(apiKey, opts...)
}

// Transports and their call options.
type (
	APIClient = api.Client
	MCPClient = mcp.Client
	Tool      = mcp.Tool
	Operation = mcp.Operation
	Stats     = api.Stats

	IngestOptions = api.IngestOptions
	SearchOptions = api.SearchOptions
	LogsOptions   = api.LogsOptions
)

const (
	OpIngest         = mcp.OpIngest
	OpSearch         = mcp.OpSearch
	OpGetSpaces      = mcp.OpGetSpaces
	OpGetUserProfile = mcp.OpGetUserProfile
)

// NewAPIClient builds the direct REST transport on its own.
func NewAPIClient(cfg Config, logger *log.Logger) (*APIClient, error) {
	return api.NewClient(cfg, logger)
}

// NewMCPClient builds the MCP transport on its own. The caller must run
// Initialize before invoking tools.
func NewMCPClient(cfg Config, logger *log.Logger) (*MCPClient, error) {
	return mcp.NewClient(cfg, logger)
}

// Configuration.
type Config = config.Config

var (
	DefaultConfig = config.Default
	ConfigFromEnv = config.FromEnv
)

const (
	DefaultBaseURL = config.DefaultBaseURL
	DefaultMCPURL  = config.DefaultMCPURL
	DefaultSource  = config.DefaultSource
	APIKeyPrefix   = config.APIKeyPrefix
)

// Request and response models.
type (
	IngestRequest          = models.IngestRequest
	SearchRequest          = models.SearchRequest
	CreateSpaceRequest     = models.CreateSpaceRequest
	UpdateSpaceRequest     = models.UpdateSpaceRequest
	RegisterWebhookRequest = models.RegisterWebhookRequest
	UpdateWebhookRequest   = models.UpdateWebhookRequest

	IngestResponse  = models.IngestResponse
	SearchResult    = models.SearchResult
	Space           = models.Space
	LogEntry        = models.LogEntry
	IngestionStatus = models.IngestionStatus
	UserProfile     = models.UserProfile
	Webhook         = models.Webhook
)

// Instance registry.
type (
	Registry = registry.Registry
	Instance = registry.Instance
)

// LoadRegistry parses the dotenv instance registry at path; an empty path
// selects ~/.heysol/.env, then ./.env.
func LoadRegistry(path string, logger *log.Logger) (*Registry, error) {
	return registry.Load(path, logger)
}
