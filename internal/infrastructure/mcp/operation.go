package mcp

import (
	"fmt"

	heysolerrors "heysol.ai/client/pkg/errors"
)

// Operation names a logical call the client knows how to route over MCP.
// The set is closed: operations outside it are rejected at the boundary
// instead of being forwarded to the endpoint by name.
type Operation string

const (
	OpIngest         Operation = "ingest"
	OpSearch         Operation = "search"
	OpGetSpaces      Operation = "get_spaces"
	OpGetUserProfile Operation = "get_user_profile"
)

var toolNames = map[Operation]string{
	OpIngest:         "memory_ingest",
	OpSearch:         "memory_search",
	OpGetSpaces:      "memory_get_spaces",
	OpGetUserProfile: "get_user_profile",
}

// Operations lists every supported operation in a stable order.
func Operations() []Operation {
	return []Operation{OpIngest, OpSearch, OpGetSpaces, OpGetUserProfile}
}

// ToolName resolves the remote tool implementing op.
func (op Operation) ToolName() (string, error) {
	name, ok := toolNames[op]
	if !ok {
		return "", heysolerrors.NewValidationError(fmt.Sprintf("unsupported MCP operation: %q", string(op)))
	}
	return name, nil
}

// IngestArgs carries the arguments for the memory_ingest tool.
type IngestArgs struct {
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
	SpaceID   string `json:"space_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// SearchArgs carries the arguments for the memory_search tool.
type SearchArgs struct {
	Query    string   `json:"query"`
	SpaceIDs []string `json:"space_ids,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}
