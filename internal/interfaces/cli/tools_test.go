package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMCPServer answers the MCP handshake and advertises the given tools.
func newMCPServer(t *testing.T, toolNames ...string) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		var result any
		switch request.Method {
		case "initialize":
			w.Header().Set("Mcp-Session-Id", "session-cli")
			result = map[string]any{"protocolVersion": "2025-03-26"}
		case "tools/list":
			tools := make([]map[string]any, 0, len(toolNames))
			for _, name := range toolNames {
				tools = append(tools, map[string]any{"name": name, "description": "tool " + name})
			}
			result = map[string]any{"tools": tools}
		default:
			result = map[string]any{}
		}

		writeJSON(w, map[string]any{"jsonrpc": "2.0", "id": request.ID, "result": result})
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestToolsList_PrintsDiscoveredTools(t *testing.T) {
	mcpServer := newMCPServer(t, "memory_ingest", "memory_search")
	setTestEnv(t, nil)
	t.Setenv("HEYSOL_MCP_URL", mcpServer.URL)
	container := testContainer(t)

	output, err := executeCommand(t, container, "tools", "list", "--api-key", testKey)
	require.NoError(t, err)

	var listing []map[string]string
	require.NoError(t, json.Unmarshal([]byte(output), &listing))
	require.Len(t, listing, 2)
	assert.Equal(t, "memory_ingest", listing[0]["name"])
	assert.Equal(t, "tool memory_ingest", listing[0]["description"])
}

func TestToolsList_FailsWhenMCPUnavailable(t *testing.T) {
	server := newAPIServer(t)
	setTestEnv(t, server)
	container := testContainer(t)

	_, err := executeCommand(t, container, "tools", "list", "--api-key", testKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MCP is not available")
}
