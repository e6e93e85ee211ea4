package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heysol.ai/client/internal/config"
	"heysol.ai/client/internal/models"
	heysolerrors "heysol.ai/client/pkg/errors"
)

func testConfig(serverURL string) config.Config {
	cfg := config.Default()
	cfg.APIKey = "rc_pat_test_key_1234567890abcdef"
	cfg.BaseURL = serverURL
	cfg.ProfileURL = serverURL + "/profile"
	cfg.Source = "test-source"
	cfg.Timeout = 5 * time.Second
	return cfg
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(testConfig(serverURL), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// failOnRequest returns a server that fails the test when reached; used to
// prove validation happens before any network attempt.
func failOnRequest(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s %s", r.Method, r.URL.Path)
	}))
	t.Cleanup(server.Close)
	return server
}

// TestNewClient_ValidatesConfiguration tests construction-time checks
func TestNewClient_ValidatesConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *config.Config)
		wantErr     string
		description string
	}{
		{
			name:        "ValidConfig_Succeeds",
			mutate:      func(cfg *config.Config) {},
			description: "Prefixed key with sane timeout",
		},
		{
			name:        "MissingAPIKey_Fails",
			mutate:      func(cfg *config.Config) { cfg.APIKey = "" },
			wantErr:     "API key is required",
			description: "REST transport cannot run unauthenticated",
		},
		{
			name:        "UnprefixedAPIKey_Fails",
			mutate:      func(cfg *config.Config) { cfg.APIKey = "not-a-heysol-key" },
			wantErr:     "API key must start with 'rc_pat_'",
			description: "Foreign key formats are rejected",
		},
		{
			name:        "TimeoutOutOfRange_Fails",
			mutate:      func(cfg *config.Config) { cfg.Timeout = 400 * time.Second },
			wantErr:     "Timeout must be between 1 and 300 seconds",
			description: "Timeout window is enforced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("https://unused.example.com")
			tt.mutate(&cfg)

			client, err := NewClient(cfg, nil)

			if tt.wantErr != "" {
				require.Error(t, err, tt.description)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, heysolerrors.IsValidation(err))
				assert.Nil(t, client)
			} else {
				require.NoError(t, err, tt.description)
				assert.NotNil(t, client)
			}
		})
	}
}

// TestClient_SendsAuthHeadersOnEveryRequest tests the common header set
func TestClient_SendsAuthHeadersOnEveryRequest(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		_, _ = w.Write([]byte(`{"run_id":"run-1"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Ingest("note", IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer rc_pat_test_key_1234567890abcdef", captured.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Get("Content-Type"))
	assert.Equal(t, userAgent, captured.Get("User-Agent"))
}

// TestClient_Ingest tests the POST /add operation
func TestClient_Ingest(t *testing.T) {
	t.Run("Success_ReturnsRunID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/add", r.URL.Path)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "remember the milk", payload["episodeBody"])
			assert.Equal(t, "test-source", payload["source"], "default source comes from the config")
			_, hasSpace := payload["spaceId"]
			assert.False(t, hasSpace, "unset space is omitted")

			_, _ = w.Write([]byte(`{"run_id":"run-42"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		response, err := client.Ingest("remember the milk", IngestOptions{})

		require.NoError(t, err)
		assert.Equal(t, "run-42", response.RunID)
	})

	t.Run("WithSpaceID_SendsSpaceField", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "space-123", payload["spaceId"])
			_, _ = w.Write([]byte(`{"run_id":"run-43"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Ingest("note", IngestOptions{SpaceID: "space-123"})
		require.NoError(t, err)
	})

	t.Run("EmptyMessage_FailsBeforeNetwork", func(t *testing.T) {
		client := newTestClient(t, failOnRequest(t).URL)

		_, err := client.Ingest("", IngestOptions{})

		require.Error(t, err)
		assert.Equal(t, "Message is required", err.Error())
		assert.True(t, heysolerrors.IsValidation(err))
	})
}

// TestClient_Search tests the POST /search operation
func TestClient_Search(t *testing.T) {
	t.Run("Success_DecodesEpisodes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/search", r.URL.Path)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "milk", payload["query"])
			assert.Equal(t, float64(5), payload["limit"])

			_, _ = w.Write([]byte(`{"episodes":[{"content":"remember the milk","score":0.93}],"total_count":1}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		result, err := client.Search("milk", SearchOptions{Limit: 5, SpaceIDs: []string{"space-1"}})

		require.NoError(t, err)
		require.Len(t, result.Episodes, 1)
		assert.Equal(t, "remember the milk", result.Episodes[0]["content"])
		require.NotNil(t, result.TotalCount)
		assert.Equal(t, 1, *result.TotalCount)
	})

	t.Run("EmptyQuery_FailsBeforeNetwork", func(t *testing.T) {
		client := newTestClient(t, failOnRequest(t).URL)

		_, err := client.Search("", SearchOptions{})

		require.Error(t, err)
		assert.Equal(t, "Search query is required", err.Error())
	})
}

// TestClient_ErrorMapping tests status-code to error-category mapping
func TestClient_ErrorMapping(t *testing.T) {
	t.Run("Unauthorized_MapsToAuthError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.GetSpaces()

		require.Error(t, err)
		assert.Equal(t, "authentication failed - check your API key", err.Error())
		assert.True(t, heysolerrors.IsAuth(err))
	})

	t.Run("ServerError_MapsToTransportError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.GetSpaces()

		require.Error(t, err)
		assert.Equal(t, "API returned status 500: boom", err.Error())
		assert.True(t, heysolerrors.IsTransport(err))

		heysolErr, ok := heysolerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, heysolErr.Status)
	})

	t.Run("NoRetry_SingleAttemptPerCall", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.GetSpaces()

		require.Error(t, err)
		assert.Equal(t, 1, hits, "failed calls are not retried")
	})
}

// TestClient_Spaces tests the spaces CRUD operations
func TestClient_Spaces(t *testing.T) {
	t.Run("GetSpaces_DecodesList", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/spaces", r.URL.Path)
			_, _ = w.Write([]byte(`[{"id":"space-1","name":"Research"},{"id":"space-2","name":"Personal"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		spaces, err := client.GetSpaces()

		require.NoError(t, err)
		require.Len(t, spaces, 2)
		assert.Equal(t, "Research", spaces[0].Name)
	})

	t.Run("CreateSpace_ReturnsIdentifier", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			_, _ = w.Write([]byte(`{"space_id":"space-9"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		spaceID, err := client.CreateSpace("Research", "Notes about research")

		require.NoError(t, err)
		assert.Equal(t, "space-9", spaceID)
	})

	t.Run("CreateSpace_EmptyName_FailsBeforeNetwork", func(t *testing.T) {
		client := newTestClient(t, failOnRequest(t).URL)

		_, err := client.CreateSpace("", "")

		require.Error(t, err)
		assert.Equal(t, "Space name is required", err.Error())
	})

	t.Run("GetSpace_PlaceholderID_FailsBeforeNetwork", func(t *testing.T) {
		client := newTestClient(t, failOnRequest(t).URL)

		_, err := client.GetSpace("test")

		require.Error(t, err)
		assert.True(t, heysolerrors.IsValidation(err))
	})

	t.Run("UpdateSpace_SendsPartialBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/spaces/space-1", r.URL.Path)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Renamed", payload["name"])
			_, hasDescription := payload["description"]
			assert.False(t, hasDescription, "unset fields stay off the wire")

			_, _ = w.Write([]byte(`{"id":"space-1","name":"Renamed"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		name := "Renamed"
		space, err := client.UpdateSpace("space-1", models.UpdateSpaceRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", space.Name)
	})

	t.Run("DeleteSpace_IssuesDelete", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/spaces/space-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		assert.NoError(t, client.DeleteSpace("space-1"))
	})
}

// TestClient_Logs tests log listing, filtering, and derived operations
func TestClient_Logs(t *testing.T) {
	t.Run("GetLogs_PassesFilters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/logs", r.URL.Path)
			query := r.URL.Query()
			assert.Equal(t, "cli", query.Get("source"))
			assert.Equal(t, "queued", query.Get("status"))
			assert.Equal(t, "25", query.Get("limit"))
			_, _ = w.Write([]byte(`[{"id":"log-1","source":"cli","ingest_text":"note"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		entries, err := client.GetLogs(LogsOptions{Source: "cli", Status: "queued", Limit: 25})

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "log-1", entries[0].ID)
	})

	t.Run("GetIngestionStatus_Decodes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/logs/status", r.URL.Path)
			_, _ = w.Write([]byte(`{"ingestion_status":"active","recent_logs_count":12}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		status, err := client.GetIngestionStatus()

		require.NoError(t, err)
		assert.Equal(t, "active", status.IngestionStatus)
		require.NotNil(t, status.RecentLogsCount)
		assert.Equal(t, 12, *status.RecentLogsCount)
	})

	t.Run("GetLogSources_DeduplicatesInOrder", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"a","source":"cli"},{"id":"b","source":"sdk"},{"id":"c","source":"cli"},{"id":"d"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		sources, err := client.GetLogSources(LogsOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{"cli", "sdk"}, sources)
	})

	t.Run("DeleteLogsBySource_DeletesEachEntry", func(t *testing.T) {
		deleted := []string{}
		mux := http.NewServeMux()
		mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "old-source", r.URL.Query().Get("source"))
			_, _ = w.Write([]byte(`[{"id":"log-1"},{"id":"log-2"}]`))
		})
		mux.HandleFunc("/logs/", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, server.URL)
		count, err := client.DeleteLogsBySource("old-source", LogsOptions{})

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{"/logs/log-1", "/logs/log-2"}, deleted)
	})

	t.Run("MoveLogsToSource_ReingestsThenDeletes", func(t *testing.T) {
		var ingested []string
		var deleted []string
		mux := http.NewServeMux()
		mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"log-1","ingest_text":"first"},{"id":"log-2"}]`))
		})
		mux.HandleFunc("/add", func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			ingested = append(ingested, payload["episodeBody"].(string))
			assert.Equal(t, "new-source", payload["source"])
			_, _ = w.Write([]byte(`{"run_id":"run-1"}`))
		})
		mux.HandleFunc("/logs/", func(w http.ResponseWriter, r *http.Request) {
			deleted = append(deleted, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, server.URL)
		moved, err := client.MoveLogsToSource("new-source", LogsOptions{Source: "old-source"})

		require.NoError(t, err)
		assert.Equal(t, 1, moved, "entries without ingestable text are skipped")
		assert.Equal(t, []string{"first"}, ingested)
		assert.Equal(t, []string{"/logs/log-1"}, deleted)
	})

	t.Run("CopyLogsToSource_MissingTarget_Fails", func(t *testing.T) {
		client := newTestClient(t, failOnRequest(t).URL)

		_, err := client.CopyLogsToSource("", LogsOptions{Source: "old"})

		require.Error(t, err)
		assert.Equal(t, "Target source is required", err.Error())
	})
}

// TestClient_Webhooks tests webhook CRUD operations
func TestClient_Webhooks(t *testing.T) {
	t.Run("Register_SendsPayload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/webhooks", r.URL.Path)
			require.Equal(t, http.MethodPost, r.Method)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "https://example.com/hook", payload["url"])

			_, _ = w.Write([]byte(`{"id":"hook-1","url":"https://example.com/hook","active":true}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		webhook, err := client.RegisterWebhook("https://example.com/hook", "s3cret", []string{"memory.created"})

		require.NoError(t, err)
		assert.Equal(t, "hook-1", webhook.ID)
		assert.True(t, webhook.Active)
	})

	t.Run("Register_MissingSecret_FailsBeforeNetwork", func(t *testing.T) {
		client := newTestClient(t, failOnRequest(t).URL)

		_, err := client.RegisterWebhook("https://example.com/hook", "", nil)

		require.Error(t, err)
		assert.Equal(t, "Webhook secret is required", err.Error())
	})

	t.Run("Update_EmptyEvents_FailsBeforeNetwork", func(t *testing.T) {
		client := newTestClient(t, failOnRequest(t).URL)

		_, err := client.UpdateWebhook("hook-1", models.UpdateWebhookRequest{
			URL:    "https://example.com/hook",
			Secret: "s3cret",
		})

		require.Error(t, err)
		assert.Equal(t, "Events list cannot be empty", err.Error())
	})

	t.Run("List_PassesLimit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"id":"hook-1","url":"https://example.com/hook","active":true}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		webhooks, err := client.ListWebhooks(10)

		require.NoError(t, err)
		assert.Len(t, webhooks, 1)
	})
}

// TestClient_GetUserProfile tests the out-of-base profile endpoint
func TestClient_GetUserProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/profile", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"user-1","email":"dev@example.com","name":"Dev"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	profile, err := client.GetUserProfile()

	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", profile.Email)
}

// TestClient_Stats tests that counters track request outcomes
func TestClient_Stats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/spaces" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.GetSpaces()
	require.NoError(t, err)
	_, err = client.GetIngestionStatus()
	require.Error(t, err)

	stats := client.Stats()
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.SuccessfulRequests)
	assert.Equal(t, int64(1), stats.FailedRequests)
	assert.NotEmpty(t, stats.LastError)
}

// TestClient_Close_IsIdempotent tests repeated shutdown
func TestClient_Close_IsIdempotent(t *testing.T) {
	client, err := NewClient(testConfig("https://unused.example.com"), nil)
	require.NoError(t, err)

	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}
