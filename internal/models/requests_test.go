package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	heysolerrors "heysol.ai/client/pkg/errors"
)

// TestIngestRequest_Validate_ChecksRequiredFields tests ingestion payload validation
func TestIngestRequest_Validate_ChecksRequiredFields(t *testing.T) {
	tests := []struct {
		name        string
		request     IngestRequest
		wantErr     string
		description string
	}{
		{
			name:        "ValidRequest_ShouldSucceed",
			request:     NewIngestRequest("remember this", "heysol-api-client"),
			description: "Message and source present",
		},
		{
			name:        "EmptyMessage_ShouldFail",
			request:     NewIngestRequest("", "heysol-api-client"),
			wantErr:     "Message is required",
			description: "Empty episode body is rejected before any network call",
		},
		{
			name:        "EmptySource_ShouldFail",
			request:     NewIngestRequest("remember this", ""),
			wantErr:     "Source is required",
			description: "Empty source is rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()

			if tt.wantErr != "" {
				require.Error(t, err, tt.description)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, heysolerrors.IsValidation(err), "validation failures must carry the validation category")
			} else {
				assert.NoError(t, err, tt.description)
			}
		})
	}
}

// TestIngestRequest_WireFormat tests the JSON shape sent to POST /add
func TestIngestRequest_WireFormat(t *testing.T) {
	t.Run("WithoutSpaceID_OmitsField", func(t *testing.T) {
		request := NewIngestRequest("note", "cli")

		data, err := json.Marshal(request)
		require.NoError(t, err)

		var wire map[string]any
		require.NoError(t, json.Unmarshal(data, &wire))

		_, present := wire["spaceId"]
		assert.False(t, present, "unset space must be omitted, never sent as null")
		assert.Equal(t, "note", wire["episodeBody"])
		assert.Equal(t, DefaultReferenceTime, wire["referenceTime"])
		assert.Equal(t, "cli", wire["source"])
		assert.Equal(t, "", wire["sessionId"], "session id is always serialized")
		assert.NotNil(t, wire["metadata"], "metadata is always serialized")
	})

	t.Run("WithSpaceID_IncludesField", func(t *testing.T) {
		request := NewIngestRequest("note", "cli")
		spaceID := "cmg2ulh5r06kanx1vn3sshzrx"
		request.SpaceID = &spaceID

		data, err := json.Marshal(request)
		require.NoError(t, err)

		var wire map[string]any
		require.NoError(t, json.Unmarshal(data, &wire))
		assert.Equal(t, spaceID, wire["spaceId"])
	})
}

// TestSearchRequest_Validate_ChecksQuery tests search payload validation
func TestSearchRequest_Validate_ChecksQuery(t *testing.T) {
	t.Run("EmptyQuery_ShouldFail", func(t *testing.T) {
		request := NewSearchRequest("")

		err := request.Validate()

		require.Error(t, err)
		assert.Equal(t, "Search query is required", err.Error())
		assert.True(t, heysolerrors.IsValidation(err))
	})

	t.Run("ValidQuery_ShouldSucceed", func(t *testing.T) {
		request := NewSearchRequest("preference notes")
		request.SpaceIDs = []string{"space-1"}
		request.Limit = 5

		assert.NoError(t, request.Validate())
	})

	t.Run("ZeroLimit_OmittedFromWire", func(t *testing.T) {
		data, err := json.Marshal(NewSearchRequest("q"))
		require.NoError(t, err)

		var wire map[string]any
		require.NoError(t, json.Unmarshal(data, &wire))

		_, present := wire["limit"]
		assert.False(t, present, "zero limit defers to the server default")
		assert.NotNil(t, wire["space_ids"], "space filter is always serialized")
	})
}

// TestSpaceRequests_Validate tests space create/update validation
func TestSpaceRequests_Validate(t *testing.T) {
	t.Run("CreateWithEmptyName_ShouldFail", func(t *testing.T) {
		request := CreateSpaceRequest{Name: ""}

		err := request.Validate()

		require.Error(t, err)
		assert.Equal(t, "Space name is required", err.Error())
	})

	t.Run("CreateWithName_ShouldSucceed", func(t *testing.T) {
		request := CreateSpaceRequest{Name: "Research", Description: "Notes"}
		assert.NoError(t, request.Validate())
	})

	t.Run("UpdateWithNoFields_ShouldFail", func(t *testing.T) {
		request := UpdateSpaceRequest{}

		err := request.Validate()

		require.Error(t, err)
		assert.Equal(t, "At least one field is required for update", err.Error())
	})

	t.Run("UpdateWithEmptyName_ShouldFail", func(t *testing.T) {
		name := ""
		request := UpdateSpaceRequest{Name: &name}

		err := request.Validate()

		require.Error(t, err)
		assert.Equal(t, "Space name is required", err.Error())
	})

	t.Run("UpdateWithDescriptionOnly_ShouldSucceed", func(t *testing.T) {
		description := "refreshed"
		request := UpdateSpaceRequest{Description: &description}

		assert.NoError(t, request.Validate())
	})
}

// TestWebhookRequests_Validate tests webhook register/update validation
func TestWebhookRequests_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     interface{ Validate() error }
		wantErr     string
		description string
	}{
		{
			name:        "RegisterValid_ShouldSucceed",
			request:     &RegisterWebhookRequest{URL: "https://example.com/hook", Secret: "s3cret", Events: []string{"memory.created"}},
			description: "Absolute URL and secret present",
		},
		{
			name:        "RegisterEmptyEvents_ShouldSucceed",
			request:     &RegisterWebhookRequest{URL: "https://example.com/hook", Secret: "s3cret"},
			description: "Events may be empty at registration",
		},
		{
			name:        "RegisterMissingURL_ShouldFail",
			request:     &RegisterWebhookRequest{Secret: "s3cret"},
			wantErr:     "Webhook URL is required",
			description: "URL is mandatory",
		},
		{
			name:        "RegisterRelativeURL_ShouldFail",
			request:     &RegisterWebhookRequest{URL: "/hook", Secret: "s3cret"},
			wantErr:     "Webhook URL must be a valid URL",
			description: "URL must be absolute",
		},
		{
			name:        "RegisterMissingSecret_ShouldFail",
			request:     &RegisterWebhookRequest{URL: "https://example.com/hook"},
			wantErr:     "Webhook secret is required",
			description: "Secret is mandatory",
		},
		{
			name:        "UpdateEmptyEvents_ShouldFail",
			request:     &UpdateWebhookRequest{URL: "https://example.com/hook", Secret: "s3cret"},
			wantErr:     "Events list cannot be empty",
			description: "Updates must keep at least one event",
		},
		{
			name:        "UpdateMissingSecret_ShouldFail",
			request:     &UpdateWebhookRequest{URL: "https://example.com/hook", Events: []string{"memory.created"}},
			wantErr:     "Webhook secret is required",
			description: "Secret is mandatory on update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()

			if tt.wantErr != "" {
				require.Error(t, err, tt.description)
				assert.Equal(t, tt.wantErr, err.Error())
			} else {
				assert.NoError(t, err, tt.description)
			}
		})
	}
}

// TestNewUpdateWebhookRequest_DefaultsActive tests the update constructor
func TestNewUpdateWebhookRequest_DefaultsActive(t *testing.T) {
	request := NewUpdateWebhookRequest("https://example.com/hook", "s3cret", []string{"memory.created"})

	assert.True(t, request.Active, "updated webhooks stay active unless disabled explicitly")
	assert.NoError(t, request.Validate())
}

// TestCreateSpaceResponse_Identifier tests the space_id / id fallback
func TestCreateSpaceResponse_Identifier(t *testing.T) {
	assert.Equal(t, "abc", CreateSpaceResponse{SpaceID: "abc"}.Identifier())
	assert.Equal(t, "xyz", CreateSpaceResponse{ID: "xyz"}.Identifier())
	assert.Equal(t, "abc", CreateSpaceResponse{SpaceID: "abc", ID: "xyz"}.Identifier())
}

// Property-based tests using rapid

// TestIngestRequest_PropertyBased_RoundTrip tests ingest wire round-trips
func TestIngestRequest_PropertyBased_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		request := NewIngestRequest(
			rapid.StringMatching(`[^\x00]{1,64}`).Draw(t, "message"),
			rapid.StringMatching(`[a-z][a-z0-9-]{0,20}`).Draw(t, "source"),
		)
		request.SessionID = rapid.StringMatching(`[a-z0-9-]{0,24}`).Draw(t, "sessionID")
		if rapid.Bool().Draw(t, "withSpace") {
			spaceID := rapid.StringMatching(`[a-z0-9]{3,25}`).Draw(t, "spaceID")
			request.SpaceID = &spaceID
		}

		data, err := json.Marshal(request)
		require.NoError(t, err)

		var decoded IngestRequest
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, request.EpisodeBody, decoded.EpisodeBody)
		assert.Equal(t, request.ReferenceTime, decoded.ReferenceTime)
		assert.Equal(t, request.Source, decoded.Source)
		assert.Equal(t, request.SessionID, decoded.SessionID)
		assert.Equal(t, request.SpaceID, decoded.SpaceID)
	})
}

// TestSearchRequest_PropertyBased_RoundTrip tests search wire round-trips
func TestSearchRequest_PropertyBased_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		request := NewSearchRequest(rapid.StringMatching(`[^\x00]{1,64}`).Draw(t, "query"))
		request.SpaceIDs = rapid.SliceOfN(rapid.StringMatching(`[a-z0-9]{3,25}`), 0, 4).Draw(t, "spaceIDs")
		request.IncludeInvalidated = rapid.Bool().Draw(t, "includeInvalidated")
		request.Limit = rapid.IntRange(0, 100).Draw(t, "limit")

		data, err := json.Marshal(request)
		require.NoError(t, err)

		var decoded SearchRequest
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, request.Query, decoded.Query)
		assert.Equal(t, request.SpaceIDs, decoded.SpaceIDs)
		assert.Equal(t, request.IncludeInvalidated, decoded.IncludeInvalidated)
		assert.Equal(t, request.Limit, decoded.Limit)
	})
}
