package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestIsValidIDFormat tests the identifier sanity heuristic
func TestIsValidIDFormat(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        bool
		description string
	}{
		{"HyphenatedID_IsValid", "valid-id-123", true, "Typical generated identifier"},
		{"CUIDStyleID_IsValid", "cmg2ulh5r06kanx1vn3sshzrx", true, "Server-issued identifier"},
		{"Empty_IsInvalid", "", false, "Empty string is never an identifier"},
		{"WhitespaceOnly_IsInvalid", "   ", false, "Whitespace trims to nothing"},
		{"PlaceholderInvalid_IsInvalid", "invalid", false, "Documentation placeholder"},
		{"PlaceholderTest_IsInvalid", "test", false, "Documentation placeholder"},
		{"TooShort_IsInvalid", "ab", false, "Below minimum length"},
		{"PaddedID_IsValid", "  real-id  ", true, "Surrounding whitespace is ignored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidIDFormat(tt.input), tt.description)
		})
	}
}

// TestIsValidIDFormat_PropertyBased_LengthRule tests the minimum-length rule
func TestIsValidIDFormat_PropertyBased_LengthRule(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z0-9-]{3,40}`).Draw(t, "id")

		if id == "invalid" || id == "test" {
			assert.False(t, IsValidIDFormat(id))
		} else {
			assert.True(t, IsValidIDFormat(id), "non-placeholder id of length >= 3: %q", id)
		}
	})
}
