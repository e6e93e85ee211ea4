package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	heysolerrors "heysol.ai/client/pkg/errors"
)

// TestDefault_ReturnsBuiltInValues tests the built-in configuration
func TestDefault_ReturnsBuiltInValues(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "https://core.heysol.ai/api/v1", cfg.BaseURL)
	assert.Equal(t, "https://core.heysol.ai/api/v1/mcp?source=heysol-api-client", cfg.MCPURL)
	assert.Equal(t, "https://core.heysol.ai/api/profile", cfg.ProfileURL)
	assert.Equal(t, "heysol-api-client", cfg.Source)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

// TestFromEnv_OverlaysEachVariable tests per-variable environment overrides
func TestFromEnv_OverlaysEachVariable(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(t *testing.T, cfg Config)
	}{
		{
			name:     "APIKey",
			envVar:   "HEYSOL_API_KEY",
			envValue: "rc_pat_from_env",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "rc_pat_from_env", cfg.APIKey)
			},
		},
		{
			name:     "BaseURL",
			envVar:   "HEYSOL_BASE_URL",
			envValue: "https://staging.heysol.ai/api/v1",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "https://staging.heysol.ai/api/v1", cfg.BaseURL)
				assert.Equal(t, DefaultMCPURL, cfg.MCPURL, "other fields keep their defaults")
			},
		},
		{
			name:     "MCPURL",
			envVar:   "HEYSOL_MCP_URL",
			envValue: "https://staging.heysol.ai/api/v1/mcp",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "https://staging.heysol.ai/api/v1/mcp", cfg.MCPURL)
			},
		},
		{
			name:     "ProfileURL",
			envVar:   "HEYSOL_PROFILE_URL",
			envValue: "https://staging.heysol.ai/api/profile",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "https://staging.heysol.ai/api/profile", cfg.ProfileURL)
			},
		},
		{
			name:     "Source",
			envVar:   "HEYSOL_SOURCE",
			envValue: "integration-suite",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "integration-suite", cfg.Source)
			},
		},
		{
			name:     "Timeout",
			envVar:   "HEYSOL_TIMEOUT",
			envValue: "30",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 30*time.Second, cfg.Timeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.envValue)

			cfg, err := FromEnv()
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

// TestFromEnv_EmptyVariable_KeepsDefault tests that empty values fall back
func TestFromEnv_EmptyVariable_KeepsDefault(t *testing.T) {
	t.Setenv("HEYSOL_BASE_URL", "")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

// TestFromEnv_MalformedTimeout_ReturnsError tests non-integer timeouts
func TestFromEnv_MalformedTimeout_ReturnsError(t *testing.T) {
	t.Setenv("HEYSOL_TIMEOUT", "sixty")

	_, err := FromEnv()

	assert.Error(t, err)
}

// TestConfig_Validate tests the construction-time guard rails
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		wantErr     string
		description string
	}{
		{
			name:        "Defaults_AreValid",
			mutate:      func(cfg *Config) {},
			description: "Empty key with default timeout passes",
		},
		{
			name:        "PrefixedKey_IsValid",
			mutate:      func(cfg *Config) { cfg.APIKey = "rc_pat_1234567890abcdef" },
			description: "Key with the vendor prefix passes",
		},
		{
			name:        "UnprefixedKey_Fails",
			mutate:      func(cfg *Config) { cfg.APIKey = "sk-something-else" },
			wantErr:     "API key must start with 'rc_pat_'",
			description: "Foreign key formats are rejected",
		},
		{
			name:        "TimeoutTooSmall_Fails",
			mutate:      func(cfg *Config) { cfg.Timeout = 0 },
			wantErr:     "Timeout must be between 1 and 300 seconds",
			description: "Zero timeout is below the minimum",
		},
		{
			name:        "TimeoutTooLarge_Fails",
			mutate:      func(cfg *Config) { cfg.Timeout = 301 * time.Second },
			wantErr:     "Timeout must be between 1 and 300 seconds",
			description: "Above the maximum",
		},
		{
			name:        "TimeoutAtMinimum_IsValid",
			mutate:      func(cfg *Config) { cfg.Timeout = MinTimeout },
			description: "Lower bound is inclusive",
		},
		{
			name:        "TimeoutAtMaximum_IsValid",
			mutate:      func(cfg *Config) { cfg.Timeout = MaxTimeout },
			description: "Upper bound is inclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr != "" {
				require.Error(t, err, tt.description)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, heysolerrors.IsValidation(err))
			} else {
				assert.NoError(t, err, tt.description)
			}
		})
	}
}

// TestConfig_Validate_PropertyBased_TimeoutBounds tests the timeout window
func TestConfig_Validate_PropertyBased_TimeoutBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seconds := rapid.IntRange(-10, 600).Draw(t, "seconds")

		cfg := Default()
		cfg.Timeout = time.Duration(seconds) * time.Second
		err := cfg.Validate()

		if seconds < 1 || seconds > 300 {
			assert.Error(t, err, "timeout of %d seconds must be rejected", seconds)
		} else {
			assert.NoError(t, err, "timeout of %d seconds must be accepted", seconds)
		}
	})
}
