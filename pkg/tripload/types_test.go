package tripload

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() LoadConfig {
	return LoadConfig{
		DataDir:    "data",
		SourceFile: DefaultSourceFile,
		LookupFile: DefaultLookupFile,
		Connection: &ConnectionConfig{Host: "localhost", Port: 5432, Database: "taxi"},
	}
}

func TestLoadConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *LoadConfig)
		wantErr bool
	}{
		{"valid", func(c *LoadConfig) {}, false},
		{"missing source", func(c *LoadConfig) { c.SourceFile = "" }, true},
		{"missing source with skip transform", func(c *LoadConfig) {
			c.SourceFile = ""
			c.OutputFile = "trips.csv"
			c.SkipTransform = true
		}, false},
		{"missing lookup", func(c *LoadConfig) { c.LookupFile = "" }, true},
		{"missing lookup without database", func(c *LoadConfig) {
			c.LookupFile = ""
			c.Connection = nil
			c.SkipDatabase = true
		}, false},
		{"missing connection", func(c *LoadConfig) { c.Connection = nil }, true},
		{"skip everything", func(c *LoadConfig) {
			c.SkipTransform = true
			c.SkipDatabase = true
		}, true},
		{"negative timeout", func(c *LoadConfig) { c.Timeout = -1 }, true},
		{"zero timeout means no deadline", func(c *LoadConfig) { c.Timeout = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Validate_JoinsAllProblems(t *testing.T) {
	cfg := LoadConfig{Timeout: -1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SourceFile is required")
	assert.Contains(t, err.Error(), "LookupFile is required")
	assert.Contains(t, err.Error(), "Connection is required")
	assert.Contains(t, err.Error(), "timeout cannot be negative")
}

func TestLoadConfig_Paths(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, filepath.Join("data", "yellow_tripdata_2025-01.parquet"), cfg.SourcePath())
	assert.Equal(t, filepath.Join("data", "yellow_tripdata_2025-01.csv"), cfg.OutputPath())
	assert.Equal(t, filepath.Join("data", "taxi_zone_lookup.csv"), cfg.LookupPath())

	cfg.OutputFile = "out.csv"
	assert.Equal(t, filepath.Join("data", "out.csv"), cfg.OutputPath())

	abs := filepath.Join(t.TempDir(), "trips.parquet")
	cfg.SourceFile = abs
	assert.Equal(t, abs, cfg.SourcePath())
}

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		in   string
		want AuthMethod
	}{
		{"", AuthMethodStandard},
		{"standard", AuthMethodStandard},
		{"AWS", AuthMethodAWSIAM},
		{"google", AuthMethodGoogleIAM},
		{"azure", AuthMethodAzureEntraID},
	}
	for _, tt := range tests {
		got, err := ParseAuthMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAuthMethod("kerberos")
	assert.ErrorIs(t, err, ErrUnsupportedAuthMethod)
}

func TestAuthMethod_String(t *testing.T) {
	assert.Equal(t, "Standard", AuthMethodStandard.String())
	assert.Equal(t, "Azure Entra ID", AuthMethodAzureEntraID.String())
	assert.Equal(t, "Unknown(42)", AuthMethod(42).String())
	assert.False(t, AuthMethod(42).IsValid())
	assert.True(t, AuthMethodAWSIAM.UsesToken())
	assert.False(t, AuthMethodStandard.UsesToken())
}
