package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigVersion(t *testing.T) {
	tests := []struct {
		name          string
		toolVersion   string
		configVersion string
		expectError   bool
		errorContains string
	}{
		{
			name:          "exact match",
			toolVersion:   "1.2.0",
			configVersion: "1.2.0",
		},
		{
			name:          "short config version",
			toolVersion:   "v1.2.3",
			configVersion: "1.2",
		},
		{
			name:          "older config minor",
			toolVersion:   "1.3.0",
			configVersion: "1.1",
		},
		{
			name:          "empty config version skips check",
			toolVersion:   "1.0.0",
			configVersion: "",
		},
		{
			name:          "development build skips check",
			toolVersion:   "main",
			configVersion: "9.9",
		},
		{
			name:          "newer config minor",
			toolVersion:   "1.1.0",
			configVersion: "1.2",
			expectError:   true,
			errorContains: "or newer",
		},
		{
			name:          "major mismatch",
			toolVersion:   "2.0.0",
			configVersion: "1.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "invalid config version",
			toolVersion:   "1.0.0",
			configVersion: "one",
			expectError:   true,
			errorContains: "invalid config version",
		},
		{
			name:          "invalid tool version",
			toolVersion:   "dev-build",
			configVersion: "1.0",
			expectError:   true,
			errorContains: "invalid tool version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigVersion(tt.toolVersion, tt.configVersion)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestGetVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "v1.4.2"
	assert.Equal(t, "v1.4.2", GetVersion())
}
