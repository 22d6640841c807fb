package version

import (
	"testing"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		recorded      string
		expectError   bool
		errorContains string
	}{
		{name: "exact match", current: "1.2.0", recorded: "1.2.0"},
		{name: "patch differs", current: "1.2.1", recorded: "1.2.9"},
		{name: "minor differs", current: "1.3.0", recorded: "1.2.0", expectError: true, errorContains: "version mismatch"},
		{name: "major differs", current: "2.2.0", recorded: "1.2.0", expectError: true, errorContains: "version mismatch"},
		{name: "current is main", current: "main", recorded: "0.1.0"},
		{name: "recorded is main", current: "1.2.0", recorded: "main"},
		{name: "v prefix", current: "v1.2.0", recorded: "1.2.3"},
		{name: "prerelease", current: "1.2.0-alpha", recorded: "1.2.0"},
		{name: "invalid current", current: "not-a-version", recorded: "1.2.0", expectError: true, errorContains: "invalid current version"},
		{name: "empty recorded", current: "1.2.0", recorded: "", expectError: true, errorContains: "invalid recorded version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCompatibility(tt.current, tt.recorded)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeIncompatibleVersion))
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
