package version

import (
	"testing"

	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engine        string
		required      string
		code          errors.ErrorCode
		errorContains string
	}{
		{name: "exact match", engine: "1.2.0", required: "1.2.0"},
		{name: "patch differs", engine: "1.2.7", required: "1.2.0"},
		{name: "v prefix", engine: "v1.2.0", required: "1.2.3"},
		{name: "no requirement", engine: "1.2.0", required: ""},
		{name: "development engine", engine: "main", required: "0.9.0"},
		{name: "development requirement", engine: "1.2.0", required: "main"},
		{
			name:          "minor differs",
			engine:        "1.3.0",
			required:      "1.2.0",
			code:          errors.ErrCodeBacktestConfigError,
			errorContains: "config targets engine 1.2.x",
		},
		{
			name:          "major differs",
			engine:        "2.0.0",
			required:      "1.9.0",
			code:          errors.ErrCodeBacktestConfigError,
			errorContains: "config targets engine 1.9.x",
		},
		{
			name:          "invalid requirement",
			engine:        "1.2.0",
			required:      "latest",
			code:          errors.ErrCodeInvalidConfiguration,
			errorContains: "invalid engine_version",
		},
		{
			name:          "invalid engine",
			engine:        "nightly",
			required:      "1.2.0",
			code:          errors.ErrCodeInvalidConfiguration,
			errorContains: "invalid engine version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCompatibility(tt.engine, tt.required)

			if tt.errorContains == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.True(t, errors.HasCode(err, tt.code))
		})
	}
}

func TestDevelopmentBuildByDefault(t *testing.T) {
	assert.Equal(t, "main", Version)
}
