package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		wantDebug   bool
	}{
		{"production", false, false},
		{"development", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.development)
			require.NoError(t, err)
			assert.True(t, logger.Enabled())
			assert.Equal(t, tt.wantDebug, logger.V(LogDebug).Enabled())
		})
	}
}
