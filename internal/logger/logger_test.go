package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		debug         bool
		expectedLevel zapcore.Level
		expectedError bool
	}{
		{name: "info production", level: "info", expectedLevel: zapcore.InfoLevel},
		{name: "debug development", level: "debug", debug: true, expectedLevel: zapcore.DebugLevel},
		{name: "warn level", level: "warn", expectedLevel: zapcore.WarnLevel},
		{name: "invalid level", level: "loud", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := Logger
			t.Cleanup(func() { Logger = previous })

			err := Init(tt.level, tt.debug)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Same(t, previous, Logger)
				return
			}
			require.NoError(t, err)
			assert.True(t, Logger.Core().Enabled(tt.expectedLevel))
			if tt.expectedLevel > zapcore.DebugLevel {
				assert.False(t, Logger.Core().Enabled(tt.expectedLevel-1))
			}
		})
	}
}
