package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, tc := range []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", "json", zapcore.DebugLevel},
		{"info", "", zapcore.InfoLevel},
		{" warn ", "console", zapcore.WarnLevel},
		{"error", "CONSOLE", zapcore.ErrorLevel},
	} {
		logger, err := New(tc.level, tc.format)
		require.NoError(t, err, tc.level)
		assert.True(t, logger.Core().Enabled(tc.want), tc.level)
		assert.False(t, logger.Core().Enabled(tc.want-1), tc.level)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud", "json")
	assert.ErrorContains(t, err, `"loud"`)
}
