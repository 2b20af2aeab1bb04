package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "standardize.log")
	logger, err := New(Options{Level: zapcore.InfoLevel, File: path})
	require.NoError(t, err)

	logger.Debug("hidden detail")
	logger.Info("rewrote bullet", zap.String("company", "toyota"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rewrote bullet")
	assert.Contains(t, string(data), "toyota")
	assert.NotContains(t, string(data), "hidden detail")
}

func TestNewHonoursDebugLevel(t *testing.T) {
	logger, err := New(Options{Level: zapcore.DebugLevel})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
