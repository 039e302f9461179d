package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Modes(t *testing.T) {
	for _, development := range []bool{true, false} {
		log, level, err := newLogger(Config{Level: zapcore.DebugLevel, Development: development})

		require.NoError(t, err)
		require.NotNil(t, log)
		assert.Equal(t, zapcore.DebugLevel, level.Level())
		_ = log.Sync()
	}
}

func TestNewLogger_AtomicLevelIsAdjustable(t *testing.T) {
	log, level, err := newLogger(Config{Level: zapcore.InfoLevel})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	level.SetLevel(zapcore.DebugLevel)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, _, err := newLogger(Config{Level: zapcore.InfoLevel, OutputPaths: []string{path}})

	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, log.Sync())
	assert.FileExists(t, path)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	_, _, err := newLogger(Config{OutputPaths: []string{""}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
