package logger

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := newConfig(viper.New())

	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level)
	assert.Equal(t, zapcore.ErrorLevel, cfg.StacktraceLevel)
	assert.False(t, cfg.Development)
}

func TestNewConfig_ParsesLevels(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		expectedLevel zapcore.Level
	}{
		{name: "debug", level: "debug", expectedLevel: zapcore.DebugLevel},
		{name: "warn", level: "warn", expectedLevel: zapcore.WarnLevel},
		{name: "upper case error", level: "ERROR", expectedLevel: zapcore.ErrorLevel},
		{name: "empty falls back to info", level: "", expectedLevel: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("logger.level", tt.level)
			v.Set("logger.development", true)

			cfg, err := newConfig(v)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedLevel, cfg.Level)
			assert.True(t, cfg.Development)
		})
	}
}

func TestNewConfig_InvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set("logger.level", "loud")

	_, err := newConfig(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewConfig_InvalidStacktraceLevel(t *testing.T) {
	v := viper.New()
	v.Set("logger.stacktraceLevel", "sometimes")

	_, err := newConfig(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stacktrace level")
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{OutputPaths: []string{"stdout"}}.Validate())
	assert.Error(t, Config{OutputPaths: []string{" "}}.Validate())
	assert.Error(t, Config{ErrorOutputPaths: []string{""}}.Validate())
}
