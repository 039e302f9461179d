package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAppEnv(t *testing.T, env, name, version string) {
	t.Helper()
	t.Setenv(envAppEnv, env)
	t.Setenv(envAppServiceName, name)
	t.Setenv(envAppServiceVersion, version)
	t.Setenv(envConfigFile, "")
	t.Setenv(envConfigDir, "")
	t.Setenv(envConfigName, "")
}

func TestNewAppConfig_Success(t *testing.T) {
	// Arrange
	setAppEnv(t, "test", "device-catalogue", "1.0.0")

	// Act
	cfg, err := newAppConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "device-catalogue", cfg.ServiceName)
	assert.Equal(t, "1.0.0", cfg.ServiceVersion)
	assert.Equal(t, filepath.Join(defaultConfigDir, "config.test.yaml"), cfg.ConfigFile)
}

func TestNewAppConfig_MissingVariables(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "missing env", missing: envAppEnv},
		{name: "missing service name", missing: envAppServiceName},
		{name: "missing service version", missing: envAppServiceVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setAppEnv(t, "test", "device-catalogue", "1.0.0")
			t.Setenv(tt.missing, "")

			_, err := newAppConfig()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestNewAppConfig_ConfigFileResolution(t *testing.T) {
	t.Run("explicit config file wins", func(t *testing.T) {
		setAppEnv(t, "test", "svc", "1")
		t.Setenv(envConfigFile, "/custom/path/config.yaml")
		t.Setenv(envConfigDir, "/ignored")

		cfg, err := newAppConfig()

		require.NoError(t, err)
		assert.Equal(t, "/custom/path/config.yaml", cfg.ConfigFile)
	})

	t.Run("custom dir and name", func(t *testing.T) {
		setAppEnv(t, "pro", "svc", "2.1.0")
		t.Setenv(envConfigDir, "/opt/config")
		t.Setenv(envConfigName, "app")

		cfg, err := newAppConfig()

		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/opt/config", "app.yaml"), cfg.ConfigFile)
	})

	t.Run("custom dir uses env-based name", func(t *testing.T) {
		setAppEnv(t, "staging", "svc", "1")
		t.Setenv(envConfigDir, "/etc/catalogue")

		cfg, err := newAppConfig()

		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/etc/catalogue", "config.staging.yaml"), cfg.ConfigFile)
	})
}
