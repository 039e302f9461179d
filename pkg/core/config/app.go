package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	envAppEnv            = "APP_ENV"
	envAppServiceName    = "APP_SERVICE_NAME"
	envAppServiceVersion = "APP_SERVICE_VERSION"
	envConfigFile        = "CONFIG_FILE"
	envConfigDir         = "CONFIG_DIR"
	envConfigName        = "CONFIG_NAME"
)

const defaultConfigDir = "./configs"

// AppConfig identifies the running service instance.
type AppConfig struct {
	ConfigFile     string
	ServiceName    string
	ServiceVersion string
	// Environment is the deployment environment (e.g. "local", "staging", "pro").
	Environment string
}

type appConfigOptions struct {
	static *AppConfig
}

// AppConfigOption configures NewAppConfigModule.
type AppConfigOption func(*appConfigOptions)

// WithAppConfig supplies a static AppConfig instead of reading the environment.
func WithAppConfig(cfg AppConfig) AppConfigOption {
	return func(o *appConfigOptions) {
		o.static = &cfg
	}
}

// NewAppConfigModule provides AppConfig.
//
// Required environment variables:
//   - APP_ENV
//   - APP_SERVICE_NAME
//   - APP_SERVICE_VERSION
//
// CONFIG_FILE, CONFIG_DIR and CONFIG_NAME optionally point at the YAML config
// (default: ./configs/config.{env}.yaml).
func NewAppConfigModule(opts ...AppConfigOption) fx.Option {
	o := &appConfigOptions{}
	for _, opt := range opts {
		opt(o)
	}

	provide := fx.Provide(newAppConfig)
	if o.static != nil {
		provide = fx.Supply(*o.static)
	}

	return fx.Module("appconfig",
		provide,
		fx.Invoke(func(log *zap.Logger, conf AppConfig) {
			log.Info("loaded application configuration",
				zap.String("service", conf.ServiceName),
				zap.String("version", conf.ServiceVersion),
				zap.String("environment", conf.Environment),
				zap.String("configFile", conf.ConfigFile),
			)
		}),
	)
}

func newAppConfig() (AppConfig, error) {
	env, err := requireEnv(envAppEnv)
	if err != nil {
		return AppConfig{}, err
	}
	serviceName, err := requireEnv(envAppServiceName)
	if err != nil {
		return AppConfig{}, err
	}
	serviceVersion, err := requireEnv(envAppServiceVersion)
	if err != nil {
		return AppConfig{}, err
	}

	return AppConfig{
		ConfigFile:     resolveConfigFile(env),
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    env,
	}, nil
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func resolveConfigFile(env string) string {
	if configFile := os.Getenv(envConfigFile); configFile != "" {
		return configFile
	}

	configDir := os.Getenv(envConfigDir)
	if configDir == "" {
		configDir = defaultConfigDir
	}

	configName := os.Getenv(envConfigName)
	if configName == "" {
		configName = "config." + env
	}

	return filepath.Join(configDir, configName+".yaml")
}
