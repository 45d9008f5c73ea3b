package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "phiredact"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "PHIREDACT"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader backed by the global viper
// instance so cobra flag bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load reads configuration from the search paths, environment variables
// and defaults, then validates it. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return l.unmarshalAndValidate()
}

// LoadWithFile loads configuration from a specific file path. An empty
// path falls back to the normal search.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}
	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}
	return l.unmarshalAndValidate()
}

func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.applyColorDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// GetConfigFileUsed returns the path of the config file viper loaded.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "phiredact"))
	}
	l.v.AddConfigPath("/etc/phiredact")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("pipeline.planner.threshold", defaults.Pipeline.Planner.Threshold)
	l.v.SetDefault("pipeline.planner.policy", defaults.Pipeline.Planner.Policy)
	l.v.SetDefault("pipeline.planner.workers", defaults.Pipeline.Planner.Workers)
	l.v.SetDefault("pipeline.redactor.outline_width", defaults.Pipeline.Redactor.OutlineWidth)
	l.v.SetDefault("pipeline.rewrite.from_prefix", defaults.Pipeline.Rewrite.FromPrefix)
	l.v.SetDefault("pipeline.rewrite.to_prefix", defaults.Pipeline.Rewrite.ToPrefix)
	l.v.SetDefault("pipeline.rewrite.fallback_file_prefix", defaults.Pipeline.Rewrite.FallbackFilePrefix)
	l.v.SetDefault("pipeline.call_timeout", defaults.Pipeline.CallTimeout)
	l.v.SetDefault("pipeline.preview", defaults.Pipeline.Preview)
	l.v.SetDefault("pipeline.preview_suffix", defaults.Pipeline.PreviewSuffix)

	l.v.SetDefault("aws.region", defaults.AWS.Region)

	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
}
