// Package config centralizes configuration for the phiredact application,
// loaded from configuration files, environment variables, and command-line
// flags.
package config

import (
	"fmt"
	"image/color"

	"github.com/MeKo-Tech/phiredact/internal/pipeline"
	"github.com/MeKo-Tech/phiredact/internal/redact"
)

// Config represents the complete configuration for phiredact. It covers
// the CLI commands (redact, serve) and the Lambda entrypoint.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Pipeline configuration
	Pipeline pipeline.Config `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// AWS collaborator configuration
	AWS AWSConfig `mapstructure:"aws" yaml:"aws" json:"aws"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// AWSConfig holds settings for the AWS-backed collaborators.
type AWSConfig struct {
	Region string `mapstructure:"region" yaml:"region" json:"region"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Pipeline: pipeline.DefaultConfig(),
		AWS:      AWSConfig{Region: ""},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			MaxUploadMB:     25,
			TimeoutSec:      120,
			ShutdownTimeout: 10,
		},
	}
}

// applyColorDefaults restores the drawing colors, which are not
// representable in the config file and decode to zero values.
func (c *Config) applyColorDefaults() {
	def := redact.DefaultRedactorConfig()
	if c.Pipeline.Redactor.FillColor == (color.RGBA{}) {
		c.Pipeline.Redactor.FillColor = def.FillColor
	}
	if c.Pipeline.Redactor.OutlineColor == (color.RGBA{}) {
		c.Pipeline.Redactor.OutlineColor = def.OutlineColor
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Pipeline.Planner.Threshold < 0 || c.Pipeline.Planner.Threshold > 1 {
		return fmt.Errorf("phi threshold %v outside [0,1]", c.Pipeline.Planner.Threshold)
	}
	switch c.Pipeline.Planner.Policy {
	case "", "top", "max", "any":
	default:
		return fmt.Errorf("unknown scoring policy %q", c.Pipeline.Planner.Policy)
	}
	if c.Pipeline.Planner.Workers < 0 {
		return fmt.Errorf("planner workers must be >= 0, got %d", c.Pipeline.Planner.Workers)
	}
	if c.Pipeline.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %v", c.Pipeline.CallTimeout)
	}
	if c.Pipeline.Rewrite.FromPrefix == "" && c.Pipeline.Rewrite.FallbackFilePrefix == "" {
		return fmt.Errorf("key rewrite needs a from_prefix or a fallback_file_prefix")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d MB", c.Server.MaxUploadMB)
	}
	return nil
}
