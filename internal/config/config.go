// Package config provides configuration types and defaults for peoplekit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for peoplekit.
type Config struct {
	DBPath       string          `mapstructure:"db_path"`
	LogLevel     string          `mapstructure:"log_level"`
	RuleTableDir string          `mapstructure:"rule_table_dir"`
	HTTP         HTTPConfig      `mapstructure:"http"`
	Detection    DetectionConfig `mapstructure:"detection"`
	Telemetry    TelemetryConfig `mapstructure:"telemetry"`
}

// HTTPConfig holds HTTP server configuration options.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// DetectionConfig tunes the stateful-upgrade policy of the orchestrator.
type DetectionConfig struct {
	// ActivationThreshold is the minimum classification confidence (0-100)
	// that activates a workflow immediately.
	ActivationThreshold int `mapstructure:"activation_threshold"`

	// MaxStatelessMessages is the number of user messages after which the
	// best available match activates even below the threshold.
	MaxStatelessMessages int `mapstructure:"max_stateless_messages"`

	// CacheTTL bounds how long loaded conversation state is served from
	// memory before the database is consulted again.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// TelemetryConfig holds tracing configuration options.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// OTLPEndpoint is the gRPC collector endpoint. When empty and telemetry
	// is enabled, spans are written to stdout instead.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// DefaultDBPath returns the default database location under the user's home
// directory, or a relative path if the home directory cannot be resolved.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "peoplekit.db"
	}
	return filepath.Join(home, ".peoplekit", "peoplekit.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DBPath:   DefaultDBPath(),
		LogLevel: "info",
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8484",
		},
		Detection: DetectionConfig{
			ActivationThreshold:  75,
			MaxStatelessMessages: 5,
			CacheTTL:             5 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
		},
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is invalid (want debug, info, warn, or error)", c.LogLevel)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if c.Detection.ActivationThreshold < 1 || c.Detection.ActivationThreshold > 100 {
		return fmt.Errorf("detection.activation_threshold %d is out of range (want 1-100)", c.Detection.ActivationThreshold)
	}
	if c.Detection.MaxStatelessMessages < 1 {
		return fmt.Errorf("detection.max_stateless_messages must be at least 1")
	}
	if c.Detection.CacheTTL < 0 {
		return fmt.Errorf("detection.cache_ttl cannot be negative")
	}
	if c.RuleTableDir != "" {
		info, err := os.Stat(c.RuleTableDir)
		if err != nil {
			return fmt.Errorf("rule_table_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("rule_table_dir %q is not a directory", c.RuleTableDir)
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# PeopleKit Configuration

# Path to the SQLite database file (default: ~/.peoplekit/peoplekit.db)
# db_path: /path/to/peoplekit.db

# Log level: debug, info, warn, error
log_level: info

# Directory of user-defined workflow YAML files. Definitions here are merged
# over the built-in rule table; a file with the same workflow id replaces the
# built-in definition.
# rule_table_dir: ~/.peoplekit/workflows

# HTTP API settings
http:
  addr: 127.0.0.1:8484

# Intent detection settings
detection:
  # Minimum classification confidence (0-100) that activates a workflow
  activation_threshold: 75
  # User messages after which the best match activates even below the threshold
  max_stateless_messages: 5
  # How long conversation state is cached in memory
  cache_ttl: 5m

# Tracing
telemetry:
  enabled: false
  # gRPC OTLP collector endpoint; leave empty to trace to stdout
  # otlp_endpoint: localhost:4317
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
