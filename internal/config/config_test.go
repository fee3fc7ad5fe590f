package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8484", cfg.HTTP.Addr)
	assert.Equal(t, 75, cfg.Detection.ActivationThreshold)
	assert.Equal(t, 5, cfg.Detection.MaxStatelessMessages)
	assert.Equal(t, 5*time.Minute, cfg.Detection.CacheTTL)
	assert.False(t, cfg.Telemetry.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.DBPath = "" },
			wantErr: "db_path",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log_level",
		},
		{
			name:    "missing http addr",
			mutate:  func(c *Config) { c.HTTP.Addr = "" },
			wantErr: "http.addr",
		},
		{
			name:    "threshold too high",
			mutate:  func(c *Config) { c.Detection.ActivationThreshold = 101 },
			wantErr: "activation_threshold",
		},
		{
			name:    "threshold too low",
			mutate:  func(c *Config) { c.Detection.ActivationThreshold = 0 },
			wantErr: "activation_threshold",
		},
		{
			name:    "zero stateless messages",
			mutate:  func(c *Config) { c.Detection.MaxStatelessMessages = 0 },
			wantErr: "max_stateless_messages",
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.Detection.CacheTTL = -time.Second },
			wantErr: "cache_ttl",
		},
		{
			name:    "missing rule table dir",
			mutate:  func(c *Config) { c.RuleTableDir = "/nonexistent/workflows" },
			wantErr: "rule_table_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("rule table dir may be a real directory", func(t *testing.T) {
		cfg := Defaults()
		cfg.RuleTableDir = t.TempDir()
		assert.NoError(t, cfg.Validate())
	})
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	require.FileExists(t, path)
}
