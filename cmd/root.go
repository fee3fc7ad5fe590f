// Package cmd implements the peoplekit command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peoplekit/peoplekit/internal/config"
	"github.com/peoplekit/peoplekit/internal/log"
	"github.com/peoplekit/peoplekit/internal/workflows/registry"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "peoplekit",
	Short: "Intent classification and workflow orchestration for HR conversations",
	Long: `PeopleKit classifies inbound HR messages against a weighted rule table,
routes document requests to the workflow that owns the artifact, and drives
multi-step workflows through a validated state machine with an append-only
state history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.peoplekit/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig loads configuration from file and environment, falling back to
// defaults for anything unset. A missing config file is not an error.
func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("rule_table_dir", defaults.RuleTableDir)
	viper.SetDefault("http.addr", defaults.HTTP.Addr)
	viper.SetDefault("detection.activation_threshold", defaults.Detection.ActivationThreshold)
	viper.SetDefault("detection.max_stateless_messages", defaults.Detection.MaxStatelessMessages)
	viper.SetDefault("detection.cache_ttl", defaults.Detection.CacheTTL)
	viper.SetDefault("telemetry.enabled", defaults.Telemetry.Enabled)
	viper.SetDefault("telemetry.otlp_endpoint", defaults.Telemetry.OTLPEndpoint)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".peoplekit"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("PEOPLEKIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid config:", err)
		os.Exit(1)
	}

	log.Setup(os.Stderr, cfg.LogLevel)
}

// loadRegistry builds the workflow registry, merging user-defined YAML
// definitions over the built-in rule table when rule_table_dir is set.
func loadRegistry() (*registry.Registry, error) {
	if cfg.RuleTableDir == "" {
		return registry.NewBuiltin()
	}
	reg, err := registry.LoadWithUserDefinitions(os.DirFS(cfg.RuleTableDir))
	if err != nil {
		return nil, fmt.Errorf("loading rule table from %s: %w", cfg.RuleTableDir, err)
	}
	return reg, nil
}
