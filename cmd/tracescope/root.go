package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tracescope/config"
)

var rootCmd = &cobra.Command{
	Use:   "tracescope",
	Short: "Collect, aggregate, and publish interpreter trace events",
	Long: `tracescope turns per-thread interpreter trace events into call and
coverage profiles. It records event streams into msgpack journals and
converts them into pprof profiles, locally or to an ingest server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a TOML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration: defaults, then the
// config file if given, then flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg := config.NewDefault()
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	level, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
