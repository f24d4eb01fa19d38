package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   = new(slog.LevelVar)

	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:          "stakeforge",
	Short:        "Reward accrual and anti-abuse engine for staked game assets",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config")
}

// Execute installs the console logger and runs the root command.
func Execute(v, c string) {
	version, commit = v, c
	slog.SetDefault(slog.New(logger.NewHandler(logLevel)))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*stakeforge.Config, error) {
	cfg, err := stakeforge.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logLevel.Set(cfg.Log.Level)
	logger.LogSystem("Configuration loaded", slog.String("path", configPath))
	return cfg, nil
}

func waitForSignal() {
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
}
