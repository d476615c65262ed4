// Package cli implements the battmon command line using Cobra. The command
// is one-shot: cron (or any external scheduler) owns periodicity by invoking
// `battmon --log` on whatever interval it likes.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/padiauj/battmon/internal/battlog"
	"github.com/padiauj/battmon/internal/collector"
	"github.com/padiauj/battmon/internal/config"
	"github.com/padiauj/battmon/internal/gui"
	"github.com/padiauj/battmon/internal/storage"
)

var (
	flagConfig string
	flagLog    bool
	flagGraph  bool
	flagPrune  bool
)

var rootCmd = &cobra.Command{
	Use:   "battmon",
	Short: "battmon — log and graph laptop battery state",
	Long: `battmon reads battery state from the kernel's power-supply sysfs tree.

With --log it appends one reading per battery to a per-device log file,
intended to be run periodically from cron. With --graph it opens a window
showing the battery history. The flags are not mutually exclusive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file (default "+config.DefaultPath()+")")
	rootCmd.Flags().BoolVar(&flagLog, "log", false, "append one reading per battery to the log directory")
	rootCmd.Flags().BoolVar(&flagGraph, "graph", false, "open the battery history window")
	rootCmd.Flags().BoolVar(&flagPrune, "prune", false, "apply the retention policy to the history index")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if !flagLog && !flagGraph && !flagPrune {
		return cmd.Help()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if flagLog {
		if err := logOnce(cfg, logger); err != nil {
			return err
		}
	}
	if flagPrune {
		if err := prune(cfg, logger); err != nil {
			return err
		}
	}
	if flagGraph {
		return gui.Run(cfg, logger)
	}
	return nil
}

// loadConfig reads --config when given; otherwise the default location is
// optional and its absence falls back to built-in defaults.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", flagConfig, err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(config.DefaultPath())
	if os.IsNotExist(err) {
		return config.NormalizeAndValidate(config.DefaultConfig())
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", config.DefaultPath(), err)
	}
	return cfg, nil
}

// logOnce performs one tick: scan sysfs, append one record per battery.
func logOnce(cfg *config.Config, logger *slog.Logger) error {
	reader := collector.NewReader(cfg.Paths.PowerSupplyRoot, logger)
	batteries, err := reader.Batteries()
	if err != nil {
		return err
	}
	if len(batteries) == 0 {
		logger.Warn("no batteries found", "root", reader.Root())
		return nil
	}

	n, err := battlog.NewLogger(cfg.Paths.LogDir, logger).LogAll(batteries)
	if err != nil {
		return err
	}
	logger.Info("logged readings", "batteries", n, "dir", cfg.Paths.LogDir)
	return nil
}

func prune(cfg *config.Config, logger *slog.Logger) error {
	store, err := storage.Open(cfg.Paths.DBPath)
	if err != nil {
		return fmt.Errorf("open history index: %w", err)
	}
	defer store.Close()

	cutoff := time.Now().AddDate(0, 0, -cfg.Cleanup.RetentionDays).UnixMilli()
	n, err := store.DeleteOlderThan(cutoff)
	if err != nil {
		return err
	}
	logger.Info("pruned history index", "deleted", n, "retention_days", cfg.Cleanup.RetentionDays)
	return nil
}
