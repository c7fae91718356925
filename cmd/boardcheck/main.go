// Package main implements the boardcheck CLI.
package main

import (
	"fmt"
	"os"

	"boardcheck/internal/config"
	"boardcheck/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	baseURL    string
	headless   bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "boardcheck",
	Short: "boardcheck - browser-driven kanban board verification",
	Long: `boardcheck logs into a web application, opens named projects on its
kanban board, and verifies that tasks appear in the expected columns with the
expected tags.

Cases are described in a JSON file; see testdata/cases.json for the format.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".boardcheck/config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "application base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "run Chrome headless")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig loads the config file and applies CLI flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.App.BaseURL = baseURL
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}

	ws, err := os.Getwd()
	if err != nil {
		ws = "."
	}
	if err := logging.Initialize(ws, logging.Options{
		DebugMode: cfg.Logging.DebugMode || verbose,
		Level:     cfg.Logging.Level,
	}); err != nil {
		logger.Warn("file logging disabled", zap.Error(err))
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
