package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kestrelworks/taskweave/internal/config"
	"github.com/kestrelworks/taskweave/internal/logging"
)

var (
	cfgFile   string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "taskweave",
	Short: "Goal-driven workflow planning and execution",
	Long: `Taskweave decomposes a high-level goal into a dependency-ordered
workflow of tasks and executes them under a pluggable strategy.

Core capabilities:
- Breaks goals into task templates by keyword family
- Resolves task dependencies from action sequences
- Executes ready tasks sequentially or in bounded parallel waves
- Reviews and summarizes task output as it lands
- Isolates task failures so sibling tasks keep running`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration from file and environment.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger honoring --debug.
func newLogger() (*zap.Logger, error) {
	log, err := logging.New(debugMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
