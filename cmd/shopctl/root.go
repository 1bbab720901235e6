package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopping-agent/internal/common/config"
	"shopping-agent/internal/common/logger"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Operator CLI for the shopping agent",
	Long: `shopctl talks to the shopping agent pipeline from a terminal.

Use it to chat with the agent in-process or against a running API,
to validate and load product catalogs, and to inspect the stage
activity registry used by the Zeebe workers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFromFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		zapLog, err := logger.FromOptions(logger.Options{Level: level, Format: "console", Output: "stderr"})
		if err != nil {
			zapLog = zap.NewNop()
		}
		log = logger.NewZapAdapter(zapLog)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
