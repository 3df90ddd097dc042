package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricepulse/compare-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "compare-cli",
	Short: "Cross-source product price comparison",
	Long:  "Fetches product listings from configured retail sources in parallel, caches and normalizes them, and fuzzy-matches product names to report price differences.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
