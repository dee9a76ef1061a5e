package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LudovicTerrasson/leadreport/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadreport",
	Short: "Lead generation performance reporting",
	Long:  "Queries the lead database with interactive-style filters and renders KPIs, daily volume, ventilation pivots and campaign cap utilization.",
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
