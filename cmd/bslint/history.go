package main

import (
	"fmt"
	"time"

	"bslint/internal/core/app"
	"bslint/internal/core/config"
	"bslint/internal/ui/report"

	"github.com/spf13/cobra"
)

var (
	flagSince  time.Duration
	flagWindow time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [root]",
	Short: "Show diagnostic counts recorded by previous checks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().DurationVar(&flagSince, "since", 30*24*time.Hour, "how far back to look")
	historyCmd.Flags().DurationVar(&flagWindow, "window", 24*time.Hour, "moving average window")
}

func runHistory(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	cfg, _, err := loadConfig(args)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled; set [history] enabled = true in %s", config.DefaultFileName)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	trend, err := a.HistoryTrend(time.Now().Add(-flagSince), flagWindow)
	if err != nil {
		return err
	}
	if cfg.Output.Format == "json" {
		return report.WriteTrendJSON(cmd.OutOrStdout(), trend)
	}
	return report.WriteTrendText(cmd.OutOrStdout(), trend)
}
