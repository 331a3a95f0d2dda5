// # cmd/bslint/watch.go
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bslint/internal/core/app"
	"bslint/internal/core/config"
	"bslint/internal/data/history"
	"bslint/internal/ui/cli"
	"bslint/internal/ui/report"

	"github.com/spf13/cobra"
)

var flagUI bool

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Keep diagnostics up to date while files change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&flagUI, "ui", false, "show the interactive terminal view")
}

func runWatch(cmd *cobra.Command, args []string) error {
	setupLogging(flagUI)

	cfg, configPath, err := loadConfig(args)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stop := startObservability(ctx, cfg, a)
	defer stop()

	out := cmd.OutOrStdout()
	if !flagUI {
		a.SetUpdateHandler(func(update app.Update) {
			if err := report.WriteText(out, update.Diagnostics, report.TextOptions{RootDir: a.Paths.RootDir}); err != nil {
				slog.Warn("failed to print diagnostics", "error", err)
			}
		})
	}

	if _, err := a.InitialScan(ctx); err != nil {
		return err
	}
	if err := a.StartWatcher(ctx); err != nil {
		return err
	}
	slog.Info("watching for changes", "root", a.Paths.RootDir)

	if configPath != "" {
		cw := config.NewWatcher(configPath, a.ApplyConfig)
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config reload disabled", "error", err)
		} else {
			defer cw.Stop()
		}
	}

	if flagUI {
		return cli.Run(a, loadTrend(a))
	}
	<-ctx.Done()
	return nil
}

func loadTrend(a *app.App) *history.TrendReport {
	if !a.Config.History.Enabled {
		return nil
	}
	trend, err := a.HistoryTrend(time.Now().Add(-7*24*time.Hour), 24*time.Hour)
	if err != nil {
		slog.Debug("no trend available", "error", err)
		return nil
	}
	return &trend
}

