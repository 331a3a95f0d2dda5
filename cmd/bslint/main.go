// # cmd/bslint/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bslint/internal/core/app"
	"bslint/internal/core/config"
	"bslint/internal/shared/observability"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
	flagFormat  string
)

// errExitCode signals a non-zero exit whose cause has already been reported.
type errExitCode int

func (e errExitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if code, ok := err.(errExitCode); ok {
			os.Exit(int(code))
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "bslint",
	Short:         "Incremental diagnostics for BrightScript and SceneGraph projects",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagFormat != "" && flagFormat != "text" && flagFormat != "json" {
			return fmt.Errorf("invalid --format %q: must be text or json", flagFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to bslint.toml (default: nearest one above the project root)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: text|json (default from config)")

	rootCmd.AddCommand(checkCmd, watchCmd, historyCmd, completeCmd, versionCmd)
}

func setupLogging(toFile bool) {
	logLevel := slog.LevelWarn
	if flagVerbose {
		logLevel = slog.LevelDebug
	}

	var output io.Writer = os.Stderr
	if toFile {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
		if logLevel > slog.LevelInfo {
			logLevel = slog.LevelInfo
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "bslint", "bslint.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "bslint", "bslint.log")
	}

	return "bslint.log"
}

// loadConfig reads the config for the project at args[0] (or the working
// directory), applies environment overrides and pins RootDir to an absolute
// path. It also returns the config file used, if any.
func loadConfig(args []string) (*config.Config, string, error) {
	target := "."
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		target = args[0]
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return nil, "", fmt.Errorf("resolve project root %q: %w", target, err)
	}

	path := flagConfig
	if path == "" {
		path = config.FindConfigFile(targetAbs)
	}

	cfg := config.DefaultConfig()
	base := targetAbs
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
		base = filepath.Dir(path)
		slog.Debug("config loaded", "path", path)
	}
	config.ApplyEnvOverrides(cfg)

	switch {
	case len(args) > 0:
		cfg.RootDir = targetAbs
	case cfg.RootDir != "":
		cfg.RootDir = config.ResolveRelative(base, cfg.RootDir)
	default:
		cfg.RootDir = base
	}

	if flagFormat != "" {
		cfg.Output.Format = flagFormat
	}
	return cfg, path, nil
}

// startObservability installs tracing and, when enabled, the metrics and
// health endpoint. The returned func undoes both.
func startObservability(ctx context.Context, cfg *config.Config, a *app.App) func() {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	var server *app.ObservabilityServer
	if cfg.Observability.Enabled && cfg.Observability.MetricsAddr != "" {
		server = app.NewObservabilityServer(cfg.Observability.MetricsAddr, app.NewHealthService(a))
		if err := server.Start(ctx); err != nil {
			slog.Warn("observability server failed to start", "error", err)
			server = nil
		}
	}

	return func() {
		shutdownCtx := context.Background()
		if server != nil {
			if err := server.Stop(shutdownCtx); err != nil {
				slog.Warn("observability server shutdown failed", "error", err)
			}
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}
}
