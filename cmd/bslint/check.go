// # cmd/bslint/check.go
package main

import (
	"bytes"
	"io"
	"os"

	"bslint/internal/core/app"
	"bslint/internal/shared/util"
	"bslint/internal/ui/report"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [root]",
	Short: "Validate a project once and print its diagnostics",
	Long:  "Loads every .brs, .bs and .xml file under the project root, validates all contexts and prints the diagnostics. Exits 1 when any error is reported.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

var checkOutput string

func init() {
	checkCmd.Flags().StringVarP(&checkOutput, "out", "o", "", "write the report to this file instead of stdout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	cfg, _, err := loadConfig(args)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	stop := startObservability(ctx, cfg, a)
	defer stop()

	update, err := a.InitialScan(ctx)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	var buf bytes.Buffer
	if checkOutput != "" {
		out = &buf
	}
	if cfg.Output.Format == "json" {
		err = report.WriteJSON(out, update.Diagnostics)
	} else {
		err = report.WriteText(out, update.Diagnostics, report.TextOptions{
			RootDir: a.Paths.RootDir,
			Color:   checkOutput == "" && cfg.Output.ColorEnabled() && isTerminal(os.Stdout),
		})
	}
	if err != nil {
		return err
	}
	if checkOutput != "" {
		if err := util.WriteFileWithDirs(checkOutput, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}

	if update.Counts.Errors > 0 {
		return errExitCode(1)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
