package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"bslint/internal/core/app"

	"github.com/spf13/cobra"
)

var flagRoot string

var completeCmd = &cobra.Command{
	Use:   "complete <file> <line> <column>",
	Short: "Print script path completions at a 0-based position of a component file",
	Args:  cobra.ExactArgs(3),
	RunE:  runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&flagRoot, "root", "", "project root (default: working directory)")
}

func runComplete(cmd *cobra.Command, args []string) error {
	setupLogging(false)

	line, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid line %q: %w", args[1], err)
	}
	column, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid column %q: %w", args[2], err)
	}
	file, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	var rootArgs []string
	if flagRoot != "" {
		rootArgs = []string{flagRoot}
	}
	cfg, _, err := loadConfig(rootArgs)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	files, err := a.ScanProject()
	if err != nil {
		return err
	}
	if _, err := a.LoadFiles(cmd.Context(), files); err != nil {
		return err
	}

	items := a.Complete(file, line, column)
	out := cmd.OutOrStdout()
	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	for _, item := range items {
		fmt.Fprintln(out, item.Label)
	}
	return nil
}
