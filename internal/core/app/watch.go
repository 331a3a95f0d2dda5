package app

import (
	"context"
	"log/slog"
	"os"

	"bslint/internal/core/watcher"
	"bslint/internal/engine/program"
)

// HandleChanges applies a batch of filesystem changes: paths that still exist
// are reloaded, missing ones are removed. One validation pass follows,
// throttled by the revalidation limiter.
func (a *App) HandleChanges(ctx context.Context, paths []string) {
	slog.Info("detected changes", "count", len(paths))

	a.mu.Lock()
	changed := 0
	for _, path := range paths {
		if !a.program.IsSupportedPath(path) {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if a.program.HasFile(path) {
				a.program.RemoveFile(path)
				changed++
			}
			continue
		}
		if _, err := a.program.LoadFile(ctx, path); err != nil {
			slog.Warn("failed to reload file", "path", path, "error", err)
			continue
		}
		changed++
	}
	a.mu.Unlock()

	if changed == 0 {
		return
	}

	if a.limiter != nil {
		if delay := a.limiter.Delay(); delay > 0 {
			slog.Debug("revalidation throttled", "delay", delay)
		}
		if err := a.limiter.Wait(ctx, 1); err != nil {
			slog.Warn("revalidation skipped", "error", err)
			return
		}
	}

	update, err := a.Validate(ctx)
	if err != nil {
		slog.Warn("revalidation failed", "error", err)
		return
	}
	a.enqueueSnapshot(update)
	slog.Info("revalidated",
		"files", update.FileCount,
		"errors", update.Counts.Errors,
		"warnings", update.Counts.Warnings,
		"duration", update.Duration,
	)
}

// StartWatcher watches the project root until ctx is cancelled or Close is
// called.
func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) { a.HandleChanges(ctx, paths) },
	)
	if err != nil {
		return err
	}
	a.WithProgram(func(p *program.Program) {
		w.SetExtensions(p.SupportedExtensions())
	})
	a.activeWatcher = w
	a.startSnapshotWriter()
	return w.Watch([]string{a.Paths.RootDir})
}
