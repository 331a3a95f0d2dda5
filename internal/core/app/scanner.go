package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"bslint/internal/core/errors"
	"bslint/internal/shared/util"

	"golang.org/x/sync/errgroup"
)

// ScanProject lists every supported file under the project root, skipping
// excluded directories and files. The result is sorted.
func (a *App) ScanProject() ([]string, error) {
	var files []string
	root := a.Paths.RootDir

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != root && util.MatchesAny(a.excludeDirs, base) {
				return filepath.SkipDir
			}
			return nil
		}
		if !a.program.IsSupportedPath(path) {
			return nil
		}
		if util.MatchesAny(a.excludeFiles, base) {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && util.MatchesAny(a.excludeFiles, util.NormalizePatternPath(rel)) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIOError, "scan project"), errors.CtxPath, root)
	}

	sort.Strings(files)
	return files, nil
}

type loadedSource struct {
	path     string
	contents string
	err      error
}

// LoadFiles reads paths concurrently and registers them one at a time in
// the given order. Files that cannot be read or parsed are logged and
// skipped. It returns how many files were registered.
func (a *App) LoadFiles(ctx context.Context, paths []string) (int, error) {
	sources := make([]loadedSource, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.loadConcurrency())
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				err = errors.AddContext(errors.Wrap(err, errors.IOCode(err), "read source"), errors.CtxPath, path)
			}
			sources[i] = loadedSource{path: path, contents: string(data), err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	loaded := 0
	for _, src := range sources {
		if src.err != nil {
			slog.Warn("failed to read file", "path", src.path, "error", src.err)
			continue
		}
		if _, err := a.program.AddOrReplaceFile(ctx, src.path, src.contents); err != nil {
			slog.Warn("failed to process file", "path", src.path, "error", err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

func (a *App) loadConcurrency() int {
	if a.Config.Load.Concurrency > 0 {
		return a.Config.Load.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// InitialScan loads the whole project, validates it and records a history
// snapshot when history is enabled.
func (a *App) InitialScan(ctx context.Context) (Update, error) {
	start := time.Now()
	files, err := a.ScanProject()
	if err != nil {
		return Update{}, err
	}

	loaded, err := a.LoadFiles(ctx, files)
	if err != nil {
		return Update{}, err
	}

	update, err := a.Validate(ctx)
	if err != nil {
		return Update{}, err
	}
	update.Duration = time.Since(start)

	slog.Info("initial scan complete",
		"files", loaded,
		"contexts", update.ContextCount,
		"errors", update.Counts.Errors,
		"warnings", update.Counts.Warnings,
		"duration", update.Duration,
	)

	if a.history != nil {
		if err := a.SaveSnapshot(update); err != nil {
			slog.Warn("failed to save history snapshot", "error", err)
		}
	}
	return update, nil
}
