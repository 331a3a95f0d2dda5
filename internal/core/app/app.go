package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"bslint/internal/core/config"
	"bslint/internal/core/ports"
	"bslint/internal/core/watcher"
	"bslint/internal/data/history"
	"bslint/internal/data/queue"
	"bslint/internal/engine/diag"
	"bslint/internal/engine/graph"
	"bslint/internal/engine/parser"
	"bslint/internal/engine/program"
	"bslint/internal/engine/scope"
	"bslint/internal/shared/util"

	"github.com/gobwas/glob"
)

// Update is the state pushed to listeners after every validation pass.
type Update struct {
	Diagnostics  []diag.Diagnostic
	Contexts     []ContextSummary
	Cycles       [][]string
	Counts       diag.Counts
	FileCount    int
	ContextCount int
	Duration     time.Duration
	ValidatedAt  time.Time
}

type ContextSummary struct {
	Name        string
	Kind        string
	Parent      string
	FileCount   int
	Diagnostics int
	// Children counts the components extending the owner of a component
	// context.
	Children int
}

func summarizeContexts(contexts []*scope.Context, g *graph.Inheritance) []ContextSummary {
	out := make([]ContextSummary, 0, len(contexts))
	for _, c := range contexts {
		summary := ContextSummary{
			Name:        c.Name(),
			Kind:        c.Kind().String(),
			FileCount:   c.FileCount(),
			Diagnostics: len(c.Diagnostics()),
		}
		if parent := c.Parent(); parent != nil {
			summary.Parent = parent.Name()
		}
		if owner := c.Owner(); owner != nil && owner.ComponentName != "" {
			summary.Children = len(g.Children(owner.ComponentName))
		}
		out = append(out, summary)
	}
	return out
}

// Dependencies lets callers replace collaborators, mostly in tests.
type Dependencies struct {
	History        ports.HistoryStore
	ProgramOptions []program.Option
}

// App owns a Program and everything around it: scanning, watching, history
// and the update feed for the UI. Program is not safe for concurrent use, so
// every call into it goes through mu.
type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths

	mu      sync.Mutex
	program *program.Program
	history ports.HistoryStore
	limiter *util.Limiter

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	activeWatcher *watcher.Watcher
	snapshotQueue *queue.MemoryQueue[history.Snapshot]
	writerDone    chan struct{}

	updateMu sync.RWMutex
	onUpdate func(Update)
	last     Update
}

func New(cfg *config.Config) (*App, error) {
	return NewWithDependencies(cfg, Dependencies{})
}

func NewWithDependencies(cfg *config.Config, deps Dependencies) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	paths, err := config.ResolvePaths(cfg, base)
	if err != nil {
		return nil, err
	}
	cfg.RootDir = paths.RootDir

	excludeDirs, err := util.CompileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	excludeFiles, err := util.CompileGlobs(cfg.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}

	store := deps.History
	if store == nil && cfg.History.Enabled {
		opened, err := history.Open(paths.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		store = opened
	}

	a := &App{
		Config:       cfg,
		Paths:        paths,
		program:      program.New(cfg, deps.ProgramOptions...),
		history:      store,
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
	}
	if cfg.Watch.RevalidatePerSecond > 0 && cfg.Watch.Burst > 0 {
		a.limiter = util.NewLimiter(cfg.Watch.RevalidatePerSecond, cfg.Watch.Burst)
	}
	a.program.OnFileRemoved(func(f parser.File) {
		slog.Debug("file displaced", "path", f.Path(), "id", f.ID())
	})
	return a, nil
}

// WithProgram runs fn while holding the program lock.
func (a *App) WithProgram(fn func(p *program.Program)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.program)
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

// LastUpdate returns the result of the most recent validation pass.
func (a *App) LastUpdate() Update {
	a.updateMu.RLock()
	defer a.updateMu.RUnlock()
	return a.last
}

// Validate revalidates stale contexts and publishes the result.
func (a *App) Validate(ctx context.Context) (Update, error) {
	a.mu.Lock()
	start := time.Now()
	if err := a.program.Validate(ctx); err != nil {
		a.mu.Unlock()
		return Update{}, err
	}
	diags := a.program.GetDiagnostics()
	update := Update{
		Diagnostics:  diags,
		Contexts:     summarizeContexts(a.program.Contexts(), a.program.Inheritance()),
		Cycles:       a.program.Inheritance().DetectCycles(),
		Counts:       diag.Count(diags),
		FileCount:    a.program.FileCount(),
		ContextCount: a.program.ContextCount(),
		Duration:     time.Since(start),
		ValidatedAt:  time.Now().UTC(),
	}
	a.mu.Unlock()

	for _, cycle := range update.Cycles {
		slog.Debug("inheritance cycle", "chain", strings.Join(cycle, " -> "))
	}
	a.publish(update)
	return update, nil
}

func (a *App) publish(update Update) {
	a.updateMu.Lock()
	a.last = update
	handler := a.onUpdate
	a.updateMu.Unlock()

	if handler != nil {
		handler(update)
	}
}

// ApplyConfig takes over settings from a reloaded config file. Only the
// diagnostic ignore list applies live; it needs no revalidation.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.program.SetIgnoreCodes(cfg.Diagnostics.IgnoreCodes...)
	diags := a.program.GetDiagnostics()
	a.mu.Unlock()

	update := a.LastUpdate()
	update.Diagnostics = diags
	update.Counts = diag.Count(diags)
	a.publish(update)
	slog.Info("config applied", "ignore_codes", cfg.Diagnostics.IgnoreCodes)
}

// Complete returns path completions at a 0-based position of a component file.
func (a *App) Complete(path string, line, column int) []parser.CompletionItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.program.GetCompletions(path, diag.Position{Line: line, Column: column})
}

func (a *App) ProjectKey() string {
	key := strings.TrimSpace(a.Config.History.ProjectKey)
	if key == "" {
		return "default"
	}
	return key
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			slog.Warn("failed to close watcher", "error", err)
		}
		a.activeWatcher = nil
	}
	a.stopSnapshotWriter()
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			return err
		}
		a.history = nil
	}
	return nil
}
