package ports

import (
	"context"
	"time"

	"bslint/internal/data/history"
	"bslint/internal/engine/parser"
)

// ScriptParser turns BrightScript text into declared callables, direct calls
// and file-local diagnostics.
type ScriptParser interface {
	ExtractScript(source string, filePath string) (*parser.ScriptSyntax, error)
}

// ComponentScanner extracts the component declaration and script imports
// from SceneGraph markup.
type ComponentScanner interface {
	ExtractComponent(source string, filePath string) (*parser.ComponentSyntax, error)
}

// PlatformProvider describes functions and components the firmware provides.
type PlatformProvider interface {
	GetAllCallables() []parser.Callable
	IsBuiltinComponent(name string) bool
}

// SourceReader supplies file contents. Disk and editor buffers are treated
// the same once text is obtained.
type SourceReader interface {
	ReadSource(ctx context.Context, path string) (string, error)
}

// HistoryStore abstracts snapshot persistence for trend workflows.
type HistoryStore interface {
	SaveSnapshot(projectKey string, snapshot history.Snapshot) error
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
	Close() error
}
