// Package program owns the file registry and keeps contexts, the component
// inheritance graph and diagnostics consistent as files come and go.
//
// A Program is not safe for concurrent use. Hosts serialize calls into it;
// read-only queries may run between mutations but never during one.
package program

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bslint/internal/core/config"
	"bslint/internal/core/errors"
	"bslint/internal/core/ports"
	"bslint/internal/engine/diag"
	"bslint/internal/engine/graph"
	"bslint/internal/engine/parser"
	"bslint/internal/engine/platform"
	"bslint/internal/engine/scope"
	"bslint/internal/engine/validator"
	"bslint/internal/shared/observability"
)

type Program struct {
	cfg       *config.Config
	rootDir   string
	sourceDir string

	parser    *parser.Parser
	platform  ports.PlatformProvider
	reader    ports.SourceReader
	validator *validator.Validator

	files      map[string]parser.File
	byPkgPath  map[string]parser.File
	seq        map[string]uint64
	nextSeq    uint64
	generation uint64
	ordered    []parser.File
	orderedGen uint64

	graph       *graph.Inheritance
	global      *scope.Context
	platformCtx *scope.Context
	components  map[string]*scope.Context

	removedHandlers []func(parser.File)
}

func New(cfg *config.Config, opts ...Option) *Program {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &Program{
		cfg:        cfg,
		rootDir:    resolveRoot(cfg.RootDir),
		sourceDir:  strings.Trim(strings.ReplaceAll(cfg.SourceDir, "\\", "/"), "/"),
		parser:     parser.NewDefaultParser(),
		platform:   platform.New(),
		reader:     diskReader{},
		files:      make(map[string]parser.File),
		byPkgPath:  make(map[string]parser.File),
		seq:        make(map[string]uint64),
		generation: 1,
		graph:      graph.NewInheritance(),
		components: make(map[string]*scope.Context),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.validator = validator.New(p.platform, p.graph)
	p.platformCtx = scope.NewPlatformContext(p.platform)
	p.global = scope.NewGlobalContext(p)
	return p
}

func resolveRoot(root string) string {
	root = strings.ReplaceAll(strings.TrimSpace(root), "\\", "/")
	if parser.IsAbsPath(root) {
		return parser.NormalizePath(root, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "/"
	}
	return parser.NormalizePath(filepath.ToSlash(wd), root)
}

func (p *Program) RootDir() string { return p.rootDir }

// SourceDir is the pkgPath prefix of files that join the global context.
func (p *Program) SourceDir() string { return p.sourceDir }

// Generation changes after every mutation of the registry.
func (p *Program) Generation() uint64 { return p.generation }

func (p *Program) Inheritance() *graph.Inheritance { return p.graph }

// OnFileRemoved registers fn to run synchronously whenever a registered file
// is displaced, by replacement or by removal. Fresh additions never fire it.
func (p *Program) OnFileRemoved(fn func(parser.File)) {
	p.removedHandlers = append(p.removedHandlers, fn)
}

// AddOrReplaceFile parses contents as the file at path and registers it,
// displacing any file already registered under the same normalized path.
func (p *Program) AddOrReplaceFile(ctx context.Context, path string, contents string) (parser.File, error) {
	_, span := observability.Tracer.Start(ctx, "program.AddOrReplaceFile", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	abs := parser.NormalizePath(p.rootDir, path)
	start := time.Now()
	file, err := p.parser.ParseFile(abs, parser.PkgPathFor(p.rootDir, abs), contents)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	observability.ParsingDuration.WithLabelValues(kindLabel(file)).Observe(time.Since(start).Seconds())

	old, replaced := p.files[file.Key()]
	if replaced {
		p.unregister(old)
		p.relink(isComponent(old))
		p.emitRemoved(old)
	}
	p.register(file)
	p.relink(isComponent(file))

	slog.Debug("file registered", "path", abs, "pkgPath", file.PkgPath(), "replaced", replaced)
	return file, nil
}

// LoadFile reads path through the configured SourceReader and registers the
// result. Read failures are returned as IO_ERROR and leave the registry as
// it was.
func (p *Program) LoadFile(ctx context.Context, path string) (parser.File, error) {
	abs := parser.NormalizePath(p.rootDir, path)
	contents, err := p.reader.ReadSource(ctx, abs)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.IOCode(err), "read source"), errors.CtxPath, abs)
	}
	return p.AddOrReplaceFile(ctx, abs, contents)
}

// RemoveFile drops the file at path. Paths are normalized first, so any
// spelling of a registered path works. Unknown paths are ignored.
func (p *Program) RemoveFile(path string) {
	_, span := observability.Tracer.Start(context.Background(), "program.RemoveFile", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	key := parser.PathKey(parser.NormalizePath(p.rootDir, path))
	old, ok := p.files[key]
	if !ok {
		return
	}
	p.unregister(old)
	delete(p.seq, key)
	p.relink(isComponent(old))

	slog.Debug("file removed", "path", old.Path())
	p.emitRemoved(old)
}

// register keeps the path's original sequence number when it replaces an
// earlier file, so replacing a file never moves it in registration order.
func (p *Program) register(f parser.File) {
	if _, ok := p.seq[f.Key()]; !ok {
		p.nextSeq++
		p.seq[f.Key()] = p.nextSeq
	}
	p.files[f.Key()] = f
	p.byPkgPath[strings.ToLower(f.PkgPath())] = f
}

func (p *Program) unregister(f parser.File) {
	delete(p.files, f.Key())
	pkgKey := strings.ToLower(f.PkgPath())
	if cur, ok := p.byPkgPath[pkgKey]; ok && cur == f {
		delete(p.byPkgPath, pkgKey)
	}
}

func (p *Program) emitRemoved(f parser.File) {
	observability.FileRemovedEventsTotal.Inc()
	for _, fn := range p.removedHandlers {
		fn(f)
	}
}

// relink bumps the generation so every context re-derives its members and
// parent on next use. Component changes also rebuild the inheritance graph
// and create or drop component contexts.
func (p *Program) relink(componentsChanged bool) {
	p.generation++

	if componentsChanged {
		var comps []*parser.ComponentFile
		live := make(map[string]bool)
		for _, f := range p.Files() {
			c, ok := f.(*parser.ComponentFile)
			if !ok {
				continue
			}
			comps = append(comps, c)
			name := contextKey(c.PkgPath())
			live[name] = true
			if existing, ok := p.components[name]; !ok || existing.Owner() != c {
				p.components[name] = scope.NewComponentContext(c, p)
			}
		}
		for name := range p.components {
			if !live[name] {
				delete(p.components, name)
			}
		}
		p.graph.Rebuild(comps)
		slog.Debug("component graph rebuilt", "components", len(comps), "contexts", len(p.components))
	}

	p.updateGauges()
}

func (p *Program) updateGauges() {
	var scripts, components int
	for _, f := range p.files {
		if isComponent(f) {
			components++
		} else {
			scripts++
		}
	}
	observability.FilesTotal.WithLabelValues("script").Set(float64(scripts))
	observability.FilesTotal.WithLabelValues("component").Set(float64(components))
	observability.ContextsTotal.Set(float64(p.ContextCount()))
}

func (p *Program) HasFile(path string) bool {
	_, ok := p.GetFile(path)
	return ok
}

func (p *Program) GetFile(path string) (parser.File, bool) {
	f, ok := p.files[parser.PathKey(parser.NormalizePath(p.rootDir, path))]
	return f, ok
}

// FileByPkgPath looks a file up by its project-relative path, ignoring case.
func (p *Program) FileByPkgPath(pkgPath string) (parser.File, bool) {
	if pkgPath == "" {
		return nil, false
	}
	f, ok := p.byPkgPath[strings.ToLower(pkgPath)]
	return f, ok
}

// Files returns every registered file in registration order.
func (p *Program) Files() []parser.File {
	if p.ordered != nil && p.orderedGen == p.generation {
		return p.ordered
	}
	out := make([]parser.File, 0, len(p.files))
	for _, f := range p.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return p.seq[out[i].Key()] < p.seq[out[j].Key()] })
	p.ordered = out
	p.orderedGen = p.generation
	return out
}

func (p *Program) FileCount() int {
	return len(p.files)
}

func (p *Program) GlobalContext() *scope.Context   { return p.global }
func (p *Program) PlatformContext() *scope.Context { return p.platformCtx }

// ComponentContext returns the context owned by c, if c is registered.
func (p *Program) ComponentContext(c *parser.ComponentFile) (*scope.Context, bool) {
	ctx, ok := p.components[contextKey(c.PkgPath())]
	if !ok || ctx.Owner() != c {
		return nil, false
	}
	return ctx, true
}

// Context looks a context up by name: "global", "platform" or a component
// pkgPath, case-insensitively.
func (p *Program) Context(name string) (*scope.Context, bool) {
	switch strings.ToLower(name) {
	case scope.GlobalName:
		return p.global, true
	case scope.PlatformName:
		return p.platformCtx, true
	}
	ctx, ok := p.components[contextKey(name)]
	return ctx, ok
}

// Contexts returns the validated contexts: global first, then component
// contexts ordered by name.
func (p *Program) Contexts() []*scope.Context {
	names := make([]string, 0, len(p.components))
	for name := range p.components {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*scope.Context, 0, len(names)+1)
	out = append(out, p.global)
	for _, name := range names {
		out = append(out, p.components[name])
	}
	return out
}

// ContextCount includes the global and platform contexts.
func (p *Program) ContextCount() int {
	return len(p.components) + 2
}

// Validate re-runs the validator over every context whose inputs changed
// since its last pass. Once started it runs to completion; ctx is only
// checked up front.
func (p *Program) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, span := observability.Tracer.Start(ctx, "program.Validate")
	defer span.End()

	start := time.Now()
	validated, skipped := 0, 0
	for _, c := range p.Contexts() {
		if c.Validate(p.validator.Validate) {
			validated++
			slog.Debug("context validated", "context", c.Name(), "files", c.FileCount(), "diagnostics", len(c.Diagnostics()))
		} else {
			skipped++
		}
	}
	elapsed := time.Since(start)

	observability.ValidationDuration.Observe(elapsed.Seconds())
	observability.ContextsValidatedTotal.WithLabelValues("validated").Add(float64(validated))
	observability.ContextsValidatedTotal.WithLabelValues("skipped").Add(float64(skipped))

	counts := diag.Count(p.GetDiagnostics())
	observability.DiagnosticsTotal.WithLabelValues(diag.SevError.String()).Set(float64(counts.Errors))
	observability.DiagnosticsTotal.WithLabelValues(diag.SevWarning.String()).Set(float64(counts.Warnings))
	observability.DiagnosticsTotal.WithLabelValues(diag.SevInfo.String()).Set(float64(counts.Infos))

	span.SetAttributes(
		attribute.Int("contexts.validated", validated),
		attribute.Int("contexts.skipped", skipped),
	)
	slog.Debug("validation finished", "validated", validated, "skipped", skipped, "duration", elapsed)
	return nil
}

// GetDiagnostics merges the diagnostics of every context, drops duplicates
// reported by more than one context and filters the configured ignore codes.
// The filter is applied on every call, so changing it needs no revalidation.
func (p *Program) GetDiagnostics() []diag.Diagnostic {
	var all []diag.Diagnostic
	for _, c := range p.Contexts() {
		all = append(all, c.Diagnostics()...)
	}
	all = diag.Dedup(all)
	diag.Sort(all)

	ignore := p.cfg.Diagnostics
	return diag.Filter(all, func(d diag.Diagnostic) bool {
		return !ignore.Ignores(int(d.Code))
	})
}

// SetIgnoreCodes replaces the ignore list. It takes effect on the next
// GetDiagnostics call.
func (p *Program) SetIgnoreCodes(codes ...int) {
	list := slices.Clone(codes)
	slices.Sort(list)
	p.cfg.Diagnostics.IgnoreCodes = slices.Compact(list)
}

// IsSupportedPath reports whether path has an extension the program parses.
func (p *Program) IsSupportedPath(path string) bool {
	return p.parser.IsSupportedPath(path)
}

// SupportedExtensions lists the extensions the program parses, sorted.
func (p *Program) SupportedExtensions() []string {
	return p.parser.SupportedExtensions()
}

// GetCompletions answers a completion request at pos in the file at path.
// Only component files offer completions.
func (p *Program) GetCompletions(path string, pos diag.Position) []parser.CompletionItem {
	f, ok := p.GetFile(path)
	if !ok {
		return nil
	}
	cmp, ok := f.(*parser.ComponentFile)
	if !ok {
		return nil
	}
	return cmp.Completions(pos, p.Files())
}

func isComponent(f parser.File) bool {
	_, ok := f.(*parser.ComponentFile)
	return ok
}

func kindLabel(f parser.File) string {
	if isComponent(f) {
		return "component"
	}
	return "script"
}

func contextKey(name string) string {
	return strings.ToLower(name)
}
