package parser

import (
	"path"
	"strings"
	"sync/atomic"

	"bslint/internal/core/errors"
	"bslint/internal/engine/diag"
)

var nextFileID atomic.Uint64

// File is either a *ScriptFile or a *ComponentFile.
type File interface {
	ID() uint64
	Path() string
	Key() string
	PkgPath() string
	Extension() string
	State() State
	Diagnostics() []diag.Diagnostic
	Ref() diag.FileRef
	sealed()
}

type fileInfo struct {
	id          uint64
	path        string
	pkgPath     string
	state       State
	diagnostics []diag.Diagnostic
}

func newFileInfo(filePath, pkgPath string) fileInfo {
	return fileInfo{
		id:      nextFileID.Add(1),
		path:    filePath,
		pkgPath: pkgPath,
	}
}

// ID is unique per instance; replacing a file always yields a new ID.
func (f *fileInfo) ID() uint64 { return f.id }

func (f *fileInfo) Path() string    { return f.path }
func (f *fileInfo) Key() string     { return PathKey(f.path) }
func (f *fileInfo) PkgPath() string { return f.pkgPath }
func (f *fileInfo) State() State    { return f.state }

func (f *fileInfo) Extension() string {
	return strings.ToLower(path.Ext(f.path))
}

func (f *fileInfo) Diagnostics() []diag.Diagnostic {
	return f.diagnostics
}

func (f *fileInfo) Ref() diag.FileRef {
	return diag.FileRef{Path: f.path, PkgPath: f.pkgPath}
}

func (f *fileInfo) sealed() {}

func (f *fileInfo) beginParse() error {
	if f.state != StateUnparsed {
		err := errors.Wrap(errors.ErrAlreadyParsed, errors.CodeConflict, "parse")
		return errors.AddContext(err, errors.CtxPath, f.path)
	}
	return nil
}

func (f *fileInfo) finishParse(local []diag.Diagnostic) {
	ref := f.Ref()
	f.diagnostics = make([]diag.Diagnostic, 0, len(local))
	for _, d := range local {
		d.File = ref
		f.diagnostics = append(f.diagnostics, d)
	}
	f.state = StateParsed
}

type ScriptFile struct {
	fileInfo
	Callables []Callable
	Calls     []CallExpression
}

func NewScriptFile(filePath, pkgPath string) *ScriptFile {
	return &ScriptFile{fileInfo: newFileInfo(filePath, pkgPath)}
}

func (f *ScriptFile) Parse(source string, extractor ScriptExtractor) error {
	if err := f.beginParse(); err != nil {
		return err
	}
	syntax, err := extractor.ExtractScript(source, f.path)
	if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "extract script"), errors.CtxPath, f.path)
	}

	f.Callables = make([]Callable, 0, len(syntax.Callables))
	for _, c := range syntax.Callables {
		c.File = f
		f.Callables = append(f.Callables, c)
	}
	f.Calls = syntax.Calls
	f.finishParse(syntax.Diagnostics)
	return nil
}

type ComponentFile struct {
	fileInfo
	ComponentName string
	ParentName    string
	DeclRange     diag.Range
	ExtendsRange  diag.Range
	Scripts       []ScriptReference
}

func NewComponentFile(filePath, pkgPath string) *ComponentFile {
	return &ComponentFile{fileInfo: newFileInfo(filePath, pkgPath)}
}

func (f *ComponentFile) Parse(source string, extractor ComponentExtractor) error {
	if err := f.beginParse(); err != nil {
		return err
	}
	syntax, err := extractor.ExtractComponent(source, f.path)
	if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "extract component"), errors.CtxPath, f.path)
	}

	f.ComponentName = syntax.Name
	f.ParentName = syntax.Extends
	f.DeclRange = syntax.DeclRange
	f.ExtendsRange = syntax.ExtendsRange
	f.Scripts = make([]ScriptReference, 0, len(syntax.Scripts))
	for _, ref := range syntax.Scripts {
		ref.PkgPath = ResolvePkgPath(f.pkgPath, ref.Text)
		f.Scripts = append(f.Scripts, ref)
	}
	f.finishParse(syntax.Diagnostics)
	return nil
}

// ComponentKey is the case-insensitive component name, "" when undeclared.
func (f *ComponentFile) ComponentKey() string {
	return strings.ToLower(f.ComponentName)
}

func (f *ComponentFile) ParentKey() string {
	return strings.ToLower(f.ParentName)
}

// ImportsPkgPath reports whether one of the file's own script references
// resolves to pkgPath.
func (f *ComponentFile) ImportsPkgPath(pkgPath string) bool {
	key := strings.ToLower(pkgPath)
	for _, ref := range f.Scripts {
		if strings.ToLower(ref.PkgPath) == key {
			return true
		}
	}
	return false
}
