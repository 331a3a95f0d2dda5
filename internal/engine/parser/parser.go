// # internal/engine/parser/parser.go
package parser

import (
	"fmt"
	"path"
	"strings"

	"bslint/internal/core/errors"
	"bslint/internal/shared/util"
)

type FileKind int

const (
	KindUnknown FileKind = iota
	KindScript
	KindComponent
)

// Parser routes sources to an extractor by file extension and builds the
// matching File variant.
type Parser struct {
	scripts    map[string]ScriptExtractor
	components map[string]ComponentExtractor
}

func NewParser() *Parser {
	return &Parser{
		scripts:    make(map[string]ScriptExtractor),
		components: make(map[string]ComponentExtractor),
	}
}

// NewDefaultParser returns a parser with the built-in BrightScript and
// SceneGraph extractors registered.
func NewDefaultParser() *Parser {
	p := NewParser()
	p.RegisterDefaultExtractors()
	return p
}

func (p *Parser) RegisterScriptExtractor(ext string, e ScriptExtractor) {
	ext = normalizeExt(ext)
	delete(p.components, ext)
	p.scripts[ext] = e
}

func (p *Parser) RegisterComponentExtractor(ext string, e ComponentExtractor) {
	ext = normalizeExt(ext)
	delete(p.scripts, ext)
	p.components[ext] = e
}

func (p *Parser) RegisterDefaultExtractors() {
	script := BrightScriptExtractor{}
	p.RegisterScriptExtractor(".brs", script)
	p.RegisterScriptExtractor(".bs", script)
	p.RegisterComponentExtractor(".xml", ComponentMarkupExtractor{})
}

// ParseFile builds and parses a new File for filePath. Unknown extensions are
// reported as NOT_SUPPORTED.
func (p *Parser) ParseFile(filePath, pkgPath, content string) (File, error) {
	ext := normalizeExt(path.Ext(filePath))
	if e, ok := p.scripts[ext]; ok {
		f := NewScriptFile(filePath, pkgPath)
		if err := f.Parse(content, e); err != nil {
			return nil, err
		}
		return f, nil
	}
	if e, ok := p.components[ext]; ok {
		f := NewComponentFile(filePath, pkgPath)
		if err := f.Parse(content, e); err != nil {
			return nil, err
		}
		return f, nil
	}
	err := errors.New(errors.CodeNotSupported, fmt.Sprintf("unsupported file extension %q", ext))
	err = errors.AddContext(err, errors.CtxExtension, ext)
	return nil, errors.AddContext(err, errors.CtxPath, filePath)
}

func (p *Parser) KindOf(filePath string) FileKind {
	ext := normalizeExt(path.Ext(filePath))
	if _, ok := p.scripts[ext]; ok {
		return KindScript
	}
	if _, ok := p.components[ext]; ok {
		return KindComponent
	}
	return KindUnknown
}

func (p *Parser) IsSupportedPath(filePath string) bool {
	return p.KindOf(filePath) != KindUnknown
}

func (p *Parser) SupportedExtensions() []string {
	all := make(map[string]bool, len(p.scripts)+len(p.components))
	for ext := range p.scripts {
		all[ext] = true
	}
	for ext := range p.components {
		all[ext] = true
	}
	return util.SortedStringKeys(all)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
