package program

import (
	"bslint/internal/core/ports"
	"bslint/internal/engine/parser"
)

type Option func(*Program)

// WithScriptParser replaces the extractor used for .brs and .bs files.
func WithScriptParser(sp ports.ScriptParser) Option {
	return func(p *Program) {
		for _, ext := range []string{".brs", ".bs"} {
			p.parser.RegisterScriptExtractor(ext, parser.ScriptExtractor(sp))
		}
	}
}

// WithComponentScanner replaces the extractor used for .xml files.
func WithComponentScanner(cs ports.ComponentScanner) Option {
	return func(p *Program) {
		p.parser.RegisterComponentExtractor(".xml", parser.ComponentExtractor(cs))
	}
}

func WithPlatform(provider ports.PlatformProvider) Option {
	return func(p *Program) {
		p.platform = provider
	}
}

func WithSourceReader(r ports.SourceReader) Option {
	return func(p *Program) {
		p.reader = r
	}
}
