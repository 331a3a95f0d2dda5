// # internal/engine/parser/markup.go
package parser

import (
	"regexp"
	"sort"
	"strings"

	"bslint/internal/engine/diag"
)

var (
	componentTagPattern = regexp.MustCompile(`(?is)<\s*component\b([^>]*)>`)
	attributePattern    = regexp.MustCompile(`(?s)([A-Za-z_][\w:.-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	scriptURIPattern    = regexp.MustCompile(`(?i)<\s*script\b[^>]*?\buri\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// ComponentMarkupExtractor reads the parts of a SceneGraph component file the
// analyzer needs: the component declaration and its script imports. It is
// line-oriented and tolerant of malformed markup around those tags.
type ComponentMarkupExtractor struct{}

func (ComponentMarkupExtractor) ExtractComponent(source string, _ string) (*ComponentSyntax, error) {
	idx := newLineIndex(source)
	syntax := &ComponentSyntax{}

	match := componentTagPattern.FindStringSubmatchIndex(source)
	if match == nil {
		syntax.Diagnostics = append(syntax.Diagnostics, diag.New(diag.MissingComponent, diag.FileRef{}, diag.NewRange(0, 0, 0, 0)))
	} else {
		tagRange := idx.span(match[0], match[0]+len("<component"))
		syntax.DeclRange = tagRange

		attrStart, attrEnd := match[2], match[3]
		for _, am := range attributePattern.FindAllStringSubmatchIndex(source[attrStart:attrEnd], -1) {
			name := strings.ToLower(source[attrStart+am[2] : attrStart+am[3]])
			valStart, valEnd := am[4], am[5]
			if valStart < 0 {
				valStart, valEnd = am[6], am[7]
			}
			value := source[attrStart+valStart : attrStart+valEnd]
			rng := idx.span(attrStart+valStart, attrStart+valEnd)

			switch name {
			case "name":
				syntax.Name = strings.TrimSpace(value)
				syntax.DeclRange = rng
			case "extends":
				syntax.Extends = strings.TrimSpace(value)
				syntax.ExtendsRange = rng
			}
		}
		if syntax.Name == "" {
			syntax.Diagnostics = append(syntax.Diagnostics, diag.New(diag.MissingComponentName, diag.FileRef{}, tagRange))
		}
	}

	for lineNo, line := range idx.lines {
		for _, sm := range scriptURIPattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := sm[2], sm[3]
			if start < 0 {
				start, end = sm[4], sm[5]
			}
			syntax.Scripts = append(syntax.Scripts, ScriptReference{
				Text:  line[start:end],
				Range: diag.NewRange(lineNo, start, lineNo, end),
			})
		}
	}

	return syntax, nil
}

type lineIndex struct {
	lines  []string
	starts []int
}

func newLineIndex(source string) lineIndex {
	idx := lineIndex{starts: []int{0}}
	begin := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			idx.lines = append(idx.lines, strings.TrimSuffix(source[begin:i], "\r"))
			begin = i + 1
			idx.starts = append(idx.starts, begin)
		}
	}
	idx.lines = append(idx.lines, source[begin:])
	return idx
}

func (idx lineIndex) position(offset int) diag.Position {
	line := sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return diag.Position{Line: line, Column: offset - idx.starts[line]}
}

func (idx lineIndex) span(start, end int) diag.Range {
	return diag.Range{Start: idx.position(start), End: idx.position(end)}
}
