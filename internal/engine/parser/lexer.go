package parser

import (
	"strings"

	"bslint/internal/engine/diag"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokPunct
	tokNewline
	tokEOF
)

type token struct {
	kind   tokenKind
	text   string
	line   int
	col    int
	endCol int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && strings.EqualFold(t.text, text)
}

func (t token) isPunct(text string) bool {
	return t.kind == tokPunct && t.text == text
}

func (t token) rng() diag.Range {
	return diag.NewRange(t.line, t.col, t.line, t.endCol)
}

// lexer splits BrightScript source into tokens. Comments are dropped,
// statement separators (newline and ':') become tokNewline, and columns are
// zero-based byte offsets within the line.
type lexer struct {
	src         string
	pos         int
	line        int
	lineStart   int
	nesting     int
	tokens      []token
	diagnostics []diag.Diagnostic
}

func tokenize(src string) ([]token, []diag.Diagnostic) {
	lx := &lexer{src: src}
	lx.run()
	return lx.tokens, lx.diagnostics
}

func (lx *lexer) col() int {
	return lx.pos - lx.lineStart
}

func (lx *lexer) emit(kind tokenKind, start int, line int, startCol int) {
	lx.tokens = append(lx.tokens, token{
		kind:   kind,
		text:   lx.src[start:lx.pos],
		line:   line,
		col:    startCol,
		endCol: startCol + (lx.pos - start),
	})
}

func (lx *lexer) newline() {
	lx.line++
	lx.lineStart = lx.pos
}

func (lx *lexer) skipToLineEnd() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
		lx.pos++
	}
}

func (lx *lexer) atStatementStart() bool {
	if len(lx.tokens) == 0 {
		return true
	}
	return lx.tokens[len(lx.tokens)-1].kind == tokNewline
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\r':
			lx.pos++
			if lx.pos < len(lx.src) && lx.src[lx.pos] == '\n' {
				lx.pos++
			}
			lx.endLine()
		case c == '\n':
			lx.pos++
			lx.endLine()
		case c == ' ' || c == '\t':
			lx.pos++
		case c == '\'':
			lx.skipToLineEnd()
		case c == '#' && lx.atStatementStart():
			// Conditional compilation directives carry no calls we track.
			lx.skipToLineEnd()
		case c == '"':
			lx.lexString()
		case isIdentStart(c):
			lx.lexIdent()
		case isDigit(c) || (c == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
			lx.lexNumber()
		case c == ':' && lx.nesting == 0:
			start, col := lx.pos, lx.col()
			lx.pos++
			lx.emit(tokNewline, start, lx.line, col)
		default:
			lx.lexPunct()
		}
	}
	lx.tokens = append(lx.tokens, token{kind: tokEOF, line: lx.line, col: lx.col(), endCol: lx.col()})
}

func (lx *lexer) endLine() {
	lx.tokens = append(lx.tokens, token{kind: tokNewline, text: "\n", line: lx.line, col: lx.pos - lx.lineStart, endCol: lx.pos - lx.lineStart})
	lx.newline()
}

func (lx *lexer) lexString() {
	start, line, col := lx.pos, lx.line, lx.col()
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\n' || c == '\r' {
			break
		}
		lx.pos++
		if c == '"' {
			// "" is an escaped quote inside a literal.
			if lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
				lx.pos++
				continue
			}
			lx.emit(tokString, start, line, col)
			return
		}
	}
	lx.emit(tokString, start, line, col)
	lx.diagnostics = append(lx.diagnostics, diag.New(diag.UnterminatedString, diag.FileRef{}, diag.NewRange(line, col, line, lx.col())))
}

func (lx *lexer) lexIdent() {
	start, col := lx.pos, lx.col()
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
	// Type designators: name$, count%, ratio!, big#, long&.
	if lx.pos < len(lx.src) && strings.IndexByte("$%!#&", lx.src[lx.pos]) >= 0 {
		lx.pos++
	}
	if strings.EqualFold(lx.src[start:lx.pos], "rem") && lx.atStatementStart() {
		lx.skipToLineEnd()
		return
	}
	lx.emit(tokIdent, start, lx.line, col)
}

func (lx *lexer) lexNumber() {
	start, col := lx.pos, lx.col()
	if lx.src[lx.pos] == '&' {
		lx.pos++
	}
	for lx.pos < len(lx.src) && (isIdentPart(lx.src[lx.pos]) || lx.src[lx.pos] == '.') {
		lx.pos++
	}
	lx.emit(tokNumber, start, lx.line, col)
}

var twoCharPuncts = []string{"<=", ">=", "<>", "+=", "-=", "*=", "/=", "\\=", "<<", ">>", "?."}

func (lx *lexer) lexPunct() {
	start, col := lx.pos, lx.col()
	if lx.src[lx.pos] == '&' && lx.pos+1 < len(lx.src) && (lx.src[lx.pos+1] == 'h' || lx.src[lx.pos+1] == 'H') {
		lx.lexNumber()
		return
	}
	for _, p := range twoCharPuncts {
		if strings.HasPrefix(lx.src[lx.pos:], p) {
			lx.pos += len(p)
			lx.emit(tokPunct, start, lx.line, col)
			return
		}
	}
	lx.pos++
	switch lx.src[start] {
	case '(', '[', '{':
		lx.nesting++
	case ')', ']', '}':
		if lx.nesting > 0 {
			lx.nesting--
		}
	}
	lx.emit(tokPunct, start, lx.line, col)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c|0x20) >= 'a' && (c|0x20) <= 'z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
