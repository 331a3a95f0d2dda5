package parser

import (
	"strings"

	"bslint/internal/engine/diag"
)

// BrightScriptExtractor pulls declarations and direct calls out of .brs/.bs
// sources. It is a scanner, not a full parser: it understands blocks,
// parameter lists, assignments and call syntax, and ignores everything else.
type BrightScriptExtractor struct{}

func (BrightScriptExtractor) ExtractScript(source string, _ string) (*ScriptSyntax, error) {
	tokens, lexDiags := tokenize(source)
	sc := &scriptScanner{toks: tokens}
	sc.scan()

	diagnostics := append(lexDiags, sc.diagnostics...)
	return &ScriptSyntax{
		Callables:   sc.callables,
		Calls:       sc.calls,
		Diagnostics: diagnostics,
	}, nil
}

var reservedWords = map[string]bool{
	"and": true, "as": true, "catch": true, "class": true, "dim": true,
	"each": true, "else": true, "elseif": true, "end": true, "endfor": true,
	"endfunction": true, "endif": true, "endsub": true, "endwhile": true,
	"endtry": true, "exit": true, "exitwhile": true, "false": true, "for": true,
	"function": true, "goto": true, "if": true, "import": true, "in": true,
	"invalid": true, "library": true, "m": true, "mod": true, "namespace": true,
	"new": true, "next": true, "not": true, "or": true, "print": true,
	"return": true, "step": true, "stop": true, "sub": true, "super": true,
	"then": true, "throw": true, "to": true, "true": true, "try": true,
	"while": true,
}

var declModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "override": true,
}

type block struct {
	kind   CallableKind
	name   string
	rng    diag.Range
	locals map[string]bool
}

type scriptScanner struct {
	toks        []token
	i           int
	blocks      []*block
	callables   []Callable
	calls       []CallExpression
	diagnostics []diag.Diagnostic
}

func (s *scriptScanner) peek(offset int) token {
	j := s.i + offset
	if j >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[j]
}

func (s *scriptScanner) scan() {
	stmtStart := true
	for {
		t := s.toks[s.i]
		switch t.kind {
		case tokEOF:
			s.closeUnterminated()
			return
		case tokNewline:
			stmtStart = true
			s.i++
			continue
		}
		if stmtStart {
			stmtStart = false
			if s.statement() {
				continue
			}
		}
		s.expression()
	}
}

// statement handles constructs that only mean something at the start of a
// statement. It reports whether it consumed tokens.
func (s *scriptScanner) statement() bool {
	t := s.toks[s.i]
	if t.kind != tokIdent {
		return false
	}
	word := strings.ToLower(t.text)

	if declModifiers[word] {
		next := s.peek(1)
		if next.is(tokIdent, "sub") || next.is(tokIdent, "function") {
			s.i++
			return s.statement()
		}
	}

	switch word {
	case "sub", "function":
		if name := s.peek(1); name.kind == tokIdent && s.peek(2).isPunct("(") {
			s.declaration(t, name)
			return true
		}
	case "end":
		next := s.peek(1)
		if next.is(tokIdent, "sub") || next.is(tokIdent, "function") {
			s.closeBlock(diag.NewRange(t.line, t.col, next.line, next.endCol), strings.ToLower(next.text))
			s.i += 2
			return true
		}
	case "endsub", "endfunction":
		s.closeBlock(t.rng(), word[3:])
		s.i++
		return true
	case "for":
		next := s.peek(1)
		if next.is(tokIdent, "each") && s.peek(2).kind == tokIdent {
			s.declareLocal(s.peek(2).text)
		} else if next.kind == tokIdent && s.peek(2).isPunct("=") {
			s.declareLocal(next.text)
		}
	case "dim":
		if next := s.peek(1); next.kind == tokIdent {
			s.declareLocal(next.text)
		}
	default:
		next := s.peek(1)
		if next.kind == tokPunct && isAssignOp(next.text) && !reservedWords[word] {
			s.declareLocal(t.text)
		}
	}
	return false
}

func (s *scriptScanner) declaration(keyword, name token) {
	kind := KindSub
	if strings.EqualFold(keyword.text, "function") {
		kind = KindFunction
	}
	s.i += 2
	required, max, params := s.params()

	s.callables = append(s.callables, Callable{
		Name:           name.text,
		Kind:           kind,
		RequiredParams: required,
		MaxParams:      max,
		NameRange:      name.rng(),
	})
	s.push(kind, name.text, name.rng(), params)
}

// params parses a parameter list starting at the '(' under the cursor and
// leaves the cursor after the matching ')'.
func (s *scriptScanner) params() (required, max int, names []string) {
	s.i++ // (
	depth := 1
	segmentStart := true
	optional := false
	seen := false

	flush := func() {
		if !seen {
			return
		}
		max++
		if !optional {
			required++
		}
		seen, optional = false, false
	}

	for depth > 0 {
		t := s.toks[s.i]
		if t.kind == tokEOF || t.kind == tokNewline {
			break
		}
		s.i++
		switch {
		case t.kind == tokPunct && isOpen(t.text):
			depth++
		case t.kind == tokPunct && isClose(t.text):
			depth--
		case depth == 1 && t.isPunct(","):
			flush()
			segmentStart = true
			continue
		case depth == 1 && t.isPunct("="):
			optional = true
		case depth == 1 && segmentStart && t.kind == tokIdent:
			names = append(names, t.text)
			seen = true
		}
		segmentStart = false
	}
	flush()
	return required, max, names
}

func (s *scriptScanner) expression() {
	t := s.toks[s.i]
	if t.kind != tokIdent || !s.peek(1).isPunct("(") {
		s.i++
		return
	}

	word := strings.ToLower(t.text)
	if word == "function" || word == "sub" {
		kind := KindSub
		if word == "function" {
			kind = KindFunction
		}
		s.i++
		_, _, params := s.params()
		s.push(kind, "", t.rng(), params)
		return
	}

	if s.i > 0 {
		prev := s.toks[s.i-1]
		if prev.isPunct(".") || prev.isPunct("?.") || prev.isPunct("@") || prev.is(tokIdent, "new") {
			s.i++
			return
		}
	}
	if reservedWords[word] || s.isLocal(word) {
		s.i++
		return
	}

	if count, end, ok := s.argCount(s.i + 1); ok {
		s.calls = append(s.calls, CallExpression{
			Name:      t.text,
			ArgCount:  count,
			NameRange: t.rng(),
			Range:     diag.NewRange(t.line, t.col, end.line, end.endCol),
		})
	}
	s.i++
}

// argCount counts top-level arguments of the call whose '(' is at index
// open. It returns the closing token, or ok=false when the list never closes.
func (s *scriptScanner) argCount(open int) (count int, closing token, ok bool) {
	depth := 0
	commas := 0
	empty := true
	for j := open; j < len(s.toks); j++ {
		t := s.toks[j]
		switch {
		case t.kind == tokEOF:
			return 0, token{}, false
		case t.kind == tokPunct && isOpen(t.text):
			depth++
			if depth > 1 {
				empty = false
			}
		case t.kind == tokPunct && isClose(t.text):
			depth--
			if depth == 0 {
				if empty {
					return 0, t, true
				}
				return commas + 1, t, true
			}
		case t.kind == tokNewline:
		case depth == 1 && t.isPunct(","):
			commas++
			empty = false
		default:
			empty = false
		}
	}
	return 0, token{}, false
}

func (s *scriptScanner) push(kind CallableKind, name string, rng diag.Range, params []string) {
	b := &block{kind: kind, name: name, rng: rng, locals: make(map[string]bool, len(params))}
	for _, p := range params {
		b.locals[strings.ToLower(p)] = true
	}
	s.blocks = append(s.blocks, b)
}

func (s *scriptScanner) closeBlock(rng diag.Range, kind string) {
	if len(s.blocks) == 0 {
		s.diagnostics = append(s.diagnostics, diag.New(diag.UnexpectedBlockEnd, diag.FileRef{}, rng, kind))
		return
	}
	s.blocks = s.blocks[:len(s.blocks)-1]
}

func (s *scriptScanner) closeUnterminated() {
	for _, b := range s.blocks {
		name := b.name
		if name == "" {
			name = "anonymous " + b.kind.String()
		}
		s.diagnostics = append(s.diagnostics, diag.New(diag.UnterminatedBlock, diag.FileRef{}, b.rng, b.kind.String(), name))
	}
	s.blocks = nil
}

func (s *scriptScanner) declareLocal(name string) {
	if len(s.blocks) == 0 {
		return
	}
	s.blocks[len(s.blocks)-1].locals[strings.ToLower(name)] = true
}

// isLocal checks the innermost block only; anonymous functions do not
// capture enclosing variables.
func (s *scriptScanner) isLocal(key string) bool {
	if len(s.blocks) == 0 {
		return false
	}
	return s.blocks[len(s.blocks)-1].locals[key]
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "\\=":
		return true
	}
	return false
}

func isOpen(p string) bool {
	return p == "(" || p == "[" || p == "{"
}

func isClose(p string) bool {
	return p == ")" || p == "]" || p == "}"
}
