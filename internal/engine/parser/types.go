// # internal/engine/parser/types.go
package parser

import (
	"strings"

	"bslint/internal/engine/diag"
)

// State is the parse lifecycle of a File. It only ever moves forward.
type State int

const (
	StateUnparsed State = iota
	StateParsed
)

func (s State) String() string {
	if s == StateParsed {
		return "parsed"
	}
	return "unparsed"
}

type CallableKind int

const (
	KindSub CallableKind = iota
	KindFunction
)

func (k CallableKind) String() string {
	if k == KindFunction {
		return "function"
	}
	return "sub"
}

// Callable is a named sub or function. File is nil for platform built-ins.
type Callable struct {
	Name           string
	Kind           CallableKind
	RequiredParams int
	MaxParams      int
	NameRange      diag.Range
	File           *ScriptFile
}

// Key is the case-insensitive lookup name.
func (c Callable) Key() string {
	return strings.ToLower(c.Name)
}

func (c Callable) IsPlatform() bool {
	return c.File == nil
}

// Accepts reports whether a call with n arguments fits the parameter list.
func (c Callable) Accepts(n int) bool {
	return n >= c.RequiredParams && n <= c.MaxParams
}

// CallExpression is a direct call by name, e.g. DoWork(a, b).
type CallExpression struct {
	Name      string
	ArgCount  int
	NameRange diag.Range
	Range     diag.Range
}

func (c CallExpression) Key() string {
	return strings.ToLower(c.Name)
}

// ScriptReference is a <script uri="..."/> import. PkgPath is the resolved
// project-root-relative path; Range spans the uri text on its line.
type ScriptReference struct {
	Text    string
	PkgPath string
	Range   diag.Range
}

type CompletionKind int

// Numbering follows the editor protocol so items can be forwarded as-is.
const CompletionKindFile CompletionKind = 17

type CompletionItem struct {
	Label string         `json:"label"`
	Kind  CompletionKind `json:"kind"`
}

// ScriptSyntax is what a script extractor reports for one source text.
type ScriptSyntax struct {
	Callables   []Callable
	Calls       []CallExpression
	Diagnostics []diag.Diagnostic
}

// ComponentSyntax is what a component extractor reports for one markup text.
// Script reference PkgPaths are left empty; the owning file resolves them.
type ComponentSyntax struct {
	Name         string
	Extends      string
	DeclRange    diag.Range
	ExtendsRange diag.Range
	Scripts      []ScriptReference
	Diagnostics  []diag.Diagnostic
}

type ScriptExtractor interface {
	ExtractScript(source string, filePath string) (*ScriptSyntax, error)
}

type ComponentExtractor interface {
	ExtractComponent(source string, filePath string) (*ComponentSyntax, error)
}
