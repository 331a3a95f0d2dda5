// Package scope groups files into resolution units.
//
// A Context never stores its membership authoritatively. Members, the parent
// link and unresolved references are derived from a FileIndex and cached
// until the index generation changes.
package scope

import (
	"fmt"
	"strings"

	"bslint/internal/engine/diag"
	"bslint/internal/engine/graph"
	"bslint/internal/engine/parser"
)

type Kind int

const (
	KindPlatform Kind = iota
	KindGlobal
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindGlobal:
		return "global"
	default:
		return "component"
	}
}

const (
	GlobalName   = "global"
	PlatformName = "platform"
)

// FileIndex is the read side of the program that contexts derive from.
type FileIndex interface {
	// Generation changes after every mutation of the file set.
	Generation() uint64
	// Files returns all registered files in registration order.
	Files() []parser.File
	FileByPkgPath(pkgPath string) (parser.File, bool)
	Inheritance() *graph.Inheritance
	ComponentContext(c *parser.ComponentFile) (*Context, bool)
	PlatformContext() *Context
	RootDir() string
	SourceDir() string
}

// CallableSource supplies the callables of the platform context.
type CallableSource interface {
	GetAllCallables() []parser.Callable
}

type Context struct {
	name     string
	kind     Kind
	owner    *parser.ComponentFile
	index    FileIndex
	builtins CallableSource

	cacheGen uint64
	cache    *membership

	validated    bool
	validatedSig string
	diagnostics  []diag.Diagnostic
}

type membership struct {
	own        []parser.File
	members    []parser.File
	memberKeys map[string]bool
	parent     *Context
	ancestors  []*Context
	cycle      bool
	unresolved []parser.ScriptReference
}

func NewPlatformContext(builtins CallableSource) *Context {
	return &Context{name: PlatformName, kind: KindPlatform, builtins: builtins}
}

func NewGlobalContext(index FileIndex) *Context {
	return &Context{name: GlobalName, kind: KindGlobal, index: index}
}

// NewComponentContext creates the context owned by a component file. Its
// name is the owner's pkgPath.
func NewComponentContext(owner *parser.ComponentFile, index FileIndex) *Context {
	return &Context{name: owner.PkgPath(), kind: KindComponent, owner: owner, index: index}
}

func (c *Context) Name() string { return c.name }
func (c *Context) Kind() Kind   { return c.kind }

// Owner is the component file of a component context, nil otherwise.
func (c *Context) Owner() *parser.ComponentFile { return c.owner }

func (c *Context) derived() *membership {
	if c.kind == KindPlatform {
		return &membership{memberKeys: map[string]bool{}}
	}
	gen := c.index.Generation()
	if c.cache != nil && c.cacheGen == gen {
		return c.cache
	}
	c.cache = c.derive()
	c.cacheGen = gen
	return c.cache
}

func (c *Context) derive() *membership {
	m := &membership{memberKeys: make(map[string]bool)}
	files := c.index.Files()

	if c.kind == KindGlobal {
		source := c.index.SourceDir()
		for _, f := range files {
			if _, ok := f.(*parser.ScriptFile); ok && parser.UnderDir(f.PkgPath(), source) {
				m.own = append(m.own, f)
				m.memberKeys[f.Key()] = true
			}
		}
		m.members = m.own
		m.parent = c.index.PlatformContext()
		m.ancestors = []*Context{m.parent}
		return m
	}

	ownKeys := c.ownKeys(m)
	m.parent = c.parentContext()
	m.ancestors, m.cycle = c.walkAncestors(m.parent)

	for key := range ownKeys {
		m.memberKeys[key] = true
	}
	for _, a := range m.ancestors {
		for key := range a.ownKeySet() {
			m.memberKeys[key] = true
		}
	}
	for _, f := range files {
		if ownKeys[f.Key()] {
			m.own = append(m.own, f)
		}
		if m.memberKeys[f.Key()] {
			m.members = append(m.members, f)
		}
	}
	return m
}

// ownKeys resolves the owner's script references. It does not consult any
// other context, so it is safe to call while deriving one.
func (c *Context) ownKeys(m *membership) map[string]bool {
	keys := map[string]bool{c.owner.Key(): true}
	for _, ref := range c.owner.Scripts {
		f, ok := c.index.FileByPkgPath(ref.PkgPath)
		if ref.PkgPath == "" || !ok {
			if m != nil {
				m.unresolved = append(m.unresolved, ref)
			}
			continue
		}
		keys[f.Key()] = true
	}
	return keys
}

func (c *Context) ownKeySet() map[string]bool {
	if c.kind != KindComponent {
		return nil
	}
	return c.ownKeys(nil)
}

func (c *Context) parentContext() *Context {
	if parent, ok := c.index.Inheritance().Parent(c.owner); ok {
		if pc, ok := c.index.ComponentContext(parent); ok {
			return pc
		}
	}
	return c.index.PlatformContext()
}

func (c *Context) walkAncestors(parent *Context) ([]*Context, bool) {
	var chain []*Context
	seen := map[*Context]bool{c: true}
	for cur := parent; cur != nil; {
		if seen[cur] {
			return chain, true
		}
		seen[cur] = true
		chain = append(chain, cur)
		if cur.kind != KindComponent {
			break
		}
		cur = cur.parentContext()
	}
	return chain, false
}

// Parent is the context this one inherits from: the parent component's
// context, or the platform context when there is none. The platform context
// has no parent.
func (c *Context) Parent() *Context {
	return c.derived().parent
}

// Ancestors lists parent contexts nearest first, ending at the platform
// context unless the chain loops. cycle reports a loop.
func (c *Context) Ancestors() (chain []*Context, cycle bool) {
	m := c.derived()
	out := make([]*Context, len(m.ancestors))
	copy(out, m.ancestors)
	return out, m.cycle
}

// Members returns every file visible in the context, in registration order.
func (c *Context) Members() []parser.File {
	return c.derived().members
}

// OwnFiles returns the files the context contributes itself: the owner and
// its resolved script imports for a component, every member otherwise.
func (c *Context) OwnFiles() []parser.File {
	return c.derived().own
}

// HasFile reports whether the file at path is visible in the context.
// Relative paths are resolved against the project root.
func (c *Context) HasFile(path string) bool {
	if c.index == nil {
		return false
	}
	return c.derived().memberKeys[parser.PathKey(parser.NormalizePath(c.index.RootDir(), path))]
}

func (c *Context) FileCount() int {
	return len(c.derived().members)
}

// UnresolvedReferences lists the owner's script imports that match no
// registered file.
func (c *Context) UnresolvedReferences() []parser.ScriptReference {
	return c.derived().unresolved
}

// GetAllCallables returns callables from every member file, ordered by file
// registration and then declaration. Same-named callables are all kept.
func (c *Context) GetAllCallables() []parser.Callable {
	if c.kind == KindPlatform {
		if c.builtins == nil {
			return nil
		}
		return c.builtins.GetAllCallables()
	}
	return callablesOf(c.Members())
}

// OwnCallables is GetAllCallables restricted to OwnFiles.
func (c *Context) OwnCallables() []parser.Callable {
	if c.kind == KindPlatform {
		return c.GetAllCallables()
	}
	return callablesOf(c.OwnFiles())
}

func callablesOf(files []parser.File) []parser.Callable {
	var out []parser.Callable
	for _, f := range files {
		if s, ok := f.(*parser.ScriptFile); ok {
			out = append(out, s.Callables...)
		}
	}
	return out
}

// Signature fingerprints everything validation of this context depends on.
// Two equal signatures yield identical diagnostics.
func (c *Context) Signature() string {
	if c.kind == KindPlatform {
		return PlatformName
	}
	var b strings.Builder
	m := c.derived()
	for _, f := range m.members {
		fmt.Fprintf(&b, "%d,", f.ID())
	}
	b.WriteString("|")
	for _, a := range m.ancestors {
		b.WriteString(a.name)
		if a.owner != nil {
			fmt.Fprintf(&b, "#%d", a.owner.ID())
		}
		b.WriteString(">")
	}
	if m.cycle {
		b.WriteString("cycle")
	}
	if c.owner != nil {
		if winner, ok := c.index.Inheritance().DuplicateOf(c.owner); ok {
			fmt.Fprintf(&b, "|dup#%d", winner.ID())
		}
	}
	return b.String()
}

// IsStale reports whether the context changed since its last validation.
func (c *Context) IsStale() bool {
	return !c.validated || c.validatedSig != c.Signature()
}

// Validate runs fn when the context is stale and replaces the stored
// diagnostics with its result. It reports whether fn ran.
func (c *Context) Validate(fn func(*Context) []diag.Diagnostic) bool {
	if c.kind == KindPlatform || !c.IsStale() {
		return false
	}
	c.diagnostics = fn(c)
	c.validatedSig = c.Signature()
	c.validated = true
	return true
}

// Diagnostics returns the result of the last validation.
func (c *Context) Diagnostics() []diag.Diagnostic {
	return c.diagnostics
}
