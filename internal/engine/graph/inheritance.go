// Package graph links SceneGraph component files by name.
//
// Only names are stored on files. Parent and child pointers are derived from
// the name index, which is rebuilt from the full set of component files after
// every change, so a rename or removal can never leave a dangling link.
package graph

import (
	"strings"

	"bslint/internal/engine/parser"
)

type Inheritance struct {
	byName     map[string]*parser.ComponentFile
	children   map[string][]*parser.ComponentFile
	duplicates map[*parser.ComponentFile]*parser.ComponentFile
	order      []*parser.ComponentFile
}

func NewInheritance() *Inheritance {
	return &Inheritance{
		byName:     make(map[string]*parser.ComponentFile),
		children:   make(map[string][]*parser.ComponentFile),
		duplicates: make(map[*parser.ComponentFile]*parser.ComponentFile),
	}
}

// Rebuild replaces the index with components, which must be in registration
// order. When two files declare the same name the first one wins; the others
// are remembered so they can be reported.
func (g *Inheritance) Rebuild(components []*parser.ComponentFile) {
	g.byName = make(map[string]*parser.ComponentFile, len(components))
	g.children = make(map[string][]*parser.ComponentFile)
	g.duplicates = make(map[*parser.ComponentFile]*parser.ComponentFile)
	g.order = append(g.order[:0], components...)

	for _, c := range components {
		key := c.ComponentKey()
		if key == "" {
			continue
		}
		if winner, exists := g.byName[key]; exists {
			g.duplicates[c] = winner
			continue
		}
		g.byName[key] = c
	}
	for _, c := range components {
		if parent := c.ParentKey(); parent != "" {
			g.children[parent] = append(g.children[parent], c)
		}
	}
}

func (g *Inheritance) Len() int {
	return len(g.byName)
}

func (g *Inheritance) Components() []*parser.ComponentFile {
	out := make([]*parser.ComponentFile, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Inheritance) Lookup(name string) (*parser.ComponentFile, bool) {
	c, ok := g.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Parent resolves c's extends attribute. It reports false when c extends
// nothing or a name no project file declares.
func (g *Inheritance) Parent(c *parser.ComponentFile) (*parser.ComponentFile, bool) {
	if c == nil || c.ParentKey() == "" {
		return nil, false
	}
	return g.Lookup(c.ParentName)
}

// Ancestors walks the extends chain from c's parent upwards. It stops at the
// first component it has already visited and reports cycle=true in that case.
func (g *Inheritance) Ancestors(c *parser.ComponentFile) (chain []*parser.ComponentFile, cycle bool) {
	seen := map[*parser.ComponentFile]bool{c: true}
	for cur := c; ; {
		parent, ok := g.Parent(cur)
		if !ok {
			return chain, false
		}
		if seen[parent] {
			return chain, true
		}
		seen[parent] = true
		chain = append(chain, parent)
		cur = parent
	}
}

// Children returns the components whose extends attribute names name, in
// registration order.
func (g *Inheritance) Children(name string) []*parser.ComponentFile {
	kids := g.children[strings.ToLower(strings.TrimSpace(name))]
	out := make([]*parser.ComponentFile, len(kids))
	copy(out, kids)
	return out
}

// DuplicateOf returns the file that owns c's name when c lost the
// registration race for it.
func (g *Inheritance) DuplicateOf(c *parser.ComponentFile) (*parser.ComponentFile, bool) {
	winner, ok := g.duplicates[c]
	return winner, ok
}
