// # internal/engine/graph/detect.go
package graph

import "bslint/internal/engine/parser"

// DetectCycles returns every extends cycle once, as component names in chain
// order starting from the earliest registered member.
func (g *Inheritance) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[*parser.ComponentFile]bool)
	onStack := make(map[*parser.ComponentFile]bool)

	for _, c := range g.order {
		if g.indexed(c) && !visited[c] {
			g.findCycles(c, visited, onStack, nil, &cycles)
		}
	}
	return cycles
}

func (g *Inheritance) findCycles(curr *parser.ComponentFile, visited, onStack map[*parser.ComponentFile]bool, path []*parser.ComponentFile, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	if next, ok := g.Parent(curr); ok {
		if onStack[next] {
			for i, c := range path {
				if c == next {
					*cycles = append(*cycles, names(path[i:]))
					break
				}
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}

// Cycle returns the chain c -> ... -> c when c takes part in an extends
// cycle, nil otherwise. Components that merely extend into a cycle are not
// part of it.
func (g *Inheritance) Cycle(c *parser.ComponentFile) []string {
	chain, cycle := g.Ancestors(c)
	if !cycle {
		return nil
	}
	last := c
	if len(chain) > 0 {
		last = chain[len(chain)-1]
	}
	if back, ok := g.Parent(last); !ok || back != c {
		return nil
	}
	out := append([]string{c.ComponentName}, names(chain)...)
	return append(out, c.ComponentName)
}

func (g *Inheritance) indexed(c *parser.ComponentFile) bool {
	winner, ok := g.byName[c.ComponentKey()]
	return ok && winner == c
}

func names(files []*parser.ComponentFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.ComponentName)
	}
	return out
}
