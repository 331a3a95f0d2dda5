// Package validator turns a resolved context into diagnostics. Every pass
// starts from scratch; nothing from a previous run is consulted.
package validator

import (
	"strings"

	"bslint/internal/core/ports"
	"bslint/internal/engine/diag"
	"bslint/internal/engine/graph"
	"bslint/internal/engine/parser"
	"bslint/internal/engine/scope"
)

// lifecycleInit is expected to be declared at every level of a component
// hierarchy, so redeclaring it never counts as shadowing.
const lifecycleInit = "init"

type Validator struct {
	platform ports.PlatformProvider
	graph    *graph.Inheritance
	builtins map[string][]parser.Callable
}

func New(platform ports.PlatformProvider, g *graph.Inheritance) *Validator {
	v := &Validator{platform: platform, graph: g, builtins: make(map[string][]parser.Callable)}
	if platform != nil {
		for _, c := range platform.GetAllCallables() {
			v.builtins[c.Key()] = append(v.builtins[c.Key()], c)
		}
	}
	return v
}

// Validate computes the full diagnostic set for c. The platform context
// yields nothing.
func (v *Validator) Validate(c *scope.Context) []diag.Diagnostic {
	if c.Kind() == scope.KindPlatform {
		return nil
	}

	var out []diag.Diagnostic
	own := c.OwnFiles()
	for _, f := range own {
		out = append(out, f.Diagnostics()...)
	}

	out = append(out, v.duplicates(c)...)
	out = append(out, v.calls(c)...)

	if c.Kind() == scope.KindComponent {
		out = append(out, v.missingReferences(c)...)
		out = append(out, v.componentDeclaration(c)...)
		out = append(out, v.redundantImports(c)...)
		out = append(out, v.shadowing(c)...)
	}

	diag.Sort(out)
	return out
}

// duplicates reports every declaration site of a name declared more than
// once among the context's own files.
func (v *Validator) duplicates(c *scope.Context) []diag.Diagnostic {
	byKey := make(map[string][]parser.Callable)
	var order []string
	for _, callable := range c.OwnCallables() {
		key := callable.Key()
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], callable)
	}

	var out []diag.Diagnostic
	for _, key := range order {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		for _, callable := range group {
			out = append(out, diag.New(diag.DuplicateFunction, callable.File.Ref(), callable.NameRange, callable.Name))
		}
	}
	return out
}

func (v *Validator) calls(c *scope.Context) []diag.Diagnostic {
	visible := make(map[string][]parser.Callable)
	for _, callable := range c.GetAllCallables() {
		visible[callable.Key()] = append(visible[callable.Key()], callable)
	}

	var out []diag.Diagnostic
	for _, f := range c.OwnFiles() {
		script, ok := f.(*parser.ScriptFile)
		if !ok {
			continue
		}
		for _, call := range script.Calls {
			candidates := visible[call.Key()]
			if len(candidates) == 0 {
				candidates = v.builtins[call.Key()]
			}
			if len(candidates) == 0 {
				out = append(out, diag.New(diag.UnknownFunction, script.Ref(), call.NameRange, call.Name))
				continue
			}
			if !anyAccepts(candidates, call.ArgCount) {
				want := candidates[0]
				out = append(out, diag.New(diag.ArgumentCountMismatch, script.Ref(), call.Range,
					diag.ParamRange(want.RequiredParams, want.MaxParams), call.ArgCount))
			}
		}
	}
	return out
}

func anyAccepts(candidates []parser.Callable, n int) bool {
	for _, c := range candidates {
		if c.Accepts(n) {
			return true
		}
	}
	return false
}

func (v *Validator) missingReferences(c *scope.Context) []diag.Diagnostic {
	owner := c.Owner()
	var out []diag.Diagnostic
	for _, ref := range c.UnresolvedReferences() {
		out = append(out, diag.New(diag.ReferencedFileMissing, owner.Ref(), ref.Range))
	}
	return out
}

// componentDeclaration covers the extends attribute and name clashes.
func (v *Validator) componentDeclaration(c *scope.Context) []diag.Diagnostic {
	owner := c.Owner()
	var out []diag.Diagnostic

	if winner, ok := v.graph.DuplicateOf(owner); ok {
		out = append(out, diag.New(diag.DuplicateComponent, owner.Ref(), owner.DeclRange, owner.ComponentName, winner.PkgPath()))
	}

	if owner.ParentName == "" {
		return out
	}
	if _, ok := v.graph.Parent(owner); !ok {
		if v.platform == nil || !v.platform.IsBuiltinComponent(owner.ParentName) {
			out = append(out, diag.New(diag.UnknownParent, owner.Ref(), owner.ExtendsRange, owner.ComponentName, owner.ParentName))
		}
		return out
	}
	if cycle := v.graph.Cycle(owner); cycle != nil {
		out = append(out, diag.New(diag.CircularInheritance, owner.Ref(), owner.ExtendsRange, owner.ComponentName, strings.Join(cycle, " -> ")))
	}
	return out
}

func (v *Validator) redundantImports(c *scope.Context) []diag.Diagnostic {
	owner := c.Owner()
	ancestors, _ := c.Ancestors()
	unresolved := make(map[diag.Range]bool)
	for _, ref := range c.UnresolvedReferences() {
		unresolved[ref.Range] = true
	}

	var out []diag.Diagnostic
	for _, ref := range owner.Scripts {
		if unresolved[ref.Range] {
			continue
		}
		for _, a := range ancestors {
			ancestorOwner := a.Owner()
			if ancestorOwner == nil || !ancestorOwner.ImportsPkgPath(ref.PkgPath) {
				continue
			}
			out = append(out, diag.New(diag.RedundantImport, owner.Ref(), ref.Range, ref.Text, ancestorOwner.ComponentName))
			break
		}
	}
	return out
}

type ancestorDecl struct {
	file      *parser.ScriptFile
	component string
}

// shadowing reports own declarations that hide a callable an ancestor
// already provides. Files the ancestor chain itself imports are skipped.
func (v *Validator) shadowing(c *scope.Context) []diag.Diagnostic {
	parent := c.Parent()
	if parent == nil || parent.Kind() != scope.KindComponent {
		return nil
	}

	ancestors, _ := c.Ancestors()
	inherited := make(map[string]ancestorDecl)
	for _, a := range ancestors {
		if a.Kind() != scope.KindComponent {
			continue
		}
		for _, callable := range a.OwnCallables() {
			if _, exists := inherited[callable.Key()]; !exists {
				inherited[callable.Key()] = ancestorDecl{file: callable.File, component: a.Owner().ComponentName}
			}
		}
	}

	var out []diag.Diagnostic
	for _, callable := range c.OwnCallables() {
		if parent.HasFile(callable.File.Path()) || callable.Key() == lifecycleInit {
			continue
		}
		decl, ok := inherited[callable.Key()]
		if !ok || decl.file == callable.File {
			continue
		}
		out = append(out, diag.New(diag.ShadowedFunction, callable.File.Ref(), callable.NameRange, callable.Name, decl.component))
	}
	return out
}
