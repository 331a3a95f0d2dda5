package program

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"bslint/internal/core/config"
	"bslint/internal/core/errors"
	"bslint/internal/engine/diag"
	"bslint/internal/engine/parser"
	"bslint/internal/engine/scope"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootDir = "/projects/RokuApp"

func newProgram(t *testing.T, opts ...Option) *Program {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RootDir = rootDir
	return New(cfg, opts...)
}

func add(t *testing.T, p *Program, path, contents string) parser.File {
	t.Helper()
	f, err := p.AddOrReplaceFile(context.Background(), path, contents)
	require.NoError(t, err)
	return f
}

func validate(t *testing.T, p *Program) []diag.Diagnostic {
	t.Helper()
	require.NoError(t, p.Validate(context.Background()))
	return p.GetDiagnostics()
}

func codesOf(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestAddFileNormalizesPath(t *testing.T) {
	p := newProgram(t)
	f := add(t, p, `source\main.brs`, "sub Main()\nend sub\n")

	assert.Equal(t, rootDir+"/source/main.brs", f.Path())
	assert.Equal(t, "source/main.brs", f.PkgPath())
	assert.True(t, p.HasFile("source/main.brs"))
	assert.True(t, p.HasFile(rootDir+"/SOURCE/Main.brs"))
	assert.False(t, p.HasFile("source/other.brs"))
	assert.Equal(t, 1, p.FileCount())
}

func TestWindowsStyleRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RootDir = `C:\projects\RokuApp`
	p := New(cfg)

	f := add(t, p, `C:\projects\RokuApp\source\main.brs`, "")
	assert.Equal(t, "C:/projects/RokuApp/source/main.brs", f.Path())
	assert.Equal(t, "source/main.brs", f.PkgPath())
	assert.True(t, p.HasFile("c:/Projects/rokuapp/source/MAIN.brs"))
	assert.Equal(t, 1, p.GlobalContext().FileCount())
}

func TestRemoveFileAcceptsAlternateSeparators(t *testing.T) {
	p := newProgram(t)
	add(t, p, "A/B.brs", "sub B()\nend sub\n")
	require.True(t, p.HasFile("A/B.brs"))

	p.RemoveFile(`A\B.brs`)
	assert.False(t, p.HasFile("A/B.brs"))

	assert.NotPanics(t, func() { p.RemoveFile("A/B.brs") })
}

func TestFileRemovedFiresOnlyOnDisplacement(t *testing.T) {
	p := newProgram(t)
	var removed []parser.File
	p.OnFileRemoved(func(f parser.File) { removed = append(removed, f) })

	first := add(t, p, "source/main.brs", "sub Main()\nend sub\n")
	assert.Empty(t, removed, "a brand-new path must not fire")

	second := add(t, p, "source/main.brs", "sub Main()\nend sub\n")
	require.Len(t, removed, 1)
	assert.Same(t, first, removed[0])
	assert.NotEqual(t, first.ID(), second.ID())

	p.RemoveFile("SOURCE/MAIN.BRS")
	require.Len(t, removed, 2)
	assert.Same(t, second, removed[1])

	p.RemoveFile("source/main.brs")
	assert.Len(t, removed, 2)
}

func TestIdempotentReAdd(t *testing.T) {
	p := newProgram(t)
	src := "sub Main()\n    Missing()\nend sub\n"
	add(t, p, "source/main.brs", src)
	before := validate(t, p)

	events := 0
	p.OnFileRemoved(func(parser.File) { events++ })
	add(t, p, "source/main.brs", src)
	after := validate(t, p)

	assert.Equal(t, 1, events)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, p.FileCount())
	assert.Equal(t, 1, p.GlobalContext().FileCount())
}

func TestGlobalContextMembership(t *testing.T) {
	p := newProgram(t)
	assert.Equal(t, 0, p.GlobalContext().FileCount())

	add(t, p, "source/lib.brs", "")
	assert.Equal(t, 1, p.GlobalContext().FileCount())

	add(t, p, "components/comp.brs", "")
	assert.Equal(t, 1, p.GlobalContext().FileCount())
	assert.True(t, p.GlobalContext().HasFile("source/lib.brs"))
	assert.True(t, p.GlobalContext().HasFile("SOURCE/Lib.brs"))
	assert.True(t, p.HasFile("components/comp.brs"))
	assert.False(t, p.GlobalContext().HasFile("components/comp.brs"))
}

func TestDuplicateFunctions(t *testing.T) {
	t.Run("same file", func(t *testing.T) {
		p := newProgram(t)
		add(t, p, "source/main.brs", "sub DoA()\nend sub\nsub doa()\nend sub\n")
		diags := validate(t, p)
		assert.Equal(t, []diag.Code{diag.DuplicateFunction, diag.DuplicateFunction}, codesOf(diags))
	})

	t.Run("across files", func(t *testing.T) {
		p := newProgram(t)
		add(t, p, "source/a.brs", "sub DoA()\nend sub\n")
		add(t, p, "source/b.brs", "sub DoA()\nend sub\n")
		diags := validate(t, p)
		require.Len(t, diags, 2)
		assert.Equal(t, "source/a.brs", diags[0].File.PkgPath)
		assert.Equal(t, "source/b.brs", diags[1].File.PkgPath)
	})

	t.Run("revalidation clears stale diagnostics", func(t *testing.T) {
		p := newProgram(t)
		add(t, p, "source/main.brs", "sub DoA()\nend sub\nsub DoA()\nend sub\n")
		require.Len(t, validate(t, p), 2)

		add(t, p, "source/main.brs", "sub DoA()\nend sub\n")
		assert.Empty(t, validate(t, p))
		assert.Empty(t, p.GlobalContext().Diagnostics())
	})
}

func TestUnknownFunction(t *testing.T) {
	p := newProgram(t)
	add(t, p, "source/main.brs", "sub Main()\n    DoB()\nend sub\n")
	diags := validate(t, p)

	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.UnknownFunction, d.Code)
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, "Cannot find function with name 'DoB'.", d.Message)
	assert.Equal(t, diag.NewRange(1, 4, 1, 7), d.Range)
	assert.Equal(t, "source/main.brs", d.File.PkgPath)
}

func TestPlatformCallablesAlwaysResolve(t *testing.T) {
	p := newProgram(t)
	add(t, p, "source/main.brs", `sub Main()
    screen = CreateObject("roSGScreen")
    sleep(100)
    print UCase("a")
end sub
`)
	assert.Empty(t, validate(t, p))
}

func TestIgnoreCodesAppliedAtReadTime(t *testing.T) {
	p := newProgram(t)
	add(t, p, "source/main.brs", `sub Main()
    B(1, 2, 3)
    C()
end sub
sub B(name as string)
end sub
`)
	diags := validate(t, p)
	require.Len(t, diags, 2)
	assert.Equal(t, []diag.Code{diag.ArgumentCountMismatch, diag.UnknownFunction}, codesOf(diags))
	assert.Equal(t, "Expected 1 arguments, but got 3.", diags[0].Message)

	p.SetIgnoreCodes(int(diag.ArgumentCountMismatch))
	diags = p.GetDiagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UnknownFunction, diags[0].Code)

	p.SetIgnoreCodes()
	assert.Len(t, p.GetDiagnostics(), 2)
}

func TestEmptyComponentStillGetsContext(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/component1.xml", "")

	ctx, ok := p.Context("components/component1.xml")
	require.True(t, ok)
	assert.Equal(t, scope.KindComponent, ctx.Kind())
	assert.Equal(t, 1, ctx.FileCount())

	diags := validate(t, p)
	assert.Equal(t, []diag.Code{diag.MissingComponent}, codesOf(diags))
}

func TestChildSeesParentFunctions(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/ParentScene.xml", `<?xml version="1.0" encoding="utf-8" ?>
<component name="ParentScene" extends="Scene">
</component>`)
	add(t, p, "components/ParentScene.brs", "sub DoParentThing()\nend sub\n")
	add(t, p, "components/ChildScene.xml", `<?xml version="1.0" encoding="utf-8" ?>
<component name="ChildScene" extends="ParentScene">
    <script type="text/brightscript" uri="pkg:/components/ChildScene.brs" />
</component>`)
	add(t, p, "components/ChildScene.brs", "sub Init()\n    DoParentThing()\nend sub\n")

	diags := validate(t, p)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UnknownFunction, diags[0].Code)

	add(t, p, "components/ParentScene.xml", `<?xml version="1.0" encoding="utf-8" ?>
<component name="ParentScene" extends="Scene">
    <script type="text/brightscript" uri="ParentScene.brs" />
</component>`)
	assert.Empty(t, validate(t, p))

	child, ok := p.Context("components/ChildScene.xml")
	require.True(t, ok)
	assert.True(t, child.HasFile("components/ParentScene.brs"))
	parent, ok := p.Context("components/ParentScene.xml")
	require.True(t, ok)
	assert.Same(t, parent, child.Parent())
	assert.Same(t, p.PlatformContext(), parent.Parent())
}

func TestContextMembershipFollowsImports(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/component1.brs", "")
	without := `<component name="component1" extends="Scene">
</component>`
	with := `<component name="component1" extends="Scene">
    <script type="text/brightscript" uri="component1.brs" />
</component>`

	counts := []int{}
	for _, src := range []string{without, with, without} {
		add(t, p, "components/component1.xml", src)
		ctx, ok := p.Context("components/component1.xml")
		require.True(t, ok)
		counts = append(counts, ctx.FileCount())
	}
	assert.Equal(t, []int{1, 2, 1}, counts)
}

func TestMissingScriptReference(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/component1.xml", `<?xml version="1.0" encoding="utf-8" ?>
<component name="Cmp1" extends="Scene">
    <children>
                    <script type="text/brightscript" uri="pkg:/components/component1.brs" />
    </children>
</component>`)

	diags := validate(t, p)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.ReferencedFileMissing, d.Code)
	assert.Equal(t, diag.NewRange(3, 58, 3, 88), d.Range)
	assert.Equal(t, "components/component1.xml", d.File.PkgPath)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"code": 1004,
		"message": "Referenced file does not exist.",
		"severity": "error",
		"file": {"path": "/projects/RokuApp/components/component1.xml", "pkgPath": "components/component1.xml"},
		"location": {"startLine": 3, "startColumn": 58, "endLine": 3, "endColumn": 88}
	}`, string(raw))

	add(t, p, "components/component1.brs", "")
	assert.Empty(t, validate(t, p))
}

func TestInheritanceRenameSeversLink(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/a.brs", "sub Helper()\nend sub\n")
	add(t, p, "components/a.xml", `<component name="A" extends="Group">
  <script uri="a.brs" />
</component>`)
	add(t, p, "components/b.brs", "sub Run()\n    Helper()\nend sub\n")
	add(t, p, "components/b.xml", `<component name="B" extends="A">
  <script uri="b.brs" />
</component>`)
	require.Empty(t, validate(t, p))

	add(t, p, "components/a.xml", `<component name="Renamed" extends="Group">
  <script uri="a.brs" />
</component>`)
	diags := validate(t, p)

	b, ok := p.Context("components/b.xml")
	require.True(t, ok)
	assert.Same(t, p.PlatformContext(), b.Parent())

	unknown := diag.Filter(diags, func(d diag.Diagnostic) bool { return d.Code == diag.UnknownFunction })
	require.Len(t, unknown, 1)
	assert.Equal(t, "components/b.brs", unknown[0].File.PkgPath)
	assert.Contains(t, codesOf(diags), diag.UnknownParent)
}

func TestShadowing(t *testing.T) {
	build := func(t *testing.T, fn string) []diag.Diagnostic {
		p := newProgram(t)
		add(t, p, "components/parent.brs", "sub "+fn+"()\nend sub\n")
		add(t, p, "components/parent.xml", `<component name="Parent" extends="Group">
  <script uri="parent.brs" />
</component>`)
		add(t, p, "components/child.brs", "sub "+fn+"()\nend sub\n")
		add(t, p, "components/child.xml", `<component name="Child" extends="Parent">
  <script uri="child.brs" />
</component>`)
		return validate(t, p)
	}

	assert.Empty(t, build(t, "init"))
	assert.Empty(t, build(t, "Init"))

	diags := build(t, "DoThing")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.ShadowedFunction, diags[0].Code)
	assert.Equal(t, diag.SevInfo, diags[0].Severity)
	assert.Equal(t, "components/child.brs", diags[0].File.PkgPath)
}

func TestRedundantImport(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/lib.brs", "sub Lib()\nend sub\n")
	add(t, p, "components/parent.xml", `<component name="Parent" extends="Group">
  <script uri="lib.brs" />
</component>`)
	add(t, p, "components/child.xml", `<component name="Child" extends="Parent">
  <script uri="pkg:/components/lib.brs" />
</component>`)

	diags := validate(t, p)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.RedundantImport, d.Code)
	assert.Equal(t, "warning", d.Severity.String())
	assert.Equal(t, "components/child.xml", d.File.PkgPath)
	assert.Equal(t, diag.NewRange(1, 15, 1, 38), d.Range)
}

func TestComponentStructureDiagnostics(t *testing.T) {
	t.Run("circular inheritance", func(t *testing.T) {
		p := newProgram(t)
		add(t, p, "components/a.xml", `<component name="A" extends="B"></component>`)
		add(t, p, "components/b.xml", `<component name="B" extends="A"></component>`)
		diags := validate(t, p)
		assert.Equal(t, []diag.Code{diag.CircularInheritance, diag.CircularInheritance}, codesOf(diags))
		assert.Equal(t, "Component 'A' has a circular inheritance chain: A -> B -> A.", diags[0].Message)
	})

	t.Run("duplicate component name", func(t *testing.T) {
		p := newProgram(t)
		add(t, p, "components/a.xml", `<component name="Dup" extends="Group"></component>`)
		add(t, p, "components/b.xml", `<component name="dup" extends="Group"></component>`)
		diags := validate(t, p)
		require.Len(t, diags, 1)
		assert.Equal(t, diag.DuplicateComponent, diags[0].Code)
		assert.Equal(t, "components/b.xml", diags[0].File.PkgPath)
	})

	t.Run("unknown parent", func(t *testing.T) {
		p := newProgram(t)
		add(t, p, "components/a.xml", `<component name="A" extends="Nowhere"></component>`)
		diags := validate(t, p)
		require.Len(t, diags, 1)
		assert.Equal(t, diag.UnknownParent, diags[0].Code)
		assert.Equal(t, diag.SevWarning, diags[0].Severity)
	})
}

func TestOrphanScriptHasNoDiagnostics(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/orphan.brs", "sub Main()\n    Nope()\n")
	assert.Empty(t, validate(t, p))
}

func TestCompletions(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/component1.xml", `<?xml version="1.0" encoding="utf-8" ?>
<component name="component1" extends="Scene">
    <script type="text/brightscript" uri="" />
</component>`)
	add(t, p, "components/component1.brs", "")

	items := p.GetCompletions("components/component1.xml", diag.Position{Line: 2, Column: 42})
	require.Len(t, items, 2)
	assert.Equal(t, parser.CompletionItem{Label: "pkg:/components/component1.brs", Kind: parser.CompletionKindFile}, items[0])
	assert.Equal(t, parser.CompletionItem{Label: "component1.brs", Kind: parser.CompletionKindFile}, items[1])

	assert.Empty(t, p.GetCompletions("components/component1.xml", diag.Position{Line: 0, Column: 0}))
	assert.Empty(t, p.GetCompletions("components/component1.brs", diag.Position{Line: 0, Column: 0}))
	assert.Empty(t, p.GetCompletions("components/missing.xml", diag.Position{}))
}

func TestUnsupportedExtension(t *testing.T) {
	p := newProgram(t)
	f, err := p.AddOrReplaceFile(context.Background(), "manifest.json", "{}")
	assert.Nil(t, f)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
	assert.Equal(t, 0, p.FileCount())
}

type mapReader map[string]string

func (m mapReader) ReadSource(_ context.Context, path string) (string, error) {
	src, ok := m[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return src, nil
}

func TestLoadFile(t *testing.T) {
	reader := mapReader{rootDir + "/source/main.brs": "sub Main()\nend sub\n"}
	p := newProgram(t, WithSourceReader(reader))

	f, err := p.LoadFile(context.Background(), "source/main.brs")
	require.NoError(t, err)
	assert.Equal(t, "source/main.brs", f.PkgPath())

	_, err = p.LoadFile(context.Background(), "source/gone.brs")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeIOError))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 1, p.FileCount())
}

func TestContextsOrder(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/z.xml", `<component name="Z"></component>`)
	add(t, p, "components/a.xml", `<component name="A"></component>`)

	names := []string{}
	for _, c := range p.Contexts() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"global", "components/a.xml", "components/z.xml"}, names)
	assert.Equal(t, 4, p.ContextCount())

	p.RemoveFile("components/z.xml")
	_, ok := p.Context("components/z.xml")
	assert.False(t, ok)
	assert.Equal(t, 3, p.ContextCount())
}

func TestValidateHonoursCancelledContext(t *testing.T) {
	p := newProgram(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Validate(ctx), context.Canceled)
}

func TestReplacingFileKeepsRegistrationOrder(t *testing.T) {
	p := newProgram(t)
	add(t, p, "components/a.xml", `<component name="Dup" extends="Group"></component>`)
	add(t, p, "components/b.xml", `<component name="dup" extends="Group"></component>`)
	add(t, p, "components/child.xml", `<component name="Child" extends="Dup"></component>`)

	edited := add(t, p, "components/a.xml", `<component name="Dup"  extends="Group">
</component>`)

	pkgPaths := []string{}
	for _, f := range p.Files() {
		pkgPaths = append(pkgPaths, f.PkgPath())
	}
	assert.Equal(t, []string{"components/a.xml", "components/b.xml", "components/child.xml"}, pkgPaths)

	diags := validate(t, p)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.DuplicateComponent, diags[0].Code)
	assert.Equal(t, "components/b.xml", diags[0].File.PkgPath)

	child, ok := p.GetFile("components/child.xml")
	require.True(t, ok)
	parent, ok := p.Inheritance().Parent(child.(*parser.ComponentFile))
	require.True(t, ok)
	assert.Same(t, edited, parent)
}

func TestRemovedFileRegistersAtTheEnd(t *testing.T) {
	p := newProgram(t)
	add(t, p, "source/a.brs", "")
	add(t, p, "source/b.brs", "")
	p.RemoveFile("source/a.brs")
	add(t, p, "source/a.brs", "")

	pkgPaths := []string{}
	for _, f := range p.Files() {
		pkgPaths = append(pkgPaths, f.PkgPath())
	}
	assert.Equal(t, []string{"source/b.brs", "source/a.brs"}, pkgPaths)
}

type deniedReader struct{}

func (deniedReader) ReadSource(_ context.Context, path string) (string, error) {
	return "", &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}
}

func TestLoadFilePermissionDenied(t *testing.T) {
	p := newProgram(t, WithSourceReader(deniedReader{}))
	_, err := p.LoadFile(context.Background(), "source/main.brs")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePermissionDenied))
	assert.False(t, p.HasFile("source/main.brs"))
}
