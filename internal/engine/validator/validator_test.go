package validator_test

import (
	"context"
	"testing"

	"bslint/internal/core/config"
	"bslint/internal/engine/diag"
	"bslint/internal/engine/program"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture map[string]string

func run(t *testing.T, files fixture, order ...string) []diag.Diagnostic {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RootDir = "/app"
	p := program.New(cfg)
	for _, path := range order {
		_, err := p.AddOrReplaceFile(context.Background(), path, files[path])
		require.NoError(t, err)
	}
	require.NoError(t, p.Validate(context.Background()))
	return p.GetDiagnostics()
}

func TestOptionalParameters(t *testing.T) {
	files := fixture{"source/main.brs": `sub Main()
    Greet()
    Greet("a")
    Greet("a", "b")
    Greet("a", "b", "c")
end sub
sub Greet(Optional = "x", other = "y")
end sub
`}
	diags := run(t, files, "source/main.brs")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.ArgumentCountMismatch, diags[0].Code)
	assert.Equal(t, "Expected 0-2 arguments, but got 3.", diags[0].Message)
	assert.Equal(t, 4, diags[0].Range.Start.Line)
}

func TestBuiltinArityChecked(t *testing.T) {
	files := fixture{"source/main.brs": "sub Main()\n    Sleep()\nend sub\n"}
	diags := run(t, files, "source/main.brs")
	require.Len(t, diags, 1)
	assert.Equal(t, "Expected 1 arguments, but got 0.", diags[0].Message)
}

func TestRedundantImportThroughGrandparent(t *testing.T) {
	files := fixture{
		"components/lib.brs": "function Lib()\nend function\n",
		"components/base.xml": `<component name="Base" extends="Group">
  <script uri="lib.brs" />
</component>`,
		"components/middle.xml": `<component name="Middle" extends="Base">
</component>`,
		"components/leaf.xml": `<component name="Leaf" extends="Middle">
  <script uri="lib.brs" />
</component>`,
	}
	diags := run(t, files, "components/lib.brs", "components/base.xml", "components/middle.xml", "components/leaf.xml")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.RedundantImport, diags[0].Code)
	assert.Equal(t, "Unnecessary script import: 'lib.brs' is already imported by ancestor component 'Base'.", diags[0].Message)
}

func TestShadowNamesNearestAncestor(t *testing.T) {
	files := fixture{
		"components/base.brs":   "sub Refresh()\nend sub\n",
		"components/middle.brs": "sub Refresh()\nend sub\n",
		"components/leaf.brs":   "sub Refresh()\nend sub\n",
		"components/base.xml": `<component name="Base" extends="Group">
  <script uri="base.brs" />
</component>`,
		"components/middle.xml": `<component name="Middle" extends="Base">
  <script uri="middle.brs" />
</component>`,
		"components/leaf.xml": `<component name="Leaf" extends="Middle">
  <script uri="leaf.brs" />
</component>`,
	}
	diags := run(t, files,
		"components/base.brs", "components/middle.brs", "components/leaf.brs",
		"components/base.xml", "components/middle.xml", "components/leaf.xml")

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, diag.ShadowedFunction, d.Code)
	}
	assert.Equal(t, "components/leaf.brs", diags[0].File.PkgPath)
	assert.Contains(t, diags[0].Message, "'Middle'")
	assert.Equal(t, "components/middle.brs", diags[1].File.PkgPath)
	assert.Contains(t, diags[1].Message, "'Base'")
}

func TestDuplicateAcrossImportsOfOneComponent(t *testing.T) {
	files := fixture{
		"components/first.brs":  "sub Helper()\nend sub\n",
		"components/second.brs": "function helper(x)\nend function\n",
		"components/widget.xml": `<component name="Widget" extends="Group">
  <script uri="first.brs" />
  <script uri="second.brs" />
</component>`,
	}
	diags := run(t, files, "components/first.brs", "components/second.brs", "components/widget.xml")

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, diag.DuplicateFunction, d.Code)
	}
	assert.Equal(t, "components/first.brs", diags[0].File.PkgPath)
	assert.Equal(t, "components/second.brs", diags[1].File.PkgPath)
}

func TestParentAndChildSameNameIsOnlyShadowing(t *testing.T) {
	files := fixture{
		"components/parent.brs": "sub Init()\nend sub\nsub Refresh()\nend sub\n",
		"components/child.brs":  "sub Init()\nend sub\nsub Refresh()\nend sub\n",
		"components/parent.xml": `<component name="Parent" extends="Group">
  <script uri="parent.brs" />
</component>`,
		"components/child.xml": `<component name="Child" extends="Parent">
  <script uri="child.brs" />
</component>`,
	}
	diags := run(t, files, "components/parent.brs", "components/child.brs", "components/parent.xml", "components/child.xml")

	require.Len(t, diags, 1)
	assert.Equal(t, diag.ShadowedFunction, diags[0].Code)
	assert.Equal(t, "components/child.brs", diags[0].File.PkgPath)
	assert.Equal(t, "Function 'Refresh' shadows the function declared in ancestor component 'Parent'.", diags[0].Message)
}

func TestParseDiagnosticsSurfaceThroughContexts(t *testing.T) {
	files := fixture{
		"source/main.brs": "sub Main()\n    x = \"open\n",
		"components/a.xml": `<component extends="Group">
  <script uri="pkg:/source/main.brs" />
</component>`,
	}
	diags := run(t, files, "source/main.brs", "components/a.xml")

	codes := map[diag.Code]int{}
	for _, d := range diags {
		codes[d.Code]++
	}
	assert.Equal(t, map[diag.Code]int{
		diag.UnterminatedString:   1,
		diag.UnterminatedBlock:    1,
		diag.MissingComponentName: 1,
	}, codes, "the script belongs to two contexts but each finding is reported once")
}
