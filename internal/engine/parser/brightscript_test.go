package parser

import (
	"testing"

	"bslint/internal/engine/diag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, src string) *ScriptSyntax {
	t.Helper()
	syntax, err := BrightScriptExtractor{}.ExtractScript(src, "test.brs")
	require.NoError(t, err)
	return syntax
}

func callNames(calls []CallExpression) []string {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Name)
	}
	return names
}

func TestExtractDeclarationsAndCalls(t *testing.T) {
	src := `sub Main()
    DoWork(1, "a, b")
    x = 5
    m.top.foo()
end sub

function DoWork(a, b = 2 as integer) as integer
    return a
end function
`
	syntax := extract(t, src)
	assert.Empty(t, syntax.Diagnostics)

	require.Len(t, syntax.Callables, 2)
	assert.Equal(t, "Main", syntax.Callables[0].Name)
	assert.Equal(t, KindSub, syntax.Callables[0].Kind)
	assert.Equal(t, 0, syntax.Callables[0].MaxParams)
	assert.Equal(t, diag.NewRange(0, 4, 0, 8), syntax.Callables[0].NameRange)

	work := syntax.Callables[1]
	assert.Equal(t, "DoWork", work.Name)
	assert.Equal(t, KindFunction, work.Kind)
	assert.Equal(t, 1, work.RequiredParams)
	assert.Equal(t, 2, work.MaxParams)
	assert.True(t, work.Accepts(1))
	assert.True(t, work.Accepts(2))
	assert.False(t, work.Accepts(3))

	require.Len(t, syntax.Calls, 1)
	call := syntax.Calls[0]
	assert.Equal(t, "DoWork", call.Name)
	assert.Equal(t, 2, call.ArgCount)
	assert.Equal(t, diag.NewRange(1, 4, 1, 10), call.NameRange)
	assert.Equal(t, diag.NewRange(1, 4, 1, 21), call.Range)
}

func TestCallArgumentCounting(t *testing.T) {
	src := `sub Main()
    A()
    B(1)
    C(Foo(1, 2), [3, 4], {x: 1, y: 2})
end sub
`
	syntax := extract(t, src)
	require.Len(t, syntax.Calls, 4)
	assert.Equal(t, []string{"A", "B", "C", "Foo"}, callNames(syntax.Calls))
	assert.Equal(t, 0, syntax.Calls[0].ArgCount)
	assert.Equal(t, 1, syntax.Calls[1].ArgCount)
	assert.Equal(t, 3, syntax.Calls[2].ArgCount)
	assert.Equal(t, 2, syntax.Calls[3].ArgCount)
}

func TestLocalsAreNotCalls(t *testing.T) {
	src := `sub Run(callback)
    callback()
    cb = GetCallback()
    cb()
    for each item in items
        item()
    end for
end sub
`
	syntax := extract(t, src)
	assert.Equal(t, []string{"GetCallback"}, callNames(syntax.Calls))
}

func TestMemberAndConstructorCallsSkipped(t *testing.T) {
	src := `sub Main()
    m.top.observeField("x", "y")
    node?.callFunc("z")
    obj = new Widget()
    if true then Notify()
end sub
`
	syntax := extract(t, src)
	assert.Equal(t, []string{"Notify"}, callNames(syntax.Calls))
}

func TestAnonymousFunctionHasItsOwnLocals(t *testing.T) {
	src := `sub Main()
    helper = 1
    handler = function(x)
        return helper(x)
    end function
end sub
`
	syntax := extract(t, src)
	assert.Empty(t, syntax.Diagnostics)
	require.Len(t, syntax.Callables, 1)
	assert.Equal(t, []string{"helper"}, callNames(syntax.Calls))
	assert.Equal(t, 1, syntax.Calls[0].ArgCount)
}

func TestCommentsAreIgnored(t *testing.T) {
	src := `' Foo()
rem Bar()
REM Baz()
sub Main() ' Qux()
    x = 1 ' Quux()
end sub
`
	syntax := extract(t, src)
	assert.Empty(t, syntax.Calls)
	require.Len(t, syntax.Callables, 1)
}

func TestColonSeparatesStatements(t *testing.T) {
	syntax := extract(t, "sub A() : B() : end sub\n")
	assert.Empty(t, syntax.Diagnostics)
	require.Len(t, syntax.Callables, 1)
	assert.Equal(t, []string{"B"}, callNames(syntax.Calls))
}

func TestColonInsideLiteralIsNotSeparator(t *testing.T) {
	src := `sub A()
    x = { key: Lookup() }
end sub
`
	syntax := extract(t, src)
	assert.Empty(t, syntax.Diagnostics)
	assert.Equal(t, []string{"Lookup"}, callNames(syntax.Calls))
}

func TestModifiersAndCompactEnds(t *testing.T) {
	src := `public function Foo()
endfunction
private sub Bar()
endsub
`
	syntax := extract(t, src)
	assert.Empty(t, syntax.Diagnostics)
	require.Len(t, syntax.Callables, 2)
	assert.Equal(t, "Foo", syntax.Callables[0].Name)
	assert.Equal(t, "Bar", syntax.Callables[1].Name)
}

func TestScriptDiagnostics(t *testing.T) {
	t.Run("unterminated block", func(t *testing.T) {
		syntax := extract(t, "sub Main()\n    print 1\n")
		require.Len(t, syntax.Diagnostics, 1)
		d := syntax.Diagnostics[0]
		assert.Equal(t, diag.UnterminatedBlock, d.Code)
		assert.Equal(t, "Missing 'end sub' for 'Main'.", d.Message)
		assert.Equal(t, diag.NewRange(0, 4, 0, 8), d.Range)
	})

	t.Run("unexpected end", func(t *testing.T) {
		syntax := extract(t, "end sub\n")
		require.Len(t, syntax.Diagnostics, 1)
		assert.Equal(t, diag.UnexpectedBlockEnd, syntax.Diagnostics[0].Code)
		assert.Equal(t, diag.NewRange(0, 0, 0, 7), syntax.Diagnostics[0].Range)
	})

	t.Run("unterminated string", func(t *testing.T) {
		syntax := extract(t, "sub Main()\n    x = \"abc\nend sub\n")
		require.Len(t, syntax.Diagnostics, 1)
		d := syntax.Diagnostics[0]
		assert.Equal(t, diag.UnterminatedString, d.Code)
		assert.Equal(t, diag.SevError, d.Severity)
		assert.Equal(t, diag.NewRange(1, 8, 1, 12), d.Range)
	})

	t.Run("escaped quotes", func(t *testing.T) {
		syntax := extract(t, "sub Main()\n    x = \"say \"\"hi\"\"\"\nend sub\n")
		assert.Empty(t, syntax.Diagnostics)
	})
}
