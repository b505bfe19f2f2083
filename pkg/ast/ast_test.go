package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rue-lang.dev/rue/pkg/ast"
	"rue-lang.dev/rue/pkg/lexer"
	"rue-lang.dev/rue/pkg/parser"
	"rue-lang.dev/rue/pkg/syntax"
)

func mustParse(t *testing.T, src string) ast.Program {
	t.Helper()
	green, diags := parser.Parse(lexer.Lex(src))
	require.Empty(t, diags)
	return ast.NewProgram(syntax.NewRoot(green))
}

func TestProgramItems(t *testing.T) {
	prog := mustParse(t, "fun add(a: Int, b: Int) -> Int { a + b }\nuse x::y;")
	items := prog.Items()
	require.Len(t, items, 2)
}

func TestFunctionItemShape(t *testing.T) {
	prog := mustParse(t, "fun add(a: Int, b: Int) -> Int { a + b }")
	items := prog.Items()
	require.Len(t, items, 1)

	require.NotNil(t, items[0].Function)
	fn := *items[0].Function
	assert.Equal(t, "add", fn.Name().Text())

	params := fn.Params()
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].Name().Text())
	assert.Equal(t, "b", params[1].Name().Text())

	name, ok := params[0].Type().Path().Single()
	require.True(t, ok)
	assert.Equal(t, "Int", name)

	retName, ok := fn.ReturnType().Path().Single()
	require.True(t, ok)
	assert.Equal(t, "Int", retName)
}

func TestLiteralIntAndString(t *testing.T) {
	prog := mustParse(t, `fun main() -> Int { 42 }`)
	fn := *prog.Items()[0].Function
	tail := fn.Block().TailExpr()
	lit, ok := tail.AsLiteral()
	require.True(t, ok)
	assert.True(t, lit.IsInt)
	assert.Equal(t, "42", lit.Int.String())

	prog2 := mustParse(t, `fun main() -> String { "hi" }`)
	fn2 := *prog2.Items()[0].Function
	tail2 := fn2.Block().TailExpr()
	lit2, ok := tail2.AsLiteral()
	require.True(t, ok)
	assert.False(t, lit2.IsInt)
	assert.Equal(t, "hi", lit2.String)
}

func TestCallExprArguments(t *testing.T) {
	prog := mustParse(t, `fun main() -> Int { add(1, 2) }`)
	fn := *prog.Items()[0].Function
	tail := fn.Block().TailExpr()

	call, ok := tail.AsCall()
	require.True(t, ok)

	target, ok := call.Target().AsPath()
	require.True(t, ok)
	name, _ := target.Single()
	assert.Equal(t, "add", name)

	args := call.Arguments()
	require.Len(t, args, 2)
	a0, _ := args[0].AsLiteral()
	a1, _ := args[1].AsLiteral()
	assert.Equal(t, "1", a0.Int.String())
	assert.Equal(t, "2", a1.Int.String())
}

func TestIfExprBranches(t *testing.T) {
	prog := mustParse(t, `fun main() -> Int { if 1 { 2 } else { 3 } }`)
	fn := *prog.Items()[0].Function
	tail := fn.Block().TailExpr()

	ifExpr, ok := tail.AsIf()
	require.True(t, ok)
	require.NotNil(t, ifExpr.Then())
	require.NotNil(t, ifExpr.Else())

	thenLit, ok := ifExpr.Then().TailExpr().AsLiteral()
	require.True(t, ok)
	assert.Equal(t, "2", thenLit.Int.String())
}

func TestLetStmtOptionalType(t *testing.T) {
	prog := mustParse(t, "fun main() -> Int { let x = 1; let y: Int = 2; x }")
	fn := *prog.Items()[0].Function
	stmts := fn.Block().Stmts()
	require.Len(t, stmts, 2)
	assert.Equal(t, "x", stmts[0].Name().Text())
	assert.Equal(t, "y", stmts[1].Name().Text())
}
