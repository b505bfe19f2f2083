package lir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rue-lang.dev/rue/pkg/ast"
	"rue-lang.dev/rue/pkg/hir"
	"rue-lang.dev/rue/pkg/lexer"
	"rue-lang.dev/rue/pkg/lir"
	"rue-lang.dev/rue/pkg/parser"
	"rue-lang.dev/rue/pkg/syntax"
)

func TestPathOfMatchesRecurrence(t *testing.T) {
	assert.Equal(t, 2, lir.PathOf(0))
	assert.Equal(t, 5, lir.PathOf(1))
	assert.Equal(t, 11, lir.PathOf(2))
	assert.Equal(t, 23, lir.PathOf(3))
}

func lowerMain(t *testing.T, src string) (*hir.Database, *lir.Lir) {
	t.Helper()
	green, pd := parser.Parse(lexer.Lex(src))
	require.Empty(t, pd)

	db := hir.NewDatabase()
	root := hir.NewLowerer(db).Lower(ast.NewProgram(syntax.NewRoot(green)))
	require.False(t, db.HasErrors())

	mainId, ok := hir.FindMain(db, root, len(src))
	require.True(t, ok)

	mainLir := lir.NewLowerer(db).LowerMain(root, mainId)
	return db, mainLir
}

func TestLowerMainWrapsBodyInRootEnvironment(t *testing.T) {
	_, top := lowerMain(t, "fun main() -> Int { 1 }")

	assert.Equal(t, lir.Environment, top.Kind)
	require.NotNil(t, top.Value)
	assert.Equal(t, lir.Quote, top.Value.Kind)
	require.NotNil(t, top.Value.Value)
	assert.Equal(t, lir.Int, top.Value.Value.Kind)
	assert.Equal(t, "1", top.Value.Value.IntVal.String())

	require.NotNil(t, top.Rest)
	assert.Equal(t, lir.Path, top.Rest.Kind)
	assert.Equal(t, 1, top.Rest.PathVal)
}

func TestLowerMainParametersBecomePaths(t *testing.T) {
	_, top := lowerMain(t, "fun add(a: Int, b: Int) -> Int { a + b }\nfun main() -> Int { add(2, 3) }")

	body := top.Value.Value
	require.Equal(t, lir.Environment, body.Kind, "main's tail is a call to add, lowered as an Environment node")

	require.Len(t, body.Arguments, 2)
	assert.Equal(t, lir.Int, body.Arguments[0].Kind)
	assert.Equal(t, lir.Int, body.Arguments[1].Kind)

	// add's quoted body travels in the root environment; its parameters a
	// and b are read from slots 0 and 1 of the call's environment.
	require.Len(t, top.Arguments, 1)
	require.Equal(t, lir.Quote, top.Arguments[0].Kind)
	addBody := top.Arguments[0].Value
	require.Equal(t, lir.Add, addBody.Kind)
	require.Len(t, addBody.Args, 2)
	assert.Equal(t, lir.Path, addBody.Args[0].Kind)
	assert.Equal(t, lir.PathOf(0), addBody.Args[0].PathVal)
	assert.Equal(t, lir.Path, addBody.Args[1].Kind)
	assert.Equal(t, lir.PathOf(1), addBody.Args[1].PathVal)
}

func TestLowerVariableIsInlinedNotPathed(t *testing.T) {
	_, top := lowerMain(t, "fun main() -> Int { let x = 41; x + 1 }")

	body := top.Value.Value
	require.Equal(t, lir.Add, body.Kind)
	require.Len(t, body.Args, 2)

	lhs := body.Args[0]
	assert.Equal(t, lir.Int, lhs.Kind, "a let-bound variable reference is inlined to its initializer, never a Path")
	assert.Equal(t, "41", lhs.IntVal.String())
}

func TestBuildLayoutOrdersCapturesThenVariablesThenParams(t *testing.T) {
	db := hir.NewDatabase()
	scope := hir.NewScope()

	captured := db.AllocSymbol(hir.Symbol{Kind: hir.SymVariable})
	variable := db.AllocSymbol(hir.Symbol{Kind: hir.SymVariable})
	param0 := db.AllocSymbol(hir.Symbol{Kind: hir.SymParameter, Index: 0})

	scope.MarkUsed(captured) // used but not defined here => a capture

	scope.Define("v", variable)
	scope.MarkUsed(variable)

	scope.Define("p", param0)
	scope.MarkUsed(param0)

	layout := lir.BuildLayout(db, scope)
	require.Len(t, layout.Slots, 3)
	assert.Equal(t, captured, layout.Slots[0])
	assert.Equal(t, variable, layout.Slots[1])
	assert.Equal(t, param0, layout.Slots[2])

	p, ok := layout.PathFor(captured)
	require.True(t, ok)
	assert.Equal(t, lir.PathOf(0), p)
}
