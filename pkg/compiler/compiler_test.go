package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rue-lang.dev/rue/pkg/compiler"
	"rue-lang.dev/rue/pkg/tvm"
)

func TestCompileAddTwoAndThree(t *testing.T) {
	result := compiler.Compile("fun add(a: Int, b: Int) -> Int { a + b }\nfun main() -> Int { add(2, 3) }")
	require.True(t, result.Ok)
	assert.Empty(t, result.Diagnostics)
	require.NotEmpty(t, result.Bytes)

	value, _, err := tvm.Eval(result.Allocator, result.Node, result.Allocator.Null())
	require.NoError(t, err)
	assert.Equal(t, []byte{5}, result.Allocator.NodeToBytes(value))
}

func TestCompileIfExpression(t *testing.T) {
	result := compiler.Compile("fun main() -> Int { if 2 > 1 { 100 } else { 200 } }")
	require.True(t, result.Ok)

	value, _, err := tvm.Eval(result.Allocator, result.Node, result.Allocator.Null())
	require.NoError(t, err)
	assert.Equal(t, []byte{100}, result.Allocator.NodeToBytes(value))
}

func TestCompileMissingMainStopsBeforeCodegen(t *testing.T) {
	result := compiler.Compile("fun helper() -> Int { 1 }")
	require.False(t, result.Ok)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Message, "missing entrypoint")
	assert.Nil(t, result.Bytes)
}

func TestCompileSemanticErrorStopsBeforeCodegen(t *testing.T) {
	result := compiler.Compile("fun main() -> Int { y }")
	require.False(t, result.Ok)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0].Message, "undefined variable `y`")
}

func TestCompileParseErrorsStillPropagateAlongsideMissingMain(t *testing.T) {
	// A malformed parameter list forces parser recovery, and there's no
	// `main` either; the pipeline must keep running and report both kinds
	// of diagnostic rather than stopping at the first.
	result := compiler.Compile("fun helper( { 1 }")
	require.False(t, result.Ok)
	assert.NotEmpty(t, result.Diagnostics)
	assert.Nil(t, result.Bytes)
}
