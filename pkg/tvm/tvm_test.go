package tvm_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rue-lang.dev/rue/pkg/tvm"
)

func TestNodeToBytesAtomEncoding(t *testing.T) {
	a := tvm.NewAllocator()

	assert.Equal(t, []byte{0x80}, a.NodeToBytes(a.Null()))
	assert.Equal(t, []byte{0x01}, a.NodeToBytes(a.One()))
	assert.Equal(t, []byte{0x2a}, a.NodeToBytes(a.NewNumber(big.NewInt(42))))
}

func TestNodeToBytesPairEncoding(t *testing.T) {
	a := tvm.NewAllocator()
	pair := a.NewPair(a.One(), a.Null())
	assert.Equal(t, []byte{0xff, 0x01, 0x80}, a.NodeToBytes(pair))
}

func TestEvalQuoteReturnsOperandVerbatim(t *testing.T) {
	a := tvm.NewAllocator()
	// (q . 42)
	prog := a.NewPair(a.NewNumber(big.NewInt(1)), a.NewNumber(big.NewInt(42)))

	result, cost, err := tvm.Eval(a, prog, a.Null())
	require.NoError(t, err)
	assert.Equal(t, int64(1), cost)
	assert.Equal(t, []byte{0x2a}, a.NodeToBytes(result))
}

func TestEvalAddSubMulDiv(t *testing.T) {
	a := tvm.NewAllocator()

	opList := func(op int64, args ...int64) tvm.NodePtr {
		tail := a.Null()
		for i := len(args) - 1; i >= 0; i-- {
			quoted := a.NewPair(a.NewNumber(big.NewInt(1)), a.NewNumber(big.NewInt(args[i])))
			tail = a.NewPair(quoted, tail)
		}
		return a.NewPair(a.NewNumber(big.NewInt(op)), tail)
	}

	add := opList(16, 2, 3)
	result, _, err := tvm.Eval(a, add, a.Null())
	require.NoError(t, err)
	assert.Equal(t, "5", decodeInt(a, result).String())

	sub := opList(17, 10, 4)
	result, _, err = tvm.Eval(a, sub, a.Null())
	require.NoError(t, err)
	assert.Equal(t, "6", decodeInt(a, result).String())

	mul := opList(18, 3, 4)
	result, _, err = tvm.Eval(a, mul, a.Null())
	require.NoError(t, err)
	assert.Equal(t, "12", decodeInt(a, result).String())

	div := opList(19, 9, 2)
	result, _, err = tvm.Eval(a, div, a.Null())
	require.NoError(t, err)
	assert.Equal(t, "4", decodeInt(a, result).String())
}

func TestEvalDivByZeroErrors(t *testing.T) {
	a := tvm.NewAllocator()
	zero := a.NewPair(a.NewNumber(big.NewInt(1)), a.Null())
	ten := a.NewPair(a.NewNumber(big.NewInt(1)), a.NewNumber(big.NewInt(10)))
	prog := a.NewPair(a.NewNumber(big.NewInt(19)), a.NewPair(ten, a.NewPair(zero, a.Null())))

	_, _, err := tvm.Eval(a, prog, a.Null())
	assert.Error(t, err)
}

func TestEvalIfSelectsBranch(t *testing.T) {
	a := tvm.NewAllocator()
	trueCond := a.NewPair(a.NewNumber(big.NewInt(1)), a.One())
	thenBranch := a.NewPair(a.NewNumber(big.NewInt(1)), a.NewNumber(big.NewInt(100)))
	elseBranch := a.NewPair(a.NewNumber(big.NewInt(1)), a.NewNumber(big.NewInt(200)))
	iExpr := a.NewPair(a.NewNumber(big.NewInt(3)), a.NewPair(trueCond, a.NewPair(thenBranch, a.NewPair(elseBranch, a.Null()))))

	result, _, err := tvm.Eval(a, iExpr, a.Null())
	require.NoError(t, err)
	assert.Equal(t, []byte{100}, a.NodeToBytes(result), "`i` evaluates the selected (quoted) branch like any other operand")
}

func TestEvalPathLookupWalksEnvironmentBySlot(t *testing.T) {
	a := tvm.NewAllocator()

	// env = (slot0 . (slot1 . (slot2 . nil)))
	slot0 := a.NewNumber(big.NewInt(11))
	slot1 := a.NewNumber(big.NewInt(22))
	slot2 := a.NewNumber(big.NewInt(33))
	env := a.NewPair(slot0, a.NewPair(slot1, a.NewPair(slot2, a.Null())))

	cases := []struct {
		path int64
		want tvm.NodePtr
	}{
		{2, slot0},
		{5, slot1},
		{11, slot2},
	}
	for _, c := range cases {
		pathNode := a.NewNumber(big.NewInt(c.path))
		result, _, err := tvm.Eval(a, pathNode, env)
		require.NoError(t, err)
		assert.Equal(t, c.want, result, "path %d", c.path)
	}
}

func TestEvalPathOneReturnsWholeEnvironment(t *testing.T) {
	a := tvm.NewAllocator()
	env := a.NewPair(a.One(), a.Null())
	result, _, err := tvm.Eval(a, a.One(), env)
	require.NoError(t, err)
	assert.Equal(t, env, result)
}

func decodeInt(a *tvm.Allocator, n tvm.NodePtr) *big.Int {
	b := a.NodeToBytes(n)
	atom, _ := decodeAtomHeader(b)
	v := new(big.Int).SetBytes(atom)
	return v
}

// decodeAtomHeader strips the single-byte length prefix tvm's wire format
// uses for short atoms, returning the raw payload.
func decodeAtomHeader(b []byte) ([]byte, int) {
	if len(b) == 0 {
		return nil, 0
	}
	if b[0] == 0x80 {
		return nil, 1
	}
	if b[0] < 0x80 {
		return b[:1], 1
	}
	l := int(b[0] &^ 0x80)
	return b[1 : 1+l], 1 + l
}
