// Package codegen lowers lir.Lir into the target VM's s-expression node
// tree (spec.md §4.6), through a tvm.Allocator. The mapping is a direct
// transliteration of the operator-byte table; the only optimization is
// trivial call folding.
package codegen

import (
	"math/big"

	"rue-lang.dev/rue/pkg/lir"
	"rue-lang.dev/rue/pkg/tvm"
)

const (
	opQuote = 1
	opApply = 2
	opIf    = 3
	opCons  = 4
	opEq    = 9
	opAdd   = 16
	opSub   = 17
	opMul   = 18
	opDiv   = 19
	opGt    = 21
	opNot   = 32
	opAny   = 33
)

// Generate converts l into a node tree in alloc, applying the trivial
// call-folding optimizer first: Environment{value: Quote(inner), no
// arguments, no rest} folds straight to inner, since applying a quoted
// program against an empty/absent environment is a no-op wrapper.
func Generate(alloc *tvm.Allocator, l *lir.Lir) tvm.NodePtr {
	return generate(alloc, fold(l))
}

func fold(l *lir.Lir) *lir.Lir {
	if l == nil {
		return l
	}
	if l.Kind == lir.Environment && len(l.Arguments) == 0 && l.Rest == nil &&
		l.Value != nil && l.Value.Kind == lir.Quote {
		return fold(l.Value.Value)
	}
	return l
}

func generate(a *tvm.Allocator, l *lir.Lir) tvm.NodePtr {
	switch l.Kind {
	case lir.Int:
		return generateInt(a, l.IntVal)
	case lir.String:
		return generateString(a, l.Str)
	case lir.Path:
		return a.NewNumber(big.NewInt(int64(l.PathVal)))
	case lir.Add:
		return opList(a, opAdd, l.Args)
	case lir.Sub:
		return opList(a, opSub, l.Args)
	case lir.Mul:
		return opList(a, opMul, l.Args)
	case lir.Div:
		return opList(a, opDiv, l.Args)
	case lir.Gt:
		return opList(a, opGt, []*lir.Lir{l.Lhs, l.Rhs})
	case lir.Lt:
		return generateLt(a, l)
	case lir.Quote:
		return a.NewPair(opAtom(a, opQuote), generate(a, l.Value))
	case lir.Environment:
		return generateEnvironment(a, l)
	case lir.If:
		return generateIf(a, l)
	default:
		panic("codegen: unknown Lir kind reached Generate")
	}
}

func opAtom(a *tvm.Allocator, op int64) tvm.NodePtr {
	return a.NewNumber(big.NewInt(op))
}

func generateInt(a *tvm.Allocator, v *big.Int) tvm.NodePtr {
	if v == nil || v.Sign() == 0 {
		return a.Null()
	}
	if v.Cmp(big.NewInt(1)) == 0 {
		return a.NewPair(opAtom(a, opQuote), a.One())
	}
	return a.NewPair(opAtom(a, opQuote), a.NewNumber(v))
}

func generateString(a *tvm.Allocator, s string) tvm.NodePtr {
	if s == "" {
		return a.Null()
	}
	return a.NewPair(opAtom(a, opQuote), a.NewAtom([]byte(s)))
}

// opList builds (op x1 x2 … xn): a proper, nil-terminated list headed by
// the operator atom.
func opList(a *tvm.Allocator, op int64, args []*lir.Lir) tvm.NodePtr {
	tail := a.Null()
	for i := len(args) - 1; i >= 0; i-- {
		tail = a.NewPair(generate(a, args[i]), tail)
	}
	return a.NewPair(opAtom(a, op), tail)
}

// generateLt expands Lt(a,b) at the codegen layer, per spec.md §4.5/§4.6:
// Lt(a,b) = not(any(gt(a,b), eq(a,b))).
func generateLt(a *tvm.Allocator, l *lir.Lir) tvm.NodePtr {
	gt := opList(a, opGt, []*lir.Lir{l.Lhs, l.Rhs})
	eq := opList(a, opEq, []*lir.Lir{l.Lhs, l.Rhs})
	any := a.NewPair(opAtom(a, opAny), a.NewPair(gt, a.NewPair(eq, a.Null())))
	return a.NewPair(opAtom(a, opNot), a.NewPair(any, a.Null()))
}

// generateEnvironment builds (a v (c arg1 (c arg2 … rest_or_nil))).
func generateEnvironment(a *tvm.Allocator, l *lir.Lir) tvm.NodePtr {
	tail := a.Null()
	if l.Rest != nil {
		tail = generate(a, l.Rest)
	}
	for i := len(l.Arguments) - 1; i >= 0; i-- {
		consCall := a.NewPair(generate(a, l.Arguments[i]), a.NewPair(tail, a.Null()))
		tail = a.NewPair(opAtom(a, opCons), consCall)
	}
	value := generate(a, l.Value)
	return a.NewPair(opAtom(a, opApply), a.NewPair(value, a.NewPair(tail, a.Null())))
}

// generateIf builds (a (i c (q . t) (q . e)) 1): the outer (a … 1)
// re-applies whichever branch `i` selected against the current env.
func generateIf(a *tvm.Allocator, l *lir.Lir) tvm.NodePtr {
	cond := generate(a, l.Cond)
	thenQ := a.NewPair(opAtom(a, opQuote), generate(a, l.Then))
	elseQ := a.NewPair(opAtom(a, opQuote), generate(a, l.Else))
	inner := a.NewPair(opAtom(a, opIf), a.NewPair(cond, a.NewPair(thenQ, a.NewPair(elseQ, a.Null()))))
	return a.NewPair(opAtom(a, opApply), a.NewPair(inner, a.NewPair(a.One(), a.Null())))
}
