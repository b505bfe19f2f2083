// Package lir lowers typed HIR into the restricted low-level IR that names
// only target-VM primitives and positional environment paths (spec.md
// §4.5): every parameter or function reference becomes a Path (let-bound
// variables are inlined instead), and every call becomes an explicit
// Environment construction.
package lir

import "math/big"

type Kind uint8

const (
	Int Kind = iota
	String
	Path
	Add
	Sub
	Mul
	Div
	Lt
	Gt
	Environment
	If
	Quote
)

// Lir is the tagged union described by spec.md §3: Int, String,
// Path(natural), variadic Add/Sub/Mul/Div, binary Lt/Gt,
// Environment{value,arguments,rest}, If{cond,then,else}, Quote(Lir).
type Lir struct {
	Kind Kind

	IntVal *big.Int // Int
	Str    string   // String

	PathVal int // Path: the route integer, 1 or p0=2, pk+1=2pk+1

	Args []*Lir // Add/Sub/Mul/Div (variadic)

	Lhs, Rhs *Lir // Lt/Gt

	Value     *Lir   // Environment.value, Quote.inner
	Arguments []*Lir // Environment.arguments, in order; codegen right-nests them with `c`
	Rest      *Lir   // Environment.rest; nil means "no rest" (codegen emits the nil atom)

	Cond, Then, Else *Lir // If
}

func NewInt(v *big.Int) *Lir        { return &Lir{Kind: Int, IntVal: v} }
func NewString(s string) *Lir       { return &Lir{Kind: String, Str: s} }
func NewPath(p int) *Lir            { return &Lir{Kind: Path, PathVal: p} }
func NewQuote(inner *Lir) *Lir      { return &Lir{Kind: Quote, Value: inner} }

// PathOf implements the GLOSSARY's path formula: slot 0 is 2, slot k+1 is
// 2*p(k)+1. Path 1 ("the whole current environment") is the only path not
// produced by this helper; callers needing it use NewPath(1) directly.
func PathOf(slot int) int {
	p := 2
	for i := 0; i < slot; i++ {
		p = 2*p + 1
	}
	return p
}
