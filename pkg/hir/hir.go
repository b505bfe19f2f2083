package hir

import (
	"math/big"

	"rue-lang.dev/rue/pkg/token"
)

type HirKind uint8

const (
	HirInt HirKind = iota
	HirString
	HirSymbol
	HirBinOp
	HirCall
	HirIf
)

// Hir is the semantic, fully-typed tree the lower pass produces: every
// node additionally carries the TypeId it was checked against, so codegen
// never has to re-derive a type.
type Hir struct {
	Kind HirKind
	Type TypeId

	Int    *big.Int  // HirInt
	String string    // HirString
	Symbol SymbolId  // HirSymbol

	Op       token.Kind // HirBinOp: Plus, Minus, Star, Slash, Lt, Gt
	Lhs, Rhs *Hir       // HirBinOp

	Target *Hir  // HirCall
	Args   []*Hir // HirCall

	Cond, Then, Else *Hir // HirIf
}
