package hir

// SymbolId is an opaque index into a Database's symbol arena.
type SymbolId int

type SymbolKind uint8

const (
	SymFunction SymbolKind = iota
	SymParameter
	SymVariable
	// SymConstant is reserved for a future top-level `const` item; nothing
	// in the current grammar produces it.
	SymConstant
)

// Symbol is the tagged union of every name a scope can bind. Which fields
// are meaningful depends on Kind, mirroring the Hir/Lir tagged unions.
type Symbol struct {
	Kind SymbolKind
	Name string

	// SymFunction
	ParamTypes []TypeId
	ReturnType TypeId
	FnType     TypeId // cached Function(ParamTypes) -> ReturnType, set at definition
	FnScope    *Scope // the function body's scope, kept for pkg/lir's environment layout
	Body       *Hir   // nil until the lower pass has run

	// SymParameter
	ParamType TypeId
	Index     int // position among the function's parameters

	// SymVariable
	VarType TypeId
	Value   *Hir
}
