package hir

// TypeId is an opaque index into a Database's type arena. Like SymbolId,
// it exists so types can reference each other (a Function's parameter and
// return types) without Go's lack of cyclic structs getting in the way.
type TypeId int

type TypeKind uint8

const (
	TyInt TypeKind = iota
	TyString
	TyFunction
)

// Type is the tagged union of every type a Rue value can have. Function
// carries its parameter types and return type by id so recursive shapes
// (a function taking a function) need no forward declarations.
type Type struct {
	Kind TypeKind

	Params []TypeId // TyFunction only
	Return TypeId   // TyFunction only
}

func (k TypeKind) String() string {
	switch k {
	case TyInt:
		return "Int"
	case TyString:
		return "String"
	case TyFunction:
		return "Function"
	default:
		return "<invalid type>"
	}
}

// Display renders a type the way diagnostics quote it: "Int", "String",
// or "fun(Int, Int) -> Int".
func Display(db *Database, id TypeId) string {
	t := db.Type(id)
	if t.Kind != TyFunction {
		return t.Kind.String()
	}
	s := "fun("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += Display(db, p)
	}
	s += ") -> " + Display(db, t.Return)
	return s
}

// Assignable implements spec.md's assignability relation: Int and String
// assign only to themselves, and a Function type assigns to another
// Function type only when every parameter and the return type match
// exactly (parameters are invariant, not contravariant, for simplicity).
func Assignable(db *Database, from, to TypeId) bool {
	if from == to {
		return true
	}
	ft, tt := db.Type(from), db.Type(to)
	if ft.Kind != tt.Kind {
		return false
	}
	switch ft.Kind {
	case TyInt, TyString:
		return true
	case TyFunction:
		if len(ft.Params) != len(tt.Params) {
			return false
		}
		for i := range ft.Params {
			if !Assignable(db, ft.Params[i], tt.Params[i]) {
				return false
			}
		}
		return Assignable(db, ft.Return, tt.Return)
	default:
		return false
	}
}
