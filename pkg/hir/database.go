package hir

import "rue-lang.dev/rue/pkg/diag"

// Database is the arena-backed store every analysis pass reads and
// writes: symbols and types never move once allocated, so a SymbolId or
// TypeId handed out early stays valid for the database's whole lifetime.
type Database struct {
	symbols []Symbol
	types   []Type
	diags   diag.Bag

	IntType    TypeId
	StringType TypeId
}

// NewDatabase preallocates the two built-in types (spec.md: "the root
// scope is primed with the built-in types Int and String").
func NewDatabase() *Database {
	db := &Database{}
	db.IntType = db.AllocType(Type{Kind: TyInt})
	db.StringType = db.AllocType(Type{Kind: TyString})
	return db
}

func (db *Database) AllocSymbol(s Symbol) SymbolId {
	db.symbols = append(db.symbols, s)
	return SymbolId(len(db.symbols) - 1)
}

func (db *Database) Symbol(id SymbolId) *Symbol { return &db.symbols[id] }

func (db *Database) AllocType(t Type) TypeId {
	db.types = append(db.types, t)
	return TypeId(len(db.types) - 1)
}

func (db *Database) Type(id TypeId) *Type { return &db.types[id] }

// FunctionType allocates a function type: two calls with the same shape
// return distinct TypeIds (types aren't hash-consed), but Assignable
// compares structurally so that's never observable.
func (db *Database) FunctionType(params []TypeId, ret TypeId) TypeId {
	return db.AllocType(Type{Kind: TyFunction, Params: params, Return: ret})
}

func (db *Database) Diagnostics() []diag.Diagnostic { return db.diags.Items() }
func (db *Database) HasErrors() bool                { return db.diags.HasErrors() }
