package hir

import (
	"github.com/samber/lo"

	"rue-lang.dev/rue/pkg/utils"
)

// Scope is one lexical binding level. Only the program's root scope and
// each function body push a new one (if/else branches share their
// enclosing function's scope, since the grammar has no block-scoping of
// its own), so "same nesting level" for the shadowing rule below always
// means "same Scope value".
type Scope struct {
	namedSymbols map[string]SymbolId
	namedTypes   map[string]TypeId

	defined *utils.OrderedSet[SymbolId]
	used    *utils.OrderedSet[SymbolId]
}

func NewScope() *Scope {
	return &Scope{
		namedSymbols: make(map[string]SymbolId),
		namedTypes:   make(map[string]TypeId),
		defined:      utils.NewOrderedSet[SymbolId](),
		used:         utils.NewOrderedSet[SymbolId](),
	}
}

// Define binds name to id and marks id as defined in this scope. It
// returns false without changing anything if name is already bound here
// (the caller turns that into a "duplicate name" diagnostic).
func (s *Scope) Define(name string, id SymbolId) bool {
	if _, exists := s.namedSymbols[name]; exists {
		return false
	}
	s.namedSymbols[name] = id
	s.defined.Add(id)
	return true
}

func (s *Scope) Lookup(name string) (SymbolId, bool) {
	id, ok := s.namedSymbols[name]
	return id, ok
}

func (s *Scope) DefineType(name string, id TypeId) {
	s.namedTypes[name] = id
}

func (s *Scope) LookupType(name string) (TypeId, bool) {
	id, ok := s.namedTypes[name]
	return id, ok
}

func (s *Scope) MarkUsed(id SymbolId) {
	s.used.Add(id)
}

// Captures is used \ defined: every symbol this scope read but did not
// itself bind. For a function scope, this is exactly the set of outer
// values its compiled body needs smuggled in through the environment.
func (s *Scope) Captures() []SymbolId {
	captured, _ := lo.Difference(s.used.Items(), s.defined.Items())
	return captured
}

func (s *Scope) IsDefined(id SymbolId) bool { return s.defined.Has(id) }
func (s *Scope) IsUsed(id SymbolId) bool    { return s.used.Has(id) }

// Defined returns every symbol this scope bound, in definition order.
func (s *Scope) Defined() []SymbolId { return s.defined.Items() }
