package lir

import (
	"sort"

	"rue-lang.dev/rue/pkg/hir"
)

// Layout is a scope's path assignment: which symbols get environment
// slots, in what order, and at what path. Rebuilt from the scope's current
// defined/used sets each time code in that scope is lowered.
type Layout struct {
	Slots []hir.SymbolId          // in assignment order; Slots[k] has path PathOf(k)
	Paths map[hir.SymbolId]int
}

func (l *Layout) PathFor(id hir.SymbolId) (int, bool) {
	p, ok := l.Paths[id]
	return p, ok
}

// BuildLayout implements spec.md §4.5's "per-scope symbol table": captured
// symbols first (in capture/insertion order), then defined-and-used
// non-parameter symbols (in definition order), then defined-and-used
// parameter symbols (ordered by parameter index). Unused defined symbols
// get no slot at all.
func BuildLayout(db *hir.Database, scope *hir.Scope) *Layout {
	l := &Layout{Paths: make(map[hir.SymbolId]int)}

	assign := func(id hir.SymbolId) {
		if _, exists := l.Paths[id]; exists {
			return
		}
		l.Paths[id] = PathOf(len(l.Slots))
		l.Slots = append(l.Slots, id)
	}

	for _, id := range scope.Captures() {
		assign(id)
	}

	var params []hir.SymbolId
	for _, id := range scope.Defined() {
		if !scope.IsUsed(id) {
			continue
		}
		sym := db.Symbol(id)
		if sym.Kind == hir.SymParameter {
			params = append(params, id)
			continue
		}
		assign(id)
	}

	sort.Slice(params, func(i, j int) bool {
		return db.Symbol(params[i]).Index < db.Symbol(params[j]).Index
	})
	for _, id := range params {
		assign(id)
	}

	return l
}
