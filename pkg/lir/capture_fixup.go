package lir

import "rue-lang.dev/rue/pkg/hir"

// propagateCallCaptures closes a gap the environment-layout recipe leaves
// implicit: spec.md's capture rule only ever looks at lexical nesting, but
// Rue's grammar never nests one function inside another, so the only
// captures that exist are "function A calls sibling function B". When A
// calls B, A's call site must forward B's own captures too (so B still
// finds them once invoked), which means those symbols need to be *used*
// by A even though A's source text never names them. This walks every
// function body, finds calls to other known local functions, and marks
// the callee's captures used in the caller's scope, to a fixed point (so
// a chain like A calls B calls C still forwards C all the way through A).
func propagateCallCaptures(db *hir.Database, functions []hir.SymbolId) {
	for {
		changed := false
		for _, fid := range functions {
			f := db.Symbol(fid)
			if f.Body == nil || f.FnScope == nil {
				continue
			}
			walkCalls(f.Body, func(call *hir.Hir) {
				if call.Target == nil || call.Target.Kind != hir.HirSymbol {
					return
				}
				callee := db.Symbol(call.Target.Symbol)
				if callee.Kind != hir.SymFunction || callee.FnScope == nil {
					return
				}
				for _, captured := range callee.FnScope.Captures() {
					if !f.FnScope.IsUsed(captured) {
						f.FnScope.MarkUsed(captured)
						changed = true
					}
				}
			})
		}
		if !changed {
			return
		}
	}
}

// walkCalls visits every Call node reachable from node, including nested
// ones (call arguments, if-branches, binary operands).
func walkCalls(node *hir.Hir, visit func(call *hir.Hir)) {
	if node == nil {
		return
	}
	switch node.Kind {
	case hir.HirCall:
		visit(node)
		walkCalls(node.Target, visit)
		for _, a := range node.Args {
			walkCalls(a, visit)
		}
	case hir.HirBinOp:
		walkCalls(node.Lhs, visit)
		walkCalls(node.Rhs, visit)
	case hir.HirIf:
		walkCalls(node.Cond, visit)
		walkCalls(node.Then, visit)
		walkCalls(node.Else, visit)
	}
}
