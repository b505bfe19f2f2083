package lir

import (
	"rue-lang.dev/rue/pkg/hir"
	"rue-lang.dev/rue/pkg/token"
)

// Lowerer converts a fully type-checked hir.Database into the restricted
// Lir rooted at `main` (spec.md §4.5).
type Lowerer struct {
	db *hir.Database
}

func NewLowerer(db *hir.Database) *Lowerer { return &Lowerer{db: db} }

// LowerMain implements lower_main: lower the body of `main` and wrap it
// together with the root scope's environment vector. It does not look
// `main` up itself: mainId must already have been found and validated by
// hir.FindMain.
func (lw *Lowerer) LowerMain(root *hir.Scope, mainId hir.SymbolId) *Lir {
	propagateCallCaptures(lw.db, root.Defined())

	bodyLir := lw.lowerFunctionBody(mainId)

	rootLayout := BuildLayout(lw.db, root)
	rootEnv := lw.buildEnvironmentVector(root, rootLayout)

	return &Lir{
		Kind:      Environment,
		Value:     NewQuote(bodyLir),
		Arguments: rootEnv,
		Rest:      NewPath(1),
	}
}

// lowerFunctionBody lowers a Function symbol's body within its own scope.
func (lw *Lowerer) lowerFunctionBody(fid hir.SymbolId) *Lir {
	sym := lw.db.Symbol(fid)
	layout := BuildLayout(lw.db, sym.FnScope)
	return lw.lowerExpr(sym.FnScope, layout, sym.Body)
}

// buildEnvironmentVector implements build_environment: for each
// defined-and-used symbol in layout order, emit its value. Parameters
// contribute nothing (the caller supplies them at call time); Variables
// lower their initializer; Functions lower their body in their own scope,
// quoted so it's carried as data until applied.
func (lw *Lowerer) buildEnvironmentVector(scope *hir.Scope, layout *Layout) []*Lir {
	var out []*Lir
	for _, id := range layout.Slots {
		sym := lw.db.Symbol(id)
		switch sym.Kind {
		case hir.SymParameter:
			continue
		case hir.SymVariable:
			callerLayout := BuildLayout(lw.db, scope)
			out = append(out, lw.lowerExpr(scope, callerLayout, sym.Value))
		case hir.SymFunction:
			out = append(out, NewQuote(lw.lowerFunctionBody(id)))
		}
	}
	return out
}

// ---------------------------------------------------------------------
// Expression lowering

func (lw *Lowerer) lowerExpr(scope *hir.Scope, layout *Layout, node *hir.Hir) *Lir {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case hir.HirInt:
		return NewInt(node.Int)
	case hir.HirString:
		return NewString(node.String)
	case hir.HirSymbol:
		return lw.lowerSymbolRef(scope, layout, node.Symbol)
	case hir.HirBinOp:
		return lw.lowerBinOp(scope, layout, node)
	case hir.HirCall:
		return lw.lowerCall(scope, layout, node)
	case hir.HirIf:
		return &Lir{
			Kind: If,
			Cond: lw.lowerExpr(scope, layout, node.Cond),
			Then: lw.lowerExpr(scope, layout, node.Then),
			Else: lw.lowerExpr(scope, layout, node.Else),
		}
	default:
		return nil
	}
}

// lowerSymbolRef is the only place that distinguishes "this reference
// needs a runtime environment lookup" from "this reference can be
// compiled away": a local let-bound Variable never leaves its defining
// scope (Rue has no nested block scopes, so nothing can capture it), so
// its value is inlined directly rather than given a live Path. Parameters
// and captured top-level Functions, by contrast, only exist at runtime
// inside the current call's environment, so they always resolve to Path.
func (lw *Lowerer) lowerSymbolRef(scope *hir.Scope, layout *Layout, id hir.SymbolId) *Lir {
	sym := lw.db.Symbol(id)
	if sym.Kind == hir.SymVariable && scope.IsDefined(id) {
		return lw.lowerExpr(scope, layout, sym.Value)
	}
	if p, ok := layout.PathFor(id); ok {
		return NewPath(p)
	}
	return NewPath(1)
}

func (lw *Lowerer) lowerBinOp(scope *hir.Scope, layout *Layout, node *hir.Hir) *Lir {
	lhs := lw.lowerExpr(scope, layout, node.Lhs)
	rhs := lw.lowerExpr(scope, layout, node.Rhs)
	switch node.Op {
	case token.Plus:
		return &Lir{Kind: Add, Args: []*Lir{lhs, rhs}}
	case token.Minus:
		return &Lir{Kind: Sub, Args: []*Lir{lhs, rhs}}
	case token.Star:
		return &Lir{Kind: Mul, Args: []*Lir{lhs, rhs}}
	case token.Slash:
		return &Lir{Kind: Div, Args: []*Lir{lhs, rhs}}
	case token.Gt:
		return &Lir{Kind: Gt, Lhs: lhs, Rhs: rhs}
	case token.Lt:
		return &Lir{Kind: Lt, Lhs: lhs, Rhs: rhs}
	default:
		return &Lir{Kind: Add, Args: []*Lir{lhs, rhs}}
	}
}

func (lw *Lowerer) lowerCall(scope *hir.Scope, layout *Layout, node *hir.Hir) *Lir {
	value := lw.lowerExpr(scope, layout, node.Target)

	var args []*Lir
	if node.Target.Kind == hir.HirSymbol {
		if callee := lw.db.Symbol(node.Target.Symbol); callee.Kind == hir.SymFunction && callee.FnScope != nil {
			for _, captured := range callee.FnScope.Captures() {
				if p, ok := layout.PathFor(captured); ok {
					args = append(args, NewPath(p))
				} else {
					args = append(args, NewPath(1))
				}
			}
		}
	}
	for _, a := range node.Args {
		args = append(args, lw.lowerExpr(scope, layout, a))
	}

	return &Lir{Kind: Environment, Value: value, Arguments: args, Rest: nil}
}
