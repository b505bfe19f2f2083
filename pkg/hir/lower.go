package hir

import (
	"math/big"

	"rue-lang.dev/rue/pkg/ast"
	"rue-lang.dev/rue/pkg/syntax"
	"rue-lang.dev/rue/pkg/token"
)

// Lowerer walks a parsed Program and produces a Database of fully typed
// symbols, following spec.md's two-phase rule: every top-level name is
// defined before any function body is lowered, so forward references and
// mutual recursion between functions just work.
type Lowerer struct {
	db     *Database
	scopes []*Scope // stack; index 0 is the root/program scope
}

func NewLowerer(db *Database) *Lowerer {
	root := NewScope()
	root.DefineType("Int", db.IntType)
	root.DefineType("String", db.StringType)
	return &Lowerer{db: db, scopes: []*Scope{root}}
}

func (lw *Lowerer) current() *Scope { return lw.scopes[len(lw.scopes)-1] }
func (lw *Lowerer) root() *Scope    { return lw.scopes[0] }

func (lw *Lowerer) errorf(r syntax.Range, format string, args ...any) {
	lw.db.diags.Addf(r, format, args...)
}

func rangeOf(n *syntax.SyntaxNode) syntax.Range { return n.TextRange() }

// Lower runs both phases over prog, filling the Lowerer's database, and
// returns the root scope, which the driver needs to find `main`.
func (lw *Lowerer) Lower(prog ast.Program) *Scope {
	lw.definePass(prog)
	lw.loweringPass(prog)
	return lw.root()
}

// FindMain resolves the root scope's entrypoint, emitting the
// missing-entrypoint diagnostic (at end-of-file, per spec.md §7) when the
// root scope has no `main` Function or that function never got a body.
func FindMain(db *Database, root *Scope, srcLen int) (SymbolId, bool) {
	id, ok := root.Lookup("main")
	if ok {
		sym := db.Symbol(id)
		if sym.Kind == SymFunction && sym.Body != nil {
			return id, true
		}
	}
	db.diags.Addf(syntax.Range{Start: srcLen, End: srcLen}, "missing entrypoint: no `main` function with a body")
	return 0, false
}

// ---------------------------------------------------------------------
// Phase 1: define every top-level name before lowering any body.

func (lw *Lowerer) definePass(prog ast.Program) {
	for _, item := range prog.Items() {
		switch {
		case item.Function != nil:
			lw.defineFunction(*item.Function)
		case item.Use != nil:
			// Cross-file module resolution is out of scope; `use` items
			// parse but bind nothing.
		}
	}
}

func (lw *Lowerer) defineFunction(fn ast.FunctionItem) {
	nameTok := fn.Name()
	if nameTok == nil {
		return
	}
	name := nameTok.Text()

	var paramTypes []TypeId
	for _, p := range fn.Params() {
		paramTypes = append(paramTypes, lw.resolveTypeRef(p.Type()))
	}
	retType := lw.resolveTypeRef(fn.ReturnType())
	fnType := lw.db.FunctionType(paramTypes, retType)

	id := lw.db.AllocSymbol(Symbol{
		Kind:       SymFunction,
		Name:       name,
		ParamTypes: paramTypes,
		ReturnType: retType,
		FnType:     fnType,
	})

	if !lw.root().Define(name, id) {
		lw.errorf(rangeOf(nameTok.Parent()), "there is already a variable named `%s`", name)
	}
}

func (lw *Lowerer) resolveTypeRef(t *ast.TypeRef) TypeId {
	if t == nil {
		return lw.db.IntType // degrade gracefully on a malformed tree
	}
	name, ok := t.Path().Single()
	if !ok {
		return lw.db.IntType
	}
	if id, ok := lw.root().LookupType(name); ok {
		return id
	}
	lw.errorf(rangeOf(t.Syntax()), "undefined type `%s`", name)
	return lw.db.IntType
}

// ---------------------------------------------------------------------
// Phase 2: lower every function body now that every name is defined.

func (lw *Lowerer) loweringPass(prog ast.Program) {
	for _, item := range prog.Items() {
		if item.Function == nil {
			continue
		}
		lw.lowerFunctionBody(*item.Function)
	}
}

func (lw *Lowerer) lowerFunctionBody(fn ast.FunctionItem) {
	nameTok := fn.Name()
	if nameTok == nil {
		return
	}
	id, ok := lw.root().Lookup(nameTok.Text())
	if !ok {
		return
	}
	sym := lw.db.Symbol(id)

	scope := NewScope()
	lw.scopes = append(lw.scopes, scope)
	defer func() { lw.scopes = lw.scopes[:len(lw.scopes)-1] }()

	for i, p := range fn.Params() {
		pname := p.Name()
		if pname == nil {
			continue
		}
		pid := lw.db.AllocSymbol(Symbol{
			Kind:      SymParameter,
			Name:      pname.Text(),
			ParamType: sym.ParamTypes[i],
			Index:     i,
		})
		if !scope.Define(pname.Text(), pid) {
			lw.errorf(pname.Parent().TextRange(), "duplicate parameter named `%s`", pname.Text())
		}
		// Parameters are unconditionally defined-and-used: they always
		// occupy an environment slot, referenced or not.
		scope.MarkUsed(pid)
	}

	block := fn.Block()
	if block == nil {
		sym.FnScope = scope
		return
	}
	body, bodyType, ok := lw.lowerBlock(*block)
	if ok && !Assignable(lw.db, bodyType, sym.ReturnType) {
		lw.errorf(block.Syntax().TextRange(),
			"cannot return value of type %s from function with return type %s", Display(lw.db, bodyType), Display(lw.db, sym.ReturnType))
		ok = false
	}
	if ok {
		sym.Body = body
	}
	sym.FnScope = scope
}

// ---------------------------------------------------------------------
// Expression & block lowering

func (lw *Lowerer) lowerBlock(block ast.Block) (*Hir, TypeId, bool) {
	scope := lw.current()
	for _, stmt := range block.Stmts() {
		lw.lowerLetStmt(stmt, scope)
	}
	tail := block.TailExpr()
	if tail.IsAbsent() {
		return nil, 0, false
	}
	return lw.lowerExpr(tail)
}

func (lw *Lowerer) lowerLetStmt(stmt ast.LetStmt, scope *Scope) {
	nameTok := stmt.Name()
	if nameTok == nil {
		return
	}
	value, valueType, ok := lw.lowerExpr(stmt.Value())
	if !ok {
		return
	}
	if annot := stmt.Type(); annot != nil {
		declared := lw.resolveTypeRef(annot)
		if !Assignable(lw.db, valueType, declared) {
			lw.errorf(stmt.Syntax().TextRange(),
				"expected type `%s`, found `%s`", Display(lw.db, declared), Display(lw.db, valueType))
		}
		valueType = declared
	}
	id := lw.db.AllocSymbol(Symbol{
		Kind:    SymVariable,
		Name:    nameTok.Text(),
		VarType: valueType,
		Value:   value,
	})
	if !scope.Define(nameTok.Text(), id) {
		lw.errorf(nameTok.Parent().TextRange(), "there is already a variable named `%s`", nameTok.Text())
	}
}

// lowerExpr dispatches on the expression's concrete shape and returns its
// Hir, its TypeId, and whether lowering succeeded; ok is false whenever a
// diagnostic was already raised for this expression (or one of its
// children), so callers don't have to re-report the same failure.
func (lw *Lowerer) lowerExpr(e ast.Expr) (*Hir, TypeId, bool) {
	if e.IsAbsent() {
		return nil, 0, false
	}
	switch e.Kind() {
	case syntax.LiteralExpr:
		return lw.lowerLiteral(e)
	case syntax.Path:
		return lw.lowerPathExpr(e)
	case syntax.PrefixExpr:
		return lw.lowerPrefix(e)
	case syntax.BinaryExpr:
		return lw.lowerBinary(e)
	case syntax.CallExpr:
		return lw.lowerCall(e)
	case syntax.IfExpr:
		return lw.lowerIf(e)
	default:
		return nil, 0, false
	}
}

func (lw *Lowerer) lowerLiteral(e ast.Expr) (*Hir, TypeId, bool) {
	lit, ok := e.AsLiteral()
	if !ok {
		return nil, 0, false
	}
	if lit.IsInt {
		return &Hir{Kind: HirInt, Type: lw.db.IntType, Int: lit.Int}, lw.db.IntType, true
	}
	return &Hir{Kind: HirString, Type: lw.db.StringType, String: lit.String}, lw.db.StringType, true
}

func (lw *Lowerer) lowerPathExpr(e ast.Expr) (*Hir, TypeId, bool) {
	p, ok := e.AsPath()
	if !ok {
		return nil, 0, false
	}
	name, ok := p.Single()
	if !ok {
		lw.errorf(p.Syntax().TextRange(), "qualified paths are not supported in expression position")
		return nil, 0, false
	}
	id, found := lw.resolveSymbol(name)
	if !found {
		lw.errorf(p.Syntax().TextRange(), "undefined variable `%s`", name)
		return nil, 0, false
	}
	return &Hir{Kind: HirSymbol, Type: lw.typeOf(id), Symbol: id}, lw.typeOf(id), true
}

func (lw *Lowerer) typeOf(id SymbolId) TypeId {
	s := lw.db.Symbol(id)
	switch s.Kind {
	case SymFunction:
		return s.FnType
	case SymParameter:
		return s.ParamType
	case SymVariable:
		return s.VarType
	default:
		return lw.db.IntType
	}
}

// resolveSymbol walks the scope stack innermost-outward. On success it
// marks the symbol used on every scope from the reference point down to
// (and including) the defining scope, which is how a capture of an outer
// function's binding propagates through every scope in between (spec.md's
// "used sets propagate outward until reaching the defining scope").
func (lw *Lowerer) resolveSymbol(name string) (SymbolId, bool) {
	for i := len(lw.scopes) - 1; i >= 0; i-- {
		if id, ok := lw.scopes[i].Lookup(name); ok {
			for j := len(lw.scopes) - 1; j >= i; j-- {
				lw.scopes[j].MarkUsed(id)
			}
			return id, true
		}
	}
	return 0, false
}

func (lw *Lowerer) lowerPrefix(e ast.Expr) (*Hir, TypeId, bool) {
	p, _ := e.AsPrefix()
	operand, operandType, ok := lw.lowerExpr(p.Operand())
	if !ok {
		return nil, 0, false
	}
	if operandType != lw.db.IntType {
		lw.errorf(p.Syntax().TextRange(), "expected operand of type `Int`, but found `%s`", Display(lw.db, operandType))
		return nil, 0, false
	}
	// The Lir union has no dedicated negate primitive, so unary minus is
	// lowered here to 0 - x.
	zero := &Hir{Kind: HirInt, Type: lw.db.IntType, Int: big.NewInt(0)}
	return &Hir{Kind: HirBinOp, Type: lw.db.IntType, Op: token.Minus, Lhs: zero, Rhs: operand}, lw.db.IntType, true
}

func (lw *Lowerer) lowerBinary(e ast.Expr) (*Hir, TypeId, bool) {
	b, _ := e.AsBinary()
	opTok := b.Operator()
	lhs, lhsType, lok := lw.lowerExpr(b.Lhs())
	rhs, rhsType, rok := lw.lowerExpr(b.Rhs())
	if !lok || !rok {
		return nil, 0, false
	}
	if lhsType != lw.db.IntType {
		lw.errorf(b.Lhs().Syntax().TextRange(), "expected operand of type `Int`, but found `%s`", Display(lw.db, lhsType))
		return nil, 0, false
	}
	if rhsType != lw.db.IntType {
		lw.errorf(b.Rhs().Syntax().TextRange(), "expected operand of type `Int`, but found `%s`", Display(lw.db, rhsType))
		return nil, 0, false
	}
	op := token.Plus
	if opTok != nil {
		op = opTok.Kind()
	}
	// Lt/Gt still produce Int, per spec.md's chosen resolution for
	// comparisons having no dedicated Bool type.
	return &Hir{Kind: HirBinOp, Type: lw.db.IntType, Op: op, Lhs: lhs, Rhs: rhs}, lw.db.IntType, true
}

func (lw *Lowerer) lowerCall(e ast.Expr) (*Hir, TypeId, bool) {
	c, _ := e.AsCall()
	target, targetType, ok := lw.lowerExpr(c.Target())
	if !ok {
		return nil, 0, false
	}
	targetTy := lw.db.Type(targetType)
	if targetTy.Kind != TyFunction {
		lw.errorf(c.Target().Syntax().TextRange(), "cannot call value of type `%s`", Display(lw.db, targetType))
		return nil, 0, false
	}

	argExprs := c.Arguments()
	if len(argExprs) != len(targetTy.Params) {
		lw.errorf(e.Syntax().TextRange(), "expected %d arguments, but was given %d", len(targetTy.Params), len(argExprs))
		return nil, 0, false
	}

	args := make([]*Hir, 0, len(argExprs))
	okAll := true
	for i, a := range argExprs {
		arg, argType, aok := lw.lowerExpr(a)
		if !aok {
			okAll = false
			continue
		}
		if !Assignable(lw.db, argType, targetTy.Params[i]) {
			lw.errorf(a.Syntax().TextRange(),
				"expected argument of type `%s`, but found `%s`", Display(lw.db, targetTy.Params[i]), Display(lw.db, argType))
			okAll = false
			continue
		}
		args = append(args, arg)
	}
	if !okAll {
		return nil, 0, false
	}
	return &Hir{Kind: HirCall, Type: targetTy.Return, Target: target, Args: args}, targetTy.Return, true
}

func (lw *Lowerer) lowerIf(e ast.Expr) (*Hir, TypeId, bool) {
	i, _ := e.AsIf()
	cond, _, cok := lw.lowerExpr(i.Condition())
	if !cok {
		return nil, 0, false
	}

	thenBlock, elseBlock := i.Then(), i.Else()
	if thenBlock == nil || elseBlock == nil {
		return nil, 0, false
	}
	thenHir, thenType, tok := lw.lowerBlock(*thenBlock)
	elseHir, elseType, eok := lw.lowerBlock(*elseBlock)
	if !tok || !eok {
		return nil, 0, false
	}
	if thenType != elseType {
		lw.errorf(e.Syntax().TextRange(),
			"then branch has type %s, but else branch has differing type %s", Display(lw.db, thenType), Display(lw.db, elseType))
		return nil, 0, false
	}
	return &Hir{Kind: HirIf, Type: thenType, Cond: cond, Then: thenHir, Else: elseHir}, thenType, true
}
