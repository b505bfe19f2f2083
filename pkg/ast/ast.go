// Package ast projects typed accessors over the untyped green/syntax tree
// without copying anything: every AST value is just an opaque reference to
// one syntax node, and every accessor tolerates a malformed tree by
// returning an absent value instead of panicking (spec §4.2).
package ast

import (
	"math/big"
	"strings"

	"rue-lang.dev/rue/pkg/syntax"
	"rue-lang.dev/rue/pkg/token"
)

// Program is the root of a parsed file: a sequence of items.
type Program struct{ n *syntax.SyntaxNode }

func NewProgram(n *syntax.SyntaxNode) Program { return Program{n} }

func (p Program) Syntax() *syntax.SyntaxNode { return p.n }

func (p Program) Items() []Item {
	var out []Item
	for _, c := range p.n.ChildNodes() {
		if item, ok := asItem(c); ok {
			out = append(out, item)
		}
	}
	return out
}

// ---------------------------------------------------------------------
// Items

type Item struct {
	Function *FunctionItem
	Use      *UseItem
}

func asItem(n *syntax.SyntaxNode) (Item, bool) {
	switch n.Kind() {
	case syntax.FunctionItem:
		f := FunctionItem{n}
		return Item{Function: &f}, true
	case syntax.UseItem:
		u := UseItem{n}
		return Item{Use: &u}, true
	default:
		return Item{}, false
	}
}

type FunctionItem struct{ n *syntax.SyntaxNode }

func (f FunctionItem) Syntax() *syntax.SyntaxNode { return f.n }

// Name returns the function's identifier token, or nil if the tree is
// malformed (e.g. recovering from a parse error).
func (f FunctionItem) Name() *syntax.SyntaxToken {
	return identAfterKeyword(f.n)
}

func (f FunctionItem) Params() []FunctionParam {
	list := f.n.ChildNodeOfKind(syntax.FunctionParamList)
	if list == nil {
		return nil
	}
	var out []FunctionParam
	for _, c := range list.ChildNodesOfKind(syntax.FunctionParam) {
		out = append(out, FunctionParam{c})
	}
	return out
}

func (f FunctionItem) ReturnType() *TypeRef {
	// The return type is the Path node following the FunctionParamList;
	// the block's own Path-like children (if any) come after it, so we
	// take the first Path child that is not inside FunctionParamList or
	// Block.
	for _, c := range f.n.ChildNodes() {
		if c.Kind() == syntax.Path {
			t := TypeRef{c}
			return &t
		}
	}
	return nil
}

func (f FunctionItem) Block() *Block {
	b := f.n.ChildNodeOfKind(syntax.Block)
	if b == nil {
		return nil
	}
	block := Block{b}
	return &block
}

type UseItem struct{ n *syntax.SyntaxNode }

func (u UseItem) Syntax() *syntax.SyntaxNode { return u.n }

func (u UseItem) Path() *Path {
	p := u.n.ChildNodeOfKind(syntax.Path)
	if p == nil {
		return nil
	}
	path := Path{p}
	return &path
}

type FunctionParam struct{ n *syntax.SyntaxNode }

func (p FunctionParam) Syntax() *syntax.SyntaxNode { return p.n }

func (p FunctionParam) Name() *syntax.SyntaxToken {
	return p.n.ChildTokenOfKind(token.Ident)
}

func (p FunctionParam) Type() *TypeRef {
	if t := p.n.ChildNodeOfKind(syntax.Path); t != nil {
		ty := TypeRef{t}
		return &ty
	}
	return nil
}

// ---------------------------------------------------------------------
// Types & paths

type TypeRef struct{ n *syntax.SyntaxNode }

func (t TypeRef) Syntax() *syntax.SyntaxNode { return t.n }
func (t TypeRef) Path() Path                 { return Path{t.n} }

type Path struct{ n *syntax.SyntaxNode }

func (p Path) Syntax() *syntax.SyntaxNode { return p.n }

// Idents returns every identifier segment of the path, in order.
func (p Path) Idents() []*syntax.SyntaxToken {
	var out []*syntax.SyntaxToken
	for _, t := range p.n.ChildTokens() {
		if t.Kind() == token.Ident {
			out = append(out, t)
		}
	}
	return out
}

// Single returns the path's text when it has exactly one segment (the only
// shape spec.md's semantic analyzer resolves today); ok is false otherwise.
func (p Path) Single() (name string, ok bool) {
	idents := p.Idents()
	if len(idents) != 1 {
		return "", false
	}
	return idents[0].Text(), true
}

// ---------------------------------------------------------------------
// Statements & blocks

type Block struct{ n *syntax.SyntaxNode }

func (b Block) Syntax() *syntax.SyntaxNode { return b.n }

func (b Block) Stmts() []LetStmt {
	var out []LetStmt
	for _, c := range b.n.ChildNodesOfKind(syntax.LetStmt) {
		out = append(out, LetStmt{c})
	}
	return out
}

// TailExpr is the block's optional trailing expression value.
func (b Block) TailExpr() Expr {
	for _, c := range b.n.ChildNodes() {
		if c.Kind() == syntax.LetStmt {
			continue
		}
		if e, ok := AsExpr(c); ok {
			return e
		}
	}
	return Expr{}
}

type LetStmt struct{ n *syntax.SyntaxNode }

func (l LetStmt) Syntax() *syntax.SyntaxNode { return l.n }

func (l LetStmt) Name() *syntax.SyntaxToken {
	return identAfterKeyword(l.n)
}

// hasTypeAnnotation reports whether the ':' type separator is present,
// which is the only reliable way to tell the declared type's Path node
// apart from a value expression that also happens to be a bare path.
func (l LetStmt) hasTypeAnnotation() bool {
	return l.n.ChildTokenOfKind(token.Colon) != nil
}

// Type returns the declared type annotation, if present.
func (l LetStmt) Type() *TypeRef {
	if !l.hasTypeAnnotation() {
		return nil
	}
	if t := l.n.ChildNodeOfKind(syntax.Path); t != nil {
		ty := TypeRef{t}
		return &ty
	}
	return nil
}

func (l LetStmt) Value() Expr {
	skipFirstPath := l.hasTypeAnnotation()
	for _, c := range l.n.ChildNodes() {
		if skipFirstPath && c.Kind() == syntax.Path {
			skipFirstPath = false
			continue
		}
		if e, ok := AsExpr(c); ok {
			return e
		}
	}
	return Expr{}
}

// ---------------------------------------------------------------------
// Expressions

// Expr is a tagged view over every expression-shaped node kind.
type Expr struct{ n *syntax.SyntaxNode }

func (e Expr) IsAbsent() bool              { return e.n == nil }
func (e Expr) Syntax() *syntax.SyntaxNode   { return e.n }

func AsExpr(n *syntax.SyntaxNode) (Expr, bool) {
	switch n.Kind() {
	case syntax.LiteralExpr, syntax.Path, syntax.PrefixExpr, syntax.BinaryExpr, syntax.CallExpr, syntax.IfExpr:
		return Expr{n}, true
	default:
		return Expr{}, false
	}
}

func (e Expr) Kind() syntax.NodeKind { return e.n.Kind() }

// AsLiteral decodes a LiteralExpr into either an integer or string value.
// ok is false if e is not a LiteralExpr or the literal token is malformed.
type Literal struct {
	Int    *big.Int
	String string
	IsInt  bool
}

func (e Expr) AsLiteral() (Literal, bool) {
	if e.n == nil || e.n.Kind() != syntax.LiteralExpr {
		return Literal{}, false
	}
	toks := e.n.ChildTokens()
	for _, t := range toks {
		switch t.Kind() {
		case token.Integer:
			v, ok := new(big.Int).SetString(t.Text(), 10)
			if !ok {
				return Literal{}, false
			}
			return Literal{Int: v, IsInt: true}, true
		case token.String:
			return Literal{String: unquote(t.Text())}, true
		}
	}
	return Literal{}, false
}

func unquote(text string) string {
	s := strings.TrimPrefix(text, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// AsPath returns the underlying Path when e is a bare path reference.
func (e Expr) AsPath() (Path, bool) {
	if e.n == nil || e.n.Kind() != syntax.Path {
		return Path{}, false
	}
	return Path{e.n}, true
}

type BinaryExpr struct{ n *syntax.SyntaxNode }

func (e Expr) AsBinary() (BinaryExpr, bool) {
	if e.n == nil || e.n.Kind() != syntax.BinaryExpr {
		return BinaryExpr{}, false
	}
	return BinaryExpr{e.n}, true
}

func (b BinaryExpr) Operator() *syntax.SyntaxToken {
	for _, t := range b.n.ChildTokens() {
		switch t.Kind() {
		case token.Plus, token.Minus, token.Star, token.Slash, token.Lt, token.Gt:
			return t
		}
	}
	return nil
}

func (b BinaryExpr) Lhs() Expr {
	children := b.n.ChildNodes()
	if len(children) > 0 {
		if e, ok := AsExpr(children[0]); ok {
			return e
		}
	}
	return Expr{}
}

func (b BinaryExpr) Rhs() Expr {
	children := b.n.ChildNodes()
	if len(children) > 1 {
		if e, ok := AsExpr(children[len(children)-1]); ok {
			return e
		}
	}
	return Expr{}
}

type PrefixExpr struct{ n *syntax.SyntaxNode }

func (e Expr) AsPrefix() (PrefixExpr, bool) {
	if e.n == nil || e.n.Kind() != syntax.PrefixExpr {
		return PrefixExpr{}, false
	}
	return PrefixExpr{e.n}, true
}

func (p PrefixExpr) Operand() Expr {
	for _, c := range p.n.ChildNodes() {
		if e, ok := AsExpr(c); ok {
			return e
		}
	}
	return Expr{}
}

type CallExpr struct{ n *syntax.SyntaxNode }

func (e Expr) AsCall() (CallExpr, bool) {
	if e.n == nil || e.n.Kind() != syntax.CallExpr {
		return CallExpr{}, false
	}
	return CallExpr{e.n}, true
}

func (c CallExpr) Target() Expr {
	children := c.n.ChildNodes()
	if len(children) > 0 {
		if e, ok := AsExpr(children[0]); ok {
			return e
		}
	}
	return Expr{}
}

func (c CallExpr) Arguments() []Expr {
	children := c.n.ChildNodes()
	if len(children) == 0 {
		return nil
	}
	var out []Expr
	for _, child := range children[1:] {
		if e, ok := AsExpr(child); ok {
			out = append(out, e)
		}
	}
	return out
}

type IfExpr struct{ n *syntax.SyntaxNode }

func (e Expr) AsIf() (IfExpr, bool) {
	if e.n == nil || e.n.Kind() != syntax.IfExpr {
		return IfExpr{}, false
	}
	return IfExpr{e.n}, true
}

func (i IfExpr) Condition() Expr {
	for _, c := range i.n.ChildNodes() {
		if c.Kind() == syntax.Block {
			break
		}
		if e, ok := AsExpr(c); ok {
			return e
		}
	}
	return Expr{}
}

func (i IfExpr) Then() *Block {
	blocks := i.n.ChildNodesOfKind(syntax.Block)
	if len(blocks) < 1 {
		return nil
	}
	b := Block{blocks[0]}
	return &b
}

func (i IfExpr) Else() *Block {
	blocks := i.n.ChildNodesOfKind(syntax.Block)
	if len(blocks) < 2 {
		return nil
	}
	b := Block{blocks[1]}
	return &b
}

// ---------------------------------------------------------------------

func identAfterKeyword(n *syntax.SyntaxNode) *syntax.SyntaxToken {
	return n.ChildTokenOfKind(token.Ident)
}
