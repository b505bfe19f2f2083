package syntax

import "rue-lang.dev/rue/pkg/token"

// Range is a half-open byte range into the original source text.
type Range struct {
	Start, End int
}

// SyntaxNode is a cursor over the green tree: it gives each node an
// absolute text range and a parent pointer, computed lazily on demand so
// that cloning a cursor (to e.g. hand it to an AST accessor) is cheap.
type SyntaxNode struct {
	green  *GreenNode
	parent *SyntaxNode
	offset int
}

// NewRoot wraps a finished green tree as the root of the public syntax
// tree, the type used everywhere outside this package.
func NewRoot(green *GreenNode) *SyntaxNode {
	return &SyntaxNode{green: green, offset: 0}
}

func (n *SyntaxNode) Kind() NodeKind   { return n.green.Kind }
func (n *SyntaxNode) Green() *GreenNode { return n.green }
func (n *SyntaxNode) Parent() *SyntaxNode { return n.parent }
func (n *SyntaxNode) Text() string     { return n.green.Text() }

func (n *SyntaxNode) TextRange() Range {
	return Range{Start: n.offset, End: n.offset + n.green.textLen()}
}

// SyntaxToken is a leaf cursor: a token kind, its text and its absolute
// range.
type SyntaxToken struct {
	green  *GreenToken
	parent *SyntaxNode
	offset int
}

func (t *SyntaxToken) Kind() token.Kind { return t.green.Kind }
func (t *SyntaxToken) Text() string     { return t.green.Text }
func (t *SyntaxToken) Parent() *SyntaxNode { return t.parent }

func (t *SyntaxToken) TextRange() Range {
	return Range{Start: t.offset, End: t.offset + len(t.green.Text)}
}

// Element is either a *SyntaxNode or a *SyntaxToken.
type Element struct {
	Node  *SyntaxNode
	Token *SyntaxToken
}

// Children returns every direct child of n, nodes and tokens alike, in
// source order with absolute offsets computed from n's own offset.
func (n *SyntaxNode) Children() []Element {
	out := make([]Element, 0, len(n.green.Children))
	offset := n.offset
	for _, c := range n.green.Children {
		switch v := c.(type) {
		case *GreenNode:
			child := &SyntaxNode{green: v, parent: n, offset: offset}
			out = append(out, Element{Node: child})
		case *GreenToken:
			child := &SyntaxToken{green: v, parent: n, offset: offset}
			out = append(out, Element{Token: child})
		}
		offset += c.textLen()
	}
	return out
}

// ChildNodes returns only the composite children, in order.
func (n *SyntaxNode) ChildNodes() []*SyntaxNode {
	var out []*SyntaxNode
	for _, el := range n.Children() {
		if el.Node != nil {
			out = append(out, el.Node)
		}
	}
	return out
}

// ChildTokens returns only the leaf (non-trivia and trivia alike) token
// children, in order.
func (n *SyntaxNode) ChildTokens() []*SyntaxToken {
	var out []*SyntaxToken
	for _, el := range n.Children() {
		if el.Token != nil {
			out = append(out, el.Token)
		}
	}
	return out
}

// ChildNodeOfKind returns the first direct child node of the given kind,
// or nil. AST accessors use this to project typed views without ever
// panicking on a malformed tree: a missing child is simply absent.
func (n *SyntaxNode) ChildNodeOfKind(kind NodeKind) *SyntaxNode {
	for _, c := range n.ChildNodes() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// ChildNodesOfKind returns every direct child node of the given kind, in
// order.
func (n *SyntaxNode) ChildNodesOfKind(kind NodeKind) []*SyntaxNode {
	var out []*SyntaxNode
	for _, c := range n.ChildNodes() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// ChildTokenOfKind returns the first direct non-trivia token child of the
// given kind, or nil.
func (n *SyntaxNode) ChildTokenOfKind(kind token.Kind) *SyntaxToken {
	for _, t := range n.ChildTokens() {
		if t.Kind() == kind {
			return t
		}
	}
	return nil
}
