package syntax

import "rue-lang.dev/rue/pkg/token"

// pending is a node under construction: a kind plus the children accrued
// for it so far.
type pending struct {
	kind     NodeKind
	children []GreenElement
}

// Checkpoint marks a position inside the currently open node's child list.
// StartNodeAt later wraps every child accrued since that position (and
// only those) into a brand new parent node — this is what lets the parser
// build left-recursive productions (binary expressions, call expressions)
// without knowing ahead of time that a parent node is needed.
type Checkpoint struct {
	parentDepth int // which pending frame the checkpoint was taken in
	childIndex  int
}

// GreenBuilder incrementally assembles a green tree. It never discards
// input: every Token call appends a leaf, and FinishNode always succeeds.
type GreenBuilder struct {
	stack []pending
	root  *GreenNode
}

func NewGreenBuilder() *GreenBuilder {
	return &GreenBuilder{}
}

// StartNode opens a new composite node; its children are every Token/
// StartNode call until the matching FinishNode.
func (b *GreenBuilder) StartNode(kind NodeKind) {
	b.stack = append(b.stack, pending{kind: kind})
}

// Token appends a leaf to the currently open node.
func (b *GreenBuilder) Token(kind token.Kind, text string) {
	top := len(b.stack) - 1
	b.stack[top].children = append(b.stack[top].children, &GreenToken{Kind: kind, Text: text})
}

// FinishNode closes the most recently opened node and attaches it as a
// child of its parent, or stores it as the finished root if the stack is
// now empty.
func (b *GreenBuilder) FinishNode() {
	top := len(b.stack) - 1
	finished := newGreenNode(b.stack[top].kind, b.stack[top].children)
	b.stack = b.stack[:top]

	if len(b.stack) == 0 {
		b.root = finished
		return
	}
	parent := len(b.stack) - 1
	b.stack[parent].children = append(b.stack[parent].children, finished)
}

// Checkpoint captures "everything accrued so far in the currently open
// node" so a later StartNodeAt can retroactively wrap it in a new parent.
func (b *GreenBuilder) Checkpoint() Checkpoint {
	top := len(b.stack) - 1
	return Checkpoint{parentDepth: top, childIndex: len(b.stack[top].children)}
}

// StartNodeAt opens a new node whose children are every child the
// currently open node accrued since cp was taken; those children are
// removed from the current node and re-parented under the new one, which
// is left open (pushed on the stack) exactly like StartNode would.
func (b *GreenBuilder) StartNodeAt(cp Checkpoint, kind NodeKind) {
	top := cp.parentDepth
	tail := append([]GreenElement(nil), b.stack[top].children[cp.childIndex:]...)
	b.stack[top].children = b.stack[top].children[:cp.childIndex]
	b.stack = append(b.stack, pending{kind: kind, children: tail})
}

// Finish returns the completed root node. Valid only after every opened
// node has been closed with FinishNode.
func (b *GreenBuilder) Finish() *GreenNode {
	return b.root
}
