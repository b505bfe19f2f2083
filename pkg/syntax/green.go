package syntax

import (
	"strings"

	"rue-lang.dev/rue/pkg/token"
)

// GreenElement is either a *GreenToken (leaf) or a *GreenNode (composite).
// The green tree is immutable once built and lives from parsing through
// codegen, so diagnostics can still carry a text range long after the
// parser itself has gone away.
//
// Invariant: concatenating every token's Text in in-order traversal
// reproduces the source exactly, including inside Error nodes.
type GreenElement interface {
	textLen() int
}

// GreenToken is a leaf of the green tree: a kind and the exact source slice
// it covers.
type GreenToken struct {
	Kind token.Kind
	Text string
}

func (t *GreenToken) textLen() int { return len(t.Text) }

// GreenNode is a composite of the green tree: a kind and an ordered
// sequence of children, each either another GreenNode or a GreenToken.
type GreenNode struct {
	Kind     NodeKind
	Children []GreenElement
	len      int
}

func (n *GreenNode) textLen() int { return n.len }

func newGreenNode(kind NodeKind, children []GreenElement) *GreenNode {
	total := 0
	for _, c := range children {
		total += c.textLen()
	}
	return &GreenNode{Kind: kind, Children: children, len: total}
}

// Text reconstructs the exact source text covered by this node, by
// concatenating every descendant token's text in order. Used by tests that
// assert the round-trip-fidelity invariant and by diagnostics that need to
// quote a span.
func (n *GreenNode) Text() string {
	var b strings.Builder
	writeGreenText(&b, n)
	return b.String()
}

func writeGreenText(b *strings.Builder, el GreenElement) {
	switch v := el.(type) {
	case *GreenToken:
		b.WriteString(v.Text)
	case *GreenNode:
		for _, c := range v.Children {
			writeGreenText(b, c)
		}
	}
}
