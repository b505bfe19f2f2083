package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rue-lang.dev/rue/pkg/syntax"
	"rue-lang.dev/rue/pkg/token"
)

func buildSimpleTree(b *syntax.GreenBuilder) {
	b.StartNode(syntax.BinaryExpr)
	b.StartNode(syntax.LiteralExpr)
	b.Token(token.Integer, "1")
	b.FinishNode()
	b.Token(token.Whitespace, " ")
	b.Token(token.Plus, "+")
	b.Token(token.Whitespace, " ")
	b.StartNode(syntax.LiteralExpr)
	b.Token(token.Integer, "2")
	b.FinishNode()
	b.FinishNode()
}

func TestGreenTreeRoundTrip(t *testing.T) {
	b := syntax.NewGreenBuilder()
	buildSimpleTree(b)
	green := b.Finish()

	assert.Equal(t, "1 + 2", green.Text())
	assert.Equal(t, syntax.BinaryExpr, green.Kind)
}

func TestSyntaxCursorRanges(t *testing.T) {
	b := syntax.NewGreenBuilder()
	buildSimpleTree(b)
	root := syntax.NewRoot(b.Finish())

	assert.Equal(t, syntax.Range{Start: 0, End: 5}, root.TextRange())

	lits := root.ChildNodesOfKind(syntax.LiteralExpr)
	require.Len(t, lits, 2)
	assert.Equal(t, syntax.Range{Start: 0, End: 1}, lits[0].TextRange())
	assert.Equal(t, syntax.Range{Start: 4, End: 5}, lits[1].TextRange())
}

func TestCheckpointWrapsRetroactively(t *testing.T) {
	// Mirrors parseUnaryOrPrimary/parseExprBP: a primary is parsed first,
	// a checkpoint taken before it, then wrapped in a composite only once
	// an operator is discovered to follow.
	b := syntax.NewGreenBuilder()
	b.StartNode(syntax.Program)
	cp := b.Checkpoint()
	b.StartNode(syntax.LiteralExpr)
	b.Token(token.Integer, "1")
	b.FinishNode()

	b.StartNodeAt(cp, syntax.BinaryExpr)
	b.Token(token.Plus, "+")
	b.StartNode(syntax.LiteralExpr)
	b.Token(token.Integer, "2")
	b.FinishNode()
	b.FinishNode()
	b.FinishNode()

	green := b.Finish()
	assert.Equal(t, syntax.Program, green.Kind)
	require.Len(t, green.Children, 1)
	inner := green.Children[0].(*syntax.GreenNode)
	assert.Equal(t, syntax.BinaryExpr, inner.Kind)
	assert.Equal(t, "1+2", green.Text())
}

func TestChildTokenOfKindSkipsOtherKinds(t *testing.T) {
	b := syntax.NewGreenBuilder()
	b.StartNode(syntax.FunctionParam)
	b.Token(token.Ident, "a")
	b.Token(token.Colon, ":")
	b.Token(token.Ident, "Int")
	b.FinishNode()
	root := syntax.NewRoot(b.Finish())

	tok := root.ChildTokenOfKind(token.Colon)
	require.NotNil(t, tok)
	assert.Equal(t, ":", tok.Text())
}
