// Package parser implements the error-recovering, lossless Pratt parser
// described by spec §4.1. It consumes a token slice (trivia included) and
// produces a green tree plus a set of diagnostics; it never throws away an
// input byte, wrapping anything it can't place inside an Error node.
package parser

import (
	"strings"

	"rue-lang.dev/rue/pkg/diag"
	"rue-lang.dev/rue/pkg/syntax"
	"rue-lang.dev/rue/pkg/token"
)

// Parse runs the full grammar (spec §4.1) over tokens and returns the
// finished green tree together with every diagnostic raised along the way.
func Parse(tokens []token.Token) (*syntax.GreenNode, []diag.Diagnostic) {
	p := &parser{tokens: tokens, builder: syntax.NewGreenBuilder()}
	green := p.parseProgram()
	return green, p.diags.Items()
}

// recoverySet is the bounded set of tokens expect() treats as "do not
// consume, the enclosing production will deal with it" rather than
// wrapping in an Error node (spec §4.1 "Recovery set").
var recoverySet = map[token.Kind]bool{
	token.LBrace: true,
	token.RBrace: true,
	token.Semi:   true,
	token.Fun:    true,
	token.Use:    true,
	token.Let:    true,
}

type parser struct {
	tokens []token.Token // full stream, trivia included, ends with an Eof token
	idx    int           // index of the next unconsumed token (possibly trivia)
	offset int           // absolute byte offset of tokens[idx]

	builder *syntax.GreenBuilder
	diags   diag.Bag

	expected []token.Kind // accumulated since the last bump/clear, for diagnostics
}

// ---------------------------------------------------------------------
// Token-stream primitives

func (p *parser) peekNonTrivia() (token.Token, int) {
	i := p.idx
	for i < len(p.tokens) && p.tokens[i].Kind.IsTrivia() {
		i++
	}
	if i >= len(p.tokens) {
		return token.Token{Kind: token.Eof}, i
	}
	return p.tokens[i], i
}

func (p *parser) peekKind() token.Kind {
	t, _ := p.peekNonTrivia()
	return t.Kind
}

// at is non-destructive: it records kind into the expected set for the
// current position so a later failed expect can list every alternative
// that was tried.
func (p *parser) at(kind token.Kind) bool {
	p.expected = append(p.expected, kind)
	return p.peekKind() == kind
}

func (p *parser) atSet(kinds ...token.Kind) bool {
	found := p.peekKind()
	p.expected = append(p.expected, kinds...)
	for _, k := range kinds {
		if found == k {
			return true
		}
	}
	return false
}

// flushTrivia moves any pending trivia tokens directly in front of the
// next real token into the currently open node. Combined with calling it
// right before every FinishNode, this attaches trivia to the preceding
// completed node whenever there is one, and to the next node otherwise.
func (p *parser) flushTrivia() {
	for p.idx < len(p.tokens) && p.tokens[p.idx].Kind.IsTrivia() {
		t := p.tokens[p.idx]
		p.builder.Token(t.Kind, t.Text)
		p.offset += len(t.Text)
		p.idx++
	}
}

// bump consumes the next non-trivia token unconditionally, clearing the
// expected set.
func (p *parser) bump() token.Token {
	p.flushTrivia()
	var t token.Token
	if p.idx < len(p.tokens) {
		t = p.tokens[p.idx]
	} else {
		t = token.Token{Kind: token.Eof}
	}
	p.builder.Token(t.Kind, t.Text)
	p.offset += len(t.Text)
	if p.idx < len(p.tokens) {
		p.idx++
	}
	p.expected = nil
	return t
}

func (p *parser) startNode(kind syntax.NodeKind) { p.builder.StartNode(kind) }

// finishNode flushes trailing trivia into the node before closing it, so
// trivia between this node's last real token and the next one is attached
// here rather than to whatever comes next.
func (p *parser) finishNode() {
	p.flushTrivia()
	p.builder.FinishNode()
}

func (p *parser) checkpoint() syntax.Checkpoint           { return p.builder.Checkpoint() }
func (p *parser) startNodeAt(cp syntax.Checkpoint, kind syntax.NodeKind) { p.builder.StartNodeAt(cp, kind) }

// ---------------------------------------------------------------------
// expect / recovery

// expectOneOf consumes the next token if it matches one of kinds.
// Otherwise it emits "found X, expected one of {...}": if the offending
// token is EOF or itself a member of the bounded recovery set, nothing is
// consumed (the enclosing production is left to handle it and the
// diagnostic gets a zero-width range at the current position); otherwise
// exactly that one token is wrapped in an Error node and consumed, so the
// parser always makes forward progress without ever skipping more than
// one token while searching for a synchronization point.
func (p *parser) expectOneOf(kinds ...token.Kind) (token.Token, bool) {
	p.expected = append(p.expected, kinds...)
	found := p.peekKind()
	for _, k := range kinds {
		if found == k {
			return p.bump(), true
		}
	}
	return p.failExpect()
}

// atColonColon reports whether the upcoming tokens compose '::' (spec
// §4.1's path separator) the same way expectArrow recognizes '->': a Colon
// immediately followed, with no trivia in between, by another Colon. Unlike
// Arrow, '::' is never merged into one green token — parsePath just bumps
// the two Colons in turn — since no ColonColon Kind exists at the token
// layer; Arrow stays the only multi-character token-layer composition.
func (p *parser) atColonColon() bool {
	_, idx := p.peekNonTrivia()
	return idx < len(p.tokens) && p.tokens[idx].Kind == token.Colon &&
		idx+1 < len(p.tokens) && p.tokens[idx+1].Kind == token.Colon
}

func (p *parser) expect(kind token.Kind) (token.Token, bool) {
	return p.expectOneOf(kind)
}

func (p *parser) failExpect() (token.Token, bool) {
	found := p.peekKind()
	msg := "found " + found.String() + ", expected one of " + p.expectedSetString()
	p.expected = nil

	if found == token.Eof || recoverySet[found] {
		p.diags.Add(diag.New(syntax.Range{Start: p.offset, End: p.offset}, "%s", msg))
		return token.Token{}, false
	}

	p.flushTrivia()
	start := p.offset
	p.builder.StartNode(syntax.Error)
	tok := p.bump()
	p.builder.FinishNode()
	p.diags.Add(diag.New(syntax.Range{Start: start, End: p.offset}, "%s", msg))
	return tok, false
}

// forceBumpIntoError guarantees forward progress in a loop whose body
// made none: it consumes exactly one token (wrapped as an Error node) and
// emits no extra diagnostic, since the call that made no progress already
// recorded one via failExpect.
func (p *parser) forceBumpIntoError() {
	p.flushTrivia()
	if p.idx >= len(p.tokens) || p.tokens[p.idx].Kind == token.Eof {
		return
	}
	p.builder.StartNode(syntax.Error)
	p.bump()
	p.builder.FinishNode()
}

func (p *parser) expectedSetString() string {
	seen := make(map[token.Kind]bool, len(p.expected))
	names := make([]string, 0, len(p.expected))
	for _, k := range p.expected {
		if seen[k] {
			continue
		}
		seen[k] = true
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

// expectArrow recognizes the two-token '->' composition (spec §4.1): a
// Minus immediately followed, with no trivia in between, by a Gt. No other
// multi-character operator exists at the token layer.
func (p *parser) expectArrow() (token.Token, bool) {
	p.expected = append(p.expected, token.Arrow)

	_, idx := p.peekNonTrivia()
	if idx < len(p.tokens) && p.tokens[idx].Kind == token.Minus &&
		idx+1 < len(p.tokens) && p.tokens[idx+1].Kind == token.Gt {
		p.flushTrivia()
		minus, gt := p.tokens[p.idx], p.tokens[p.idx+1]
		merged := minus.Text + gt.Text
		p.builder.Token(token.Arrow, merged)
		p.offset += len(merged)
		p.idx += 2
		p.expected = nil
		return token.Token{Kind: token.Arrow, Text: merged}, true
	}

	return p.failExpect()
}
