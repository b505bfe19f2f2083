package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rue-lang.dev/rue/pkg/lexer"
	"rue-lang.dev/rue/pkg/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexSkeleton(t *testing.T) {
	toks := lexer.Lex("fun main() -> Int { 1 }")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Eof, toks[len(toks)-1].Kind)

	assert.Equal(t, []token.Kind{
		token.Fun, token.Whitespace, token.Ident, token.LParen, token.RParen,
		token.Whitespace, token.Minus, token.Gt, token.Whitespace, token.Ident,
		token.Whitespace, token.LBrace, token.Whitespace, token.Integer,
		token.Whitespace, token.RBrace, token.Eof,
	}, kinds(toks))
}

func TestLexRoundTripsEveryByte(t *testing.T) {
	src := "let x: Int = 42; // trailing comment\n/* block */use a::b::c;"
	toks := lexer.Lex(src)

	var rebuilt string
	for _, tok := range toks {
		rebuilt += tok.Text
	}
	assert.Equal(t, src, rebuilt)
}

func TestLexStrings(t *testing.T) {
	toks := lexer.Lex(`"hello, world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, `"hello, world"`, toks[0].Text)
}

func TestLexUnterminatedString(t *testing.T) {
	toks := lexer.Lex(`"oops`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.True(t, lexer.IsUnterminatedString(toks[0].Text))
}

func TestLexIdentVsKeyword(t *testing.T) {
	toks := lexer.Lex("fun function")
	require.Len(t, toks, 4)
	assert.Equal(t, token.Fun, toks[0].Kind)
	assert.Equal(t, token.Ident, toks[2].Kind, "'function' must not match the 'fun' keyword by prefix")
}

func TestLexDoesNotComposeArrow(t *testing.T) {
	// The lexer is a flat character classifier; '->' composition is the
	// parser's job (expectArrow), so the lexer must emit two tokens here.
	toks := lexer.Lex("->")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Minus, toks[0].Kind)
	assert.Equal(t, token.Gt, toks[1].Kind)
}

func TestLexUnknownByte(t *testing.T) {
	toks := lexer.Lex("@")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Unknown, toks[0].Kind)
}
