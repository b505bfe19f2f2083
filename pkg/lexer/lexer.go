// Package lexer is a trivial character classifier: it turns source bytes
// into a token.Token stream, preserving whitespace and comments as trivia
// tokens so the parser can losslessly reassemble the source. Its internals
// are out of scope for this module's core (spec §1) but it is implemented
// here in full so the pipeline is runnable end to end.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"rue-lang.dev/rue/pkg/token"
)

// Lex scans src in full and returns every token, including an Eof token at
// the end. No byte of src is ever skipped or dropped: it is either part of
// a trivia token, a real token, or an Unknown token.
func Lex(src string) []token.Token {
	l := &lexer{src: src}
	var out []token.Token
	for {
		t := l.next()
		out = append(out, t)
		if t.Kind == token.Eof {
			return out
		}
	}
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) next() token.Token {
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.Eof, Text: ""}
	}

	start := l.pos

	switch {
	case isSpace(l.peekByte()):
		for l.pos < len(l.src) && isSpace(l.peekByte()) {
			l.pos++
		}
		return token.Token{Kind: token.Whitespace, Text: l.src[start:l.pos]}

	case l.peekByte() == '/' && l.peekByteAt(1) == '/':
		for l.pos < len(l.src) && l.peekByte() != '\n' {
			l.pos++
		}
		return token.Token{Kind: token.LineComment, Text: l.src[start:l.pos]}

	case l.peekByte() == '/' && l.peekByteAt(1) == '*':
		l.pos += 2
		for l.pos < len(l.src) {
			if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
				l.pos += 2
				break
			}
			l.pos++
		}
		return token.Token{Kind: token.BlockComment, Text: l.src[start:l.pos]}

	case l.peekByte() == '"':
		return l.lexString()

	case isDigit(l.peekByte()):
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			l.pos++
		}
		return token.Token{Kind: token.Integer, Text: l.src[start:l.pos]}

	case isIdentStart(l.peekByte()):
		for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if kw, ok := token.Keywords[text]; ok {
			return token.Token{Kind: kw, Text: text}
		}
		return token.Token{Kind: token.Ident, Text: text}

	default:
		return l.lexPunct()
	}
}

// lexString scans a string literal token verbatim, including an
// unterminated one: it simply runs to end-of-input. Whether that is a
// diagnosable condition is the parser's call (it isn't: the lexer never
// emits diagnostics), callers that care check for a missing closing quote.
func (l *lexer) lexString() token.Token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos++
			if l.pos < len(l.src) {
				l.pos++
			}
		case '"':
			l.pos++
			return token.Token{Kind: token.String, Text: l.src[start:l.pos]}
		default:
			l.pos++
		}
	}
	return token.Token{Kind: token.String, Text: l.src[start:l.pos]}
}

// IsUnterminatedString reports whether a String token text is missing its
// closing quote (used by the parser to raise the lex diagnostic described
// in spec §8 scenario 6; the lexer itself stays diagnostic-free).
func IsUnterminatedString(text string) bool {
	return !strings.HasSuffix(text, `"`) || len(text) < 2
}

var punctuation = []struct {
	text string
	kind token.Kind
}{
	{"(", token.LParen}, {")", token.RParen},
	{"[", token.LBracket}, {"]", token.RBracket},
	{"{", token.LBrace}, {"}", token.RBrace},
	{"+", token.Plus}, {"-", token.Minus},
	{"*", token.Star}, {"/", token.Slash},
	{">", token.Gt}, {"<", token.Lt},
	{"=", token.Eq}, {".", token.Dot},
	{",", token.Comma},
	{":", token.Colon},
	{";", token.Semi},
}

func (l *lexer) lexPunct() token.Token {
	for _, p := range punctuation {
		if strings.HasPrefix(l.src[l.pos:], p.text) {
			l.pos += len(p.text)
			return token.Token{Kind: p.kind, Text: p.text}
		}
	}

	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return token.Token{Kind: token.Unknown, Text: l.src[l.pos-size : l.pos]}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b))
}
func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
