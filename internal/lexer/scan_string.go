package lexer

import (
	"keel/internal/token"
)

// scanString consumes a "..." literal. Strings only occur inside function
// bodies, so they are surfaced as token.Other to keep braces inside them
// from unbalancing the body.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '"' {
			break
		}
		if b == '\\' {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Other, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
