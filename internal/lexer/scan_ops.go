package lexer

import (
	"keel/internal/diag"
	"keel/internal/token"
)

var singleByte = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	'<': token.Lt,
	'>': token.Gt,
	',': token.Comma,
	':': token.Colon,
	';': token.Semicolon,
	'+': token.Plus,
}

// scanOperatorOrPunct scans punctuation. Bytes that only make sense inside
// function bodies become token.Other; control characters are reported.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '-' && b1 == '>' {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.tokenFrom(start, token.Arrow)
	}

	b := lx.cursor.Peek()
	if k, ok := singleByte[b]; ok {
		lx.cursor.Bump()
		return lx.tokenFrom(start, k)
	}

	if b >= utf8RuneSelf {
		lx.bumpRune()
	} else {
		lx.cursor.Bump()
	}
	if b < 0x20 || b == 0x7f {
		tok := lx.tokenFrom(start, token.Invalid)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
		return tok
	}
	return lx.tokenFrom(start, token.Other)
}

func (lx *Lexer) tokenFrom(start Mark, kind token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
