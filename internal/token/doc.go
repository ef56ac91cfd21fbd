// Package token defines the lexical vocabulary of keel source files:
// token kinds, keywords and trivia attached to tokens.
package token
