package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit is an unsigned decimal or hex literal.
	IntLit

	KwPub   // pub
	KwTrait // trait
	KwFn    // fn
	KwWhere // where

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Lt        // <
	Gt        // >
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Arrow     // ->
	Plus      // +
	// Other covers punctuation that only appears inside function bodies.
	Other
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	KwPub:     "KwPub",
	KwTrait:   "KwTrait",
	KwFn:      "KwFn",
	KwWhere:   "KwWhere",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	Lt:        "Lt",
	Gt:        "Gt",
	Comma:     "Comma",
	Colon:     "Colon",
	Semicolon: "Semicolon",
	Arrow:     "Arrow",
	Plus:      "Plus",
	Other:     "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwPub && k <= KwWhere
}
