package ast

import "keel/internal/source"

// Ident is a validated, NFC-normalized name with the span it was lowered from.
type Ident struct {
	Name string
	Span source.Span
}

func (i Ident) String() string {
	return i.Name
}
