package ast

import "keel/internal/source"

// FunctionParameter is one entry of a parameter list. A receiver parameter
// is named "self" with type Self and TypeSpan equal to its own span.
type FunctionParameter struct {
	Name     Ident
	Type     TypeInfo
	TypeSpan source.Span
}

// CodeBlock is a function body kept as opaque source text.
type CodeBlock struct {
	Span source.Span
	Text string
}

// FunctionDeclaration is a function with a body: a free function or a
// default method of a trait.
type FunctionDeclaration struct {
	Name           Ident
	Visibility     Visibility
	TypeParameters []TypeParameter
	Parameters     []FunctionParameter
	ReturnType     TypeInfo
	ReturnTypeSpan source.Span
	Body           CodeBlock
	Span           source.Span
}
