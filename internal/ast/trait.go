package ast

import "keel/internal/source"

// TypeParameter is a generic parameter with the trait constraints collected
// from its inline bounds and from where predicates, in source order.
type TypeParameter struct {
	Name        Ident
	Constraints []Ident
}

// TraitFn is an interface-only method signature.
// ReturnTypeSpan covers the explicit return type, or the whole signature
// when the return type was omitted.
type TraitFn struct {
	Name           Ident
	Parameters     []FunctionParameter
	ReturnType     TypeInfo
	ReturnTypeSpan source.Span
}

// TraitDeclaration partitions the trait body: signatures go to
// InterfaceSurface, methods with a body go to Methods. Both keep source order.
type TraitDeclaration struct {
	Name             Ident
	Visibility       Visibility
	TypeParameters   []TypeParameter
	InterfaceSurface []TraitFn
	Methods          []FunctionDeclaration
	Span             source.Span
}
