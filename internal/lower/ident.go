package lower

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/syntax"
)

var reservedNames = map[string]struct{}{
	"self":  {},
	"Self":  {},
	"true":  {},
	"false": {},
	"trait": {},
	"fn":    {},
	"pub":   {},
	"where": {},
}

// Ident lowers a name node. The text is NFC-normalized so that equal names
// compare equal regardless of how they were typed.
func Ident(node *syntax.Node, ctx *BuildContext) Result[ast.Ident] {
	span := ctx.Span(node)
	text := strings.TrimSpace(node.Text)
	if text == "" {
		return Err[ast.Ident](nil, []diag.Diagnostic{
			diag.NewError(diag.LowEmptyIdent, span, "expected a name"),
		})
	}
	name := norm.NFC.String(text)
	if _, reserved := reservedNames[name]; reserved {
		return Err[ast.Ident](nil, []diag.Diagnostic{
			diag.NewError(diag.LowReservedIdent, span, fmt.Sprintf("%q is reserved and cannot be used as a name", name)),
		})
	}
	return Ok(ast.Ident{Name: name, Span: span}, nil, nil)
}
