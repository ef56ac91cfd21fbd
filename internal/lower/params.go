package lower

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/syntax"
)

// Parameters lowers the children of a fn_decl_params node. The list
// succeeds only if every parameter does.
func Parameters(nodes []*syntax.Node, ctx *BuildContext) Result[[]ast.FunctionParameter] {
	var warnings, errors []diag.Diagnostic
	params := make([]ast.FunctionParameter, 0, len(nodes))
	seen := make(map[string]source.Span, len(nodes))

	for i, n := range nodes {
		switch n.Rule {
		case syntax.RuleSelfParam:
			span := ctx.Span(n)
			if i != 0 {
				errors = append(errors, diag.NewError(diag.LowSelfParamPosition, span,
					"'self' must be the first parameter"))
				continue
			}
			seen["self"] = span
			params = append(params, ast.FunctionParameter{
				Name:     ast.Ident{Name: "self", Span: span},
				Type:     ast.SelfType(),
				TypeSpan: span,
			})

		case syntax.RuleFnParam:
			parts := n.Inner()
			nameNode := nextChild(parts, syntax.RuleIdent, syntax.RuleFnParam)
			typeNode := nextChild(parts, syntax.RuleType, syntax.RuleFnParam)
			name, nameOK := Check(Ident(nameNode, ctx), &warnings, &errors)
			ty, typeOK := Check(Type(typeNode, ctx), &warnings, &errors)
			if !nameOK || !typeOK {
				continue
			}
			if prev, dup := seen[name.Name]; dup {
				errors = append(errors, diag.NewError(diag.LowDuplicateParam, name.Span,
					fmt.Sprintf("parameter %q is declared more than once", name.Name)).
					WithNote(prev, "previous declaration here"))
				continue
			}
			seen[name.Name] = name.Span
			params = append(params, ast.FunctionParameter{
				Name:     name,
				Type:     ty,
				TypeSpan: ctx.Span(typeNode),
			})

		default:
			unreachable(n.Rule, "parameter list")
		}
	}

	if len(errors) > 0 {
		return Err[[]ast.FunctionParameter](warnings, errors)
	}
	return Ok(params, warnings, errors)
}
