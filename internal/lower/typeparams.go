package lower

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/style"
	"keel/internal/syntax"
)

// TypeParameters merges a type_params node and a trait_bounds (where
// clause) node into one list. Either may be nil; both nil is an empty list.
// Constraints keep source order: inline bounds first, then where predicates.
// Names are lowered and style-checked through collab.
func TypeParameters(typeParams, whereClause *syntax.Node, ctx *BuildContext, collab Collaborators) Result[[]ast.TypeParameter] {
	if typeParams == nil && whereClause == nil {
		return Ok[[]ast.TypeParameter](nil, nil, nil)
	}
	var warnings, errors []diag.Diagnostic
	var params []ast.TypeParameter
	index := make(map[string]int)

	if typeParams != nil {
		expectRule(typeParams, syntax.RuleTypeParams)
		for _, tp := range typeParams.Children {
			expectRule(tp, syntax.RuleTypeParam)
			parts := tp.Inner()
			nameNode := nextChild(parts, syntax.RuleIdent, syntax.RuleTypeParam)
			name, ok := Check(collab.Ident(nameNode, ctx), &warnings, &errors)
			if !ok {
				continue
			}
			if prev, dup := index[name.Name]; dup {
				errors = append(errors, diag.NewError(diag.LowDuplicateTypeParam, name.Span,
					fmt.Sprintf("type parameter %q is declared more than once", name.Name)).
					WithNote(params[prev].Name.Span, "previous declaration here"))
				continue
			}
			WarnIf(collab.IsUpperCamelCase(name.Name), &warnings,
				diag.NewWarning(diag.LintNonClassCaseTypeParam, name.Span,
					fmt.Sprintf("type parameter %q should be UpperCamelCase", name.Name)).
					WithRename(name.Name, style.ToUpperCamelCase(name.Name)))

			index[name.Name] = len(params)
			params = append(params, ast.TypeParameter{
				Name:        name,
				Constraints: lowerBounds(parts.Rest(), ctx, &warnings, &errors),
			})
		}
	}

	if whereClause != nil {
		expectRule(whereClause, syntax.RuleTraitBounds)
		for _, pred := range whereClause.Children {
			expectRule(pred, syntax.RuleWherePredicate)
			parts := pred.Inner()
			nameNode := nextChild(parts, syntax.RuleIdent, syntax.RuleWherePredicate)
			name, ok := Check(collab.Ident(nameNode, ctx), &warnings, &errors)
			if !ok {
				continue
			}
			i, declared := index[name.Name]
			if !declared {
				errors = append(errors, diag.NewError(diag.LowUndeclaredWhereParam, name.Span,
					fmt.Sprintf("where clause refers to undeclared type parameter %q", name.Name)))
				continue
			}
			params[i].Constraints = append(params[i].Constraints, lowerBounds(parts.Rest(), ctx, &warnings, &errors)...)
		}
	}

	if len(errors) > 0 {
		return Err[[]ast.TypeParameter](warnings, errors)
	}
	return Ok(params, warnings, errors)
}

func lowerBounds(nodes []*syntax.Node, ctx *BuildContext, warnings, errors *[]diag.Diagnostic) []ast.Ident {
	var out []ast.Ident
	for _, n := range nodes {
		expectRule(n, syntax.RuleIdent)
		if bound, ok := Check(Ident(n, ctx), warnings, errors); ok {
			out = append(out, bound)
		}
	}
	return out
}
