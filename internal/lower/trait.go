package lower

import (
	"fmt"
	"strings"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/style"
	"keel/internal/syntax"
)

// Trait lowers a trait_decl node.
//
// The declaration fails only when its name cannot be lowered. A body item
// that fails is left out and its diagnostics are kept; type parameters that
// fail become an empty list.
func Trait(node *syntax.Node, ctx *BuildContext, collab Collaborators) Result[ast.TraitDeclaration] {
	expectRule(node, syntax.RuleTraitDecl)
	var warnings, errors []diag.Diagnostic
	parts := node.Inner()

	visibility := ast.VisPrivate
	if parts.PeekRule() == syntax.RuleVisibility {
		visibility = lowerVisibility(parts.Next())
	}
	nextChild(parts, syntax.RuleTraitKeyword, syntax.RuleTraitDecl)

	nameNode := nextChild(parts, syntax.RuleIdent, syntax.RuleTraitDecl)
	name, ok := Check(collab.Ident(nameNode, ctx), &warnings, &errors)
	if !ok {
		return Err[ast.TraitDeclaration](warnings, errors)
	}
	rawName := strings.TrimSpace(nameNode.Text)
	WarnIf(collab.IsUpperCamelCase(rawName), &warnings,
		diag.NewWarning(diag.LintNonClassCaseTraitName, name.Span,
			fmt.Sprintf("trait name %q should be UpperCamelCase", name.Name)).
			WithRename(name.Name, style.ToUpperCamelCase(name.Name)))

	// type parameters and the where clause come in either order
	var typeParams, whereClause *syntax.Node
	for range 2 {
		switch parts.PeekRule() {
		case syntax.RuleTraitBounds:
			whereClause = parts.Next()
		case syntax.RuleTypeParams:
			typeParams = parts.Next()
		}
	}

	var interfaceSurface []ast.TraitFn
	var methods []ast.FunctionDeclaration
	if body := parts.Next(); body != nil {
		expectRule(body, syntax.RuleTraitMethods)
		for _, item := range body.Children {
			switch item.Rule {
			case syntax.RuleFnSignature:
				fn, ok := Check(TraitFn(item, ctx, collab), &warnings, &errors)
				if !ok {
					continue
				}
				interfaceSurface = append(interfaceSurface, fn)
			case syntax.RuleFnDecl:
				method, ok := Check(collab.FunctionDecl(item, ctx, collab), &warnings, &errors)
				if !ok {
					continue
				}
				methods = append(methods, method)
			default:
				unreachable(item.Rule, "trait body")
			}
		}
	}

	typeParameters := CheckOr(collab.TypeParameters(typeParams, whereClause, ctx, collab),
		noTypeParameters, &warnings, &errors)

	return Ok(ast.TraitDeclaration{
		Name:             name,
		Visibility:       visibility,
		TypeParameters:   typeParameters,
		InterfaceSurface: interfaceSurface,
		Methods:          methods,
		Span:             ctx.Span(node),
	}, warnings, errors)
}

func lowerVisibility(n *syntax.Node) ast.Visibility {
	if strings.TrimSpace(n.Text) == "pub" {
		return ast.VisPublic
	}
	return ast.VisPrivate
}

func noTypeParameters() []ast.TypeParameter { return nil }

func noParameters() []ast.FunctionParameter { return nil }
