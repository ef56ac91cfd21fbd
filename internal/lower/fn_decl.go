package lower

import (
	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/syntax"
)

// FunctionDecl lowers a fn_decl node: a function with a body, either free or
// a default method of a trait. The body is kept verbatim.
func FunctionDecl(node *syntax.Node, ctx *BuildContext, collab Collaborators) Result[ast.FunctionDeclaration] {
	expectRule(node, syntax.RuleFnDecl)
	var warnings, errors []diag.Diagnostic
	parts := node.Inner()

	visibility := ast.VisPrivate
	if parts.PeekRule() == syntax.RuleVisibility {
		visibility = lowerVisibility(parts.Next())
	}
	sig := nextChild(parts, syntax.RuleFnSignature, syntax.RuleFnDecl)
	block := nextChild(parts, syntax.RuleCodeBlock, syntax.RuleFnDecl)

	sigParts := sig.Inner()
	nextChild(sigParts, syntax.RuleFnKeyword, syntax.RuleFnSignature)
	name, ok := lowerFnName(sigParts, ctx, collab, &warnings, &errors)
	if !ok {
		return Err[ast.FunctionDeclaration](warnings, errors)
	}

	var typeParams, whereClause *syntax.Node
	if sigParts.PeekRule() == syntax.RuleTypeParams {
		typeParams = sigParts.Next()
	}
	params := nextChild(sigParts, syntax.RuleFnDeclParams, syntax.RuleFnSignature)
	parameters := CheckOr(collab.Parameters(params.Children, ctx), noParameters, &warnings, &errors)
	returnType, returnSpan := lowerReturnType(sigParts, sig, ctx, collab, &warnings, &errors)
	if sigParts.PeekRule() == syntax.RuleTraitBounds {
		whereClause = sigParts.Next()
	}
	typeParameters := CheckOr(collab.TypeParameters(typeParams, whereClause, ctx, collab),
		noTypeParameters, &warnings, &errors)

	return Ok(ast.FunctionDeclaration{
		Name:           name,
		Visibility:     visibility,
		TypeParameters: typeParameters,
		Parameters:     parameters,
		ReturnType:     returnType,
		ReturnTypeSpan: returnSpan,
		Body:           ast.CodeBlock{Span: ctx.Span(block), Text: block.Text},
		Span:           ctx.Span(node),
	}, warnings, errors)
}
