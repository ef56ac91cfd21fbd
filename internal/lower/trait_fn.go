package lower

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/style"
	"keel/internal/syntax"
)

// TraitFn lowers an interface-only fn_signature node.
//
// Only a name that fails to lower makes the signature fail. A failed
// parameter list becomes empty and a failed return type becomes the
// error-recovery placeholder. Without "->" the return type is () and its
// span is the whole signature.
func TraitFn(node *syntax.Node, ctx *BuildContext, collab Collaborators) Result[ast.TraitFn] {
	expectRule(node, syntax.RuleFnSignature)
	var warnings, errors []diag.Diagnostic
	parts := node.Inner()

	nextChild(parts, syntax.RuleFnKeyword, syntax.RuleFnSignature)
	name, ok := lowerFnName(parts, ctx, collab, &warnings, &errors)
	if !ok {
		return Err[ast.TraitFn](warnings, errors)
	}

	params := nextChild(parts, syntax.RuleFnDeclParams, syntax.RuleFnSignature)
	parameters := CheckOr(collab.Parameters(params.Children, ctx), noParameters, &warnings, &errors)

	returnType, returnSpan := lowerReturnType(parts, node, ctx, collab, &warnings, &errors)

	return Ok(ast.TraitFn{
		Name:           name,
		Parameters:     parameters,
		ReturnType:     returnType,
		ReturnTypeSpan: returnSpan,
	}, warnings, errors)
}

// lowerFnName consumes the name of a signature and checks it is snake_case.
func lowerFnName(parts *syntax.Cursor, ctx *BuildContext, collab Collaborators, warnings, errors *[]diag.Diagnostic) (ast.Ident, bool) {
	nameNode := nextChild(parts, syntax.RuleIdent, syntax.RuleFnSignature)
	name, ok := Check(collab.Ident(nameNode, ctx), warnings, errors)
	if !ok {
		return ast.Ident{}, false
	}
	WarnIf(collab.IsSnakeCase(name.Name), warnings,
		diag.NewWarning(diag.LintNonSnakeCaseFnName, ctx.Span(nameNode),
			fmt.Sprintf("function name %q should be snake_case", name.Name)).
			WithRename(name.Name, style.ToSnakeCase(name.Name)))
	return name, true
}

// lowerReturnType consumes an optional "fn_returns type" pair of sig.
func lowerReturnType(parts *syntax.Cursor, sig *syntax.Node, ctx *BuildContext, collab Collaborators, warnings, errors *[]diag.Diagnostic) (ast.TypeInfo, source.Span) {
	if parts.PeekRule() != syntax.RuleFnReturns {
		return ast.Unit(), ctx.Span(sig)
	}
	parts.Next()
	typeNode := nextChild(parts, syntax.RuleType, syntax.RuleFnSignature)
	ty := CheckOr(collab.Type(typeNode, ctx), ast.ErrorRecovery, warnings, errors)
	return ty, ctx.Span(typeNode)
}
