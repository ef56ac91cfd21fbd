package lower

import (
	"fmt"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/source"
	"keel/internal/syntax"
)

// File lowers a whole file node. Items that fail are skipped; a trait whose
// name repeats an earlier one is reported and still kept.
func File(node *syntax.Node, ctx *BuildContext, collab Collaborators) Result[ast.Module] {
	expectRule(node, syntax.RuleFile)
	var warnings, errors []diag.Diagnostic
	mod := ast.Module{Path: ctx.FilePath()}
	traits := make(map[string]source.Span)

	for _, item := range node.Children {
		switch item.Rule {
		case syntax.RuleTraitDecl:
			decl, ok := Check(Trait(item, ctx, collab), &warnings, &errors)
			if !ok {
				continue
			}
			if prev, dup := traits[decl.Name.Name]; dup {
				errors = append(errors, diag.NewError(diag.LowDuplicateTrait, decl.Name.Span,
					fmt.Sprintf("trait %q is declared more than once", decl.Name.Name)).
					WithNote(prev, "first declared here"))
			} else {
				traits[decl.Name.Name] = decl.Name.Span
			}
			mod.Traits = append(mod.Traits, decl)
		case syntax.RuleFnDecl:
			fn, ok := Check(collab.FunctionDecl(item, ctx, collab), &warnings, &errors)
			if !ok {
				continue
			}
			mod.Functions = append(mod.Functions, fn)
		default:
			unreachable(item.Rule, "file")
		}
	}
	return Ok(mod, warnings, errors)
}
