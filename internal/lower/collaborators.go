package lower

import (
	"keel/internal/ast"
	"keel/internal/style"
	"keel/internal/syntax"
)

// Collaborators are the lowerings and predicates Trait and TraitFn depend on.
// Tests swap individual fields; DefaultCollaborators wires the package
// implementations.
type Collaborators struct {
	Ident      func(node *syntax.Node, ctx *BuildContext) Result[ast.Ident]
	Type       func(node *syntax.Node, ctx *BuildContext) Result[ast.TypeInfo]
	Parameters func(nodes []*syntax.Node, ctx *BuildContext) Result[[]ast.FunctionParameter]
	// TypeParameters and FunctionDecl receive the collaborator set in use so
	// nested lowerings see the same substitutions.
	TypeParameters func(typeParams, whereClause *syntax.Node, ctx *BuildContext, collab Collaborators) Result[[]ast.TypeParameter]
	FunctionDecl   func(node *syntax.Node, ctx *BuildContext, collab Collaborators) Result[ast.FunctionDeclaration]

	IsUpperCamelCase func(name string) bool
	IsSnakeCase      func(name string) bool
}

func DefaultCollaborators() Collaborators {
	return Collaborators{
		Ident:            Ident,
		Type:             Type,
		Parameters:       Parameters,
		TypeParameters:   TypeParameters,
		FunctionDecl:     FunctionDecl,
		IsUpperCamelCase: style.IsUpperCamelCase,
		IsSnakeCase:      style.IsSnakeCase,
	}
}
