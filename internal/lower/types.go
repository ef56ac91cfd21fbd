package lower

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/syntax"
)

var builtinTypes = map[string]ast.TypeInfo{
	"bool": ast.Boolean(),
	"u8":   ast.UnsignedInteger(ast.Bits8),
	"u16":  ast.UnsignedInteger(ast.Bits16),
	"u32":  ast.UnsignedInteger(ast.Bits32),
	"u64":  ast.UnsignedInteger(ast.Bits64),
	"byte": ast.Byte(),
	"b256": ast.B256(),
	"str":  ast.Str(),
	"Self": ast.SelfType(),
}

// Type lowers a type node. Nested failures fail the whole type; every
// nested diagnostic is still reported.
func Type(node *syntax.Node, ctx *BuildContext) Result[ast.TypeInfo] {
	expectRule(node, syntax.RuleType)
	if len(node.Children) == 0 {
		unreachable(syntax.RuleInvalid, "type has no children")
	}
	var warnings, errors []diag.Diagnostic

	inner := node.Children[0]
	switch inner.Rule {
	case syntax.RuleTupleType:
		elems, ok := lowerTypeList(inner.Children, ctx, &warnings, &errors)
		if !ok {
			return Err[ast.TypeInfo](warnings, errors)
		}
		return Ok(ast.Tuple(elems...), warnings, errors)

	case syntax.RuleArrayType:
		parts := inner.Inner()
		elem, elemOK := Check(Type(nextChild(parts, syntax.RuleType, syntax.RuleArrayType), ctx), &warnings, &errors)
		lenNode := nextChild(parts, syntax.RuleIntLit, syntax.RuleArrayType)
		n, err := parseArrayLength(lenNode.Text)
		if err != nil {
			errors = append(errors, diag.NewError(diag.LowArrayLength, ctx.Span(lenNode),
				fmt.Sprintf("array length %s does not fit in u32", lenNode.Text)))
			return Err[ast.TypeInfo](warnings, errors)
		}
		if !elemOK {
			return Err[ast.TypeInfo](warnings, errors)
		}
		return Ok(ast.Array(elem, n), warnings, errors)

	case syntax.RuleIdent:
		name := strings.TrimSpace(inner.Text)
		var args []*syntax.Node
		if len(node.Children) > 1 {
			expectRule(node.Children[1], syntax.RuleTypeArgs)
			args = node.Children[1].Children
		}

		if name == "self" {
			errors = append(errors, diag.NewError(diag.LowSelfAsType, ctx.Span(inner),
				"'self' is a value; use 'Self' for the implementing type"))
			return Err[ast.TypeInfo](warnings, errors)
		}
		if builtin, ok := builtinTypes[name]; ok {
			if len(args) > 0 {
				errors = append(errors, diag.NewError(diag.LowBuiltinTypeArgs, ctx.Span(node.Children[1]),
					fmt.Sprintf("builtin type %s takes no type arguments", name)))
				return Err[ast.TypeInfo](warnings, errors)
			}
			return Ok(builtin, warnings, errors)
		}

		ident, identOK := Check(Ident(inner, ctx), &warnings, &errors)
		typeArgs, argsOK := lowerTypeList(args, ctx, &warnings, &errors)
		if !identOK || !argsOK {
			return Err[ast.TypeInfo](warnings, errors)
		}
		return Ok(ast.Custom(ident.Name, typeArgs...), warnings, errors)

	default:
		unreachable(inner.Rule, "type")
		return Err[ast.TypeInfo](warnings, errors)
	}
}

// lowerTypeList lowers every node, reporting all failures before giving up.
func lowerTypeList(nodes []*syntax.Node, ctx *BuildContext, warnings, errors *[]diag.Diagnostic) ([]ast.TypeInfo, bool) {
	out := make([]ast.TypeInfo, 0, len(nodes))
	allOK := true
	for _, n := range nodes {
		ty, ok := Check(Type(n, ctx), warnings, errors)
		if !ok {
			allOK = false
			continue
		}
		out = append(out, ty)
	}
	return out, allOK
}

func parseArrayLength(text string) (uint32, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(text), "_", "")
	base := 10
	if rest, ok := strings.CutPrefix(digits, "0x"); ok {
		digits, base = rest, 16
	} else if rest, ok := strings.CutPrefix(digits, "0X"); ok {
		digits, base = rest, 16
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](v)
}
