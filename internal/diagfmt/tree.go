package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"keel/internal/ast"
	"keel/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(label string) *treeNode {
	child := &treeNode{label: label}
	n.children = append(n.children, child)
	return child
}

// FormatModuleTree prints the lowered module as an indented tree.
func FormatModuleTree(w io.Writer, mod *ast.Module, fs *source.FileSet, mode PathMode) error {
	if mod == nil {
		return fmt.Errorf("no module")
	}
	header := mod.Path
	if fs != nil {
		header = displayPath(source.Span{Path: mod.Path}, fs, mode)
	}
	root := &treeNode{label: header}
	for i := range mod.Traits {
		buildTraitNode(root, &mod.Traits[i], fs)
	}
	for i := range mod.Functions {
		buildFnDeclNode(root, &mod.Functions[i], fs)
	}
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	renderChildren(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func renderChildren(sb *strings.Builder, n *treeNode, prefix string) {
	for i, child := range n.children {
		last := i == len(n.children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(child.label)
		sb.WriteByte('\n')
		renderChildren(sb, child, prefix+next)
	}
}

func buildTraitNode(parent *treeNode, t *ast.TraitDeclaration, fs *source.FileSet) {
	label := fmt.Sprintf("Trait %s (%s) [%s]", t.Name.Name, visibilityLabel(t.Visibility), formatSpan(t.Span, fs))
	node := parent.add(label)
	if len(t.TypeParameters) > 0 {
		tps := node.add("TypeParams")
		for _, tp := range t.TypeParameters {
			tps.add(formatTypeParam(tp))
		}
	}
	surface := node.add(fmt.Sprintf("Surface (%d)", len(t.InterfaceSurface)))
	for _, fn := range t.InterfaceSurface {
		surface.add(fmt.Sprintf("fn %s(%s) -> %s [%s]",
			fn.Name.Name, formatParams(fn.Parameters), fn.ReturnType, formatSpan(fn.Name.Span, fs)))
	}
	methods := node.add(fmt.Sprintf("Methods (%d)", len(t.Methods)))
	for i := range t.Methods {
		buildFnDeclNode(methods, &t.Methods[i], fs)
	}
}

// visibilityLabel spells public items the way the source does.
func visibilityLabel(v ast.Visibility) string {
	if v == ast.VisPublic {
		return "pub"
	}
	return "private"
}

func buildFnDeclNode(parent *treeNode, fn *ast.FunctionDeclaration, fs *source.FileSet) {
	vis := ""
	if fn.Visibility == ast.VisPublic {
		vis = "pub "
	}
	node := parent.add(fmt.Sprintf("%sfn %s(%s) -> %s [%s]",
		vis, fn.Name.Name, formatParams(fn.Parameters), fn.ReturnType, formatSpan(fn.Span, fs)))
	for _, tp := range fn.TypeParameters {
		node.add("TypeParam " + formatTypeParam(tp))
	}
	node.add(fmt.Sprintf("Body [%s]", formatSpan(fn.Body.Span, fs)))
}

func formatParams(params []ast.FunctionParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Name.Name == "self" && p.Type.Kind == ast.TypeSelf {
			parts[i] = "self"
			continue
		}
		parts[i] = p.Name.Name + ": " + p.Type.String()
	}
	return strings.Join(parts, ", ")
}

func formatTypeParam(tp ast.TypeParameter) string {
	if len(tp.Constraints) == 0 {
		return tp.Name.Name
	}
	names := make([]string, len(tp.Constraints))
	for i, c := range tp.Constraints {
		names[i] = c.Name
	}
	return tp.Name.Name + ": " + strings.Join(names, " + ")
}
