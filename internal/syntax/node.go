package syntax

import (
	"fmt"
	"strings"

	"keel/internal/source"
)

// Node is one grammar-produced parse tree node. Start/End is the byte range
// of the node in its file and Text is the exact source slice.
// Nodes are immutable once built.
type Node struct {
	Rule     Rule
	Start    uint32
	End      uint32
	Text     string
	Children []*Node
}

// New builds a node, deriving nothing: callers pass the exact range and text.
func New(rule Rule, start, end uint32, text string, children ...*Node) *Node {
	return &Node{Rule: rule, Start: start, End: end, Text: text, Children: children}
}

// Span attributes the node range to path.
func (n *Node) Span(path string) source.Span {
	return source.Span{Path: path, Start: n.Start, End: n.End}
}

// Inner returns a cursor over the direct children.
func (n *Node) Inner() *Cursor {
	return &Cursor{nodes: n.Children}
}

// Child returns the first direct child tagged rule.
func (n *Node) Child(rule Rule) (*Node, bool) {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c, true
		}
	}
	return nil, false
}

// Dump renders the tree in an indented, rule-tagged form for debugging and tests.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%s@%d..%d", n.Rule, n.Start, n.End)
	if len(n.Children) == 0 {
		fmt.Fprintf(sb, " %q", n.Text)
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		c.dump(sb, depth+1)
	}
}

// Cursor walks a node's children in order with one-node lookahead.
type Cursor struct {
	nodes []*Node
	pos   int
}

// Next consumes and returns the next child, or nil when exhausted.
func (c *Cursor) Next() *Node {
	if c.pos >= len(c.nodes) {
		return nil
	}
	n := c.nodes[c.pos]
	c.pos++
	return n
}

// Peek returns the next child without consuming it.
func (c *Cursor) Peek() *Node {
	if c.pos >= len(c.nodes) {
		return nil
	}
	return c.nodes[c.pos]
}

// PeekRule returns the rule of the next child, or RuleInvalid when exhausted.
func (c *Cursor) PeekRule() Rule {
	if n := c.Peek(); n != nil {
		return n.Rule
	}
	return RuleInvalid
}

// Rest returns the remaining children without consuming them.
func (c *Cursor) Rest() []*Node {
	return c.nodes[c.pos:]
}
