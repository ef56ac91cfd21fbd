package lower

import (
	"fmt"

	"keel/internal/syntax"
)

// InvariantViolation is raised with panic when a syntax tree has a shape the
// grammar never produces. It marks a defect in the grammar/lowering contract
// and is never turned into a diagnostic.
type InvariantViolation struct {
	// Rule is the offending node's rule, or RuleInvalid when a child is missing.
	Rule    syntax.Rule
	Context string
}

func (v *InvariantViolation) Error() string {
	if v.Rule == syntax.RuleInvalid {
		return "lowering invariant violated: " + v.Context
	}
	return fmt.Sprintf("lowering invariant violated: unexpected %s in %s", v.Rule, v.Context)
}

func unreachable(rule syntax.Rule, context string) {
	panic(&InvariantViolation{Rule: rule, Context: context})
}

// expectRule panics unless n is tagged rule.
func expectRule(n *syntax.Node, rule syntax.Rule) {
	if n == nil {
		unreachable(syntax.RuleInvalid, "expected "+rule.String()+", got nothing")
		return
	}
	if n.Rule != rule {
		unreachable(n.Rule, "position of "+rule.String())
	}
}

// nextChild consumes the next child of parent and panics unless it is
// tagged rule.
func nextChild(parts *syntax.Cursor, rule, parent syntax.Rule) *syntax.Node {
	n := parts.Next()
	if n == nil {
		unreachable(syntax.RuleInvalid, parent.String()+" has no "+rule.String())
	}
	if n.Rule != rule {
		unreachable(n.Rule, parent.String()+" (expected "+rule.String()+")")
	}
	return n
}
