package lower_test

import (
	"errors"
	"strings"
	"testing"

	"keel/internal/diag"
	"keel/internal/grammar"
	"keel/internal/lower"
	"keel/internal/source"
	"keel/internal/syntax"
)

const testPath = "test.kl"

func testCtx() *lower.BuildContext {
	return &lower.BuildContext{Path: testPath}
}

func parseFile(t *testing.T, src string) *syntax.Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(testPath, []byte(src))
	bag := diag.NewBag(0)
	root := grammar.ParseFile(fs.Get(id), grammar.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("syntax errors in %q: %v", src, bag.Items())
	}
	return root
}

func parseTrait(t *testing.T, src string) *syntax.Node {
	t.Helper()
	root := parseFile(t, src)
	if len(root.Children) != 1 || root.Children[0].Rule != syntax.RuleTraitDecl {
		t.Fatalf("expected a single trait in %q, got:\n%s", src, root.Dump())
	}
	return root.Children[0]
}

// parseSignature parses an interface signature given without the trailing ';'.
func parseSignature(t *testing.T, sig string) *syntax.Node {
	t.Helper()
	trait := parseTrait(t, "trait W { "+sig+"; }")
	body := trait.Children[len(trait.Children)-1]
	return body.Children[0]
}

func parseType(t *testing.T, ty string) *syntax.Node {
	t.Helper()
	sig := parseSignature(t, "fn f() -> "+ty)
	return sig.Children[len(sig.Children)-1]
}

// spanOf returns the span of the first occurrence of sub in src.
func spanOf(t *testing.T, src, sub string) source.Span {
	t.Helper()
	i := strings.Index(src, sub)
	if i < 0 {
		t.Fatalf("%q not found in %q", sub, src)
	}
	return source.Span{Path: testPath, Start: uint32(i), End: uint32(i + len(sub))}
}

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func expectCodes(t *testing.T, what string, ds []diag.Diagnostic, want ...diag.Code) {
	t.Helper()
	got := codes(ds)
	if len(got) != len(want) {
		t.Fatalf("%s: expected codes %v, got %v (%v)", what, want, got, ds)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: code %d: expected %s, got %s", what, i, want[i].ID(), got[i].ID())
		}
	}
}

func expectInvariant(t *testing.T, fn func()) *lower.InvariantViolation {
	t.Helper()
	var violation *lower.InvariantViolation
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok || !errors.As(err, &violation) {
				panic(r)
			}
		}()
		fn()
	}()
	if violation == nil {
		t.Fatal("expected an invariant violation")
	}
	return violation
}

// node builds a hand-made syntax node for shapes the grammar never produces.
func node(rule syntax.Rule, text string, children ...*syntax.Node) *syntax.Node {
	return syntax.New(rule, 0, uint32(len(text)), text, children...)
}
