package syntax

import "testing"

func TestCursorPeekAndNext(t *testing.T) {
	a := New(RuleIdent, 0, 1, "a")
	b := New(RuleIdent, 2, 3, "b")
	parent := New(RuleFnDeclParams, 0, 3, "a b", a, b)

	cur := parent.Inner()
	if cur.PeekRule() != RuleIdent || cur.Peek() != a {
		t.Fatal("peek must return the first child")
	}
	if cur.Next() != a || cur.Next() != b {
		t.Fatal("next must walk children in order")
	}
	if cur.Next() != nil || cur.PeekRule() != RuleInvalid {
		t.Fatal("exhausted cursor must report nothing")
	}
}

func TestNodeSpanAndChild(t *testing.T) {
	kw := New(RuleFnKeyword, 4, 6, "fn")
	n := New(RuleFnSignature, 4, 12, "fn foo()", kw)
	sp := n.Span("x.kl")
	if sp.Path != "x.kl" || sp.Start != 4 || sp.End != 12 {
		t.Fatalf("unexpected span %v", sp)
	}
	if c, ok := n.Child(RuleFnKeyword); !ok || c != kw {
		t.Fatal("expected keyword child")
	}
	if _, ok := n.Child(RuleCodeBlock); ok {
		t.Fatal("unexpected code block child")
	}
}

func TestDump(t *testing.T) {
	n := New(RuleTraitDecl, 0, 9, "trait Foo", New(RuleTraitKeyword, 0, 5, "trait"), New(RuleIdent, 6, 9, "Foo"))
	want := "trait_decl@0..9\n  trait_keyword@0..5 \"trait\"\n  ident@6..9 \"Foo\"\n"
	if got := n.Dump(); got != want {
		t.Fatalf("unexpected dump:\n%s", got)
	}
}
