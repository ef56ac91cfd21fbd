package lower_test

import (
	"testing"

	"keel/internal/diag"
	"keel/internal/lower"
	"keel/internal/syntax"
)

func TestFile(t *testing.T) {
	src := "pub trait Shape { fn area(self) -> u64; fn name(self) -> str { x } }\n" +
		"fn helper() {}\n" +
		"trait Other {}\n"
	res := lower.File(parseFile(t, src), testCtx(), lower.DefaultCollaborators())
	if !res.OK || len(res.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v %v", res.Warnings, res.Errors)
	}
	mod := res.Value
	if mod.Path != testPath || len(mod.Traits) != 2 || len(mod.Functions) != 1 {
		t.Fatalf("unexpected module %+v", mod)
	}
	shape, ok := mod.Trait("Shape")
	if !ok || len(shape.InterfaceSurface) != 1 || len(shape.Methods) != 1 {
		t.Fatalf("unexpected Shape %+v", shape)
	}
	if shape.Span != spanOf(t, src, "pub trait Shape { fn area(self) -> u64; fn name(self) -> str { x } }") {
		t.Fatalf("unexpected trait span %s", shape.Span)
	}
}

func TestFileDuplicateTraitIsKept(t *testing.T) {
	src := "trait A {}\ntrait B {}\ntrait A { fn f(); }"
	res := lower.File(parseFile(t, src), testCtx(), lower.DefaultCollaborators())
	if !res.OK {
		t.Fatal("file lowering never fails")
	}
	if len(res.Value.Traits) != 3 {
		t.Fatalf("expected every trait to be kept, got %d", len(res.Value.Traits))
	}
	expectCodes(t, "errors", res.Errors, diag.LowDuplicateTrait)
	d := res.Errors[0]
	if d.Primary.Start != uint32(len("trait A {}\ntrait B {}\ntrait ")) || len(d.Notes) != 1 {
		t.Fatalf("expected the later declaration with a note, got %+v", d)
	}
}

func TestFileSkipsFailedItems(t *testing.T) {
	src := "trait self {}\nfn true() {}\ntrait Ok {}\nfn fine() {}"
	res := lower.File(parseFile(t, src), testCtx(), lower.DefaultCollaborators())
	if len(res.Value.Traits) != 1 || len(res.Value.Functions) != 1 {
		t.Fatalf("unexpected module %+v", res.Value)
	}
	expectCodes(t, "errors", res.Errors, diag.LowReservedIdent, diag.LowReservedIdent)
}

func TestFileUnexpectedItemIsInvariantViolation(t *testing.T) {
	file := node(syntax.RuleFile, "x", node(syntax.RuleIdent, "x"))
	expectInvariant(t, func() {
		lower.File(file, nil, lower.DefaultCollaborators())
	})
}
