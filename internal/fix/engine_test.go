package fix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"keel/internal/diag"
	"keel/internal/driver"
	"keel/internal/source"
)

const lintSource = "trait my_trait { fn getValue(); }\n"

func lowerTemp(t *testing.T, content string) (string, *source.FileSet, []diag.Diagnostic) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.kl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, res, err := driver.LowerFile(context.Background(), path, driver.Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatal(err)
	}
	return path, fs, res.Bag.Items()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestApplyAllRenames(t *testing.T) {
	path, fs, diags := lowerTemp(t, lintSource)
	res, err := Apply(fs, diags, Options{Mode: ModeAll})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Changes) != 1 || res.Changes[0].Edits != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got, want := readFile(t, path), "trait MyTrait { fn get_value(); }\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyOnceTakesFirstFix(t *testing.T) {
	path, fs, diags := lowerTemp(t, lintSource)
	res, err := Apply(fs, diags, Options{Mode: ModeOnce})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Code != diag.LintNonClassCaseTraitName {
		t.Fatalf("unexpected result %+v", res.Applied)
	}
	if got, want := readFile(t, path), "trait MyTrait { fn getValue(); }\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyCodeFilterAndDryRun(t *testing.T) {
	path, fs, diags := lowerTemp(t, lintSource)
	res, err := Apply(fs, diags, Options{Mode: ModeAll, Codes: []diag.Code{diag.LintNonSnakeCaseFnName}, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(res.Changes[0].Content), "trait my_trait { fn get_value(); }\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if readFile(t, path) != lintSource {
		t.Fatalf("dry run modified the file")
	}
}

func TestApplyNoFixes(t *testing.T) {
	_, fs, diags := lowerTemp(t, "trait A { fn f(); }\n")
	if _, err := Apply(fs, diags, Options{Mode: ModeAll}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplySkipsConflictsAndStaleText(t *testing.T) {
	path, fs, _ := lowerTemp(t, lintSource)
	span := func(start, end uint32) source.Span { return source.NewSpan(path, start, end) }
	diags := []diag.Diagnostic{
		diag.NewWarning(diag.LintNonClassCaseTraitName, span(6, 14), "a").WithRename("my_trait", "MyTrait"),
		diag.NewWarning(diag.LintNonClassCaseTraitName, span(9, 14), "b").WithRename("trait", "Trait"),
		diag.NewWarning(diag.LintNonSnakeCaseFnName, span(20, 28), "c").WithRename("getvalue", "get_value"),
	}
	res, err := Apply(fs, diags, Options{Mode: ModeAll, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Skipped[0].Reason != "conflicts with a previously applied fix" {
		t.Fatalf("unexpected reason %q", res.Skipped[0].Reason)
	}
	if res.Skipped[1].Reason != "existing text does not match expected content" {
		t.Fatalf("unexpected reason %q", res.Skipped[1].Reason)
	}
}

func TestApplySkipsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("mem.kl", []byte("trait a {}"))
	d := diag.NewWarning(diag.LintNonClassCaseTraitName, source.NewSpan("mem.kl", 6, 7), "a").WithRename("a", "A")
	res, err := Apply(fs, []diag.Diagnostic{d}, Options{Mode: ModeAll})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected result %+v (%v)", res, err)
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b source.Span
		want bool
	}{
		{source.NewSpan("", 0, 3), source.NewSpan("", 3, 5), false},
		{source.NewSpan("", 0, 4), source.NewSpan("", 3, 5), true},
		{source.NewSpan("", 2, 2), source.NewSpan("", 2, 2), false},
		{source.NewSpan("", 2, 2), source.NewSpan("", 1, 4), true},
		{source.NewSpan("", 4, 4), source.NewSpan("", 1, 4), false},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Fatalf("spansConflict(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
