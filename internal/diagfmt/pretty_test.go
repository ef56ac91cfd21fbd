package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"keel/internal/diag"
	"keel/internal/source"
)

const prettyPath = "/home/user/project/src/test.kl"

func prettyFixture() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	fs.AddVirtual(prettyPath, []byte("trait foo {}\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	d := diag.NewWarning(diag.LintNonClassCaseTraitName,
		source.Span{Path: prettyPath, Start: 6, End: 9},
		"trait name `foo` should be UpperCamelCase").
		WithNote(source.Span{Path: prettyPath, Start: 0, End: 5}, "declared here").
		WithRename("foo", "Foo")
	bag.Add(d)
	return fs, bag
}

func TestPathModes(t *testing.T) {
	fs, bag := prettyFixture()
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, prettyPath + ":1:7:"},
		{"relative", PathModeRelative, "src/test.kl:1:7:"},
		{"basename", PathModeBasename, "test.kl:1:7:"},
		{"auto keeps short paths", PathModeAuto, prettyPath + ":1:7:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.HasPrefix(buf.String(), tt.contains) {
				t.Fatalf("expected prefix %q, got:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs, bag := prettyFixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	want := "test.kl:1:7: WARNING LNT3101: trait name `foo` should be UpperCamelCase\n" +
		"  1 | trait foo {}\n" +
		"    |       ^~~\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs, bag := prettyFixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true, ShowPreview: true})
	out := buf.String()
	for _, want := range []string{
		"  note: test.kl:1:1: declared here\n",
		"  fix: rename to Foo\n",
		"    - trait foo {}\n",
		"    + trait Foo {}\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCaretWidthCountsWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("w.kl", []byte("trait 名前 {}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.LowReservedIdent, source.Span{Path: "w.kl", Start: 6, End: 12}, "bad"))
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 || lines[2] != "    |       ^~~~" {
		t.Fatalf("unexpected caret line %q", lines[2])
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, 2, 1, false)
	if buf.String() != "2 errors, 1 warning\n" {
		t.Fatalf("unexpected summary %q", buf.String())
	}
	buf.Reset()
	Summary(&buf, 0, 0, false)
	if buf.Len() != 0 {
		t.Fatalf("expected no summary, got %q", buf.String())
	}
}

func TestStalePreviewIsSkipped(t *testing.T) {
	fs, _ := prettyFixture()
	edit := diag.FixEdit{Span: source.Span{Path: prettyPath, Start: 6, End: 9}, NewText: "Foo", OldText: "bar"}
	if _, err := buildFixEditPreview(fs, edit); err == nil {
		t.Fatal("expected a stale edit error")
	}
}
