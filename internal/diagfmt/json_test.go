package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"keel/internal/diag"
	"keel/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs, bag := prettyFixture()
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", output)
	}
	d := output.Diagnostics[0]
	if d.Severity != "WARNING" || d.Code != "LNT3101" {
		t.Fatalf("unexpected header %+v", d)
	}
	want := LocationJSON{File: "test.kl", StartByte: 6, EndByte: 9, StartLine: 1, StartCol: 7, EndLine: 1, EndCol: 10}
	if d.Location != want {
		t.Fatalf("location = %+v, want %+v", d.Location, want)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "declared here" {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("unexpected fixes %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != "Foo" || edit.OldText != "foo" || len(edit.AfterLines) != 1 || edit.AfterLines[0] != "trait Foo {}" {
		t.Fatalf("unexpected edit %+v", edit)
	}
}

func TestJSONMaxAndOmissions(t *testing.T) {
	fs, bag := prettyFixture()
	bag.Add(diag.NewError(diag.LowEmptyIdent, source.Span{Path: prettyPath, Start: 0, End: 0}, "second"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("expected truncation to 1, got %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Notes != nil || d.Fixes != nil || d.Location.StartLine != 0 {
		t.Fatalf("notes, fixes and positions should be omitted: %+v", d)
	}
	if bag.Len() != 2 {
		t.Fatal("Max must not truncate the bag")
	}
	if out.Omitted != 1 {
		t.Fatalf("expected 1 omitted diagnostic, got %d", out.Omitted)
	}

	bag.RecordOmitted(diag.Omission{Code: diag.LintNonSnakeCaseFnName, Severity: diag.SevWarning, Count: 3})
	if out := BuildDiagnosticsOutput(bag, fs, JSONOpts{}); out.Count != 2 || out.Omitted != 3 {
		t.Fatalf("expected bag omissions in the output, got count=%d omitted=%d", out.Count, out.Omitted)
	}
}
