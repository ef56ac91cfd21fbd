package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"keel/internal/diagfmt"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	stopProfiling()
	runTraceCleanup()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func exitCode(err error) int {
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if err != nil {
		return -1
	}
	return 0
}

const warningSource = "trait Foo { fn bar(x: u64) -> bool; fn Baz(); }\n"

func TestLowerWarningsOnly(t *testing.T) {
	path := writeSource(t, t.TempDir(), "foo.kl", warningSource)
	stdout, stderr, err := execute(t, "lower", path)
	if err != nil {
		t.Fatalf("unexpected error %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "WARNING LNT3102") || !strings.Contains(stdout, "fix: rename to baz") {
		t.Fatalf("unexpected stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "1 warning") {
		t.Fatalf("missing summary in stderr:\n%s", stderr)
	}
}

func TestLowerExitCodes(t *testing.T) {
	dir := t.TempDir()
	warn := writeSource(t, dir, "warn.kl", warningSource)
	bad := writeSource(t, dir, "bad.kl", "trait A { fn f(a: u8, a: u8); }\n")

	if _, _, err := execute(t, "lower", "--deny-warnings", warn); exitCode(err) != 1 {
		t.Fatalf("--deny-warnings: expected exit 1, got %v", err)
	}
	if _, _, err := execute(t, "lower", bad); exitCode(err) != 1 {
		t.Fatalf("errors: expected exit 1, got %v", err)
	}
	if _, _, err := execute(t, "lower", filepath.Join(dir, "missing.kl")); exitCode(err) != -1 {
		t.Fatalf("missing input: expected a plain error, got %v", err)
	}
}

func TestLowerJSON(t *testing.T) {
	path := writeSource(t, t.TempDir(), "foo.kl", warningSource)
	stdout, _, err := execute(t, "lower", "--format", "json", "--quiet", path)
	if err != nil {
		t.Fatal(err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "LNT3102" || out.Diagnostics[0].Location.StartLine != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestLowerConfigAllow(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "keel.toml", "[diagnostics]\nallow = [\"LNT3102\"]\n")
	path := writeSource(t, dir, "foo.kl", warningSource)
	stdout, stderr, err := execute(t, "lower", "--deny-warnings", path)
	if err != nil || stdout != "" || stderr != "" {
		t.Fatalf("expected a silent success, got err=%v stdout=%q stderr=%q", err, stdout, stderr)
	}
}

func TestLowerInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "keel.toml", "[diagnostics]\nformat = \"xml\"\n")
	path := writeSource(t, dir, "foo.kl", warningSource)
	_, stderr, err := execute(t, "lower", path)
	if exitCode(err) != 2 || !strings.Contains(stderr, "PRJ5001") {
		t.Fatalf("expected PRJ5001 and exit 2, got %v\n%s", err, stderr)
	}
}

func TestLowerDirectoryTree(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.kl", "trait A { fn a(); }\n")
	writeSource(t, dir, "b.kl", "trait B {}\n")
	stdout, _, err := execute(t, "lower", "--format", "tree", "--jobs", "2", "--timings", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Trait A (private)") || !strings.Contains(stdout, "Trait B (private)") {
		t.Fatalf("unexpected tree:\n%s", stdout)
	}
	if strings.Index(stdout, "Trait A") > strings.Index(stdout, "Trait B") {
		t.Fatalf("files out of order:\n%s", stdout)
	}
}

func TestLowerTraceOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "foo.kl", warningSource)
	tracePath := filepath.Join(dir, "trace.ndjson")
	if _, _, err := execute(t, "lower", "--trace", tracePath, "--trace-level", "detail", "--format", "none", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name":"parse"`) {
		t.Fatalf("expected ndjson parse events, got:\n%s", data)
	}
}

func TestTokenizeJSON(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.kl", "trait A {}")
	stdout, _, err := execute(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	var toks []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(stdout), &toks); err != nil || len(toks) != 5 {
		t.Fatalf("unexpected tokens (%v):\n%s", err, stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil || payload.Tool != "keel" {
		t.Fatalf("unexpected payload %q (%v)", stdout, err)
	}
}

func TestFixCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "foo.kl", warningSource)

	stdout, _, err := execute(t, "fix", "--dry-run", "--all", path)
	if err != nil || !strings.Contains(stdout, "Would apply 1 fix(es)") {
		t.Fatalf("unexpected dry run (%v):\n%s", err, stdout)
	}
	if data, _ := os.ReadFile(path); string(data) != warningSource {
		t.Fatalf("dry run modified the file: %q", data)
	}

	if _, _, err := execute(t, "fix", "--code", "LNT3102", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "trait Foo { fn bar(x: u64) -> bool; fn baz(); }\n"; string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}

	stdout, _, err = execute(t, "fix", path)
	if err != nil || !strings.Contains(stdout, "No applicable fixes found.") {
		t.Fatalf("expected no fixes (%v):\n%s", err, stdout)
	}
}

func TestFixUnknownCode(t *testing.T) {
	path := writeSource(t, t.TempDir(), "foo.kl", warningSource)
	_, _, err := execute(t, "fix", "--code", "NOPE", path)
	if err == nil || !strings.Contains(err.Error(), `unknown diagnostic code "NOPE"`) {
		t.Fatalf("expected an unknown code error, got %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != warningSource {
		t.Fatalf("file modified despite the bad flag: %q", data)
	}
}

func TestFixHonoursConfig(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "keel.toml", "[diagnostics]\nallow = [\"LNT3102\"]\n")
	path := writeSource(t, dir, "foo.kl", warningSource)
	stdout, _, err := execute(t, "fix", "--all", path)
	if err != nil || !strings.Contains(stdout, "No applicable fixes found.") {
		t.Fatalf("allowed diagnostics must not be fixed (%v):\n%s", err, stdout)
	}
	if data, _ := os.ReadFile(path); string(data) != warningSource {
		t.Fatalf("file modified: %q", data)
	}

	writeSource(t, dir, "keel.toml", "[diagnostics]\nformat = \"xml\"\n")
	if _, stderr, err := execute(t, "fix", path); exitCode(err) != 2 || !strings.Contains(stderr, "PRJ5001") {
		t.Fatalf("expected PRJ5001 and exit 2, got %v\n%s", err, stderr)
	}
}

func TestFixMaxDiagnosticsFlag(t *testing.T) {
	src := "trait Foo { fn A(); fn B(); fn C(); }\n"
	path := writeSource(t, t.TempDir(), "foo.kl", src)
	stdout, _, err := execute(t, "fix", "--all", "--dry-run", "--max-diagnostics", "2", path)
	if err != nil || !strings.Contains(stdout, "Would apply 2 fix(es)") {
		t.Fatalf("expected the limit to cap fixes (%v):\n%s", err, stdout)
	}
}

func TestLowerWarningFloodKeepsErrors(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("trait T { fn self();")
	for i := range 105 {
		fmt.Fprintf(&sb, " fn Bad%d();", i)
	}
	sb.WriteString(" }\n")
	path := writeSource(t, t.TempDir(), "flood.kl", sb.String())

	_, stderr, err := execute(t, "lower", "--format", "none", path)
	if exitCode(err) != 1 {
		t.Fatalf("expected exit 1 for the reserved name, got %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "6 diagnostic(s) omitted (limit 100 per file)") || !strings.Contains(stderr, "105 warnings") {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
}

func TestLowerShortFormat(t *testing.T) {
	path := writeSource(t, t.TempDir(), "foo.kl", warningSource)
	stdout, _, err := execute(t, "lower", "--format", "short", "--quiet", path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "warning LNT3102 ") || !strings.Contains(lines[0], "foo.kl:1:40 ") {
		t.Fatalf("unexpected short output:\n%s", stdout)
	}
}

func TestLowerCacheAndClear(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	path := writeSource(t, t.TempDir(), "foo.kl", warningSource)

	for i := 0; i < 2; i++ {
		stdout, _, err := execute(t, "lower", "--cache", "--format", "short", path)
		if err != nil || !strings.Contains(stdout, "LNT3102") {
			t.Fatalf("run %d: unexpected result (%v):\n%s", i, err, stdout)
		}
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, "keel", "lower"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache entry, got %d (%v)", len(entries), err)
	}

	stdout, _, err := execute(t, "cache", "clear")
	if err != nil || !strings.Contains(stdout, filepath.Join(cacheHome, "keel")) {
		t.Fatalf("unexpected clear output (%v): %s", err, stdout)
	}
	if entries, _ := os.ReadDir(filepath.Join(cacheHome, "keel", "lower")); len(entries) != 0 {
		t.Fatalf("cache not cleared: %d entries", len(entries))
	}
}
