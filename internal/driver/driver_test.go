package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/lower"
	"keel/internal/syntax"
	"keel/internal/trace"
)

const fooSource = "trait Foo { fn bar(x: u64) -> bool; fn Baz(); }\n"

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLowerSourceFooTrait(t *testing.T) {
	_, res := LowerSource(context.Background(), "foo.kl", []byte(fooSource), Options{})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if got := codes(res.Bag); len(got) != 1 || got[0] != "LNT3102" {
		t.Fatalf("expected one snake case warning, got %v", got)
	}
	foo, ok := res.Module.Trait("Foo")
	if !ok || len(foo.InterfaceSurface) != 2 {
		t.Fatalf("unexpected module %+v", res.Module)
	}
	if !foo.InterfaceSurface[1].ReturnType.Equal(ast.Unit()) {
		t.Fatalf("Baz should return unit, got %s", foo.InterfaceSurface[1].ReturnType)
	}
	if res.Bag.Items()[0].Primary.Path != "foo.kl" {
		t.Fatalf("diagnostic lost its path: %+v", res.Bag.Items()[0].Primary)
	}
}

func TestSyntaxAndLoweringDiagnosticsShareTheBag(t *testing.T) {
	src := "trait A { fn f(self: u8, self); }\nfn;\n"
	_, res := LowerSource(context.Background(), "a.kl", []byte(src), Options{})
	got := strings.Join(codes(res.Bag), ",")
	if !strings.Contains(got, "SYN") || !strings.Contains(got, "LOW3") {
		t.Fatalf("expected both syntax and lowering diagnostics, got %s", got)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected errors")
	}
}

func TestMaxDiagnosticsCapsTheBag(t *testing.T) {
	src := "trait trait trait trait trait\n"
	_, res := LowerSource(context.Background(), "a.kl", []byte(src), Options{MaxDiagnostics: 1})
	if res.Bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", codes(res.Bag))
	}
}

func warningFloodSource(n int) string {
	var sb strings.Builder
	sb.WriteString("trait T { fn self();")
	for i := range n {
		fmt.Fprintf(&sb, " fn Bad%d();", i)
	}
	sb.WriteString(" }\n")
	return sb.String()
}

func TestWarningFloodKeepsErrors(t *testing.T) {
	_, res := LowerSource(context.Background(), "a.kl", []byte(warningFloodSource(105)), Options{MaxDiagnostics: 100})
	if res.Bag.Len() != 100 {
		t.Fatalf("expected the bag to stay at its limit, got %d", res.Bag.Len())
	}
	if res.Bag.Count(diag.SevError) != 1 || !res.Bag.HasErrors() {
		t.Fatalf("the reserved name error was dropped: %v", codes(res.Bag))
	}
	if got := res.Bag.Total(diag.SevWarning); got != 105 {
		t.Fatalf("expected 105 warnings in total, got %d", got)
	}
	if got := res.Bag.OmittedTotal(); got != 6 {
		t.Fatalf("expected 6 omitted diagnostics, got %d", got)
	}
}

func TestCachedRunKeepsOmissions(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{MaxDiagnostics: 10, Cache: cache}
	src := []byte(warningFloodSource(20))
	_, first := LowerSource(context.Background(), "a.kl", src, opts)
	_, second := LowerSource(context.Background(), "a.kl", src, opts)
	if !second.Cached {
		t.Fatal("second run should hit the cache")
	}
	if second.Bag.OmittedTotal() != first.Bag.OmittedTotal() || second.Bag.Total(diag.SevWarning) != 20 {
		t.Fatalf("omissions lost in the cache: %+v vs %+v", second.Bag.Omissions(), first.Bag.Omissions())
	}
}

func TestCustomCollaboratorsBypassCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, plain := LowerSource(context.Background(), "foo.kl", []byte(fooSource), Options{Cache: cache})
	if plain.Cached || plain.Bag.Len() != 1 {
		t.Fatalf("unexpected first run: cached=%v %v", plain.Cached, codes(plain.Bag))
	}
	collab := lower.DefaultCollaborators()
	collab.IsSnakeCase = func(string) bool { return true }
	_, custom := LowerSource(context.Background(), "foo.kl", []byte(fooSource), Options{Cache: cache, Collaborators: &collab})
	if custom.Cached {
		t.Fatal("substituted collaborators must not read the cache")
	}
	if custom.Bag.Len() != 0 {
		t.Fatalf("expected the lenient predicate to silence the warning, got %v", codes(custom.Bag))
	}
}

func TestInvariantViolationBecomesError(t *testing.T) {
	collab := lower.DefaultCollaborators()
	collab.Ident = func(n *syntax.Node, _ *lower.BuildContext) lower.Result[ast.Ident] {
		panic(&lower.InvariantViolation{Rule: n.Rule, Context: "test"})
	}
	_, res := LowerSource(context.Background(), "a.kl", []byte(fooSource), Options{Collaborators: &collab})
	if !errors.Is(res.Err, ErrGrammarContract) {
		t.Fatalf("expected ErrGrammarContract, got %v", res.Err)
	}
	var v *lower.InvariantViolation
	if !errors.As(res.Err, &v) || v.Context != "test" {
		t.Fatalf("violation not wrapped: %v", res.Err)
	}
	if res.Module != nil {
		t.Fatal("no module expected after a violation")
	}
}

func TestOtherPanicsPropagate(t *testing.T) {
	collab := lower.DefaultCollaborators()
	collab.Ident = func(*syntax.Node, *lower.BuildContext) lower.Result[ast.Ident] {
		panic("boom")
	}
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected the original panic, got %v", r)
		}
	}()
	LowerSource(context.Background(), "a.kl", []byte(fooSource), Options{Collaborators: &collab})
}

func TestLowerFileMissing(t *testing.T) {
	_, _, err := LowerFile(context.Background(), filepath.Join(t.TempDir(), "none.kl"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLowerFileTimings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.kl", fooSource)
	_, res, err := LowerFile(context.Background(), path, Options{Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Timing == nil || len(res.Timing.Passes) != 3 {
		t.Fatalf("expected load, parse and lower timings, got %+v", res.Timing)
	}
	if res.Timing.Passes[0].Name != "load" || res.Timing.Passes[2].Name != "lower" {
		t.Fatalf("unexpected pass order %+v", res.Timing.Passes)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func TestLowerDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.kl", "trait B { fn b(); }\n")
	writeFile(t, dir, "a.kl", fooSource)
	writeFile(t, dir, "nested/c.kl", "trait c {}\n")
	writeFile(t, dir, "notes.txt", "trait Ignored {}\n")

	sink := &recordingSink{}
	fs, results, err := LowerDir(context.Background(), dir, Options{Jobs: 2, Progress: sink, Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	var names []string
	for _, r := range results {
		if r.Err != nil || r.Module == nil {
			t.Fatalf("%s: unexpected failure %v", r.Path, r.Err)
		}
		names = append(names, filepath.Base(r.Path))
	}
	if strings.Join(names, ",") != "a.kl,b.kl,c.kl" {
		t.Fatalf("results not in path order: %v", names)
	}
	if got := codes(results[2].Bag); len(got) != 1 || got[0] != "LNT3101" {
		t.Fatalf("expected the trait name warning, got %v", got)
	}
	if _, ok := fs.GetByPath(results[0].Path); !ok {
		t.Fatalf("file %s missing from the file set", results[0].Path)
	}
	done := 0
	for _, e := range sink.events {
		if e.Status == StatusDone {
			done++
		}
	}
	if done != 3 {
		t.Fatalf("expected 3 done events, got %d", done)
	}
	if total := RunTimings(results); len(total.Passes) != 3 {
		t.Fatalf("unexpected run timings %+v", total)
	}
}

func TestLowerDirEmpty(t *testing.T) {
	_, results, err := LowerDir(context.Background(), t.TempDir(), Options{})
	if err != nil || results != nil {
		t.Fatalf("expected no results, got %v %v", results, err)
	}
}

func TestLowerDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.kl", fooSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := LowerDir(ctx, dir, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}
	_, first := LowerSource(context.Background(), "foo.kl", []byte(fooSource), opts)
	if first.Cached {
		t.Fatal("first run cannot be cached")
	}
	_, second := LowerSource(context.Background(), "foo.kl", []byte(fooSource), opts)
	if !second.Cached {
		t.Fatal("second run should hit the cache")
	}
	if foo, ok := second.Module.Trait("Foo"); !ok || len(foo.InterfaceSurface) != 2 {
		t.Fatalf("cached module differs: %+v", second.Module)
	}
	if strings.Join(codes(second.Bag), ",") != strings.Join(codes(first.Bag), ",") {
		t.Fatalf("cached diagnostics differ: %v vs %v", codes(second.Bag), codes(first.Bag))
	}

	_, changed := LowerSource(context.Background(), "foo.kl", []byte("trait Foo {}\n"), opts)
	if changed.Cached {
		t.Fatal("changed content must miss the cache")
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	_, dropped := LowerSource(context.Background(), "foo.kl", []byte(fooSource), opts)
	if dropped.Cached {
		t.Fatal("dropped cache must miss")
	}
}

func TestLowerTraces(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	LowerSource(ctx, "foo.kl", []byte(fooSource), Options{})

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin || ev.Kind == trace.KindPoint {
			names = append(names, ev.Name)
		}
	}
	if got := strings.Join(names, ","); got != "file:foo.kl,parse,lower,trait" {
		t.Fatalf("unexpected trace %s", got)
	}
}

func TestTokenize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.kl", "trait A {}")
	res, err := Tokenize(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tokens) != 5 || res.Bag.Len() != 0 {
		t.Fatalf("unexpected tokens %v", res.Tokens)
	}
}
