package fuzztests

import (
	"context"
	"testing"
	"time"

	"keel/internal/diag"
	"keel/internal/driver"
	"keel/internal/lexer"
	"keel/internal/source"
	"keel/internal/testkit"
	"keel/internal/token"
)

// lowerTimeout bounds a single input; exceeding it points at a recovery loop.
const lowerTimeout = 5 * time.Second

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.kl", clampInput(input)))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		for {
			if tok := lx.Next(); tok.Kind == token.EOF {
				break
			}
		}
	})
}

func FuzzLowerSource(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), lowerTimeout)
		defer cancel()

		type outcome struct {
			fs  *source.FileSet
			res *driver.FileResult
		}
		done := make(chan outcome, 1)
		go func() {
			fs, res := driver.LowerSource(ctx, "fuzz.kl", input, driver.Options{MaxDiagnostics: 128})
			done <- outcome{fs, res}
		}()

		select {
		case out := <-done:
			if out.res.Err != nil {
				t.Fatalf("internal error: %v\ninput: %q", out.res.Err, truncateForLog(input, 200))
			}
			if err := testkit.CheckModuleSpans(out.res.Module, out.fs.Get(out.res.FileID)); err != nil {
				t.Fatalf("span invariant: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("lowering hang detected after %v\ninput (%d bytes): %q",
				lowerTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
