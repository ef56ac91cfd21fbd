package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fortio.org/safecast"

	"keel/internal/ast"
	"keel/internal/diag"
	"keel/internal/grammar"
	"keel/internal/lower"
	"keel/internal/observ"
	"keel/internal/source"
	"keel/internal/syntax"
	"keel/internal/trace"
)

// ErrGrammarContract wraps a lower.InvariantViolation recovered while
// lowering a file: the grammar handed over a tree lowering cannot accept.
var ErrGrammarContract = errors.New("grammar/lowering contract violated")

type Options struct {
	MaxDiagnostics int // per file; <= 0 means unbounded
	// Collaborators replaces lower.DefaultCollaborators when set.
	Collaborators *lower.Collaborators
	Cache         *DiskCache
	Timings       bool
	Jobs          int // LowerDir parallelism; <= 0 means GOMAXPROCS
	Progress      ProgressSink
}

func (o Options) collaborators() lower.Collaborators {
	if o.Collaborators != nil {
		return *o.Collaborators
	}
	return lower.DefaultCollaborators()
}

// FileResult is the outcome for one file. Module is nil when Err is set or
// the file could not be loaded.
type FileResult struct {
	Path   string
	FileID source.FileID
	Module *ast.Module
	Bag    *diag.Bag
	Timing *observ.Report
	Cached bool
	Err    error
}

// LowerSource lowers content as a virtual file named path.
func LowerSource(ctx context.Context, path string, content []byte, opts Options) (*source.FileSet, *FileResult) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, content)
	return fs, lowerLoaded(ctx, fs.Get(id), opts, newTimer(opts))
}

// LowerFile loads and lowers a single file. Only load failures are returned
// as the error; everything else is in the result.
func LowerFile(ctx context.Context, path string, opts Options) (*source.FileSet, *FileResult, error) {
	timer := newTimer(opts)
	fs := source.NewFileSet()
	idx := beginPass(timer, StageLoad)
	id, err := fs.Load(path)
	if err != nil {
		return fs, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(id)
	endPass(timer, idx, strconv.Itoa(len(file.Content))+" bytes")
	return fs, lowerLoaded(ctx, file, opts, timer), nil
}

func lowerLoaded(ctx context.Context, file *source.File, opts Options, timer *observ.Timer) *FileResult {
	res := &FileResult{
		Path:   file.Path,
		FileID: file.ID,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	tr := trace.FromContext(ctx)
	fileSpan := trace.Begin(tr, trace.ScopeFile, "file:"+file.Path, trace.CurrentSpan(ctx))
	detail := "ok"
	defer func() {
		if timer != nil {
			report := timer.Report()
			res.Timing = &report
		}
		fileSpan.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).End(detail)
	}()

	// Substituted collaborators change the result in ways the key cannot
	// capture, so such runs never touch the cache.
	cache := opts.Cache
	if opts.Collaborators != nil {
		cache = nil
	}
	key := cacheKey(file, opts.MaxDiagnostics)
	if cache != nil {
		var payload DiskPayload
		hit, err := cache.Get(key, &payload)
		switch {
		case err != nil:
			trace.Point(tr, trace.ScopeFile, "cache", "read failed: "+err.Error(), fileSpan.ID())
		case hit && payload.Path == file.Path:
			res.Module = &payload.Module
			res.Bag.AddAll(payload.Diagnostics)
			for _, o := range payload.Omitted {
				res.Bag.RecordOmitted(o)
			}
			res.Cached = true
			detail = "cached"
			emit(opts.Progress, Event{File: file.Path, Stage: StageLower, Status: StatusDone})
			return res
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	start := time.Now()
	idx := beginPass(timer, StageParse)
	parseSpan := trace.Begin(tr, trace.ScopePass, "parse", fileSpan.ID())
	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		maxErrors = 0
	}
	tree := grammar.ParseFile(file, grammar.Options{
		MaxErrors: maxErrors,
		Reporter:  diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag}),
	})
	parseSpan.End(strconv.Itoa(len(tree.Children)) + " items")
	endPass(timer, idx, "")

	emit(opts.Progress, Event{File: file.Path, Stage: StageLower, Status: StatusWorking})
	idx = beginPass(timer, StageLower)
	lowerSpan := trace.Begin(tr, trace.ScopePass, "lower", fileSpan.ID())
	mod, diags, err := lowerTree(tree, file.Path, opts.collaborators())
	endPass(timer, idx, "")
	if err != nil {
		lowerSpan.End("invariant violation")
		res.Err = err
		detail = "error"
		emit(opts.Progress, Event{File: file.Path, Stage: StageLower, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return res
	}
	for _, t := range mod.Traits {
		trace.Point(tr, trace.ScopeNode, "trait", t.Name.Name, lowerSpan.ID())
	}
	lowerSpan.WithExtra("traits", strconv.Itoa(len(mod.Traits))).End("")
	res.Bag.AddAll(diags)
	res.Module = &mod

	if cache != nil {
		payload := DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Path:        file.Path,
			ContentHash: Digest(file.Hash),
			Module:      mod,
			Diagnostics: res.Bag.Items(),
			Omitted:     res.Bag.Omissions(),
		}
		if err := cache.Put(key, &payload); err != nil {
			trace.Point(tr, trace.ScopeFile, "cache", "write failed: "+err.Error(), fileSpan.ID())
		}
	}
	emit(opts.Progress, Event{File: file.Path, Stage: StageLower, Status: StatusDone, Elapsed: time.Since(start)})
	return res
}

// lowerTree turns an invariant violation into an error and lets every other
// panic through.
func lowerTree(tree *syntax.Node, path string, collab lower.Collaborators) (mod ast.Module, diags []diag.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, ok := r.(*lower.InvariantViolation)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%s: %w: %w", path, ErrGrammarContract, v)
		}
	}()
	res := lower.File(tree, &lower.BuildContext{Path: path}, collab)
	return res.Value, res.Diagnostics(), nil
}

func newTimer(opts Options) *observ.Timer {
	if !opts.Timings {
		return nil
	}
	return observ.NewTimer()
}

func beginPass(t *observ.Timer, stage Stage) int {
	if t == nil {
		return -1
	}
	return t.Begin(string(stage))
}

func endPass(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}
