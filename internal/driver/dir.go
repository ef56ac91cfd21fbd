package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"keel/internal/diag"
	"keel/internal/observ"
	"keel/internal/source"
	"keel/internal/trace"
)

// SourceExt is the extension LowerDir collects.
const SourceExt = ".kl"

// ListSourceFiles returns every *.kl file under dir, sorted.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LowerDir lowers every source file under dir in parallel. Results follow
// the sorted file order. A file that fails to load gets a result holding an
// IOLoadFileError diagnostic; the returned error is reserved for walking the
// tree and cancellation.
func LowerDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*FileResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	tr := trace.FromContext(ctx)
	root := trace.Begin(tr, trace.ScopeDriver, "lower-dir", trace.CurrentSpan(ctx))
	defer root.WithExtra("files", strconv.Itoa(len(files))).End(dir)
	ctx = trace.WithSpan(ctx, root)

	// FileSet is not safe for concurrent Add, so loading happens up front.
	fileIDs := make([]source.FileID, len(files))
	timers := make([]*observ.Timer, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(opts.Progress, Event{File: source.NormalizePath(path), Stage: StageLoad, Status: StatusQueued})
		timers[i] = newTimer(opts)
		idx := beginPass(timers[i], StageLoad)
		id, err := fileSet.Load(path)
		endPass(timers[i], idx, "")
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				display := source.NormalizePath(path)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{Path: display}, "failed to load file: "+loadErr.Error()))
				results[i] = &FileResult{Path: display, Bag: bag}
				emit(opts.Progress, Event{File: display, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}
			// each index is written by exactly one goroutine
			results[i] = lowerLoaded(gctx, fileSet.Get(fileIDs[i]), opts, timers[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// RunTimings sums the per-file timings of results.
func RunTimings(results []*FileResult) observ.Report {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		if r != nil && r.Timing != nil {
			reports = append(reports, *r.Timing)
		}
	}
	return observ.Aggregate(reports)
}
