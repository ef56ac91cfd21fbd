package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"keel/internal/diag"
	"keel/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Mode determines which candidate fixes are selected.
type Mode uint8

const (
	ModeOnce Mode = iota
	ModeAll
)

// Options configures fix selection. An empty Codes list accepts every code.
type Options struct {
	Mode   Mode
	Codes  []diag.Code
	DryRun bool
}

// Applied records a fix that made it into the output buffers.
type Applied struct {
	Title string
	Code  diag.Code
	Path  string
	Edits int
}

// Skipped captures a fix that was not applied and why.
type Skipped struct {
	Title  string
	Path   string
	Reason string
}

// FileChange holds the rewritten content of one file.
type FileChange struct {
	Path    string
	Edits   int
	Content []byte
}

// Result aggregates applied fixes, skipped ones and file changes.
type Result struct {
	Applied []Applied
	Skipped []Skipped
	Changes []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts
// and rewrites the affected files unless opts.DryRun is set.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	result := &Result{}
	if fs == nil {
		return result, errors.New("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics, opts.Codes)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)
	if opts.Mode == ModeOnce {
		candidates = candidates[:1]
	}

	applied, skipped, changes := applyCandidates(fs, candidates)
	result.Applied = applied
	result.Skipped = append(result.Skipped, skipped...)
	result.Changes = changes
	if len(applied) == 0 {
		return result, ErrNoFixes
	}
	if opts.DryRun {
		return result, nil
	}
	for _, change := range changes {
		mode := os.FileMode(0o644)
		if info, err := os.Stat(change.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(change.Path, change.Content, mode); err != nil {
			return result, fmt.Errorf("write %s: %w", change.Path, err)
		}
	}
	return result, nil
}

func gatherCandidates(diagnostics []diag.Diagnostic, codes []diag.Code) ([]candidate, []Skipped) {
	var (
		cands []candidate
		skips []Skipped
	)
	order := 0
	for _, d := range diagnostics {
		if len(codes) > 0 && !slices.Contains(codes, d.Code) {
			continue
		}
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, Skipped{Title: f.Title, Path: d.Primary.Path, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file, then span, then discovery order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].diag.Primary, candidates[j].diag.Primary
		if pi.Path != pj.Path {
			return pi.Path < pj.Path
		}
		if pi.Start != pj.Start {
			return pi.Start < pj.Start
		}
		if pi.End != pj.End {
			return pi.End < pj.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func applyCandidates(fs *source.FileSet, selected []candidate) ([]Applied, []Skipped, []FileChange) {
	buffers := make(map[string][]byte)
	appliedEdits := make(map[string][]diag.FixEdit)
	editCount := make(map[string]int)

	var (
		applied []Applied
		skipped []Skipped
	)
	for _, cand := range selected {
		staged := make(map[string][]byte)
		stagedEdits := make(map[string][]diag.FixEdit)
		total := 0
		reason := ""

		for path, edits := range groupEditsByPath(cand.fix.Edits) {
			file, ok := fs.GetByPath(path)
			switch {
			case !ok:
				reason = "target file is not loaded"
			case file.Flags&source.FileVirtual != 0:
				reason = "target file is virtual"
			case file.Flags&(source.FileNormalizedCRLF|source.FileHadBOM) != 0:
				reason = "target file was normalized on load"
			case conflictsWithExisting(appliedEdits[file.Path], edits):
				reason = "conflicts with a previously applied fix"
			}
			if reason != "" {
				break
			}

			working := buffers[file.Path]
			if working == nil {
				working = file.Content
			}
			working = slices.Clone(working)
			existing := slices.Clone(appliedEdits[file.Path])

			sort.SliceStable(edits, func(i, j int) bool {
				return edits[i].Span.Start > edits[j].Span.Start
			})
			for _, edit := range edits {
				start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
				end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
				if start < 0 || end < start || end > len(working) {
					reason = "edit span out of range"
					break
				}
				if edit.OldText != "" && string(working[start:end]) != edit.OldText {
					reason = "existing text does not match expected content"
					break
				}
				working = slices.Concat(working[:start], []byte(edit.NewText), working[end:])
				existing = insertEditSorted(existing, edit)
			}
			if reason != "" {
				break
			}
			staged[file.Path] = working
			stagedEdits[file.Path] = existing
			total += len(edits)
		}

		if reason != "" {
			skipped = append(skipped, Skipped{Title: cand.fix.Title, Path: cand.diag.Primary.Path, Reason: reason})
			continue
		}
		for path, buf := range staged {
			editCount[path] += len(stagedEdits[path]) - len(appliedEdits[path])
			buffers[path] = buf
			appliedEdits[path] = stagedEdits[path]
		}
		applied = append(applied, Applied{
			Title: cand.fix.Title,
			Code:  cand.diag.Code,
			Path:  cand.diag.Primary.Path,
			Edits: total,
		})
	}

	changes := make([]FileChange, 0, len(buffers))
	for path, buf := range buffers {
		changes = append(changes, FileChange{Path: path, Edits: editCount[path], Content: buf})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return applied, skipped, changes
}

func groupEditsByPath(edits []diag.FixEdit) map[string][]diag.FixEdit {
	buckets := make(map[string][]diag.FixEdit)
	for _, edit := range edits {
		path := source.NormalizePath(edit.Span.Path)
		buckets[path] = append(buckets[path], edit)
	}
	return buckets
}

func conflictsWithExisting(existing, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev.Span, cand.Span) {
				return true
			}
		}
	}
	return false
}

// spansConflict treats spans as half-open ranges. Two insertions never
// conflict; an insertion conflicts with a range strictly containing it.
func spansConflict(a, b source.Span) bool {
	switch {
	case a.Empty() && b.Empty():
		return false
	case a.Empty():
		return b.Start <= a.Start && a.Start < b.End
	case b.Empty():
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// cumulativeDelta is the length change introduced by already applied edits
// that end at or before pos.
func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		if int(e.Span.Start) > pos {
			break
		}
		if int(e.Span.End) <= pos {
			delta += len(e.NewText) - int(e.Span.Len())
		}
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	return slices.Insert(edits, idx, edit)
}
