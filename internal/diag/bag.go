package diag

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
)

// Omission tallies diagnostics a Bag could not keep because of its limit.
type Omission struct {
	Code     Code
	Severity Severity
	Count    int
}

type omitKey struct {
	code Code
	sev  Severity
}

type Bag struct {
	items   []Diagnostic
	max     int
	omitted map[omitKey]int
}

// NewBag creates a bag that keeps at most max diagnostics (max <= 0 means unbounded).
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capacity),
		max:   max,
	}
}

// Add appends d. A full bag makes room by evicting its latest diagnostic of
// the lowest severity below d's; when there is none, d itself is omitted.
// Evicted and omitted diagnostics are tallied, never lost without a trace.
// Returns false when d was not stored.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max <= 0 || len(b.items) < b.max {
		b.items = append(b.items, d)
		return true
	}
	victim := -1
	for i := len(b.items) - 1; i >= 0; i-- {
		sev := b.items[i].Severity
		if sev < d.Severity && (victim < 0 || sev < b.items[victim].Severity) {
			victim = i
		}
	}
	if victim < 0 {
		b.recordOmitted(d.Code, d.Severity, 1)
		return false
	}
	b.recordOmitted(b.items[victim].Code, b.items[victim].Severity, 1)
	b.items = append(slices.Delete(b.items, victim, victim+1), d)
	return true
}

// AddAll offers every diagnostic in order.
func (b *Bag) AddAll(ds []Diagnostic) {
	for _, d := range ds {
		b.Add(d)
	}
}

func (b *Bag) recordOmitted(code Code, sev Severity, n int) {
	if n <= 0 {
		return
	}
	if b.omitted == nil {
		b.omitted = make(map[omitKey]int)
	}
	b.omitted[omitKey{code, sev}] += n
}

// RecordOmitted adds a tally produced elsewhere, e.g. a cached run.
func (b *Bag) RecordOmitted(o Omission) {
	b.recordOmitted(o.Code, o.Severity, o.Count)
}

// Omissions lists the tallies ordered by code, then severity.
func (b *Bag) Omissions() []Omission {
	out := make([]Omission, 0, len(b.omitted))
	for k, n := range b.omitted {
		out = append(out, Omission{Code: k.code, Severity: k.sev, Count: n})
	}
	slices.SortFunc(out, func(x, y Omission) int {
		return cmp.Or(cmp.Compare(x.Code, y.Code), cmp.Compare(x.Severity, y.Severity))
	})
	return out
}

// Omitted returns how many diagnostics of exactly sev were not kept.
func (b *Bag) Omitted(sev Severity) int {
	n := 0
	for k, c := range b.omitted {
		if k.sev == sev {
			n += c
		}
	}
	return n
}

// OmittedTotal returns how many diagnostics were not kept.
func (b *Bag) OmittedTotal() int {
	n := 0
	for _, c := range b.omitted {
		n += c
	}
	return n
}

// Total counts kept and omitted diagnostics of exactly sev.
func (b *Bag) Total(sev Severity) int {
	return b.Count(sev) + b.Omitted(sev)
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors reports whether any diagnostic, kept or omitted, has
// Severity >= SevError.
func (b *Bag) HasErrors() bool {
	return b.hasAtLeast(SevError)
}

// HasWarnings reports whether any diagnostic, kept or omitted, has
// Severity >= SevWarning.
func (b *Bag) HasWarnings() bool {
	return b.hasAtLeast(SevWarning)
}

func (b *Bag) hasAtLeast(sev Severity) bool {
	for i := range b.items {
		if b.items[i].Severity >= sev {
			return true
		}
	}
	for k := range b.omitted {
		if k.sev >= sev {
			return true
		}
	}
	return false
}

// Count returns how many diagnostics carry exactly sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends all diagnostics and omission tallies of other, raising the
// limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
	for k, n := range other.omitted {
		b.recordOmitted(k.code, k.sev, n)
	}
}

// Filter keeps only the diagnostics for which keep returns true. Omission
// tallies are judged by their code and severity alone.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	b.items = out
	for k := range b.omitted {
		if !keep(Diagnostic{Code: k.code, Severity: k.sev}) {
			delete(b.omitted, k)
		}
	}
}

// Sort orders diagnostics by file, start, end, severity (desc), code (asc).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.Path != dj.Primary.Path {
			return di.Primary.Path < dj.Primary.Path
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code.ID() < dj.Code.ID()
	})
}

// Dedup drops repeated diagnostics with the same code and primary span.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
