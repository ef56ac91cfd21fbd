// Package observ records pass timings for one file and sums them over a run.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Pass is one timed step such as "load", "parse" or "lower".
type Pass struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer is not safe for concurrent use; the driver keeps one per file.
type Timer struct {
	passes []Pass
}

func NewTimer() *Timer { return &Timer{passes: make([]Pass, 0, 4)} }

// Begin starts a pass and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	t.passes = append(t.passes, Pass{Name: name, Start: time.Now()})
	return len(t.passes) - 1
}

// End closes the pass idx. Out of range handles are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.passes) {
		return
	}
	p := &t.passes[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

type PassReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

type Report struct {
	TotalMS float64      `json:"total_ms" msgpack:"total_ms"`
	Passes  []PassReport `json:"passes" msgpack:"passes"`
}

func (t *Timer) Report() Report {
	if len(t.passes) == 0 {
		return Report{}
	}
	report := Report{Passes: make([]PassReport, len(t.passes))}
	var total time.Duration
	for i, p := range t.passes {
		total += p.Dur
		report.Passes[i] = PassReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
	}
	report.TotalMS = millis(total)
	return report
}

// Aggregate sums reports by pass name, keeping first-seen order.
func Aggregate(reports []Report) Report {
	var out Report
	index := make(map[string]int)
	for _, r := range reports {
		for _, p := range r.Passes {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Passes)
				index[p.Name] = i
				out.Passes = append(out.Passes, PassReport{Name: p.Name})
			}
			out.Passes[i].DurationMS += p.DurationMS
		}
		out.TotalMS += r.TotalMS
	}
	return out
}

// Summary renders r as an aligned table headed by title.
func (r Report) Summary(title string) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(":\n")
	for _, p := range r.Passes {
		fmt.Fprintf(&sb, "  %-12s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // ")
			sb.WriteString(p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-12s %8.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
