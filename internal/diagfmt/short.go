package diagfmt

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"keel/internal/diag"
	"keel/internal/source"
)

// ShortOpts configures Short.
type ShortOpts struct {
	PathMode     PathMode
	IncludeNotes bool
}

type shortLine struct {
	label string
	code  string
	path  string
	pos   source.LineCol
	msg   string
}

// Short writes one line per diagnostic (and per note when requested):
//
//	severity CODE path:line:col message
//
// Lines are ordered by path, position, label, code and message, so the output
// is stable across runs and usable in golden files.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) {
	if bag == nil {
		return
	}
	var lines []shortLine
	for _, d := range bag.Items() {
		lines = append(lines, newShortLine(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message, fs, opts.PathMode))
		if !opts.IncludeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, newShortLine("note", d.Code, n.Span, n.Msg, fs, opts.PathMode))
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	for _, l := range lines {
		fmt.Fprintf(w, "%s %s %s:%d:%d %s\n", l.label, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
}

func newShortLine(label string, code diag.Code, sp source.Span, msg string, fs *source.FileSet, mode PathMode) shortLine {
	var pos source.LineCol
	if fs != nil {
		pos, _ = fs.Resolve(sp)
	}
	return shortLine{
		label: label,
		code:  code.ID(),
		path:  strings.TrimPrefix(displayPath(sp, fs, mode), "./"),
		pos:   pos,
		msg:   strings.Join(strings.Fields(msg), " "),
	}
}
