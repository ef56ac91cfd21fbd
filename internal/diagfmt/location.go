package diagfmt

import (
	"fmt"

	"keel/internal/source"
)

// displayPath renders the path of span. Spans without a loaded file keep
// their raw path.
func displayPath(span source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil {
		return span.Path
	}
	f, ok := fs.GetByPath(span.Path)
	if !ok {
		return span.Path
	}
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	default:
		return f.FormatPath(mode.String(), "")
	}
}

// formatSpan renders "line:col-line:col", or "span(start-end)" without a file set.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
