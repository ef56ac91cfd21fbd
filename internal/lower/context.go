package lower

import (
	"keel/internal/source"
	"keel/internal/syntax"
)

// BuildContext carries per-file settings. A nil *BuildContext is valid and
// produces spans without a path.
type BuildContext struct {
	Path string
}

// FilePath returns the path spans are attributed to.
func (c *BuildContext) FilePath() string {
	if c == nil {
		return ""
	}
	return c.Path
}

// Span attributes the range of n to the context path.
func (c *BuildContext) Span(n *syntax.Node) source.Span {
	return n.Span(c.FilePath())
}
