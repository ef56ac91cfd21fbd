package source

import (
	"fmt"
)

// Span is a byte range inside a source file. Path is empty when the range
// was produced without a build context.
type Span struct {
	Path  string
	Start uint32 // inclusive, bytes
	End   uint32 // exclusive, bytes
}

// NewSpan builds a span over [start, end) attributed to path.
func NewSpan(path string, start, end uint32) Span {
	return Span{Path: path, Start: start, End: end}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	if s.Path == "" {
		return fmt.Sprintf("%d-%d", s.Start, s.End)
	}
	return fmt.Sprintf("%s:%d-%d", s.Path, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.Path != other.Path {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.Path == other.Path && s.Start <= other.Start && other.End <= s.End
}

// WithPath returns a copy of s attributed to path.
func (s Span) WithPath(path string) Span {
	s.Path = path
	return s
}
