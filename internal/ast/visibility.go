package ast

// Visibility records whether a declaration carried the pub modifier.
type Visibility bool

const (
	VisPrivate Visibility = false
	VisPublic  Visibility = true
)

func (v Visibility) String() string {
	if v {
		return "public"
	}
	return "private"
}
