package token

var keywords = map[string]Kind{
	"pub":   KwPub,
	"trait": KwTrait,
	"fn":    KwFn,
	"where": KwWhere,
}

// LookupKeyword returns the keyword kind for ident. Keywords are
// case-sensitive; only the lowercase spelling is recognised.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
