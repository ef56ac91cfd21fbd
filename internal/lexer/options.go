package lexer

import (
	"keel/internal/diag"
	"keel/internal/source"
)

type Options struct {
	Reporter diag.Reporter // may be nil: errors are dropped, scanning continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}
