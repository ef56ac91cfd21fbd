package grammar

import (
	"slices"

	"keel/internal/diag"
	"keel/internal/lexer"
	"keel/internal/source"
	"keel/internal/syntax"
	"keel/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser produces a syntax tree for one file. Items that fail to parse are
// reported and left out of the tree, so the tree handed to lowering always
// satisfies the grammar.
type Parser struct {
	file     *source.File
	lx       *lexer.Lexer
	opts     Options
	lastSpan source.Span
}

// ParseFile parses file into a tree rooted at a syntax.RuleFile node.
func ParseFile(file *source.File, opts Options) *syntax.Node {
	p := Parser{
		file: file,
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		opts: opts,
	}
	return p.parseItems()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems is the top-level loop: trait and fn declarations until EOF.
func (p *Parser) parseItems() *syntax.Node {
	var items []*syntax.Node
	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		items = append(items, item)
	}
	end := p.lx.Peek().Span.End
	return p.node(syntax.RuleFile, 0, end, items...)
}

func (p *Parser) parseItem() (*syntax.Node, bool) {
	var vis *syntax.Node
	if p.at(token.KwPub) {
		tok := p.advance()
		vis = p.leaf(syntax.RuleVisibility, tok)
	}
	switch p.lx.Peek().Kind {
	case token.KwTrait:
		return p.parseTraitDecl(vis)
	case token.KwFn:
		return p.parseFnItem(vis, false)
	default:
		if vis != nil {
			p.err(diag.SynUnexpectedToken, "expected 'trait' or 'fn' after 'pub'")
		} else {
			p.err(diag.SynUnexpectedTopLevel, "unexpected top-level construct \""+p.lx.Peek().Text+"\"")
		}
		if !p.at(token.EOF) {
			p.advance()
		}
		return nil, false
	}
}

// resyncTop skips tokens until the start of the next item at brace depth 0.
func (p *Parser) resyncTop() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth > 0 {
				depth--
			}
		case token.KwTrait, token.KwFn, token.KwPub:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

// node builds a node over [start, end) with its exact source text.
func (p *Parser) node(rule syntax.Rule, start, end uint32, children ...*syntax.Node) *syntax.Node {
	return syntax.New(rule, start, end, string(p.file.Content[start:end]), children...)
}

func (p *Parser) leaf(rule syntax.Rule, tok token.Token) *syntax.Node {
	return syntax.New(rule, tok.Span.Start, tok.Span.End, tok.Text)
}
