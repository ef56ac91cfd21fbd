package grammar

import (
	"keel/internal/diag"
	"keel/internal/syntax"
	"keel/internal/token"
)

// parseTraitDecl: visibility? 'trait' ident (type_params | trait_bounds){0,2} trait_methods
func (p *Parser) parseTraitDecl(vis *syntax.Node) (*syntax.Node, bool) {
	kwTok := p.advance()
	start := kwTok.Span.Start
	children := make([]*syntax.Node, 0, 6)
	if vis != nil {
		start = vis.Start
		children = append(children, vis)
	}
	children = append(children, p.leaf(syntax.RuleTraitKeyword, kwTok))

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected trait name")
	if !ok {
		return nil, false
	}
	children = append(children, p.leaf(syntax.RuleIdent, nameTok))

	// type parameters and the where clause may come in either order, each
	// at most once; a repeated clause is reported and dropped
	var seenParams, seenWhere bool
	for p.at(token.Lt) || p.at(token.KwWhere) {
		var clause *syntax.Node
		var repeated bool
		var what string
		if p.at(token.Lt) {
			clause, ok = p.parseTypeParams()
			repeated, seenParams, what = seenParams, true, "type parameter list"
		} else {
			clause, ok = p.parseTraitBounds()
			repeated, seenWhere, what = seenWhere, true, "where clause"
		}
		if !ok {
			return nil, false
		}
		if repeated {
			p.report(diag.SynDuplicateClause, diag.SevError, clause.Span(nameTok.Span.Path),
				"trait "+nameTok.Text+" already has a "+what)
			continue
		}
		children = append(children, clause)
	}

	body, ok := p.parseTraitMethods()
	if !ok {
		return nil, false
	}
	children = append(children, body)
	return p.node(syntax.RuleTraitDecl, start, body.End, children...), true
}

// parseTraitMethods: '{' (fn_signature ';' | fn_decl)* '}'
// A malformed member is reported and skipped; the body survives.
func (p *Parser) parseTraitMethods() (*syntax.Node, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start trait body")
	if !ok {
		return nil, false
	}
	var members []*syntax.Node
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		member, ok := p.parseTraitMember()
		if !ok {
			p.resyncMember()
			continue
		}
		members = append(members, member)
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close trait body")
	if !ok {
		return nil, false
	}
	return p.node(syntax.RuleTraitMethods, open.Span.Start, closeTok.Span.End, members...), true
}

func (p *Parser) parseTraitMember() (*syntax.Node, bool) {
	var vis *syntax.Node
	if p.at(token.KwPub) {
		vis = p.leaf(syntax.RuleVisibility, p.advance())
	}
	if !p.at(token.KwFn) {
		p.err(diag.SynUnexpectedToken, "expected 'fn' in trait body")
		if !p.atAny(token.RBrace, token.EOF) {
			p.advance()
		}
		return nil, false
	}
	return p.parseFnItem(vis, true)
}

// resyncMember skips to the end of the broken member: past the next ';' or
// balanced block, or up to the closing brace of the trait body.
func (p *Parser) resyncMember() {
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.KwFn, token.KwPub:
			return
		case token.LBrace:
			p.skipBlock()
			return
		}
		p.advance()
	}
}

// skipBlock consumes a balanced '{' ... '}' run.
func (p *Parser) skipBlock() (start, end uint32, ok bool) {
	open := p.advance()
	depth := 1
	for depth > 0 {
		tok := p.advance()
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		case token.EOF:
			p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed '{'")
			return open.Span.Start, tok.Span.End, false
		}
		end = tok.Span.End
	}
	return open.Span.Start, end, true
}
