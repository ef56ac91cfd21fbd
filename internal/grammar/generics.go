package grammar

import (
	"keel/internal/diag"
	"keel/internal/syntax"
	"keel/internal/token"
)

// parseTypeParams: '<' type_param (',' type_param)* ','? '>'
// type_param: ident (':' ident ('+' ident)*)?
func (p *Parser) parseTypeParams() (*syntax.Node, bool) {
	open := p.advance()
	var params []*syntax.Node
	for !p.at(token.Gt) {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected type parameter name")
		if !ok {
			return nil, false
		}
		children := []*syntax.Node{p.leaf(syntax.RuleIdent, nameTok)}
		end := nameTok.Span.End
		if p.at(token.Colon) {
			p.advance()
			bounds, ok := p.parseBoundList()
			if !ok {
				return nil, false
			}
			children = append(children, bounds...)
			end = bounds[len(bounds)-1].End
		}
		params = append(params, p.node(syntax.RuleTypeParam, nameTok.Span.Start, end, children...))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type parameters")
	if !ok {
		return nil, false
	}
	return p.node(syntax.RuleTypeParams, open.Span.Start, closeTok.Span.End, params...), true
}

// parseTraitBounds: 'where' where_predicate (',' where_predicate)* ','?
// where_predicate: ident ':' ident ('+' ident)*
func (p *Parser) parseTraitBounds() (*syntax.Node, bool) {
	kw := p.advance()
	var preds []*syntax.Node
	end := kw.Span.End
	for p.at(token.Ident) {
		nameTok := p.advance()
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' in where clause"); !ok {
			return nil, false
		}
		bounds, ok := p.parseBoundList()
		if !ok {
			return nil, false
		}
		predEnd := bounds[len(bounds)-1].End
		children := append([]*syntax.Node{p.leaf(syntax.RuleIdent, nameTok)}, bounds...)
		preds = append(preds, p.node(syntax.RuleWherePredicate, nameTok.Span.Start, predEnd, children...))
		end = predEnd
		if !p.at(token.Comma) {
			break
		}
		end = p.advance().Span.End
	}
	if len(preds) == 0 {
		p.err(diag.SynExpectIdentifier, "expected type parameter in where clause")
		return nil, false
	}
	return p.node(syntax.RuleTraitBounds, kw.Span.Start, end, preds...), true
}

// parseBoundList: ident ('+' ident)*
func (p *Parser) parseBoundList() ([]*syntax.Node, bool) {
	var out []*syntax.Node
	for {
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected trait name in bound")
		if !ok {
			return nil, false
		}
		out = append(out, p.leaf(syntax.RuleIdent, tok))
		if !p.at(token.Plus) {
			return out, true
		}
		p.advance()
	}
}
