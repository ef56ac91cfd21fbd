package grammar

import (
	"keel/internal/diag"
	"keel/internal/syntax"
	"keel/internal/token"
)

// parseFnItem parses a signature followed by ';' (interface entry, only
// inside a trait) or by a code block (fn_decl).
func (p *Parser) parseFnItem(vis *syntax.Node, inTrait bool) (*syntax.Node, bool) {
	sig, hasGenerics, ok := p.parseFnSignature()
	if !ok {
		return nil, false
	}

	if p.at(token.Semicolon) {
		semi := p.advance()
		switch {
		case !inTrait:
			p.report(diag.SynUnexpectedToken, diag.SevError, semi.Span, "free function requires a body")
			return nil, false
		case vis != nil:
			p.report(diag.SynUnexpectedToken, diag.SevError, vis.Span(semi.Span.Path), "visibility is not allowed on an interface signature")
			return nil, false
		case hasGenerics:
			p.report(diag.SynGenericsOnSignature, diag.SevError, sig.Span(semi.Span.Path), "generic parameters and where clauses are only allowed on methods with a body")
			return nil, false
		}
		return sig, true
	}

	if !p.at(token.LBrace) {
		p.err(diag.SynExpectSemicolon, "expected ';' or '{' after function signature")
		return nil, false
	}
	start, end, ok := p.skipBlock()
	if !ok {
		return nil, false
	}
	block := p.node(syntax.RuleCodeBlock, start, end)

	declStart := sig.Start
	children := make([]*syntax.Node, 0, 3)
	if vis != nil {
		declStart = vis.Start
		children = append(children, vis)
	}
	children = append(children, sig, block)
	return p.node(syntax.RuleFnDecl, declStart, end, children...), true
}

// parseFnSignature: 'fn' ident type_params? fn_decl_params ('->' type)? trait_bounds?
func (p *Parser) parseFnSignature() (*syntax.Node, bool, bool) {
	kw := p.advance()
	children := []*syntax.Node{p.leaf(syntax.RuleFnKeyword, kw)}
	hasGenerics := false

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return nil, false, false
	}
	children = append(children, p.leaf(syntax.RuleIdent, nameTok))

	if p.at(token.Lt) {
		params, ok := p.parseTypeParams()
		if !ok {
			return nil, false, false
		}
		hasGenerics = true
		children = append(children, params)
	}

	params, ok := p.parseFnParams()
	if !ok {
		return nil, false, false
	}
	children = append(children, params)
	end := params.End

	if p.at(token.Arrow) {
		children = append(children, p.leaf(syntax.RuleFnReturns, p.advance()))
		ty, ok := p.parseType()
		if !ok {
			return nil, false, false
		}
		children = append(children, ty)
		end = ty.End
	}

	if p.at(token.KwWhere) {
		bounds, ok := p.parseTraitBounds()
		if !ok {
			return nil, false, false
		}
		hasGenerics = true
		children = append(children, bounds)
		end = bounds.End
	}

	return p.node(syntax.RuleFnSignature, kw.Span.Start, end, children...), hasGenerics, true
}

// parseFnParams: '(' (param (',' param)* ','?)? ')'
func (p *Parser) parseFnParams() (*syntax.Node, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to start parameter list")
	if !ok {
		return nil, false
	}
	var params []*syntax.Node
	for !p.at(token.RParen) {
		param, ok := p.parseFnParam()
		if !ok {
			return nil, false
		}
		params = append(params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list")
	if !ok {
		return nil, false
	}
	return p.node(syntax.RuleFnDeclParams, open.Span.Start, closeTok.Span.End, params...), true
}

// parseFnParam: 'self' | ident ':' type
func (p *Parser) parseFnParam() (*syntax.Node, bool) {
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return nil, false
	}
	if nameTok.Text == "self" && !p.at(token.Colon) {
		return p.leaf(syntax.RuleSelfParam, nameTok), true
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter name"); !ok {
		return nil, false
	}
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	return p.node(syntax.RuleFnParam, nameTok.Span.Start, ty.End, p.leaf(syntax.RuleIdent, nameTok), ty), true
}
