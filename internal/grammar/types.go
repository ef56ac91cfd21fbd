package grammar

import (
	"keel/internal/diag"
	"keel/internal/syntax"
	"keel/internal/token"
)

// parseType: ident type_args? | '(' (type (',' type)* ','?)? ')' | '[' type ';' int ']'
// Every alternative is wrapped in a RuleType node.
func (p *Parser) parseType() (*syntax.Node, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		nameTok := p.advance()
		name := p.leaf(syntax.RuleIdent, nameTok)
		if !p.at(token.Lt) {
			return p.node(syntax.RuleType, nameTok.Span.Start, nameTok.Span.End, name), true
		}
		args, ok := p.parseTypeArgs()
		if !ok {
			return nil, false
		}
		return p.node(syntax.RuleType, nameTok.Span.Start, args.End, name, args), true

	case token.LParen:
		open := p.advance()
		var elems []*syntax.Node
		for !p.at(token.RParen) {
			elem, ok := p.parseType()
			if !ok {
				return nil, false
			}
			elems = append(elems, elem)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple type")
		if !ok {
			return nil, false
		}
		tuple := p.node(syntax.RuleTupleType, open.Span.Start, closeTok.Span.End, elems...)
		return p.node(syntax.RuleType, open.Span.Start, closeTok.Span.End, tuple), true

	case token.LBracket:
		open := p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in array type"); !ok {
			return nil, false
		}
		lenTok, ok := p.expect(token.IntLit, diag.SynUnexpectedToken, "expected array length")
		if !ok {
			return nil, false
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array type")
		if !ok {
			return nil, false
		}
		arr := p.node(syntax.RuleArrayType, open.Span.Start, closeTok.Span.End, elem, p.leaf(syntax.RuleIntLit, lenTok))
		return p.node(syntax.RuleType, open.Span.Start, closeTok.Span.End, arr), true

	default:
		p.err(diag.SynExpectType, "expected type, got \""+p.lx.Peek().Text+"\"")
		return nil, false
	}
}

// parseTypeArgs: '<' type (',' type)* ','? '>'
func (p *Parser) parseTypeArgs() (*syntax.Node, bool) {
	open := p.advance()
	var args []*syntax.Node
	for !p.at(token.Gt) {
		arg, ok := p.parseType()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type arguments")
	if !ok {
		return nil, false
	}
	return p.node(syntax.RuleTypeArgs, open.Span.Start, closeTok.Span.End, args...), true
}
