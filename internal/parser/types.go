package parser

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/token"
)

// parseTypeExpr parses a type annotation, handling the union operator `|`
// at the lowest precedence (spec §3's TypeUnion{left,right}).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	left := p.parseTypeAtom()
	for p.at(token.PIPE) {
		p.next()
		right := p.parseTypeAtom()
		left = &ast.TypeUnion{Span: joinSpan(left.GetSpan(), right.GetSpan()), Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	switch p.cur.Kind {
	case token.LPAREN:
		start := p.cur.Span
		p.next()
		var params []ast.TypeExpr
		for !p.at(token.RPAREN) {
			params = append(params, p.parseTypeExpr())
			if p.at(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RPAREN)
		p.expect(token.ARROW)
		ret := p.parseTypeExpr()
		return &ast.TypeFunc{Span: joinSpan(start, ret.GetSpan()), Params: params, Ret: ret}
	case token.LBRACE:
		start := p.cur.Span
		p.next()
		var fields []*ast.TypeStructField
		for !p.at(token.RBRACE) {
			name := p.expect(token.IDENT).Lexeme
			p.expect(token.COLON)
			ftype := p.parseTypeExpr()
			fields = append(fields, &ast.TypeStructField{Name: name, Type: ftype})
			if p.at(token.COMMA) {
				p.next()
			}
		}
		end := p.expect(token.RBRACE)
		return &ast.TypeStruct{Span: joinSpan(start, end.Span), Fields: fields}
	case token.NIL:
		tok := p.cur
		p.next()
		return &ast.TypeName{Span: tok.Span, Name: "nil"}
	default:
		tok := p.expect(token.IDENT)
		return &ast.TypeName{Span: tok.Span, Name: tok.Lexeme}
	}
}

// parsePattern parses one `match` case pattern (spec §3's Pattern variants).
func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur.Kind {
	case token.WILDCARD:
		tok := p.cur
		p.next()
		return &ast.PatternWildcard{Span: tok.Span}
	case token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NIL:
		lit := p.parsePrimary()
		return &ast.PatternLiteral{Span: lit.GetSpan(), Value: lit}
	default:
		x := p.parsePostfix(p.parsePrimary())
		return &ast.PatternExpr{Span: x.GetSpan(), X: x}
	}
}
