package parser

import (
	"strconv"

	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/token"
)

// Operator precedence, lowest to highest, for the Pratt expression parser.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precCall
)

var binaryPrec = map[token.Kind]int{
	token.OR:      precOr,
	token.AND:     precAnd,
	token.EQ:      precEquality,
	token.NEQ:     precEquality,
	token.LT:      precComparison,
	token.LTE:     precComparison,
	token.GT:      precComparison,
	token.GTE:     precComparison,
	token.PLUS:    precAdditive,
	token.MINUS:   precAdditive,
	token.STAR:    precMultiplicative,
	token.SLASH:   precMultiplicative,
	token.PERCENT: precMultiplicative,
	token.CARET:   precMultiplicative,
}

func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		prec, ok := binaryPrec[p.cur.Kind]
		if !ok || prec <= minPrec {
			break
		}
		opTok := p.cur
		p.next()
		right := p.parseExpr(prec)
		left = &ast.Binary{Span: joinSpan(left.GetSpan(), right.GetSpan()), Op: opTok.Kind.String(), Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Kind {
	case token.MINUS, token.HASH, token.NOT:
		opTok := p.cur
		p.next()
		x := p.parseUnaryOperand()
		return &ast.Unary{Span: joinSpan(opTok.Span, x.GetSpan()), Op: opTok.Kind.String(), X: x}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parseUnaryOperand binds a unary operator tighter than binary operators but
// still allows a trailing postfix chain (e.g. `-a.b`).
func (p *Parser) parseUnaryOperand() ast.Expr {
	if p.cur.Kind == token.MINUS || p.cur.Kind == token.HASH || p.cur.Kind == token.NOT {
		return p.parseUnary()
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		switch p.cur.Kind {
		case token.DOT:
			dotTok := p.cur
			p.next()
			nameTok := p.expect(token.IDENT)
			key := &ast.String{Span: nameTok.Span, Value: nameTok.Lexeme}
			x = &ast.Index{Span: joinSpan(x.GetSpan(), nameTok.Span), Base: x, Key: key, Dot: true}
			_ = dotTok
		case token.LBRACKET:
			p.next()
			key := p.parseExpr(0)
			end := p.expect(token.RBRACKET)
			x = &ast.Index{Span: joinSpan(x.GetSpan(), end.Span), Base: x, Key: key, Dot: false}
		case token.LPAREN:
			p.next()
			var args []ast.Expr
			for !p.at(token.RPAREN) {
				args = append(args, p.parseExpr(0))
				if p.at(token.COMMA) {
					p.next()
				}
			}
			end := p.expect(token.RPAREN)
			x = &ast.Call{Span: joinSpan(x.GetSpan(), end.Span), Callee: x, Args: args}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Kind {
	case token.IDENT:
		p.next()
		return &ast.Ident{Span: tok.Span, Name: tok.Lexeme}
	case token.NUMBER:
		p.next()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.Number{Span: tok.Span, Value: v, Raw: tok.Lexeme}
	case token.STRING:
		p.next()
		return &ast.String{Span: tok.Span, Value: tok.Lexeme}
	case token.TRUE:
		p.next()
		return &ast.Boolean{Span: tok.Span, Value: true}
	case token.FALSE:
		p.next()
		return &ast.Boolean{Span: tok.Span, Value: false}
	case token.NIL:
		p.next()
		return &ast.Nil{Span: tok.Span}
	case token.LPAREN:
		p.next()
		x := p.parseExpr(0)
		p.expect(token.RPAREN)
		return x
	case token.LBRACE:
		return p.parseTable()
	default:
		p.fail(tok, "unexpected token %s in expression", tok.Kind)
		return nil
	}
}

func (p *Parser) parseTable() ast.Expr {
	start := p.cur.Span
	p.next() // '{'
	tbl := &ast.Table{}
	for !p.at(token.RBRACE) {
		if p.at(token.IDENT) && p.peek.Kind == token.COLON {
			nameTok := p.cur
			p.next()
			p.next() // ':'
			val := p.parseExpr(0)
			key := &ast.String{Span: nameTok.Span, Value: nameTok.Lexeme}
			tbl.Fields = append(tbl.Fields, &ast.Field{Span: joinSpan(nameTok.Span, val.GetSpan()), KeyIsIdent: true, Key: key, Value: val})
			tbl.Order = append(tbl.Order, 'k')
		} else if p.at(token.LBRACKET) {
			lb := p.cur
			p.next()
			key := p.parseExpr(0)
			p.expect(token.RBRACKET)
			p.expect(token.COLON)
			val := p.parseExpr(0)
			tbl.Fields = append(tbl.Fields, &ast.Field{Span: joinSpan(lb.Span, val.GetSpan()), KeyIsIdent: false, Key: key, Value: val})
			tbl.Order = append(tbl.Order, 'k')
		} else {
			val := p.parseExpr(0)
			tbl.ArrayFields = append(tbl.ArrayFields, &ast.ArrayField{Span: val.GetSpan(), Value: val})
			tbl.Order = append(tbl.Order, 'a')
		}
		if p.at(token.COMMA) {
			p.next()
		}
	}
	end := p.expect(token.RBRACE)
	tbl.Span = joinSpan(start, end.Span)
	return tbl
}
