// Package parser builds the tagged syntax tree (internal/ast) from a token
// stream. It is an external collaborator to the core pipeline: the
// analyzer, checker, optimizer, and emitter only ever see the *ast.Program
// it returns. Split into a driver plus statements (parser.go), a Pratt
// expression parser (expressions.go), and the type-expr/pattern grammar
// (types.go).
package parser

import (
	"fmt"
	"strconv"

	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/lexer"
	"github.com/outfield-lang/outfieldc/internal/token"
)

// ParseError is the single structured error representation that crosses the
// parser -> core boundary (spec §6): `compile` converts it into one error
// diagnostic against tok's span.
type ParseError struct {
	Tok     token.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Tok.Span.StartPos.Line, e.Tok.Span.StartPos.Col, e.Message)
}

type Parser struct {
	file string
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
}

// Parse lexes and parses a complete unit. On a syntax error it returns a
// nil *ast.Program and a non-nil *ParseError (never panics, spec §5).
func Parse(file, source string) (prog *ast.Program, err error) {
	p := &Parser{file: file, lex: lexer.New(file, source)}
	p.next()
	p.next()

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				prog, err = nil, pe
				return
			}
			panic(r)
		}
	}()

	prog = p.parseProgram()
	return prog, nil
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) fail(tok token.Token, format string, args ...interface{}) {
	panic(&ParseError{Tok: tok, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.fail(p.cur, "expected %s, got %s", k, p.cur.Kind)
	}
	tok := p.cur
	p.next()
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func joinSpan(a, b token.Span) token.Span {
	return token.Span{File: a.File, StartPos: a.StartPos, EndPos: b.EndPos}
}

func (p *Parser) parseProgram() *ast.Program {
	start := p.cur.Span
	prog := &ast.Program{Span: start}

	if p.at(token.MODULE) {
		modTok := p.cur
		p.next()
		name := p.parseDottedName()
		prog.Module = name
		prog.HasModule = true
		prog.ModuleSpan = joinSpan(modTok.Span, p.cur.Span)
	}

	for p.at(token.IMPORT) {
		prog.Imports = append(prog.Imports, p.parseImport())
	}

	for !p.at(token.EOF) {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	prog.Span = joinSpan(start, p.cur.Span)
	return prog
}

func (p *Parser) parseDottedName() string {
	name := p.expect(token.IDENT).Lexeme
	for p.at(token.DOT) {
		p.next()
		name += "." + p.expect(token.IDENT).Lexeme
	}
	return name
}

func (p *Parser) parseImport() *ast.ImportSpec {
	start := p.cur.Span
	p.next() // 'import'
	path := p.parseDottedName()
	spec := &ast.ImportSpec{Path: path}

	switch {
	case p.at(token.AS):
		p.next()
		spec.Alias = p.expect(token.IDENT).Lexeme
		spec.HasAlias = true
	case p.at(token.DOT):
		p.next()
		p.expect(token.LBRACE)
		for !p.at(token.RBRACE) {
			spec.Names = append(spec.Names, p.expect(token.IDENT).Lexeme)
			if p.at(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RBRACE)
		spec.HasNames = true
	}
	spec.Span = joinSpan(start, p.cur.Span)
	return spec
}

func (p *Parser) parseExportedFlag() bool {
	if p.at(token.EXPORT) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) parseStatement() ast.Stmt {
	exported := p.parseExportedFlag()

	switch p.cur.Kind {
	case token.LET:
		return p.parseLet(exported)
	case token.GLOBAL:
		return p.parseGlobal()
	case token.FUNC:
		return p.parseFunction(exported)
	case token.STRUCT:
		return p.parseStruct(exported)
	case token.ENUM:
		return p.parseEnum(exported)
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.MATCH:
		return p.parseMatchStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return stmts
}

func (p *Parser) parseLet(exported bool) ast.Stmt {
	start := p.cur.Span
	p.next() // 'let'
	name := p.parseBindingName()

	var typ ast.TypeExpr
	if p.at(token.COLON) {
		p.next()
		typ = p.parseTypeExpr()
	}
	var value ast.Expr
	if p.at(token.ASSIGN) {
		p.next()
		value = p.parseExpr(0)
	}
	return &ast.Let{Span: joinSpan(start, p.cur.Span), Name: name, Type: typ, Value: value, Exported: exported}
}

func (p *Parser) parseBindingName() string {
	if p.at(token.WILDCARD) {
		p.next()
		return "_"
	}
	return p.expect(token.IDENT).Lexeme
}

func (p *Parser) parseGlobal() ast.Stmt {
	start := p.cur.Span
	p.next() // 'global'
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.ASSIGN)
	value := p.parseExpr(0)
	return &ast.Global{Span: joinSpan(start, p.cur.Span), Name: name, Value: value}
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(token.LPAREN)
	var params []*ast.Param
	for !p.at(token.RPAREN) {
		tok := p.cur
		name := p.expect(token.IDENT).Lexeme
		var typ ast.TypeExpr
		if p.at(token.COLON) {
			p.next()
			typ = p.parseTypeExpr()
		}
		params = append(params, &ast.Param{Span: tok.Span, Name: name, Type: typ})
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseFunction(exported bool) ast.Stmt {
	start := p.cur.Span
	p.next() // 'fn'
	name := p.expect(token.IDENT).Lexeme
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.at(token.COLON) {
		p.next()
		ret = p.parseTypeExpr()
	}
	body := p.parseBlock()
	return &ast.Function{Span: joinSpan(start, p.cur.Span), Name: name, Params: params, Ret: ret, Body: body, Exported: exported}
}

func (p *Parser) parseStruct(exported bool) ast.Stmt {
	start := p.cur.Span
	p.next() // 'struct'
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.LBRACE)
	var fields []*ast.StructField
	for !p.at(token.RBRACE) {
		tok := p.cur
		fname := p.expect(token.IDENT).Lexeme
		p.expect(token.COLON)
		ftype := p.parseTypeExpr()
		fields = append(fields, &ast.StructField{Span: tok.Span, Name: fname, Type: ftype})
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Struct{Span: joinSpan(start, p.cur.Span), Name: name, Fields: fields, Exported: exported}
}

func (p *Parser) parseEnum(exported bool) ast.Stmt {
	start := p.cur.Span
	p.next() // 'enum'
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.LBRACE)
	var items []*ast.EnumItem
	next := 0
	for !p.at(token.RBRACE) {
		tok := p.cur
		iname := p.expect(token.IDENT).Lexeme
		item := &ast.EnumItem{Span: tok.Span, Name: iname, Value: next}
		if p.at(token.ASSIGN) {
			p.next()
			numTok := p.expect(token.NUMBER)
			n, _ := strconv.Atoi(numTok.Lexeme)
			item.Value = n
			item.HasExplicit = true
			next = n
		}
		next++
		items = append(items, item)
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Enum{Span: joinSpan(start, p.cur.Span), Name: name, Items: items, Exported: exported}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur.Span
	p.next() // 'if'
	cond := p.parseExpr(0)
	body := p.parseBlock()
	stmt := &ast.If{Cond: cond, Body: body}

	for p.at(token.ELSEIF) {
		eiTok := p.cur
		p.next()
		eiCond := p.parseExpr(0)
		eiBody := p.parseBlock()
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{Span: eiTok.Span, Cond: eiCond, Body: eiBody})
	}
	if p.at(token.ELSE) {
		p.next()
		stmt.Else = p.parseBlock()
		stmt.HasElse = true
	}
	stmt.Span = joinSpan(start, p.cur.Span)
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur.Span
	p.next() // 'while'
	cond := p.parseExpr(0)
	body := p.parseBlock()
	return &ast.While{Span: joinSpan(start, p.cur.Span), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur.Span
	p.next() // 'for'
	first := p.expect(token.IDENT).Lexeme

	if p.at(token.ASSIGN) {
		p.next()
		from := p.parseExpr(0)
		p.expect(token.COMMA)
		to := p.parseExpr(0)
		var step ast.Expr
		if p.at(token.COMMA) {
			p.next()
			step = p.parseExpr(0)
		}
		body := p.parseBlock()
		return &ast.ForNum{Span: joinSpan(start, p.cur.Span), Name: first, Start: from, Stop: to, Step: step, Body: body}
	}

	// for k[, v] in iter { ... }
	key := first
	value := ""
	if p.at(token.COMMA) {
		p.next()
		value = p.expect(token.IDENT).Lexeme
	}
	p.expect(token.IN)
	iter := p.parseExpr(0)
	body := p.parseBlock()
	return &ast.ForIn{Span: joinSpan(start, p.cur.Span), Key: key, Value: value, Iter: iter, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.cur.Span
	p.next() // 'return'
	var value ast.Expr
	if !p.at(token.RBRACE) && !p.at(token.EOF) {
		value = p.parseExpr(0)
	}
	return &ast.Return{Span: joinSpan(start, p.cur.Span), Value: value}
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.cur.Span
	p.next() // 'match'
	subject := p.parseExpr(0)
	p.expect(token.LBRACE)
	var cases []*ast.MatchCase
	for p.at(token.CASE) {
		cTok := p.cur
		p.next()
		pat := p.parsePattern()
		p.expect(token.ARROW)
		var body []ast.Stmt
		if p.at(token.LBRACE) {
			body = p.parseBlock()
		} else {
			body = []ast.Stmt{p.parseStatement()}
		}
		cases = append(cases, &ast.MatchCase{Span: cTok.Span, Pattern: pat, Body: body})
	}
	p.expect(token.RBRACE)
	return &ast.Match{Span: joinSpan(start, p.cur.Span), Subject: subject, Cases: cases}
}

// parseAssignOrExprStmt parses an expression statement, promoting it to an
// Assign if followed by `=`.
func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	start := p.cur.Span
	x := p.parseExpr(0)
	if p.at(token.ASSIGN) {
		p.next()
		value := p.parseExpr(0)
		return &ast.Assign{Span: joinSpan(start, p.cur.Span), Target: x, Value: value}
	}
	return &ast.ExprStmt{Span: joinSpan(start, p.cur.Span), X: x}
}
