// Package emitter renders a checked, optimized *ast.Program as Lua/Luau
// source text. A bytes.Buffer with an indent counter backs
// write/writeIndent/writeln helpers; node dispatch is a plain type switch
// over the tagged AST, no visitor interface.
package emitter

import (
	"bytes"
	"strconv"

	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/config"
)

// binaryPrec mirrors internal/parser's Pratt precedence table exactly
// (same operator set, same grammar) so re-emitted expressions need parens
// in precisely the positions the original syntax required them.
var binaryPrec = map[string]int{
	"or": 1, "and": 2,
	"==": 3, "~=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6, "^": 6,
}

// Emitter walks one checked, optimized unit and produces its Lua/Luau text.
type Emitter struct {
	buf          bytes.Buffer
	indent       int
	target       config.Target
	matchCounter int
}

func New(target config.Target) *Emitter {
	return &Emitter{target: target}
}

// Emit renders prog. A unit carrying a `module` header is wrapped per spec
// §6's module conventions (imports, `local M = {}`, body, `return M`,
// `M.name = name` after exported definitions); a moduleless unit emits its
// body directly.
func Emit(prog *ast.Program, target config.Target) string {
	e := New(target)
	if prog.HasModule {
		for _, imp := range prog.Imports {
			e.emitImport(imp)
		}
		e.writeIndent()
		e.write("local M = {}\n")
	}
	e.emitBlock(prog.Body, prog.HasModule)
	if prog.HasModule {
		e.writeIndent()
		e.write("return M\n")
	}
	return e.buf.String()
}

func (e *Emitter) write(s string)     { e.buf.WriteString(s) }
func (e *Emitter) writeln()           { e.buf.WriteString("\n") }
func (e *Emitter) writeIndent() {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
}

func (e *Emitter) emitImport(imp *ast.ImportSpec) {
	e.writeIndent()
	if imp.HasNames {
		alias := "__import" + strconv.Itoa(int(imp.Span.StartPos.Line))
		e.write("local " + alias + " = require(\"" + imp.Path + "\")\n")
		for _, n := range imp.Names {
			e.writeIndent()
			e.write("local " + n + " = " + alias + "." + n + "\n")
		}
		return
	}
	alias := imp.Alias
	if !imp.HasAlias {
		alias = lastSegment(imp.Path)
	}
	e.write("local " + alias + " = require(\"" + imp.Path + "\")\n")
}

func lastSegment(dotted string) string {
	last := dotted
	for i := len(dotted) - 1; i >= 0; i-- {
		if dotted[i] == '.' {
			last = dotted[i+1:]
			break
		}
	}
	return last
}

// emitBlock emits every statement of stmts; when exported is true, an
// exported top-level declaration additionally emits `M.name = name`
// immediately after its own definition (spec §6).
func (e *Emitter) emitBlock(stmts []ast.Stmt, exported bool) {
	for _, stmt := range stmts {
		e.emitStmt(stmt, exported)
	}
}

func (e *Emitter) emitStmt(stmt ast.Stmt, moduleMode bool) {
	switch s := stmt.(type) {
	case *ast.Let:
		e.writeIndent()
		e.write("local " + s.Name)
		if s.Value != nil {
			e.write(" = ")
			e.emitExpr(s.Value, 0)
		}
		e.write("\n")
		e.emitExportBinding(moduleMode, s.Exported, s.Name)
	case *ast.Global:
		e.writeIndent()
		e.write(s.Name + " = ")
		e.emitExpr(s.Value, 0)
		e.write("\n")
	case *ast.Assign:
		e.writeIndent()
		e.emitExpr(s.Target, 0)
		e.write(" = ")
		e.emitExpr(s.Value, 0)
		e.write("\n")
	case *ast.ExprStmt:
		e.writeIndent()
		e.emitExpr(s.X, 0)
		e.write("\n")
	case *ast.Function:
		e.emitFunction(s, moduleMode)
	case *ast.Struct:
		e.emitStruct(s, moduleMode)
	case *ast.Enum:
		e.emitEnum(s, moduleMode)
	case *ast.If:
		e.emitIf(s)
	case *ast.While:
		e.writeIndent()
		e.write("while ")
		e.emitExpr(s.Cond, 0)
		e.write(" do\n")
		e.indent++
		e.emitBlock(s.Body, false)
		e.indent--
		e.writeIndent()
		e.write("end\n")
	case *ast.ForNum:
		e.writeIndent()
		e.write("for " + s.Name + " = ")
		e.emitExpr(s.Start, 0)
		e.write(", ")
		e.emitExpr(s.Stop, 0)
		if s.Step != nil {
			e.write(", ")
			e.emitExpr(s.Step, 0)
		}
		e.write(" do\n")
		e.indent++
		e.emitBlock(s.Body, false)
		e.indent--
		e.writeIndent()
		e.write("end\n")
	case *ast.ForIn:
		e.writeIndent()
		e.write("for " + s.Key)
		if s.Value != "" {
			e.write(", " + s.Value)
		}
		e.write(" in ")
		e.emitExpr(s.Iter, 0)
		e.write(" do\n")
		e.indent++
		e.emitBlock(s.Body, false)
		e.indent--
		e.writeIndent()
		e.write("end\n")
	case *ast.Return:
		e.writeIndent()
		e.write("return")
		if s.Value != nil {
			e.write(" ")
			e.emitExpr(s.Value, 0)
		}
		e.write("\n")
	case *ast.Match:
		e.emitMatch(s)
	}
}

func (e *Emitter) emitExportBinding(moduleMode, exported bool, name string) {
	if moduleMode && exported {
		e.writeIndent()
		e.write("M." + name + " = " + name + "\n")
	}
}

func (e *Emitter) emitFunction(s *ast.Function, moduleMode bool) {
	e.writeIndent()
	e.write("local function " + s.Name + "(")
	for i, p := range s.Params {
		if i > 0 {
			e.write(", ")
		}
		e.write(p.Name)
	}
	e.write(")\n")
	e.indent++
	e.emitBlock(s.Body, false)
	e.indent--
	e.writeIndent()
	e.write("end\n")
	e.emitExportBinding(moduleMode, s.Exported, s.Name)
}

// emitStruct renders `local S = {}; function S.new(fields…) return { f = f,
// … } end` (spec §6).
func (e *Emitter) emitStruct(s *ast.Struct, moduleMode bool) {
	e.writeIndent()
	e.write("local " + s.Name + " = {}\n")
	e.writeIndent()
	e.write("function " + s.Name + ".new(")
	for i, f := range s.Fields {
		if i > 0 {
			e.write(", ")
		}
		e.write(f.Name)
	}
	e.write(")\n")
	e.indent++
	e.writeIndent()
	e.write("return { ")
	for i, f := range s.Fields {
		if i > 0 {
			e.write(", ")
		}
		e.write(f.Name + " = " + f.Name)
	}
	e.write(" }\n")
	e.indent--
	e.writeIndent()
	e.write("end\n")
	e.emitExportBinding(moduleMode, s.Exported, s.Name)
}

// emitEnum renders `local E = { A = 1, B = 2, … }`, honoring explicit
// values and advancing the counter from any explicit value (spec §6).
func (e *Emitter) emitEnum(s *ast.Enum, moduleMode bool) {
	e.writeIndent()
	e.write("local " + s.Name + " = { ")
	next := 1
	for i, it := range s.Items {
		if i > 0 {
			e.write(", ")
		}
		v := next
		if it.HasExplicit {
			v = it.Value
		}
		e.write(it.Name + " = " + strconv.Itoa(v))
		next = v + 1
	}
	e.write(" }\n")
	e.emitExportBinding(moduleMode, s.Exported, s.Name)
}

func (e *Emitter) emitIf(s *ast.If) {
	e.writeIndent()
	e.write("if ")
	e.emitExpr(s.Cond, 0)
	e.write(" then\n")
	e.indent++
	e.emitBlock(s.Body, false)
	e.indent--
	for _, ei := range s.ElseIfs {
		e.writeIndent()
		e.write("elseif ")
		e.emitExpr(ei.Cond, 0)
		e.write(" then\n")
		e.indent++
		e.emitBlock(ei.Body, false)
		e.indent--
	}
	if s.HasElse {
		e.writeIndent()
		e.write("else\n")
		e.indent++
		e.emitBlock(s.Else, false)
		e.indent--
	}
	e.writeIndent()
	e.write("end\n")
}

// emitMatch renders an if/elseif/else chain on the subject; a non-trivial
// subject is bound to a fresh `__match<N>` local first (spec §6).
func (e *Emitter) emitMatch(s *ast.Match) {
	subject := s.Subject
	if _, ok := subject.(*ast.Ident); !ok {
		e.matchCounter++
		name := "__match" + strconv.Itoa(e.matchCounter)
		e.writeIndent()
		e.write("local " + name + " = ")
		e.emitExpr(s.Subject, 0)
		e.write("\n")
		subject = &ast.Ident{Span: s.Span, Name: name}
	}

	for i, kase := range s.Cases {
		e.writeIndent()
		switch pat := kase.Pattern.(type) {
		case *ast.PatternWildcard:
			if i == 0 {
				e.write("if true then\n")
			} else {
				e.write("else\n")
			}
		case *ast.PatternLiteral:
			e.write(condKeyword(i) + " ")
			e.emitExpr(subject, 0)
			e.write(" == ")
			e.emitExpr(pat.Value, 0)
			e.write(" then\n")
		case *ast.PatternExpr:
			e.write(condKeyword(i) + " ")
			e.emitExpr(subject, 0)
			e.write(" == ")
			e.emitExpr(pat.X, 0)
			e.write(" then\n")
		}
		e.indent++
		e.emitBlock(kase.Body, false)
		e.indent--
	}
	e.writeIndent()
	e.write("end\n")
}

func condKeyword(i int) string {
	if i == 0 {
		return "if"
	}
	return "elseif"
}

func (e *Emitter) emitExpr(expr ast.Expr, parentPrec int) {
	switch n := expr.(type) {
	case *ast.Ident:
		e.write(n.Name)
	case *ast.Number:
		e.write(formatNumber(n.Value))
	case *ast.String:
		e.write(strconv.Quote(n.Value))
	case *ast.Boolean:
		e.write(strconv.FormatBool(n.Value))
	case *ast.Nil:
		e.write("nil")
	case *ast.Unary:
		e.write(unaryText(n.Op))
		e.emitExpr(n.X, precUnary)
	case *ast.Binary:
		prec := binaryPrec[n.Op]
		needParens := prec < parentPrec
		if needParens {
			e.write("(")
		}
		e.emitExpr(n.Left, prec)
		e.write(" " + n.Op + " ")
		e.emitExpr(n.Right, prec+1)
		if needParens {
			e.write(")")
		}
	case *ast.Call:
		e.emitExpr(n.Callee, precCall)
		e.write("(")
		for i, arg := range n.Args {
			if i > 0 {
				e.write(", ")
			}
			e.emitExpr(arg, 0)
		}
		e.write(")")
	case *ast.Index:
		e.emitExpr(n.Base, precCall)
		if n.Dot {
			e.write("." + n.Key.(*ast.String).Value)
		} else {
			e.write("[")
			e.emitExpr(n.Key, 0)
			e.write("]")
		}
	case *ast.Table:
		e.emitTable(n)
	}
}

const (
	precUnary = 7
	precCall  = 8
)

func unaryText(op string) string {
	if op == "not" {
		return "not "
	}
	return op
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (e *Emitter) emitTable(t *ast.Table) {
	e.write("{ ")
	fi, ai := 0, 0
	for i, kind := range t.Order {
		if i > 0 {
			e.write(", ")
		}
		if kind == 'k' {
			f := t.Fields[fi]
			fi++
			if f.KeyIsIdent {
				e.write(f.Key.(*ast.String).Value + " = ")
			} else {
				e.write("[")
				e.emitExpr(f.Key, 0)
				e.write("] = ")
			}
			e.emitExpr(f.Value, 0)
		} else {
			af := t.ArrayFields[ai]
			ai++
			e.emitExpr(af.Value, 0)
		}
	}
	e.write(" }")
}
