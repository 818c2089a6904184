// Package ast defines the tagged syntax tree produced by the parser and
// consumed (and, for the optimizer, rewritten in place) by every later phase.
//
// Every node is a tagged sum rather than a class hierarchy (spec §9): each
// statement/expression/pattern/type-expr variant is its own struct, dispatch
// happens by type switch in the consuming phase, and every node carries its
// originating Span for diagnostics.
package ast

import "github.com/outfield-lang/outfieldc/internal/token"

// Node is the minimal capability every tree node provides.
type Node interface {
	GetSpan() token.Span
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a match-case pattern.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a type annotation as written in source.
type TypeExpr interface {
	Node
	typeExprNode()
}

// --- Program ---

// ImportSpec is a single `import` line.
type ImportSpec struct {
	Span    token.Span
	Path    string   // dotted module path
	Alias   string   // optional; "" if absent
	Names   []string // optional `.{a, b}` named import list; nil if absent
	HasAlias bool
	HasNames bool
}

func (i *ImportSpec) GetSpan() token.Span { return i.Span }

// Program is the root of a parsed unit.
type Program struct {
	Span       token.Span
	Module     string // dotted module name; "" if absent
	ModuleSpan token.Span
	HasModule  bool
	Imports    []*ImportSpec
	Body       []Stmt
}

func (p *Program) GetSpan() token.Span { return p.Span }

// --- Statements ---

type Let struct {
	Span     token.Span
	Name     string
	Type     TypeExpr // nil if no annotation
	Value    Expr     // nil if no initializer
	Exported bool
}

func (s *Let) GetSpan() token.Span { return s.Span }
func (s *Let) stmtNode()           {}

type Global struct {
	Span  token.Span
	Name  string
	Value Expr
}

func (s *Global) GetSpan() token.Span { return s.Span }
func (s *Global) stmtNode()           {}

type Assign struct {
	Span   token.Span
	Target Expr // Ident or Index
	Value  Expr
}

func (s *Assign) GetSpan() token.Span { return s.Span }
func (s *Assign) stmtNode()           {}

type ExprStmt struct {
	Span token.Span
	X    Expr
}

func (s *ExprStmt) GetSpan() token.Span { return s.Span }
func (s *ExprStmt) stmtNode()           {}

type Param struct {
	Span token.Span
	Name string
	Type TypeExpr // nil if untyped (implicit any)
}

type Function struct {
	Span     token.Span
	Name     string
	Params   []*Param
	Ret      TypeExpr // nil if unannotated
	Body     []Stmt
	Exported bool
}

func (s *Function) GetSpan() token.Span { return s.Span }
func (s *Function) stmtNode()           {}

type StructField struct {
	Span token.Span
	Name string
	Type TypeExpr
}

type Struct struct {
	Span     token.Span
	Name     string
	Fields   []*StructField
	Exported bool
}

func (s *Struct) GetSpan() token.Span { return s.Span }
func (s *Struct) stmtNode()           {}

type EnumItem struct {
	Span       token.Span
	Name       string
	Value      int
	HasExplicit bool
}

type Enum struct {
	Span     token.Span
	Name     string
	Items    []*EnumItem
	Exported bool
}

func (s *Enum) GetSpan() token.Span { return s.Span }
func (s *Enum) stmtNode()           {}

type ElseIf struct {
	Span token.Span
	Cond Expr
	Body []Stmt
}

type If struct {
	Span     token.Span
	Cond     Expr
	Body     []Stmt
	ElseIfs  []*ElseIf
	Else     []Stmt // nil if no else
	HasElse  bool
}

func (s *If) GetSpan() token.Span { return s.Span }
func (s *If) stmtNode()           {}

type While struct {
	Span token.Span
	Cond Expr
	Body []Stmt
}

func (s *While) GetSpan() token.Span { return s.Span }
func (s *While) stmtNode()           {}

// ForNum is `for i = start, stop[, step] { ... }`.
type ForNum struct {
	Span  token.Span
	Name  string
	Start Expr
	Stop  Expr
	Step  Expr // nil if absent
	Body  []Stmt
}

func (s *ForNum) GetSpan() token.Span { return s.Span }
func (s *ForNum) stmtNode()           {}

// ForIn is `for k[, v] in iter { ... }`.
type ForIn struct {
	Span  token.Span
	Key   string
	Value string // "" if absent (single-variable form)
	Iter  Expr
	Body  []Stmt
}

func (s *ForIn) GetSpan() token.Span { return s.Span }
func (s *ForIn) stmtNode()           {}

type Return struct {
	Span token.Span
	Value Expr // nil if bare `return`
}

func (s *Return) GetSpan() token.Span { return s.Span }
func (s *Return) stmtNode()           {}

type MatchCase struct {
	Span    token.Span
	Pattern Pattern
	Body    []Stmt
}

type Match struct {
	Span    token.Span
	Subject Expr
	Cases   []*MatchCase
}

func (s *Match) GetSpan() token.Span { return s.Span }
func (s *Match) stmtNode()           {}

// --- Expressions ---

type Ident struct {
	Span  token.Span
	Name  string
}

func (e *Ident) GetSpan() token.Span { return e.Span }
func (e *Ident) exprNode()           {}

type Number struct {
	Span  token.Span
	Value float64
	Raw   string
}

func (e *Number) GetSpan() token.Span { return e.Span }
func (e *Number) exprNode()           {}

type String struct {
	Span  token.Span
	Value string
}

func (e *String) GetSpan() token.Span { return e.Span }
func (e *String) exprNode()           {}

type Boolean struct {
	Span  token.Span
	Value bool
}

func (e *Boolean) GetSpan() token.Span { return e.Span }
func (e *Boolean) exprNode()           {}

type Nil struct {
	Span token.Span
}

func (e *Nil) GetSpan() token.Span { return e.Span }
func (e *Nil) exprNode()           {}

type Unary struct {
	Span token.Span
	Op   string // "-", "#", "not"
	X    Expr
}

func (e *Unary) GetSpan() token.Span { return e.Span }
func (e *Unary) exprNode()           {}

type Binary struct {
	Span  token.Span
	Op    string
	Left  Expr
	Right Expr
}

func (e *Binary) GetSpan() token.Span { return e.Span }
func (e *Binary) exprNode()           {}

type Call struct {
	Span   token.Span
	Callee Expr
	Args   []Expr
}

func (e *Call) GetSpan() token.Span { return e.Span }
func (e *Call) exprNode()           {}

// Index covers both `a.b` (Dot=true) and `a[b]` (Dot=false).
type Index struct {
	Span token.Span
	Base Expr
	Key  Expr // for Dot=true with a literal name, Key is a *String
	Dot  bool
}

func (e *Index) GetSpan() token.Span { return e.Span }
func (e *Index) exprNode()           {}

type Field struct {
	Span       token.Span
	KeyIsIdent bool
	Key        Expr // String literal (keyed) or arbitrary computed expr
	Value      Expr
}

type ArrayField struct {
	Span  token.Span
	Value Expr
}

// Table is a table/struct-literal constructor: a sequence of keyed fields
// and/or positional array fields, in source order.
type Table struct {
	Span         token.Span
	Fields       []*Field
	ArrayFields  []*ArrayField
	// Order records, per source position, whether the next literal entry was
	// a Field ('k') or ArrayField ('a'); needed only by the emitter to
	// reproduce source order faithfully.
	Order []byte
}

func (e *Table) GetSpan() token.Span { return e.Span }
func (e *Table) exprNode()           {}

// --- Patterns ---

type PatternWildcard struct {
	Span token.Span
}

func (p *PatternWildcard) GetSpan() token.Span { return p.Span }
func (p *PatternWildcard) patternNode()        {}

type PatternLiteral struct {
	Span  token.Span
	Value Expr // Number, String, Boolean, or Nil
}

func (p *PatternLiteral) GetSpan() token.Span { return p.Span }
func (p *PatternLiteral) patternNode()        {}

// PatternExpr covers `Enum.Member` and any other bare expression pattern.
type PatternExpr struct {
	Span token.Span
	X    Expr
}

func (p *PatternExpr) GetSpan() token.Span { return p.Span }
func (p *PatternExpr) patternNode()        {}

// --- Type expressions ---

type TypeName struct {
	Span token.Span
	Name string
}

func (t *TypeName) GetSpan() token.Span { return t.Span }
func (t *TypeName) typeExprNode()       {}

type TypeStructField struct {
	Name string
	Type TypeExpr
}

type TypeStruct struct {
	Span   token.Span
	Fields []*TypeStructField
}

func (t *TypeStruct) GetSpan() token.Span { return t.Span }
func (t *TypeStruct) typeExprNode()       {}

type TypeUnion struct {
	Span  token.Span
	Left  TypeExpr
	Right TypeExpr
}

func (t *TypeUnion) GetSpan() token.Span { return t.Span }
func (t *TypeUnion) typeExprNode()       {}

type TypeFunc struct {
	Span   token.Span
	Params []TypeExpr
	Ret    TypeExpr
}

func (t *TypeFunc) GetSpan() token.Span { return t.Span }
func (t *TypeFunc) typeExprNode()       {}
