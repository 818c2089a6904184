// Package checker implements the structural type checker: type construction
// from AST, the assignability relation, expression and statement typing,
// checker-side nil narrowing, and the cross-module export-signature
// builder. It is a sink-reporting pass walking the tree with a linear
// parent-chain scope, carrying types.Type values throughout. There is no
// type inference, so a variable's type is always either written explicitly
// or computed once from its initializer.
package checker

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/types"
)

// Scope is a linear parent chain mapping name -> declared Type, mirroring
// internal/analyzer's scope model (spec §9: no shared mutable parent
// pointers).
type Scope struct {
	parent *Scope
	vars   map[string]types.Type
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]types.Type)}
}

func (s *Scope) child() *Scope { return newScope(s) }

func (s *Scope) declare(name string, t types.Type) {
	s.vars[name] = t
}

func (s *Scope) lookup(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ModuleEnv supplies cross-module type information, the checker analog of
// internal/analyzer.ModuleEnv (spec §4.5 step 6's "imported name -> type").
type ModuleEnv struct {
	ImportedTypes     map[string]types.Type
	AliasToModule     map[string]string
	ModuleExportTypes map[string]map[string]types.Type
}

// Checker runs the structural type-checking pass of spec §4.3 over one unit.
type Checker struct {
	sink *diag.Sink
	reg  *types.Registry
	env  *ModuleEnv

	// retStack holds the declared return type (and whether one was
	// declared) of each function currently being checked, innermost last,
	// so nested function literals cannot leak their enclosing function's
	// return type.
	retStack    []types.Type
	hasRetStack []bool
}

func New(sink *diag.Sink, reg *types.Registry, env *ModuleEnv) *Checker {
	if reg == nil {
		reg = types.NewRegistry()
	}
	return &Checker{sink: sink, reg: reg, env: env}
}

// Check type-checks prog and returns its export signature map (spec §4.3's
// "Export signature builder").
func (c *Checker) Check(prog *ast.Program) map[string]types.Type {
	root := newScope(nil)

	if c.env != nil {
		for name, t := range c.env.ImportedTypes {
			root.declare(name, t)
		}
	}

	c.collectSignatures(prog.Body, root)
	c.checkBlock(prog.Body, root)
	return c.buildExports(prog.Body, root)
}

// collectSignatures pre-registers struct/enum/function declarations so
// forward and mutually-recursive references within the unit resolve
// regardless of source order, the same forward-visibility the analyzer
// grants enums via collectEnums.
func (c *Checker) collectSignatures(stmts []ast.Stmt, scope *Scope) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Struct:
			fields := make(map[string]types.Type, len(s.Fields))
			order := make([]types.Type, 0, len(s.Fields))
			for _, f := range s.Fields {
				ft := types.FromTypeExpr(f.Type, c.reg)
				fields[f.Name] = ft
				order = append(order, ft)
			}
			instance := &types.Struct{Name: s.Name, Fields: fields}
			ctor := &types.StructCtor{Name: s.Name, Instance: instance, CtorParams: order}
			c.reg.Structs[s.Name] = ctor
			scope.declare(s.Name, ctor)
		case *ast.Enum:
			items := make([]string, len(s.Items))
			for i, it := range s.Items {
				items[i] = it.Name
			}
			c.reg.Enums[s.Name] = &types.Enum{Name: s.Name, Items: items}
		case *ast.Function:
			params := make([]types.Type, len(s.Params))
			for i, p := range s.Params {
				params[i] = types.FromTypeExpr(p.Type, c.reg)
			}
			scope.declare(s.Name, &types.Func{Params: params, Ret: types.FromTypeExpr(s.Ret, c.reg)})
		}
	}
}
