package checker

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/types"
)

func (c *Checker) checkBlock(stmts []ast.Stmt, scope *Scope) {
	for _, stmt := range stmts {
		c.checkStmt(stmt, scope)
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt, scope *Scope) {
	switch s := stmt.(type) {
	case *ast.Let:
		c.checkLet(s, scope)
	case *ast.Global:
		c.typeOf(s.Value, scope)
	case *ast.Assign:
		c.checkAssign(s, scope)
	case *ast.ExprStmt:
		c.typeOf(s.X, scope)
	case *ast.Function:
		c.checkFunction(s, scope)
	case *ast.Struct, *ast.Enum:
		// fully registered in collectSignatures; nothing left to check.
	case *ast.If:
		c.checkIf(s, scope)
	case *ast.While:
		c.typeOf(s.Cond, scope)
		body := scope.child()
		applyNarrowing(body, s.Cond, true)
		c.checkBlock(s.Body, body)
	case *ast.ForNum:
		c.typeOf(s.Start, scope)
		c.typeOf(s.Stop, scope)
		if s.Step != nil {
			c.typeOf(s.Step, scope)
		}
		body := scope.child()
		body.declare(s.Name, types.Number)
		c.checkBlock(s.Body, body)
	case *ast.ForIn:
		c.typeOf(s.Iter, scope)
		body := scope.child()
		body.declare(s.Key, types.AnyT{})
		if s.Value != "" {
			body.declare(s.Value, types.AnyT{})
		}
		c.checkBlock(s.Body, body)
	case *ast.Return:
		c.checkReturn(s, scope)
	case *ast.Match:
		c.checkMatch(s, scope)
	}
}

func (c *Checker) checkLet(s *ast.Let, scope *Scope) {
	var declared types.Type
	if s.Type != nil {
		declared = types.FromTypeExpr(s.Type, c.reg)
	}

	var valType types.Type
	if s.Value != nil {
		valType = c.typeOf(s.Value, scope)
	}

	switch {
	case s.Type != nil && s.Value != nil:
		if !types.Assignable(valType, declared) {
			c.sink.Error(s.Value.GetSpan(), diag.CodeTypeMismatch, "expected "+declared.String()+", got "+valType.String())
		}
	case s.Type != nil:
		// declared stands as-is, no initializer to check.
	case s.Value != nil:
		declared = valType
	default:
		declared = types.AnyT{}
	}

	scope.declare(s.Name, declared)
}

func (c *Checker) checkAssign(s *ast.Assign, scope *Scope) {
	valType := c.typeOf(s.Value, scope)
	if id, ok := s.Target.(*ast.Ident); ok {
		if varType, known := scope.lookup(id.Name); known {
			if !types.Assignable(valType, varType) {
				c.sink.Error(s.Value.GetSpan(), diag.CodeTypeMismatch, "expected "+varType.String()+", got "+valType.String())
			}
		}
		return
	}
	if idx, ok := s.Target.(*ast.Index); ok {
		c.typeOf(idx.Base, scope)
	}
}

func (c *Checker) checkReturn(s *ast.Return, scope *Scope) {
	if len(c.retStack) == 0 {
		if s.Value != nil {
			c.typeOf(s.Value, scope)
		}
		return
	}
	hasRet := c.hasRetStack[len(c.hasRetStack)-1]
	if !hasRet {
		if s.Value != nil {
			c.typeOf(s.Value, scope)
		}
		return
	}
	retType := c.retStack[len(c.retStack)-1]
	if s.Value == nil {
		return
	}
	valType := c.typeOf(s.Value, scope)
	if !types.Assignable(valType, retType) {
		c.sink.Error(s.Value.GetSpan(), diag.CodeReturnMismatch, "Return type mismatch: expected "+retType.String()+", got "+valType.String())
	}
}

func (c *Checker) checkFunction(s *ast.Function, outer *Scope) {
	params := make([]types.Type, len(s.Params))
	body := outer.child()
	for i, p := range s.Params {
		pt := types.FromTypeExpr(p.Type, c.reg)
		params[i] = pt
		body.declare(p.Name, pt)
	}
	ret := types.FromTypeExpr(s.Ret, c.reg)
	outer.declare(s.Name, &types.Func{Params: params, Ret: ret})

	c.retStack = append(c.retStack, ret)
	c.hasRetStack = append(c.hasRetStack, s.Ret != nil)
	c.checkBlock(s.Body, body)
	c.retStack = c.retStack[:len(c.retStack)-1]
	c.hasRetStack = c.hasRetStack[:len(c.hasRetStack)-1]
}

func (c *Checker) checkIf(s *ast.If, scope *Scope) {
	c.typeOf(s.Cond, scope)

	thenScope := scope.child()
	applyNarrowing(thenScope, s.Cond, true)
	c.checkBlock(s.Body, thenScope)

	for _, ei := range s.ElseIfs {
		elifScope := scope.child()
		c.typeOf(ei.Cond, elifScope)
		applyNarrowing(elifScope, ei.Cond, true)
		c.checkBlock(ei.Body, elifScope)
	}

	if s.HasElse {
		elseScope := scope.child()
		applyNarrowing(elseScope, s.Cond, false)
		c.checkBlock(s.Else, elseScope)
	}
}

func (c *Checker) checkMatch(s *ast.Match, scope *Scope) {
	c.typeOf(s.Subject, scope)
	for _, kase := range s.Cases {
		caseScope := scope.child()
		if pe, ok := kase.Pattern.(*ast.PatternExpr); ok {
			if idx, isIdx := pe.X.(*ast.Index); !isIdx || !idx.Dot {
				c.typeOf(pe.X, caseScope)
			}
		} else if pl, ok := kase.Pattern.(*ast.PatternLiteral); ok {
			c.typeOf(pl.Value, caseScope)
		}
		c.checkBlock(kase.Body, caseScope)
	}
}

// buildExports implements spec §4.3's export signature builder: functions
// yield func, structs yield struct_ctor, enums yield enum, exported lets
// yield their declared (or inferred) type. Duplicate exported names are
// reported once each, at the second and later occurrence.
func (c *Checker) buildExports(stmts []ast.Stmt, scope *Scope) map[string]types.Type {
	exports := make(map[string]types.Type)
	record := func(span ast.Node, name string, t types.Type) {
		if _, dup := exports[name]; dup {
			c.sink.Error(span.GetSpan(), diag.CodeDuplicateExport, "duplicate exported name '"+name+"'")
			return
		}
		exports[name] = t
	}

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			if s.Exported {
				t, _ := scope.lookup(s.Name)
				if t == nil {
					t = types.AnyT{}
				}
				record(s, s.Name, t)
			}
		case *ast.Function:
			if s.Exported {
				t, _ := scope.lookup(s.Name)
				if t == nil {
					t = types.AnyT{}
				}
				record(s, s.Name, t)
			}
		case *ast.Struct:
			if s.Exported {
				record(s, s.Name, c.reg.Structs[s.Name])
			}
		case *ast.Enum:
			if s.Exported {
				record(s, s.Name, c.reg.Enums[s.Name])
			}
		}
	}
	return exports
}
