package analyzer

import "github.com/outfield-lang/outfieldc/internal/ast"
import "github.com/outfield-lang/outfieldc/internal/diag"

// analyzeExpr walks e for diagnostics (undefined identifiers, use-before-
// assignment, possibly-nil field access) and returns e's current nilness
// per spec §4.2's initializer-nilness rule: literals give non_nil except
// nil; tables give non_nil; arithmetic/comparison/unary-not give non_nil;
// identifier reads propagate their current nilness; otherwise unknown.
func (a *Analyzer) analyzeExpr(e ast.Expr, scope *Scope) Nilness {
	switch n := e.(type) {
	case *ast.Ident:
		return a.readIdent(n, scope)
	case *ast.Number, *ast.String, *ast.Boolean:
		return NonNil
	case *ast.Nil:
		return MaybeNil
	case *ast.Table:
		for _, f := range n.Fields {
			if !f.KeyIsIdent {
				a.analyzeExpr(f.Key, scope)
			}
			a.analyzeExpr(f.Value, scope)
		}
		for _, af := range n.ArrayFields {
			a.analyzeExpr(af.Value, scope)
		}
		return NonNil
	case *ast.Unary:
		a.analyzeExpr(n.X, scope)
		return NonNil
	case *ast.Binary:
		a.analyzeExpr(n.Left, scope)
		a.analyzeExpr(n.Right, scope)
		if n.Op == "and" || n.Op == "or" {
			return Unknown
		}
		return NonNil
	case *ast.Call:
		a.analyzeExpr(n.Callee, scope)
		for _, arg := range n.Args {
			a.analyzeExpr(arg, scope)
		}
		return Unknown
	case *ast.Index:
		a.checkIndex(n, scope)
		return Unknown
	default:
		return Unknown
	}
}

// checkIndex validates module-alias/enum dotted access and the possibly-nil
// field-access rule (spec §4.2).
func (a *Analyzer) checkIndex(n *ast.Index, scope *Scope) {
	baseIdent, baseIsIdent := n.Base.(*ast.Ident)

	if n.Dot && baseIsIdent && a.env != nil {
		if modName, isAlias := a.env.AliasToModule[baseIdent.Name]; isAlias {
			a.markIdentUsed(baseIdent, scope)
			if key, ok := n.Key.(*ast.String); ok {
				exports := a.env.ModuleExports[modName]
				if !exports[key.Value] {
					a.sink.Error(n.Span, diag.CodeNonExportedAccess,
						"access to non-exported symbol '"+key.Value+"' from module '"+modName+"'")
				}
			}
			return
		}
	}

	baseNilness := a.analyzeExpr(n.Base, scope)
	if !n.Dot {
		a.analyzeExpr(n.Key, scope)
	}
	if baseIsIdent && baseNilness == MaybeNil {
		a.sink.Error(n.Span, diag.CodeNilFieldAccess, "cannot access field on possibly-nil value")
	}
}

// readIdent implements spec §4.2's binding rules for a read: unbound names
// are errors unless allow-listed or imported; a bound-but-unassigned local
// errors "use before assignment"; otherwise its current nilness is
// returned and it is marked used.
func (a *Analyzer) readIdent(id *ast.Ident, scope *Scope) Nilness {
	if id.Name == "_" {
		return Unknown
	}
	owner, info, ok := scope.lookup(id.Name)
	if !ok {
		if a.allowedGlobals[id.Name] {
			return Unknown
		}
		a.sink.Error(id.Span, diag.CodeUndefinedIdent, "undefined identifier '"+id.Name+"'")
		return Unknown
	}
	if !info.Assigned {
		a.sink.Error(id.Span, diag.CodeUseBeforeAssignment, "Use of '"+id.Name+"' before assignment")
	}
	info.Used = true
	owner.locals[id.Name] = info
	return info.Nilness
}

func (a *Analyzer) markIdentUsed(id *ast.Ident, scope *Scope) {
	if owner, info, ok := scope.lookup(id.Name); ok {
		info.Used = true
		owner.locals[id.Name] = info
	}
}
