package analyzer

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/types"
)

// analyzeBlock runs analyzeStmt over stmts in order, reporting dead code
// once a prior statement is known to always return (spec §4.2's
// "unreachable code after return" check), and folds each statement's
// FlowSummary into the block's.
func (a *Analyzer) analyzeBlock(stmts []ast.Stmt, scope *Scope) FlowSummary {
	summary := FlowSummary{}
	returned := false
	for _, stmt := range stmts {
		if returned {
			a.sink.Warn(stmt.GetSpan(), diag.CodeDeadCodeAfterReturn, "unreachable code after return")
		}
		sub := a.analyzeStmt(stmt, scope)
		if sub.AnyWith {
			summary.AnyWith = true
		}
		if sub.AnyWithout {
			summary.AnyWithout = true
		}
		if sub.AlwaysReturns {
			summary.AlwaysReturns = true
			returned = true
		}
	}
	return summary
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt, scope *Scope) FlowSummary {
	switch s := stmt.(type) {
	case *ast.Let:
		return a.analyzeLet(s, scope)
	case *ast.Global:
		return a.analyzeGlobal(s, scope)
	case *ast.Assign:
		return a.analyzeAssign(s, scope)
	case *ast.ExprStmt:
		a.analyzeExpr(s.X, scope)
		return FlowSummary{}
	case *ast.Function:
		a.analyzeFunction(s, scope)
		return FlowSummary{}
	case *ast.Struct:
		return FlowSummary{}
	case *ast.Enum:
		return FlowSummary{}
	case *ast.If:
		return a.analyzeIf(s, scope)
	case *ast.While:
		a.analyzeWhile(s, scope)
		return FlowSummary{}
	case *ast.ForNum:
		a.analyzeForNum(s, scope)
		return FlowSummary{}
	case *ast.ForIn:
		a.analyzeForIn(s, scope)
		return FlowSummary{}
	case *ast.Return:
		return a.analyzeReturn(s, scope)
	case *ast.Match:
		return a.analyzeMatch(s, scope)
	default:
		return FlowSummary{}
	}
}

// analyzeLet implements spec §4.2's let-binding rule: a typed, initialized
// let is NonNil unless its declared type admits nil, an untyped let takes
// the initializer's computed nilness, and an uninitialized let is
// unassigned (reading it before an Assign is an error).
func (a *Analyzer) analyzeLet(s *ast.Let, scope *Scope) FlowSummary {
	if scope.declaredHere(s.Name) {
		a.sink.Error(s.Span, diag.CodeDuplicateLocal, "'"+s.Name+"' is already declared in this scope")
	} else if scope.shadowsAncestor(s.Name) {
		a.sink.Warn(s.Span, diag.CodeShadowedLocal, "'"+s.Name+"' shadows an outer binding")
	}

	info := LocalInfo{DeclSpan: s.Span}
	if s.Type != nil {
		info.HasType = true
		if name, ok := types.TypeExprName(s.Type); ok {
			info.TypeName = name
		}
		info.Nilable = types.TypeExprIsNilUnion(s.Type)
	}

	if s.Value != nil {
		valNilness := a.analyzeExpr(s.Value, scope)
		info.Assigned = true
		if info.HasType && !info.Nilable {
			info.Nilness = NonNil
		} else {
			info.Nilness = valNilness
		}
	} else {
		info.Assigned = false
		info.Nilness = Unknown
	}

	scope.declare(s.Name, info)
	return FlowSummary{}
}

func (a *Analyzer) analyzeGlobal(s *ast.Global, scope *Scope) FlowSummary {
	a.allowedGlobals[s.Name] = true
	a.analyzeExpr(s.Value, scope)
	return FlowSummary{}
}

// analyzeAssign handles both `name = e` and `base.field = e` / `base[k] = e`
// targets; only the former participates in definite-assignment tracking.
func (a *Analyzer) analyzeAssign(s *ast.Assign, scope *Scope) FlowSummary {
	valNilness := a.analyzeExpr(s.Value, scope)

	switch t := s.Target.(type) {
	case *ast.Ident:
		owner, info, ok := scope.lookup(t.Name)
		if !ok {
			if a.allowedGlobals[t.Name] {
				return FlowSummary{}
			}
			a.sink.Error(t.Span, diag.CodeUndefinedIdent, "undefined identifier '"+t.Name+"'")
			return FlowSummary{}
		}
		info.Assigned = true
		if info.HasType && !info.Nilable {
			info.Nilness = NonNil
		} else {
			info.Nilness = valNilness
		}
		owner.locals[t.Name] = info
	case *ast.Index:
		a.checkIndex(t, scope)
	}
	return FlowSummary{}
}

func (a *Analyzer) analyzeFunction(s *ast.Function, outer *Scope) {
	body := outer.child()
	for _, p := range s.Params {
		nilable := p.Type != nil && types.TypeExprIsNilUnion(p.Type)
		nn := Unknown
		if p.Type != nil && !nilable {
			nn = NonNil
		}
		info := LocalInfo{
			Used: false, Assigned: true, Nilness: nn, DeclSpan: p.Span,
			HasType: p.Type != nil, Nilable: nilable,
		}
		if p.Type != nil {
			if name, ok := types.TypeExprName(p.Type); ok {
				info.TypeName = name
			}
		}
		body.declare(p.Name, info)
	}

	summary := a.analyzeBlock(s.Body, body)
	a.checkUnused(body)

	if s.Ret != nil {
		if !summary.AlwaysReturns {
			a.sink.Error(s.Span, diag.CodeMissingReturn, "function '"+s.Name+"' does not return on every path")
		} else if summary.AnyWith && summary.AnyWithout {
			a.sink.Error(s.Span, diag.CodeInconsistentReturn, "function '"+s.Name+"' returns a value on some paths and nothing on others")
		}
	} else if summary.AnyWith && summary.AnyWithout {
		a.sink.Error(s.Span, diag.CodeInconsistentReturn, "function '"+s.Name+"' returns a value on some paths and nothing on others")
	}
}

func (a *Analyzer) analyzeReturn(s *ast.Return, scope *Scope) FlowSummary {
	if s.Value != nil {
		a.analyzeExpr(s.Value, scope)
		return FlowSummary{AlwaysReturns: true, AnyWith: true}
	}
	return FlowSummary{AlwaysReturns: true, AnyWithout: true}
}

// analyzeIf wires narrowing and scope snapshot/merge per spec §4.2 and §9:
// each arm gets its own child scope seeded by narrowing the condition's
// refinement, analyzed independently, then joined back into the parent.
func (a *Analyzer) analyzeIf(s *ast.If, scope *Scope) FlowSummary {
	a.analyzeExpr(s.Cond, scope)

	before := snapshotLocals(scope)

	thenScope := scope.child()
	applyNarrowing(thenScope, s.Cond, true)
	thenSummary := a.analyzeBlock(s.Body, thenScope)
	thenSnap := snapshotLocals(thenScope)

	allArmsReturn := thenSummary.AlwaysReturns
	combined := thenSummary
	lastSnap := thenSnap

	for _, ei := range s.ElseIfs {
		elifScope := scope.child()
		applyNarrowing(elifScope, ei.Cond, true)
		a.analyzeExpr(ei.Cond, elifScope)
		elifSummary := a.analyzeBlock(ei.Body, elifScope)
		elifSnap := snapshotLocals(elifScope)

		combined = orSummary(combined, elifSummary)
		allArmsReturn = allArmsReturn && elifSummary.AlwaysReturns
		lastSnap = mergeSnap(before, lastSnap, elifSnap)
	}

	var elseSummary FlowSummary
	var elseSnap map[string]LocalInfo
	if s.HasElse {
		elseScope := scope.child()
		applyNarrowing(elseScope, s.Cond, false)
		elseSummary = a.analyzeBlock(s.Else, elseScope)
		elseSnap = snapshotLocals(elseScope)
	} else {
		elseScope := scope.child()
		applyNarrowing(elseScope, s.Cond, false)
		elseSnap = snapshotLocals(elseScope)
	}

	combined = orSummary(combined, elseSummary)
	allArmsReturn = allArmsReturn && s.HasElse && elseSummary.AlwaysReturns

	mergeJoin(scope, before, lastSnap, elseSnap)

	return FlowSummary{
		AlwaysReturns: allArmsReturn,
		AnyWith:       combined.AnyWith,
		AnyWithout:    combined.AnyWithout,
	}
}

// mergeSnap combines two post-branch snapshots (used to fold elseif chains
// pairwise before the final join against the else/no-else snapshot).
func mergeSnap(before, a, b map[string]LocalInfo) map[string]LocalInfo {
	out := make(map[string]LocalInfo, len(before))
	for name := range before {
		av, aok := a[name]
		bv, bok := b[name]
		if !aok {
			av = before[name]
		}
		if !bok {
			bv = before[name]
		}
		merged := av
		merged.Nilness = JoinNilness(av.Nilness, bv.Nilness)
		merged.Assigned = av.Assigned && bv.Assigned
		merged.Used = av.Used || bv.Used
		out[name] = merged
	}
	return out
}

func (a *Analyzer) analyzeWhile(s *ast.While, scope *Scope) {
	a.analyzeExpr(s.Cond, scope)
	body := scope.child()
	applyNarrowing(body, s.Cond, true)
	a.analyzeBlock(s.Body, body)
	a.checkUnused(body)
}

func (a *Analyzer) analyzeForNum(s *ast.ForNum, scope *Scope) {
	a.analyzeExpr(s.Start, scope)
	a.analyzeExpr(s.Stop, scope)
	if s.Step != nil {
		a.analyzeExpr(s.Step, scope)
	}
	body := scope.child()
	body.declare(s.Name, LocalInfo{Assigned: true, Nilness: NonNil, DeclSpan: s.Span})
	a.analyzeBlock(s.Body, body)
	a.checkUnused(body)
}

func (a *Analyzer) analyzeForIn(s *ast.ForIn, scope *Scope) {
	a.analyzeExpr(s.Iter, scope)
	body := scope.child()
	body.declare(s.Key, LocalInfo{Assigned: true, Nilness: Unknown, DeclSpan: s.Span})
	if s.Value != "" {
		body.declare(s.Value, LocalInfo{Assigned: true, Nilness: Unknown, DeclSpan: s.Span})
	}
	a.analyzeBlock(s.Body, body)
	a.checkUnused(body)
}
