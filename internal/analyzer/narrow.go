package analyzer

import "github.com/outfield-lang/outfieldc/internal/ast"

// identNilCompareTarget recognizes `x == nil` / `nil == x` (and the `~=`
// variant) and returns the identifier name being compared.
func identNilCompareTarget(b *ast.Binary) (string, bool) {
	if id, ok := b.Left.(*ast.Ident); ok {
		if _, ok2 := b.Right.(*ast.Nil); ok2 {
			return id.Name, true
		}
	}
	if id, ok := b.Right.(*ast.Ident); ok {
		if _, ok2 := b.Left.(*ast.Nil); ok2 {
			return id.Name, true
		}
	}
	return "", false
}

// applyNarrowing mutates scope (a fresh child scope for one branch) with the
// nilness refinement implied by cond being true (positive) or false
// (!positive), per spec §4.2's three supported forms: `x == nil`,
// `x ~= nil`, and bare `x` as a truthiness test. The refinement shadows the
// name in scope only — it is never written back to an ancestor scope
// (spec §9's "narrowing is local to branches").
func applyNarrowing(scope *Scope, cond ast.Expr, positive bool) {
	switch c := cond.(type) {
	case *ast.Binary:
		if c.Op != "==" && c.Op != "~=" {
			return
		}
		name, ok := identNilCompareTarget(c)
		if !ok {
			return
		}
		eqNil := c.Op == "=="
		var nn Nilness
		if eqNil == positive {
			nn = MaybeNil
		} else {
			nn = NonNil
		}
		narrowName(scope, name, nn)
	case *ast.Ident:
		nn := MaybeNil
		if positive {
			nn = NonNil
		}
		narrowName(scope, c.Name, nn)
	}
}

func narrowName(scope *Scope, name string, nn Nilness) {
	_, info, ok := scope.lookup(name)
	if !ok {
		return
	}
	info.Nilness = nn
	scope.narrow(name, info)
}
