package checker

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/types"
)

// applyNarrowing mirrors internal/analyzer's narrowing of spec §4.2, but
// over types.Type rather than the three-valued nilness lattice (spec
// §4.3's "Checker-side narrowing mirrors analyzer narrowing ... mutating
// the narrowed local's type inside the then/else scopes only").
func applyNarrowing(scope *Scope, cond ast.Expr, positive bool) {
	switch c := cond.(type) {
	case *ast.Binary:
		if c.Op != "==" && c.Op != "~=" {
			return
		}
		name, ok := nilCompareTarget(c)
		if !ok {
			return
		}
		eqNil := c.Op == "=="
		narrowNilBranch(scope, name, eqNil == positive)
	case *ast.Ident:
		narrowNilBranch(scope, c.Name, !positive)
	}
}

func nilCompareTarget(b *ast.Binary) (string, bool) {
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

// narrowNilBranch declares name, in scope only, as nil (impliesNil=true) or
// with nil removed from its current type (impliesNil=false).
func narrowNilBranch(scope *Scope, name string, impliesNil bool) {
	t, ok := scope.lookup(name)
	if !ok {
		return
	}
	if impliesNil {
		scope.declare(name, types.NilT{})
	} else {
		scope.declare(name, types.RemoveNil(t))
	}
}
