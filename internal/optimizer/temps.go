package optimizer

import "github.com/outfield-lang/outfieldc/internal/ast"

// eliminateTempsBlock implements spec §4.4 P6 over stmts: repeatedly removes
// a non-exported `let x = e` whose e is a simple identifier or literal and
// whose x is referenced exactly once elsewhere in the block, substituting e
// for that single use. Runs to fixpoint within the block (a substitution can
// turn a previously multi-use or non-simple binding into a new candidate, as
// in the chained scenario of spec §8), then recurses into nested bodies.
func eliminateTempsBlock(stmts []ast.Stmt) []ast.Stmt {
	for {
		next, changed := eliminateTempsPass(stmts)
		stmts = next
		if !changed {
			break
		}
	}

	for _, stmt := range stmts {
		bodies := nestedBodies(stmt)
		if bodies != nil {
			for j := range bodies {
				bodies[j] = eliminateTempsBlock(bodies[j])
			}
			setNestedBodies(stmt, bodies)
		}
	}
	return stmts
}

func eliminateTempsPass(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	for i, stmt := range stmts {
		l, ok := stmt.(*ast.Let)
		if !ok || l.Exported || l.Value == nil || !isSimpleTemp(l.Value) {
			continue
		}

		rest := append(append([]ast.Stmt{}, stmts[:i]...), stmts[i+1:]...)
		uses := 0
		var use *ast.Expr
		forEachBlockExprPtr(rest, func(p *ast.Expr) {
			if id, ok := (*p).(*ast.Ident); ok && id.Name == l.Name {
				uses++
				use = p
			}
		})
		if uses != 1 {
			continue
		}

		*use = l.Value
		return rest, true
	}
	return stmts, false
}

// isSimpleTemp reports whether e is the restricted substitution grammar of
// spec §4.4 P6: an identifier or a literal.
func isSimpleTemp(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.Number, *ast.String, *ast.Boolean, *ast.Nil:
		return true
	default:
		return false
	}
}
