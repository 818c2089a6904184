package optimizer

import "github.com/outfield-lang/outfieldc/internal/ast"

// exprSlots returns addressable pointers to stmt's own expression fields —
// not the expressions of any nested statement body, which P3/P4/P6 treat as
// independent blocks recursed into separately (spec §4.4: "within a
// block... recurse into nested blocks").
func exprSlots(stmt ast.Stmt) []*ast.Expr {
	switch s := stmt.(type) {
	case *ast.Let:
		if s.Value != nil {
			return []*ast.Expr{&s.Value}
		}
	case *ast.Global:
		return []*ast.Expr{&s.Value}
	case *ast.Assign:
		return []*ast.Expr{&s.Value}
	case *ast.ExprStmt:
		return []*ast.Expr{&s.X}
	case *ast.If:
		slots := []*ast.Expr{&s.Cond}
		for _, ei := range s.ElseIfs {
			slots = append(slots, &ei.Cond)
		}
		return slots
	case *ast.While:
		return []*ast.Expr{&s.Cond}
	case *ast.ForNum:
		slots := []*ast.Expr{&s.Start, &s.Stop}
		if s.Step != nil {
			slots = append(slots, &s.Step)
		}
		return slots
	case *ast.ForIn:
		return []*ast.Expr{&s.Iter}
	case *ast.Return:
		if s.Value != nil {
			return []*ast.Expr{&s.Value}
		}
	case *ast.Match:
		return []*ast.Expr{&s.Subject}
	}
	return nil
}

// walkExprPtr visits every expression reachable from *p (p included),
// pre-order, giving visit the chance to rewrite the slot in place. It
// recurses into the node that occupied *p before visit ran, so a
// replacement never re-visits its own replacement.
func walkExprPtr(p *ast.Expr, visit func(*ast.Expr)) {
	orig := *p
	visit(p)
	switch n := orig.(type) {
	case *ast.Unary:
		walkExprPtr(&n.X, visit)
	case *ast.Binary:
		walkExprPtr(&n.Left, visit)
		walkExprPtr(&n.Right, visit)
	case *ast.Call:
		walkExprPtr(&n.Callee, visit)
		for i := range n.Args {
			walkExprPtr(&n.Args[i], visit)
		}
	case *ast.Index:
		walkExprPtr(&n.Base, visit)
		if !n.Dot {
			walkExprPtr(&n.Key, visit)
		}
	case *ast.Table:
		for _, f := range n.Fields {
			if !f.KeyIsIdent {
				walkExprPtr(&f.Key, visit)
			}
			walkExprPtr(&f.Value, visit)
		}
		for _, af := range n.ArrayFields {
			walkExprPtr(&af.Value, visit)
		}
	}
}

// forEachBlockExprPtr applies walkExprPtr to every own expression slot of
// every statement in stmts (not descending into nested bodies).
func forEachBlockExprPtr(stmts []ast.Stmt, visit func(*ast.Expr)) {
	for _, stmt := range stmts {
		for _, slot := range exprSlots(stmt) {
			walkExprPtr(slot, visit)
		}
	}
}

// nestedBodies returns the nested statement-list fields of stmt that P3/P4/
// P6 recurse into as independent blocks.
func nestedBodies(stmt ast.Stmt) [][]ast.Stmt {
	switch s := stmt.(type) {
	case *ast.Function:
		return [][]ast.Stmt{s.Body}
	case *ast.If:
		bodies := [][]ast.Stmt{s.Body}
		for _, ei := range s.ElseIfs {
			bodies = append(bodies, ei.Body)
		}
		bodies = append(bodies, s.Else)
		return bodies
	case *ast.While:
		return [][]ast.Stmt{s.Body}
	case *ast.ForNum:
		return [][]ast.Stmt{s.Body}
	case *ast.ForIn:
		return [][]ast.Stmt{s.Body}
	case *ast.Match:
		var bodies [][]ast.Stmt
		for _, kase := range s.Cases {
			bodies = append(bodies, kase.Body)
		}
		return bodies
	}
	return nil
}

// setNestedBodies writes back rewritten nested bodies in the same order
// nestedBodies reported them.
func setNestedBodies(stmt ast.Stmt, bodies [][]ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Function:
		s.Body = bodies[0]
	case *ast.If:
		i := 0
		s.Body = bodies[i]
		i++
		for _, ei := range s.ElseIfs {
			ei.Body = bodies[i]
			i++
		}
		s.Else = bodies[i]
	case *ast.While:
		s.Body = bodies[0]
	case *ast.ForNum:
		s.Body = bodies[0]
	case *ast.ForIn:
		s.Body = bodies[0]
	case *ast.Match:
		for i, kase := range s.Cases {
			kase.Body = bodies[i]
		}
	}
}
