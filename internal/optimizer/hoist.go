package optimizer

import "github.com/outfield-lang/outfieldc/internal/ast"

// hoistBlock implements spec §4.4 P2 over stmts, recursing into every
// nested body (loops may nest inside ifs, functions, other loops, …).
func (o *Optimizer) hoistBlock(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ForNum:
			mutated := map[string]bool{s.Name: true}
			collectMutated(s.Body, mutated)
			hoisted, body := o.hoistLoopBody(s.Body, mutated)
			out = append(out, hoisted...)
			s.Body = o.hoistBlock(body)
			out = append(out, s)
		case *ast.ForIn:
			mutated := map[string]bool{s.Key: true}
			if s.Value != "" {
				mutated[s.Value] = true
			}
			collectMutated(s.Body, mutated)
			hoisted, body := o.hoistLoopBody(s.Body, mutated)
			out = append(out, hoisted...)
			s.Body = o.hoistBlock(body)
			out = append(out, s)
		case *ast.While:
			mutated := map[string]bool{}
			collectMutated(s.Body, mutated)
			hoisted, body := o.hoistLoopBody(s.Body, mutated)
			out = append(out, hoisted...)
			s.Body = o.hoistBlock(body)
			out = append(out, s)
		case *ast.Function:
			s.Body = o.hoistBlock(s.Body)
			out = append(out, s)
		case *ast.If:
			s.Body = o.hoistBlock(s.Body)
			for _, ei := range s.ElseIfs {
				ei.Body = o.hoistBlock(ei.Body)
			}
			s.Else = o.hoistBlock(s.Else)
			out = append(out, s)
		case *ast.Match:
			for _, kase := range s.Cases {
				kase.Body = o.hoistBlock(kase.Body)
			}
			out = append(out, s)
		default:
			out = append(out, s)
		}
	}
	return out
}

// hoistLoopBody pulls every hoistable top-level Let out of body, returning
// the synthesized `let _hoisted<N> = e` statements (in hoist order) and the
// rewritten body (each hoisted Let's initializer now references its
// hoisted name, per spec §4.4 P2).
func (o *Optimizer) hoistLoopBody(body []ast.Stmt, mutated map[string]bool) ([]ast.Stmt, []ast.Stmt) {
	var hoisted []ast.Stmt
	taken := blockDeclaredNames(body)

	for _, stmt := range body {
		l, ok := stmt.(*ast.Let)
		if !ok || l.Value == nil || !isPureForHoist(l.Value, mutated) {
			continue
		}
		name := nextName("_hoisted", &o.hoistCounter, taken)
		hoisted = append(hoisted, &ast.Let{Span: l.Span, Name: name, Value: l.Value})
		l.Value = &ast.Ident{Span: l.Span, Name: name}
	}

	return hoisted, body
}

// isPureForHoist reports whether e qualifies as the hoistable-expression
// grammar of spec §4.4 P2: identifier, literal, unary-of-pure, binary of
// two pures, or dotted indexing of a local whose base is not mutated.
func isPureForHoist(e ast.Expr, mutated map[string]bool) bool {
	switch n := e.(type) {
	case *ast.Ident:
		return !mutated[n.Name]
	case *ast.Number, *ast.String, *ast.Boolean, *ast.Nil:
		return true
	case *ast.Unary:
		return isPureForHoist(n.X, mutated)
	case *ast.Binary:
		return isPureForHoist(n.Left, mutated) && isPureForHoist(n.Right, mutated)
	case *ast.Index:
		if !n.Dot {
			return false
		}
		base, ok := n.Base.(*ast.Ident)
		return ok && !mutated[base.Name]
	default:
		return false
	}
}

// collectMutated walks stmts (recursively, through every nested body)
// adding every name that spec §4.4 P2 counts as "mutated inside [the]
// body": locals introduced inside the body, assignment targets, and inner
// loop variables.
func collectMutated(stmts []ast.Stmt, mutated map[string]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			mutated[s.Name] = true
		case *ast.Global:
			mutated[s.Name] = true
		case *ast.Assign:
			if id, ok := s.Target.(*ast.Ident); ok {
				mutated[id.Name] = true
			}
		case *ast.Function:
			mutated[s.Name] = true
		case *ast.If:
			collectMutated(s.Body, mutated)
			for _, ei := range s.ElseIfs {
				collectMutated(ei.Body, mutated)
			}
			collectMutated(s.Else, mutated)
		case *ast.While:
			collectMutated(s.Body, mutated)
		case *ast.ForNum:
			mutated[s.Name] = true
			collectMutated(s.Body, mutated)
		case *ast.ForIn:
			mutated[s.Key] = true
			if s.Value != "" {
				mutated[s.Value] = true
			}
			collectMutated(s.Body, mutated)
		case *ast.Match:
			for _, kase := range s.Cases {
				collectMutated(kase.Body, mutated)
			}
		}
	}
}
