package optimizer

import "github.com/outfield-lang/outfieldc/internal/ast"

// foldBlock recursively folds every expression reachable from stmts,
// descending into nested bodies (spec §4.4 P1: "Recursively fold Binary
// and Unary over numeric literals... no folding across identifiers").
func foldBlock(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		foldStmt(stmt)
	}
}

func foldStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Let:
		if s.Value != nil {
			s.Value = foldExpr(s.Value)
		}
	case *ast.Global:
		s.Value = foldExpr(s.Value)
	case *ast.Assign:
		s.Value = foldExpr(s.Value)
		if idx, ok := s.Target.(*ast.Index); ok {
			idx.Base = foldExpr(idx.Base)
			if !idx.Dot {
				idx.Key = foldExpr(idx.Key)
			}
		}
	case *ast.ExprStmt:
		s.X = foldExpr(s.X)
	case *ast.Function:
		foldBlock(s.Body)
	case *ast.If:
		s.Cond = foldExpr(s.Cond)
		foldBlock(s.Body)
		for _, ei := range s.ElseIfs {
			ei.Cond = foldExpr(ei.Cond)
			foldBlock(ei.Body)
		}
		foldBlock(s.Else)
	case *ast.While:
		s.Cond = foldExpr(s.Cond)
		foldBlock(s.Body)
	case *ast.ForNum:
		s.Start = foldExpr(s.Start)
		s.Stop = foldExpr(s.Stop)
		if s.Step != nil {
			s.Step = foldExpr(s.Step)
		}
		foldBlock(s.Body)
	case *ast.ForIn:
		s.Iter = foldExpr(s.Iter)
		foldBlock(s.Body)
	case *ast.Return:
		if s.Value != nil {
			s.Value = foldExpr(s.Value)
		}
	case *ast.Match:
		s.Subject = foldExpr(s.Subject)
		for _, kase := range s.Cases {
			if pl, ok := kase.Pattern.(*ast.PatternLiteral); ok {
				pl.Value = foldExpr(pl.Value)
			}
			foldBlock(kase.Body)
		}
	}
}

// foldExpr folds e bottom-up, returning a replacement literal node wherever
// every operand is itself a literal; it never looks at identifiers.
func foldExpr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Unary:
		n.X = foldExpr(n.X)
		return foldUnary(n)
	case *ast.Binary:
		n.Left = foldExpr(n.Left)
		n.Right = foldExpr(n.Right)
		return foldBinary(n)
	case *ast.Call:
		n.Callee = foldExpr(n.Callee)
		for i, arg := range n.Args {
			n.Args[i] = foldExpr(arg)
		}
		return n
	case *ast.Index:
		n.Base = foldExpr(n.Base)
		if !n.Dot {
			n.Key = foldExpr(n.Key)
		}
		return n
	case *ast.Table:
		for _, f := range n.Fields {
			if !f.KeyIsIdent {
				f.Key = foldExpr(f.Key)
			}
			f.Value = foldExpr(f.Value)
		}
		for _, af := range n.ArrayFields {
			af.Value = foldExpr(af.Value)
		}
		return n
	default:
		return e
	}
}

func foldUnary(n *ast.Unary) ast.Expr {
	switch n.Op {
	case "not":
		switch x := n.X.(type) {
		case *ast.Boolean:
			return &ast.Boolean{Span: n.Span, Value: !x.Value}
		case *ast.Nil:
			return &ast.Boolean{Span: n.Span, Value: true}
		}
	case "-":
		if num, ok := n.X.(*ast.Number); ok {
			return &ast.Number{Span: n.Span, Value: -num.Value}
		}
	}
	return n
}

func foldBinary(n *ast.Binary) ast.Expr {
	lnum, lok := n.Left.(*ast.Number)
	rnum, rok := n.Right.(*ast.Number)
	if !lok || !rok {
		return n
	}

	switch n.Op {
	case "+":
		return &ast.Number{Span: n.Span, Value: lnum.Value + rnum.Value}
	case "-":
		return &ast.Number{Span: n.Span, Value: lnum.Value - rnum.Value}
	case "*":
		return &ast.Number{Span: n.Span, Value: lnum.Value * rnum.Value}
	case "/":
		if rnum.Value != 0 {
			return &ast.Number{Span: n.Span, Value: lnum.Value / rnum.Value}
		}
	case "<":
		return &ast.Boolean{Span: n.Span, Value: lnum.Value < rnum.Value}
	case "<=":
		return &ast.Boolean{Span: n.Span, Value: lnum.Value <= rnum.Value}
	case ">":
		return &ast.Boolean{Span: n.Span, Value: lnum.Value > rnum.Value}
	case ">=":
		return &ast.Boolean{Span: n.Span, Value: lnum.Value >= rnum.Value}
	case "==":
		return &ast.Boolean{Span: n.Span, Value: lnum.Value == rnum.Value}
	case "~=":
		return &ast.Boolean{Span: n.Span, Value: lnum.Value != rnum.Value}
	}
	return n
}
