package analyzer

import "github.com/outfield-lang/outfieldc/internal/ast"

// constValue is the analyzer's "simple constant sub-language" evaluator
// (spec §4.2): literals, unary not/-, arithmetic on numeric literals,
// comparisons on numbers, and short-circuit and/or. It never looks at
// identifiers, so anything involving a name evaluates to (nil, false).
//
// This mirrors, but is independent from, the optimizer's constant-folding
// pass (spec §4.4 P1): it only computes a value and never rewrites the
// tree. Besides constTruthiness it keys duplicate literal match patterns.
// No analyzer pass calls constTruthiness, so an if, elseif or while whose
// condition is constant is not reported as unreachable.
func constValue(e ast.Expr) (interface{}, bool) {
	switch n := e.(type) {
	case *ast.Number:
		return n.Value, true
	case *ast.String:
		return n.Value, true
	case *ast.Boolean:
		return n.Value, true
	case *ast.Nil:
		return nil, true
	case *ast.Unary:
		v, ok := constValue(n.X)
		if !ok {
			return nil, false
		}
		switch n.Op {
		case "not":
			return !truthy(v), true
		case "-":
			if f, ok := v.(float64); ok {
				return -f, true
			}
		}
		return nil, false
	case *ast.Binary:
		switch n.Op {
		case "and":
			l, ok := constValue(n.Left)
			if !ok {
				return nil, false
			}
			if !truthy(l) {
				return l, true
			}
			r, ok := constValue(n.Right)
			if !ok {
				return nil, false
			}
			return r, true
		case "or":
			l, ok := constValue(n.Left)
			if !ok {
				return nil, false
			}
			if truthy(l) {
				return l, true
			}
			r, ok := constValue(n.Right)
			if !ok {
				return nil, false
			}
			return r, true
		}
		lv, lok := constValue(n.Left)
		rv, rok := constValue(n.Right)
		if !lok || !rok {
			return nil, false
		}
		lf, lfok := lv.(float64)
		rf, rfok := rv.(float64)
		switch n.Op {
		case "==":
			return lv == rv, true
		case "~=":
			return lv != rv, true
		}
		if !lfok || !rfok {
			return nil, false
		}
		switch n.Op {
		case "+":
			return lf + rf, true
		case "-":
			return lf - rf, true
		case "*":
			return lf * rf, true
		case "/":
			if rf == 0 {
				return nil, false
			}
			return lf / rf, true
		case "<":
			return lf < rf, true
		case "<=":
			return lf <= rf, true
		case ">":
			return lf > rf, true
		case ">=":
			return lf >= rf, true
		}
	}
	return nil, false
}

// truthy applies target-language truthiness: only nil and false are falsy.
func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// constTruthiness reports whether e's constant value is statically known,
// and if so, whether it is truthy.
func constTruthiness(e ast.Expr) (truth bool, known bool) {
	v, ok := constValue(e)
	if !ok {
		return false, false
	}
	return truthy(v), true
}
