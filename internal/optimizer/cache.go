package optimizer

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/config"
)

type fieldKey struct{ base, field string }

// cacheBlock implements spec §4.4 P3 over stmts, then recurses into every
// nested body independently ("Recurse into nested blocks with the updated
// locals").
func (o *Optimizer) cacheBlock(stmts []ast.Stmt) []ast.Stmt {
	mutatedBases := collectMutatedBases(stmts)

	counts := make(map[fieldKey]int)
	forEachBlockExprPtr(stmts, func(p *ast.Expr) {
		if fk, ok := indexFieldKey(*p); ok {
			counts[fk]++
		}
	})

	var order []fieldKey
	spans := make(map[fieldKey]ast.Node)
	seen := make(map[fieldKey]bool)
	forEachBlockExprPtr(stmts, func(p *ast.Expr) {
		fk, ok := indexFieldKey(*p)
		if !ok || seen[fk] || counts[fk] < 2 || mutatedBases[fk.base] {
			return
		}
		// P3 caches locals, not builtin-global dotted access — those are
		// P4's concern (spec §4.4 P3: "base is a local in scope").
		if config.AllowedGlobals[fk.base] {
			return
		}
		seen[fk] = true
		spans[fk] = (*p)
		order = append(order, fk)
	})

	taken := blockDeclaredNames(stmts)
	rename := make(map[fieldKey]string, len(order))
	for _, fk := range order {
		preferred := fk.base + "_" + fk.field
		var name string
		if taken[preferred] {
			name = nextName("_cache", &o.cacheCounter, taken)
		} else {
			taken[preferred] = true
			name = preferred
		}
		rename[fk] = name
	}

	forEachBlockExprPtr(stmts, func(p *ast.Expr) {
		if fk, ok := indexFieldKey(*p); ok {
			if name, ok := rename[fk]; ok {
				*p = &ast.Ident{Span: (*p).GetSpan(), Name: name}
			}
		}
	})

	anchors := make(map[int][]ast.Stmt)
	for _, fk := range order {
		anchor := -1
		for i, stmt := range stmts {
			if l, ok := stmt.(*ast.Let); ok && l.Name == fk.base {
				anchor = i
				break
			}
		}
		span := spans[fk].GetSpan()
		letStmt := &ast.Let{
			Span:  span,
			Name:  rename[fk],
			Value: &ast.Index{Span: span, Base: &ast.Ident{Span: span, Name: fk.base}, Key: &ast.String{Span: span, Value: fk.field}, Dot: true},
		}
		anchors[anchor] = append(anchors[anchor], letStmt)
	}

	out := append([]ast.Stmt{}, anchors[-1]...)
	for i, stmt := range stmts {
		bodies := nestedBodies(stmt)
		if bodies != nil {
			for j := range bodies {
				bodies[j] = o.cacheBlock(bodies[j])
			}
			setNestedBodies(stmt, bodies)
		}
		out = append(out, stmt)
		out = append(out, anchors[i]...)
	}
	return out
}

func indexFieldKey(e ast.Expr) (fieldKey, bool) {
	idx, ok := e.(*ast.Index)
	if !ok || !idx.Dot {
		return fieldKey{}, false
	}
	base, ok := idx.Base.(*ast.Ident)
	if !ok {
		return fieldKey{}, false
	}
	key, ok := idx.Key.(*ast.String)
	if !ok {
		return fieldKey{}, false
	}
	return fieldKey{base: base.Name, field: key.Value}, true
}

func collectMutatedBases(stmts []ast.Stmt) map[string]bool {
	out := make(map[string]bool)
	for _, stmt := range stmts {
		a, ok := stmt.(*ast.Assign)
		if !ok {
			continue
		}
		switch t := a.Target.(type) {
		case *ast.Ident:
			out[t.Name] = true
		case *ast.Index:
			if base, ok := t.Base.(*ast.Ident); ok {
				out[base.Name] = true
			}
		}
	}
	return out
}
