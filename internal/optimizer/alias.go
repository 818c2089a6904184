package optimizer

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/config"
)

// aliasBlock implements spec §4.4 P4 over stmts, then recurses into every
// nested body independently.
func (o *Optimizer) aliasBlock(stmts []ast.Stmt) []ast.Stmt {
	counts := make(map[fieldKey]int)
	forEachBlockExprPtr(stmts, func(p *ast.Expr) {
		if fk, ok := globalFieldKey(*p); ok {
			counts[fk]++
		}
	})

	var order []fieldKey
	spans := make(map[fieldKey]ast.Node)
	seen := make(map[fieldKey]bool)
	forEachBlockExprPtr(stmts, func(p *ast.Expr) {
		fk, ok := globalFieldKey(*p)
		if !ok || seen[fk] || counts[fk] < 2 {
			return
		}
		seen[fk] = true
		spans[fk] = (*p)
		order = append(order, fk)
	})

	taken := blockDeclaredNames(stmts)
	rename := make(map[fieldKey]string, len(order))
	var aliasLets []ast.Stmt
	for _, fk := range order {
		var name string
		if taken[fk.field] {
			name = nextName("_alias", &o.aliasCounter, taken)
		} else {
			taken[fk.field] = true
			name = fk.field
		}
		rename[fk] = name
		span := spans[fk].GetSpan()
		aliasLets = append(aliasLets, &ast.Let{
			Span:  span,
			Name:  name,
			Value: &ast.Index{Span: span, Base: &ast.Ident{Span: span, Name: fk.base}, Key: &ast.String{Span: span, Value: fk.field}, Dot: true},
		})
	}

	forEachBlockExprPtr(stmts, func(p *ast.Expr) {
		if fk, ok := globalFieldKey(*p); ok {
			if name, ok := rename[fk]; ok {
				*p = &ast.Ident{Span: (*p).GetSpan(), Name: name}
			}
		}
	})

	out := append(aliasLets, stmts...)
	for i, stmt := range out {
		if i < len(aliasLets) {
			continue
		}
		bodies := nestedBodies(stmt)
		if bodies != nil {
			for j := range bodies {
				bodies[j] = o.aliasBlock(bodies[j])
			}
			setNestedBodies(stmt, bodies)
		}
	}
	return out
}

func globalFieldKey(e ast.Expr) (fieldKey, bool) {
	fk, ok := indexFieldKey(e)
	if !ok || !config.SafeGlobalModules[fk.base] {
		return fieldKey{}, false
	}
	return fk, true
}
