package analyzer

import (
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/diag"
)

// analyzeMatch implements spec §4.2's match-exhaustiveness checks: a case
// after a wildcard is unreachable, a literal pattern repeated verbatim is
// redundant, and a match whose cases cover every named member of a single
// enum (in any order, no gaps, no dupes) needs no wildcard — every other
// match must end in a wildcard or be flagged non-exhaustive.
func (a *Analyzer) analyzeMatch(s *ast.Match, scope *Scope) FlowSummary {
	a.analyzeExpr(s.Subject, scope)

	enumName, isEnumMatch := a.matchSubjectEnum(s.Subject, scope)
	seenMembers := make(map[string]bool)
	seenLiterals := make(map[interface{}]bool)
	sawWildcard := false

	combined := FlowSummary{}
	first := true

	for _, c := range s.Cases {
		if sawWildcard {
			a.sink.Warn(c.Span, diag.CodeUnreachableMatch, "unreachable match case after wildcard")
		}

		caseScope := scope.child()
		a.bindPattern(c.Pattern, caseScope)

		switch p := c.Pattern.(type) {
		case *ast.PatternWildcard:
			sawWildcard = true
		case *ast.PatternLiteral:
			if v, ok := constValue(p.Value); ok {
				if seenLiterals[v] {
					a.sink.Warn(c.Span, diag.CodeRedundantMatchCase, "duplicate match case")
				}
				seenLiterals[v] = true
			}
		case *ast.PatternExpr:
			if isEnumMatch {
				if member, ok := enumMemberName(p.X, enumName); ok {
					if seenMembers[member] {
						a.sink.Warn(c.Span, diag.CodeRedundantMatchCase, "duplicate match case '"+enumName+"."+member+"'")
					}
					seenMembers[member] = true
				}
			}
		}

		caseSummary := a.analyzeBlock(c.Body, caseScope)
		a.checkUnused(caseScope)
		if first {
			combined = caseSummary
			first = false
		} else {
			combined = orSummary(combined, caseSummary)
		}
	}

	exhaustive := sawWildcard
	if !exhaustive && isEnumMatch {
		members := a.enumItems[enumName]
		exhaustive = len(members) > 0
		for _, m := range members {
			if !seenMembers[m] {
				exhaustive = false
				break
			}
		}
		if !exhaustive {
			missing := missingMembers(members, seenMembers)
			a.sink.Error(s.Span, diag.CodeNonExhaustiveEnum, "Non-exhaustive match for enum '"+enumName+"': missing "+joinNames(missing))
		}
	} else if !exhaustive {
		a.sink.Warn(s.Span, diag.CodeNonExhaustiveMatch, "Non-exhaustive match (missing wildcard case)")
	}

	if !exhaustive {
		combined.AlwaysReturns = false
	}
	return combined
}

// bindPattern declares no new names for the pattern forms Outfield
// supports (wildcard, literal, enum-member) — all three are comparisons
// against the subject, not destructuring binds. A dotted `Name.member`
// pattern is not walked at all; any other PatternExpr has its inner
// expression analyzed so identifier use inside it is still validated.
func (a *Analyzer) bindPattern(p ast.Pattern, scope *Scope) {
	if pe, ok := p.(*ast.PatternExpr); ok {
		if idx, ok := pe.X.(*ast.Index); ok {
			if _, isIdent := idx.Base.(*ast.Ident); isIdent {
				return
			}
		}
		a.analyzeExpr(pe.X, scope)
	}
}

// matchSubjectEnum reports whether subject's declared type is a single
// known enum name, enabling enum-exhaustiveness checking.
func (a *Analyzer) matchSubjectEnum(subject ast.Expr, scope *Scope) (string, bool) {
	id, ok := subject.(*ast.Ident)
	if !ok {
		return "", false
	}
	_, info, ok := scope.lookup(id.Name)
	if !ok || !info.HasType || info.TypeName == "" {
		return "", false
	}
	if _, known := a.enumItems[info.TypeName]; !known {
		return "", false
	}
	return info.TypeName, true
}

// missingMembers returns members not present in seen, preserving members'
// declaration order (spec §4.2: "sorted in declaration order").
func missingMembers(members []string, seen map[string]bool) []string {
	var out []string
	for _, m := range members {
		if !seen[m] {
			out = append(out, m)
		}
	}
	return out
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// enumMemberName extracts "Member" from an `Enum.Member` pattern expression,
// confirming the qualifying name matches enumName.
func enumMemberName(x ast.Expr, enumName string) (string, bool) {
	idx, ok := x.(*ast.Index)
	if !ok || !idx.Dot {
		return "", false
	}
	base, ok := idx.Base.(*ast.Ident)
	if !ok || base.Name != enumName {
		return "", false
	}
	key, ok := idx.Key.(*ast.String)
	if !ok {
		return "", false
	}
	return key.Value, true
}
