// Package analyzer implements the flow-sensitive analyzer: scope and
// binding rules, definite assignment, nil narrowing, CFG reachability, and
// match exhaustiveness. It is one of the two phases that read the syntax
// tree built by the parser (the other being the type checker); unlike the
// optimizer it never mutates the tree. Nilness is tracked with a simple
// three-valued lattice; there is no inference to carry, since types are
// always explicit or computed once from an initializer.
package analyzer

import (
	"sort"

	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/config"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/token"
)

// Nilness is the three-valued lattice of spec §4.2.
type Nilness int

const (
	NonNil Nilness = iota
	MaybeNil
	Unknown
)

// JoinNilness implements the join rule: non_nil ∧ non_nil → non_nil; any
// unknown → unknown; else maybe_nil.
func JoinNilness(a, b Nilness) Nilness {
	if a == NonNil && b == NonNil {
		return NonNil
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return MaybeNil
}

// LocalInfo is the per-name analyzer state of spec §3.
type LocalInfo struct {
	Used     bool
	Assigned bool
	Nilness  Nilness
	TypeName string // "" if untyped / unknown
	HasType  bool
	Nilable  bool // true if the declared type annotation is nil or a union containing nil
	DeclSpan token.Span
}

func (l LocalInfo) snapshot() LocalInfo { return l }

// ModuleEnv supplies cross-module information when analyzing a unit that
// was linked by the module linker (spec §4.2's "Module imports").
type ModuleEnv struct {
	// ImportedNames are local aliases/symbols pre-declared as assigned,
	// non-nil locals of the import scope.
	ImportedNames []string
	// AliasToModule maps an import alias to the module name it refers to.
	AliasToModule map[string]string
	// ModuleExports maps module name -> set of exported symbol names, used
	// to validate `alias.symbol` access.
	ModuleExports map[string]map[string]bool
}

// Analyzer runs the flow-sensitive analysis of spec §4.2 over one unit.
type Analyzer struct {
	sink *diag.Sink
	env  *ModuleEnv

	// allowedGlobals starts as config.AllowedGlobals and is extended,
	// process-local to this run, by every `global x = e` seen (spec §4.2).
	allowedGlobals map[string]bool

	// enumItems maps enum name -> declared member names in declaration
	// order, used for match exhaustiveness (spec §4.2's "Match").
	enumItems map[string][]string
}

func New(sink *diag.Sink, env *ModuleEnv) *Analyzer {
	a := &Analyzer{
		sink:           sink,
		env:            env,
		allowedGlobals: make(map[string]bool, len(config.AllowedGlobals)),
		enumItems:      make(map[string][]string),
	}
	for g := range config.AllowedGlobals {
		a.allowedGlobals[g] = true
	}
	return a
}

// Analyze runs the analyzer over a parsed program.
func (a *Analyzer) Analyze(prog *ast.Program) {
	root := newScope(nil)

	if a.env != nil {
		for _, name := range a.env.ImportedNames {
			root.declare(name, LocalInfo{Used: true, Assigned: true, Nilness: NonNil})
		}
	}

	// Pre-scan enum declarations at top level so forward references inside
	// match exhaustiveness and nested functions resolve regardless of
	// declaration order within the unit.
	a.collectEnums(prog.Body)

	a.analyzeBlock(prog.Body, root)
	a.checkUnused(root)
}

func (a *Analyzer) collectEnums(stmts []ast.Stmt) {
	for _, s := range stmts {
		if e, ok := s.(*ast.Enum); ok {
			names := make([]string, len(e.Items))
			for i, it := range e.Items {
				names[i] = it.Name
			}
			a.enumItems[e.Name] = names
		}
	}
}

// checkUnused reports every local in scope (not `_`) never marked Used
// (spec §4.2's end-of-scope rule).
func (a *Analyzer) checkUnused(s *Scope) {
	for _, name := range s.orderedNames() {
		if name == "_" {
			continue
		}
		info := s.locals[name]
		if !info.Used {
			a.sink.Warn(info.DeclSpan, diag.CodeUnusedLocal, "unused local '"+name+"'")
		}
	}
}

// sortedStrings returns a sorted copy of items, leaving items unchanged.
func sortedStrings(items []string) []string {
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}
