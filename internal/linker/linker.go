// Package linker implements the multi-unit module linker: it parses a
// `module name -> source text` map, cross-validates module headers and
// import graphs, runs cycle detection, and drives the analyzer/checker over
// each unit with a per-unit cross-module environment. Every unit is parsed
// up front, a shared export symbol table is built, then each unit is
// walked against it.
package linker

import (
	"sort"
	"strings"

	"github.com/outfield-lang/outfieldc/internal/analyzer"
	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/checker"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/parser"
	"github.com/outfield-lang/outfieldc/internal/types"
)

// Unit is one parsed, linked module.
type Unit struct {
	Name    string
	Program *ast.Program
	Exports map[string]types.Type
}

// Link runs every step of spec §4.5 over sources and returns the linked
// units ready for optimization/emission, sorted by module name. On any
// accumulated error the returned slice is nil and sink holds the diagnostics
// (step 8: "On no accumulated errors, emit each unit").
func Link(sources map[string]string) ([]*Unit, *diag.Sink) {
	sink := diag.NewSink()
	names := sortedKeys(sources)

	programs := make(map[string]*ast.Program, len(names))
	for _, name := range names {
		prog, err := parser.Parse(name, sources[name])
		if err != nil {
			pe := err.(*parser.ParseError)
			sink.Error(pe.Tok.Span, diag.CodeParseError, pe.Message)
			continue
		}
		if !prog.HasModule {
			sink.ErrorNoSpan(diag.CodeModuleNameMismatch, "Missing module declaration in '"+name+"'")
		} else if prog.Module != name {
			sink.Error(prog.ModuleSpan, diag.CodeModuleNameMismatch, "Module name mismatch: declared '"+prog.Module+"', expected '"+name+"'")
		}
		programs[name] = prog
	}
	if sink.HasErrors() {
		return nil, sink
	}

	reg := types.NewRegistry()
	checkers := make(map[string]*checker.Checker, len(names))
	exportsByModule := make(map[string]map[string]types.Type, len(names))
	exportSetByModule := make(map[string]map[string]bool, len(names))
	for _, name := range names {
		c := checker.New(diag.NewSink(), reg, nil)
		checkers[name] = c
		exports := c.Check(programs[name])
		exportsByModule[name] = exports
		set := make(map[string]bool, len(exports))
		for n := range exports {
			set[n] = true
		}
		exportSetByModule[name] = set
	}

	graph := make(map[string][]string, len(names))
	aliasToModule := make(map[string]map[string]string, len(names))
	importedNames := make(map[string][]string, len(names))
	importedTypes := make(map[string]map[string]types.Type, len(names))

	for _, name := range names {
		prog := programs[name]
		aliasToModule[name] = make(map[string]string)
		seenImportName := make(map[string]bool)
		localNames := blockDeclaredTopNames(prog.Body)
		importedTypes[name] = make(map[string]types.Type)

		for _, imp := range prog.Imports {
			target := imp.Path
			if _, ok := sources[target]; !ok {
				sink.Error(imp.Span, diag.CodeUnknownModule, "unknown module '"+target+"'")
				continue
			}
			graph[name] = append(graph[name], target)

			if imp.HasNames {
				for _, n := range imp.Names {
					if seenImportName[n] {
						sink.Error(imp.Span, diag.CodeDuplicateImport, "duplicate import name '"+n+"'")
						continue
					}
					seenImportName[n] = true
					if !exportSetByModule[target][n] {
						sink.Error(imp.Span, diag.CodeMissingExport, "module '"+target+"' does not export '"+n+"'")
						continue
					}
					importedNames[name] = append(importedNames[name], n)
					importedTypes[name][n] = exportsByModule[target][n]
				}
				continue
			}

			alias := imp.Alias
			if !imp.HasAlias {
				segs := strings.Split(target, ".")
				alias = segs[len(segs)-1]
			}
			if localNames[alias] {
				sink.Error(imp.Span, diag.CodeImportLocalClash, "name collision between import and local '"+alias+"'")
				continue
			}
			aliasToModule[name][alias] = target
			importedNames[name] = append(importedNames[name], alias)
		}
	}
	if sink.HasErrors() {
		return nil, sink
	}

	if cycle := detectCycle(names, graph); cycle != nil {
		sink.ErrorNoSpan(diag.CodeCircularImport, "Circular import detected: "+strings.Join(cycle, " -> "))
		return nil, sink
	}

	units := make([]*Unit, 0, len(names))
	for _, name := range names {
		aEnv := &analyzer.ModuleEnv{
			ImportedNames: importedNames[name],
			AliasToModule: aliasToModule[name],
			ModuleExports: exportSetByModule,
		}
		a := analyzer.New(sink, aEnv)
		a.Analyze(programs[name])

		cEnv := &checker.ModuleEnv{
			ImportedTypes:     importedTypes[name],
			AliasToModule:     aliasToModule[name],
			ModuleExportTypes: exportsByModule,
		}
		c := checker.New(sink, reg, cEnv)
		exports := c.Check(programs[name])

		units = append(units, &Unit{Name: name, Program: programs[name], Exports: exports})
	}
	if sink.HasErrors() {
		return nil, sink
	}
	return units, sink
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func blockDeclaredTopNames(stmts []ast.Stmt) map[string]bool {
	names := make(map[string]bool)
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			names[s.Name] = true
		case *ast.Global:
			names[s.Name] = true
		case *ast.Function:
			names[s.Name] = true
		case *ast.Struct:
			names[s.Name] = true
		case *ast.Enum:
			names[s.Name] = true
		}
	}
	return names
}

// detectCycle runs a three-color DFS over graph, iterating names in sorted
// order (spec §4.5/§9: deterministic traversal), and returns the back-edge
// path M1 -> M2 -> ... -> M1 on the first cycle found, or nil.
func detectCycle(names []string, graph map[string][]string) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(names))
	for _, n := range names {
		color[n] = white
	}

	var stack []string
	var path []string
	var visit func(n string) []string
	visit = func(n string) []string {
		color[n] = gray
		stack = append(stack, n)
		targets := append([]string{}, graph[n]...)
		sort.Strings(targets)
		for _, next := range targets {
			switch color[next] {
			case white:
				if p := visit(next); p != nil {
					return p
				}
			case gray:
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				path = append(append([]string{}, stack[start:]...), next)
				return path
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, n := range names {
		if color[n] == white {
			if p := visit(n); p != nil {
				return p
			}
		}
	}
	return nil
}
