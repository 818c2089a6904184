// Package compiler implements the two public entry points `Compile` (one
// unit) and `CompileModules` (a linked multi-unit program). It wires
// lexer -> parser -> analyzer -> checker -> optimizer -> emitter through a
// single threaded diagnostics sink, gating each phase: the checker does not
// run on a parse failure, the optimizer does not run with any accumulated
// errors, and emission does not occur with any accumulated errors.
package compiler

import (
	"github.com/outfield-lang/outfieldc/internal/analyzer"
	"github.com/outfield-lang/outfieldc/internal/checker"
	"github.com/outfield-lang/outfieldc/internal/config"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/emitter"
	"github.com/outfield-lang/outfieldc/internal/linker"
	"github.com/outfield-lang/outfieldc/internal/optimizer"
	"github.com/outfield-lang/outfieldc/internal/parser"
	"github.com/outfield-lang/outfieldc/internal/types"
)

// Compile parses, analyzes, type-checks, optimizes, and emits one unit
// (spec §6). On any accumulated error it returns ("", diagnostics) with an
// empty output string; the caller must check diagnostics for errors rather
// than relying on a zero-value output.
func Compile(source string, opts config.Options) (string, *diag.Sink) {
	sink := diag.NewSink()
	filename := opts.Filename

	prog, err := parser.Parse(filename, source)
	if err != nil {
		pe := err.(*parser.ParseError)
		sink.Error(pe.Tok.Span, diag.CodeParseError, pe.Message)
		return "", sink
	}

	analyzer.New(sink, nil).Analyze(prog)
	checker.New(sink, types.NewRegistry(), nil).Check(prog)
	if sink.HasErrors() {
		return "", sink
	}

	optimizer.New(opts.Enable).Run(prog)
	return emitter.Emit(prog, opts.Target), sink
}

// CompileModules links sources (a `module name -> source text` map) and
// emits every unit once linking, analysis, and type-checking are clean
// (spec §4.5, §6). On any accumulated error it returns (nil, diagnostics).
func CompileModules(sources map[string]string, opts config.Options) (map[string]string, *diag.Sink) {
	units, sink := linker.Link(sources)
	if sink.HasErrors() {
		return nil, sink
	}

	outputs := make(map[string]string, len(units))
	for _, u := range units {
		optimizer.New(opts.Enable).Run(u.Program)
		outputs[u.Name] = emitter.Emit(u.Program, opts.Target)
	}
	return outputs, sink
}
