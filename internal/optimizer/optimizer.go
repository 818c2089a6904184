// Package optimizer implements six fixed-order, conservative AST rewrites:
// constant folding, loop-invariant hoisting, local field caching, global
// aliasing, numeric-for normalization (reserved no-op), and single-use temp
// elimination. Every pass mutates the tree in place and must preserve
// observable behavior given a checker-approved program. Passes run in a
// fixed order, each owning its own fresh-name counter.
package optimizer

import (
	"strconv"

	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/config"
)

// Optimizer runs the fixed pass sequence over one program tree. Each
// pass-local fresh-name counter lives on the Optimizer so a single Run
// produces deterministic, collision-free names.
type Optimizer struct {
	toggles config.PassToggles

	hoistCounter int
	cacheCounter int
	aliasCounter int
}

func New(toggles config.PassToggles) *Optimizer {
	return &Optimizer{toggles: toggles}
}

// Run applies the six passes, in fixed order, to prog.Body.
func (o *Optimizer) Run(prog *ast.Program) {
	if o.toggles.ConstantFolding {
		foldBlock(prog.Body)
	}
	if o.toggles.LoopInvariantHoisting {
		prog.Body = o.hoistBlock(prog.Body)
	}
	if o.toggles.LocalCache {
		prog.Body = o.cacheBlock(prog.Body)
	}
	if o.toggles.GlobalAliasing {
		prog.Body = o.aliasBlock(prog.Body)
	}
	// P5 for-loop normalization is reserved: an intentional no-op regardless
	// of NumericForNormalization until a concrete rewrite is specified.
	if o.toggles.RedundantTemps {
		prog.Body = eliminateTempsBlock(prog.Body)
	}
}

func nextName(prefix string, counter *int, taken map[string]bool) string {
	for {
		*counter++
		name := prefix + strconv.Itoa(*counter)
		if !taken[name] {
			taken[name] = true
			return name
		}
	}
}

// blockDeclaredNames collects every name a block's own top-level Let
// statements introduce, used to avoid generated-name collisions.
func blockDeclaredNames(stmts []ast.Stmt) map[string]bool {
	names := make(map[string]bool)
	for _, stmt := range stmts {
		if l, ok := stmt.(*ast.Let); ok {
			names[l.Name] = true
		}
	}
	return names
}
