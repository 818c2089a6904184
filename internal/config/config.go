// Package config holds process-level, immutable-after-init constants and
// the compile options bag shared by every CLI command.
package config

// Version is the outfieldc release version, stamped at build time via
// -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".of"

// SourceFileExtensions lists every recognized Outfield source extension.
var SourceFileExtensions = []string{".of", ".outfield"}

// TrimSourceExt removes a recognized source extension from name, if present.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode disables non-deterministic presentation (color) during golden
// tests.
var IsTestMode = false

// Target selects the emitted dialect.
type Target int

const (
	TargetLuau Target = iota
	TargetLua
)

func ParseTarget(s string) (Target, bool) {
	switch s {
	case "", "luau":
		return TargetLuau, true
	case "lua":
		return TargetLua, true
	default:
		return TargetLuau, false
	}
}

func (t Target) String() string {
	if t == TargetLua {
		return "lua"
	}
	return "luau"
}

// PassToggles enables/disables individual optimizer passes (spec §6's
// `enable` option group). Its zero value disables every pass; the default
// "all on" set of spec §4.4 is AllPassesEnabled.
type PassToggles struct {
	ConstantFolding         bool
	LoopInvariantHoisting   bool
	LocalCache              bool
	GlobalAliasing          bool
	NumericForNormalization bool
	RedundantTemps          bool
}

// AllPassesEnabled is the default toggle set: every pass on.
func AllPassesEnabled() PassToggles {
	return PassToggles{
		ConstantFolding:         true,
		LoopInvariantHoisting:   true,
		LocalCache:              true,
		GlobalAliasing:          true,
		NumericForNormalization: true,
		RedundantTemps:          true,
	}
}

// Options is the recognized option bag accepted by compile()/compile_modules()
// (spec §6). Unknown options are ignored by construction: callers only ever
// set the fields that exist here.
type Options struct {
	Target   Target
	Filename string
	Enable   PassToggles
}

// DefaultOptions returns the zero-configuration defaults: Luau target, all
// optimizer passes enabled.
func DefaultOptions() Options {
	return Options{Target: TargetLuau, Enable: AllPassesEnabled()}
}

// AllowedGlobals is the fixed table of target built-ins readable without a
// `global` declaration (spec §4.2).
var AllowedGlobals = map[string]bool{
	"assert": true, "error": true, "ipairs": true, "next": true, "pairs": true,
	"pcall": true, "print": true, "select": true, "tonumber": true, "tostring": true,
	"type": true, "unpack": true, "xpcall": true, "math": true, "string": true,
	"table": true, "coroutine": true, "os": true, "utf8": true, "require": true, "_G": true,
}

// SafeGlobalModules is the fixed set of built-ins eligible for the
// optimizer's global-aliasing pass (spec §4.4 P4).
var SafeGlobalModules = map[string]bool{
	"math": true, "string": true, "table": true, "coroutine": true, "utf8": true, "os": true,
}
