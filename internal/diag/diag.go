// Package diag is the diagnostics sink shared by every compiler phase. It
// accumulates errors/warnings/notes with source spans and produces a
// byte-stable formatted report. Each diagnostic carries an explicit
// Severity and error code; a single Sink owns every diagnostic for one
// compile and only ever grows.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/outfield-lang/outfieldc/internal/token"
)

// Severity classifies a diagnostic; only Error blocks later phases (spec §7).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// Code identifies the rule that produced a diagnostic, grouped by phase
// prefix (A### analyzer, T### checker, M### linker).
type Code string

const (
	// Analyzer (A)
	CodeDuplicateLocal      Code = "A001"
	CodeShadowedLocal       Code = "A002"
	CodeUndefinedIdent      Code = "A003"
	CodeUnusedLocal         Code = "A004"
	CodeUseBeforeAssignment Code = "A005"
	CodeNilFieldAccess      Code = "A006"
	CodeUnreachableBranch   Code = "A007"
	CodeDeadCodeAfterReturn Code = "A008"
	CodeInconsistentReturn  Code = "A009"
	CodeMissingReturn       Code = "A010"
	CodeUnreachableMatch    Code = "A011"
	CodeRedundantMatchCase  Code = "A012"
	CodeNonExhaustiveEnum   Code = "A013"
	CodeNonExhaustiveMatch  Code = "A014"
	CodeNonExportedAccess   Code = "A015"

	// Type checker (T)
	CodeTypeMismatch    Code = "T001"
	CodeArityMismatch   Code = "T002"
	CodeNotCallable     Code = "T003"
	CodeFieldNotPresent Code = "T004"
	CodeEnumNoMember    Code = "T005"
	CodeReturnMismatch  Code = "T006"
	CodeDuplicateExport Code = "T007"

	// Linker / module (M)
	CodeModuleNameMismatch Code = "M001"
	CodeUnknownModule      Code = "M002"
	CodeMissingExport      Code = "M003"
	CodeDuplicateImport    Code = "M004"
	CodeImportLocalClash   Code = "M005"
	CodeCircularImport     Code = "M006"
	CodeParseError         Code = "M007"
)

// Diagnostic is a single reported item.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Span     token.Span
	HasSpan  bool
	Message  string
	Hints    []string
}

// Sink collects diagnostics for one compile. It has exclusive single-owner
// semantics: exactly one Sink is threaded through a compile and merged at
// phase boundaries, never shared across goroutines (spec §5).
type Sink struct {
	items []Diagnostic
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) add(sev Severity, code Code, span token.Span, hasSpan bool, msg string, hints []string) {
	s.items = append(s.items, Diagnostic{
		Severity: sev, Code: code, Span: span, HasSpan: hasSpan, Message: msg, Hints: hints,
	})
}

func (s *Sink) Error(span token.Span, code Code, msg string, hints ...string) {
	s.add(SeverityError, code, span, true, msg, hints)
}

func (s *Sink) ErrorNoSpan(code Code, msg string, hints ...string) {
	s.add(SeverityError, code, token.Span{}, false, msg, hints)
}

func (s *Sink) Warn(span token.Span, code Code, msg string, hints ...string) {
	s.add(SeverityWarning, code, span, true, msg, hints)
}

func (s *Sink) Note(span token.Span, code Code, msg string, hints ...string) {
	s.add(SeverityNote, code, span, true, msg, hints)
}

// Merge appends another sink's diagnostics into this one.
func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	s.items = append(s.items, other.items...)
}

func (s *Sink) HasErrors() bool {
	return s.CountErrors() > 0
}

func (s *Sink) CountErrors() int {
	n := 0
	for _, d := range s.items {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// PromoteWarningsToErrors reclassifies every warning as an error, the
// --warnings-as-errors CLI behavior of spec §6.
func (s *Sink) PromoteWarningsToErrors() {
	for i := range s.items {
		if s.items[i].Severity == SeverityWarning {
			s.items[i].Severity = SeverityError
		}
	}
}

// TruncateErrors keeps at most max error diagnostics, passing every warning
// and note through untouched (the --max-errors N CLI behavior of spec §6).
func (s *Sink) TruncateErrors(max int) {
	if max <= 0 {
		return
	}
	kept := make([]Diagnostic, 0, len(s.items))
	errCount := 0
	for _, d := range s.items {
		if d.Severity == SeverityError {
			errCount++
			if errCount > max {
				continue
			}
		}
		kept = append(kept, d)
	}
	s.items = kept
}

func (s *Sink) Diagnostics() []Diagnostic {
	return s.items
}

// Format renders a stable, deterministic report: grouped by file (sorted),
// then by span (line, col, end_line, end_col), per spec §4.1.
func (s *Sink) Format() string {
	if len(s.items) == 0 {
		return ""
	}

	byFile := make(map[string][]Diagnostic)
	for _, d := range s.items {
		f := d.Span.File
		byFile[f] = append(byFile[f], d)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var b strings.Builder
	for _, f := range files {
		items := byFile[f]
		sort.SliceStable(items, func(i, j int) bool {
			a, c := items[i].Span, items[j].Span
			if a.StartPos.Line != c.StartPos.Line {
				return a.StartPos.Line < c.StartPos.Line
			}
			if a.StartPos.Col != c.StartPos.Col {
				return a.StartPos.Col < c.StartPos.Col
			}
			if a.EndPos.Line != c.EndPos.Line {
				return a.EndPos.Line < c.EndPos.Line
			}
			return a.EndPos.Col < c.EndPos.Col
		})

		displayName := f
		if displayName == "" {
			displayName = "<input>"
		}
		b.WriteString(displayName)
		b.WriteByte('\n')
		for _, d := range items {
			b.WriteString("  ")
			b.WriteString(formatSpan(d.Span, d.HasSpan))
			b.WriteString(": ")
			b.WriteString(d.Severity.String())
			b.WriteString(": ")
			b.WriteString(d.Message)
			b.WriteByte('\n')
			for _, h := range d.Hints {
				b.WriteString("    hint: ")
				b.WriteString(h)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func formatSpan(sp token.Span, hasSpan bool) string {
	if !hasSpan || sp.Zero() {
		return "1:1"
	}
	if sp.StartPos.Line == sp.EndPos.Line && sp.StartPos.Col == sp.EndPos.Col {
		return fmt.Sprintf("%d:%d", sp.StartPos.Line, sp.StartPos.Col)
	}
	return fmt.Sprintf("%d:%d-%d:%d", sp.StartPos.Line, sp.StartPos.Col, sp.EndPos.Line, sp.EndPos.Col)
}
