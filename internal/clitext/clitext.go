// Package clitext renders diagnostics sink output for a terminal: colorized
// when the output stream is a real TTY (including the Cygwin special case), plain
// otherwise. It owns every concern about diagnostic presentation so the CLI
// itself stays a thin wrapper: a severity/hint color palette built on
// color.New(...).SprintFunc().
package clitext

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/outfield-lang/outfieldc/internal/config"
)

// IsTerminal reports whether f is an interactive terminal, honoring the
// Windows Cygwin pty case.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var (
	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	noteColor  = color.New(color.FgCyan).SprintFunc()
	hintColor  = color.New(color.Faint).SprintFunc()
)

// RenderSeverity returns sev's display label, colorized when color is true.
func RenderSeverity(sev string, colorize bool) string {
	if !colorize || config.IsTestMode {
		return sev
	}
	switch sev {
	case "error":
		return errorColor(sev)
	case "warning":
		return warnColor(sev)
	default:
		return noteColor(sev)
	}
}

// RenderHint returns hint prefixed and dimmed when color is true.
func RenderHint(hint string, colorize bool) string {
	text := "hint: " + hint
	if !colorize || config.IsTestMode {
		return text
	}
	return hintColor(text)
}

// Write writes report to w, replacing each bare "error"/"warning"/"note"
// severity label and "hint:" line with its colorized form when w is a
// terminal and colorization has not been disabled for test determinism
// (spec §8: diagnostic output must stay byte-stable for identical inputs,
// so tests run with config.IsTestMode set).
func Write(w io.Writer, report string, colorize bool) {
	if !colorize || config.IsTestMode {
		fmt.Fprint(w, report)
		return
	}
	for _, line := range strings.SplitAfter(report, "\n") {
		fmt.Fprint(w, colorizeLine(line))
	}
}

// Summary renders a one-line "N error(s), N warning(s)" trailer for the CLI,
// colorizing each count's severity label the same way Write colorizes a
// report body.
func Summary(errCount, warnCount int, colorize bool) string {
	plural := func(n int, word string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", word)
		}
		return fmt.Sprintf("%d %ss", n, word)
	}
	errPart := plural(errCount, "error")
	if errCount > 0 {
		errPart = plural(errCount, RenderSeverity("error", colorize))
	}
	warnPart := plural(warnCount, "warning")
	if warnCount > 0 {
		warnPart = plural(warnCount, RenderSeverity("warning", colorize))
	}
	return errPart + ", " + warnPart
}

func colorizeLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	switch {
	case strings.Contains(trimmed, ": error:"):
		return strings.Replace(line, "error:", errorColor("error")+":", 1)
	case strings.Contains(trimmed, ": warning:"):
		return strings.Replace(line, "warning:", warnColor("warning")+":", 1)
	case strings.Contains(trimmed, ": note:"):
		return strings.Replace(line, "note:", noteColor("note")+":", 1)
	case strings.HasPrefix(trimmed, "hint:"):
		indent := line[:len(line)-len(trimmed)]
		hasNL := strings.HasSuffix(trimmed, "\n")
		rest := strings.TrimSuffix(strings.TrimPrefix(trimmed, "hint:"), "\n")
		out := indent + RenderHint(strings.TrimSpace(rest), true)
		if hasNL {
			out += "\n"
		}
		return out
	default:
		return line
	}
}
