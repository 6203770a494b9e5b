package core

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Prog is the program name used to prefix stderr diagnostics, matching
// spec.md §6's CLI contract ("prints errors to stderr prefixed with the
// program name"). cmd/* mains set this at the start of main().
var Prog = "genomeflow"

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// Errorf prints a fatal-grade diagnostic to stderr in the teacher's
// ANSI-highlighted style (eutils/utils.go hand-rolls the same RED+BOLD
// escape sequence; here it is routed through fatih/color so it degrades
// gracefully on non-TTY output).
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	errColor.Fprintf(os.Stderr, "%s: ERROR: %s\n", Prog, msg)
}

// Warnf prints a tidy-mode warning (spec §7: "logged as warnings and the
// pipeline attempts to continue").
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	warnColor.Fprintf(os.Stderr, "%s: WARNING: %s\n", Prog, msg)
}
