package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/quantmind-br/brewpkg/internal/core"
)

// Color scheme for brewpkg
var (
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	CheckMark = "✓"
	CrossMark = "✗"
	Arrow     = "→"
	Bullet    = "•"
)

const separator = "────────────────────────────────────────"

// InitColors applies a logging.color policy (auto, always, never) to all output
func InitColors(policy string) {
	switch strings.ToLower(policy) {
	case "always":
		color.NoColor = false
		return
	case "never":
		color.NoColor = true
		return
	}

	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	Success.Fprintf(w, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...interface{}) {
	Error.Fprintf(w, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	Warning.Fprintf(w, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, format string, args ...interface{}) {
	Info.Fprintf(w, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(w io.Writer, key, value string) {
	Bold.Fprintf(w, "%s: ", key)
	fmt.Fprintln(w, value)
}

// PrintHeader prints a section header
func PrintHeader(w io.Writer, text string) {
	Bold.Fprintln(w, text)
	Muted.Fprintln(w, separator)
}

// PrintList prints a bulleted list
func PrintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", Bullet, item)
	}
}

// ColorizeOutcome returns a colored converge outcome
func ColorizeOutcome(outcome core.Outcome) string {
	s := string(outcome)
	switch outcome {
	case core.OutcomeChanged:
		return Success.Sprint(s)
	case core.OutcomeUpToDate, core.OutcomeNotInstalled:
		return Muted.Sprint(s)
	case core.OutcomeDryRun:
		return Info.Sprint(s)
	case core.OutcomeFailed:
		return Error.Sprint(s)
	default:
		return s
	}
}

// PrintOutcome prints a one-line converge summary
func PrintOutcome(w io.Writer, action core.Action, name string, outcome core.Outcome, detail string) {
	mark := Arrow
	if outcome == core.OutcomeChanged {
		mark = CheckMark
	} else if outcome == core.OutcomeFailed {
		mark = CrossMark
	}
	line := fmt.Sprintf("%s %s %s: %s", mark, action, name, ColorizeOutcome(outcome))
	if detail != "" {
		line += " " + Muted.Sprintf("(%s)", detail)
	}
	fmt.Fprintln(w, line)
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}
