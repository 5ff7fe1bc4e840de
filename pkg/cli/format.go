// Package cli provides shared formatting helpers for the leafspine CLI
// tools.
package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// colorEnabled is false when NO_COLOR is set (per no-color.org) or stdout is
// not a terminal.
var colorEnabled = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

// SetColor forces color output on or off.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func wrap(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + "\033[0m"
}

// Green wraps s in ANSI green.
func Green(s string) string { return wrap("\033[32m", s) }

// Yellow wraps s in ANSI yellow.
func Yellow(s string) string { return wrap("\033[33m", s) }

// Red wraps s in ANSI red.
func Red(s string) string { return wrap("\033[31m", s) }

// Bold wraps s in ANSI bold.
func Bold(s string) string { return wrap("\033[1m", s) }

// Dim wraps s in ANSI dim.
func Dim(s string) string { return wrap("\033[2m", s) }

// Status renders a pass/fail marker.
func Status(ok bool) string {
	if ok {
		return Green("ok")
	}
	return Red("FAIL")
}

// Utilization renders a port utilization percentage, yellow from 75% and
// red above 100%.
func Utilization(pct float64) string {
	s := fmt.Sprintf("%.1f%%", pct)
	switch {
	case pct > 100:
		return Red(s)
	case pct >= 75:
		return Yellow(s)
	}
	return Green(s)
}

// DotPad pads name with dots to the given width.
// Example: DotPad("leaf-ports", 30) → "leaf-ports ...................."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}
