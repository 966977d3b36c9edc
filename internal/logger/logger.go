package logger

import (
	"github.com/fatih/color"
)

// Colorized printf-style functions, one per level. Output goes to stderr so
// it never mixes with the stdout of launched scripts.

// Info logs informational messages in green.
var Info = printer(color.FgGreen)

// Warn logs warnings in bright magenta.
var Warn = printer(color.FgHiMagenta)

// Error logs errors in red.
var Error = printer(color.FgRed)

// Debug logs debug messages in cyan once enabled by Init, otherwise it is a no-op.
var Debug = func(format string, a ...any) {}

// Init turns debug logging on or off.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = printer(color.FgCyan)
	} else {
		Debug = func(format string, a ...any) {}
	}
}

func printer(attr color.Attribute) func(format string, a ...any) {
	c := color.New(attr)
	return func(format string, a ...any) {
		_, _ = c.Fprintf(color.Error, format, a...)
	}
}
