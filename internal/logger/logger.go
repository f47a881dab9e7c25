package logger

import (
	"github.com/fatih/color"
)

// Colorized printf-style functions for each log level. They are package-level
// variables so callers can log without carrying a logger value around.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan when enabled, otherwise it is a no-op.
// It defaults to a no-op so packages are safe to use before Init runs.
var Debug = func(format string, a ...any) {}

// Init enables or disables debug logging. Must be called before any Debug
// call; the cmd package does this in PersistentPreRun.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
