// Package debug is this module's only logging facility: an env-gated
// fmt.Fprintf-to-stderr helper. Logf is enabled by TEXTBEADS_DEBUG or
// SetVerbose; Warnf always prints unless --validation silent calls
// SetQuiet.
package debug

import (
	"fmt"
	"os"
)

var (
	enabled = os.Getenv("TEXTBEADS_DEBUG") != ""
	verbose bool
	quiet   bool
)

// Enabled reports whether debug output is on, via TEXTBEADS_DEBUG or
// SetVerbose.
func Enabled() bool {
	return enabled || verbose
}

// SetVerbose turns on debug output for the life of the process, the way
// --validation strict does.
func SetVerbose(v bool) {
	verbose = v
}

// SetQuiet suppresses Warnf output, the way --validation silent does.
func SetQuiet(q bool) {
	quiet = q
}

// IsQuiet reports whether Warnf output is currently suppressed.
func IsQuiet() bool {
	return quiet
}

// Logf prints a debug message to stderr, only when debug output is enabled.
func Logf(format string, args ...interface{}) {
	if enabled || verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Warnf prints a warning to stderr unless quiet mode is enabled
// (validation mode "silent" suppresses warnings, "warn" logs them).
func Warnf(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
