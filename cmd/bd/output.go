package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// printResult renders v as pretty JSON when --json is set, or defers to
// plain for human-readable output.
func printResult(v interface{}, plain func()) {
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			fail(err)
		}
		return
	}
	plain()
}

// fail prints one human-readable line to stderr and exits non-zero.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error: "+err.Error())
	os.Exit(1)
}
