package main

import (
	"io"
	"os"
)

// astEvalSelected reports whether IVORY_AST_EVAL is set to a truthy value,
// selecting the tree-walking interpreter in place of the default VM
// back-end (spec.md §6 "truthy AST_EVAL").
func astEvalSelected() bool {
	switch os.Getenv("IVORY_AST_EVAL") {
	case "", "0", "false":
		return false
	default:
		return true
	}
}

// traceWriter returns a writer for the VM's opt-in instruction trace when
// IVORY_TRACE=1, or nil to leave tracing off.
func traceWriter() io.Writer {
	if os.Getenv("IVORY_TRACE") == "1" {
		return os.Stderr
	}
	return nil
}
