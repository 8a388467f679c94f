package compiler

import "fmt"

// CompileError is a semantic issue discoverable without execution: an
// unresolved identifier, an invalid operator at a syntactic position, a
// malformed function body. Fatal to the current compilation.
type CompileError struct {
	Line    int32
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("💥 CompileError: line %d: %s", e.Line, e.Message)
}

// DeveloperError signals an invariant the compiler itself should never
// violate (e.g. an opcode rewrite that doesn't fit), as opposed to a
// mistake in the source program being compiled.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
