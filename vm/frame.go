package vm

import (
	"ivory/code"
	"ivory/object"
)

// Frame is the VM's per-call activation record: the closure being
// executed, its instruction pointer, and the base pointer into the
// shared value stack where its locals begin.
type Frame struct {
	closure *object.Closure
	ip      int
	bp      int
}

func newFrame(closure *object.Closure, bp int) *Frame {
	return &Frame{closure: closure, ip: -1, bp: bp}
}

func (f *Frame) instructions() code.Instructions {
	return f.closure.Fn.Instructions
}

func (f *Frame) lineAt(offset int) int32 {
	lines := f.closure.Fn.Lines
	if offset < 0 || offset >= len(lines) {
		return 0
	}
	return lines[offset]
}
