// Package builtins implements the native functions the VM consults via
// the GetBuiltin opcode. The registry order is load-bearing: the
// compiler pre-defines every entry's name at its index in this slice,
// and the VM indexes into it directly, so existing indices must never
// be reordered once a program has been compiled against them.
package builtins

import (
	"fmt"
	"time"

	"ivory/object"
)

// clock is overridable in tests so `time` doesn't depend on wall-clock
// time at the call site.
var clock = func() int64 { return time.Now().Unix() }

// Builtins is the frozen, ordered registry. The six required entries
// come first so their indices match spec.md §4.6 exactly; the
// supplemented extensions (str, time, format) are appended after so
// indices already assigned to the required six never shift.
var Builtins = []*object.Builtin{
	{Name: "len", Fn: builtinLen},
	{Name: "first", Fn: builtinFirst},
	{Name: "last", Fn: builtinLast},
	{Name: "rest", Fn: builtinRest},
	{Name: "push", Fn: builtinPush},
	{Name: "puts", Fn: builtinPuts},
	{Name: "str", Fn: builtinStr},
	{Name: "time", Fn: builtinTime},
	{Name: "format", Fn: builtinFormat},
}

func newError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func builtinLen(args ...object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, newError("wrong number of arguments to `len`: got %d, want 1", len(args))
	}
	switch arg := args[0].(type) {
	case *object.String:
		return &object.Number{Value: float64(len(arg.Value))}, nil
	case *object.Array:
		return &object.Number{Value: float64(len(arg.Elements))}, nil
	default:
		return nil, newError("argument to `len` not supported, got %s", arg.Type())
	}
}

func builtinFirst(args ...object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, newError("wrong number of arguments to `first`: got %d, want 1", len(args))
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, newError("argument to `first` must be ARRAY, got %s", args[0].Type())
	}
	if len(arr.Elements) == 0 {
		return object.NilValue, nil
	}
	return arr.Elements[0], nil
}

func builtinLast(args ...object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, newError("wrong number of arguments to `last`: got %d, want 1", len(args))
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, newError("argument to `last` must be ARRAY, got %s", args[0].Type())
	}
	if len(arr.Elements) == 0 {
		return object.NilValue, nil
	}
	return arr.Elements[len(arr.Elements)-1], nil
}

func builtinRest(args ...object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, newError("wrong number of arguments to `rest`: got %d, want 1", len(args))
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, newError("argument to `rest` must be ARRAY, got %s", args[0].Type())
	}
	length := len(arr.Elements)
	if length == 0 {
		return object.NilValue, nil
	}
	newElements := make([]object.Value, length-1)
	copy(newElements, arr.Elements[1:length])
	return &object.Array{Elements: newElements}, nil
}

func builtinPush(args ...object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, newError("wrong number of arguments to `push`: got %d, want 2", len(args))
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, newError("argument to `push` must be ARRAY, got %s", args[0].Type())
	}
	length := len(arr.Elements)
	newElements := make([]object.Value, length+1)
	copy(newElements, arr.Elements)
	newElements[length] = args[1]
	return &object.Array{Elements: newElements}, nil
}

func builtinPuts(args ...object.Value) (object.Value, error) {
	for _, arg := range args {
		fmt.Println(arg.Inspect())
	}
	return object.NilValue, nil
}

func builtinStr(args ...object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, newError("wrong number of arguments to `str`: got %d, want 1", len(args))
	}
	return &object.String{Value: args[0].Inspect()}, nil
}

func builtinTime(args ...object.Value) (object.Value, error) {
	if len(args) != 0 {
		return nil, newError("wrong number of arguments to `time`: got %d, want 0", len(args))
	}
	return &object.Number{Value: float64(clock())}, nil
}

func builtinFormat(args ...object.Value) (object.Value, error) {
	if len(args) == 0 {
		return nil, newError("wrong number of arguments to `format`: got 0, want at least 1")
	}
	tmpl, ok := args[0].(*object.String)
	if !ok {
		return nil, newError("first argument to `format` must be STRING, got %s", args[0].Type())
	}
	out, err := renderTemplate(tmpl.Value, args[1:])
	if err != nil {
		return nil, err
	}
	return &object.String{Value: out}, nil
}
