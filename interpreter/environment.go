package interpreter

import "ivory/object"

// Environment aliases object.Environment: a Function value must carry
// its defining scope, and object cannot import this package without a
// cycle, so the scope chain itself lives there. The teacher's
// MakeEnvironment/MakeNestedEnvironment names are kept here as the
// evaluator's entry points into it.
type Environment = object.Environment

func MakeEnvironment() *Environment {
	return object.NewEnvironment()
}

func MakeNestedEnvironment(outer *Environment) *Environment {
	return object.NewEnclosedEnvironment(outer)
}
