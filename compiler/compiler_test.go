package compiler

import (
	"fmt"
	"testing"

	"ivory/ast"
	"ivory/code"
	"ivory/lexer"
	"ivory/object"
	"ivory/parser"
)

func parseSource(t *testing.T, input string) ast.Program {
	t.Helper()
	tokens, err := lexer.New(input).Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	program, errs := parser.Make(tokens).Parse()
	if len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	return program
}

type compilerTestCase struct {
	input                string
	expectedConstants    []any
	expectedInstructions []code.Instructions
}

func runCompilerTests(t *testing.T, tests []compilerTestCase) {
	t.Helper()
	for _, tt := range tests {
		program := parseSource(t, tt.input)

		bytecode, err := New().Compile(program)
		if err != nil {
			t.Fatalf("compiler error for %q: %v", tt.input, err)
		}

		concatted := concatInstructions(tt.expectedInstructions)
		if bytecode.Instructions.String() != concatted.String() {
			t.Fatalf("wrong instructions for %q.\nwant=\n%s\ngot=\n%s", tt.input, concatted, bytecode.Instructions)
		}

		if len(bytecode.Lines) != len(bytecode.Instructions) {
			t.Fatalf("lines length %d does not match instructions length %d", len(bytecode.Lines), len(bytecode.Instructions))
		}

		if err := checkConstants(tt.expectedConstants, bytecode.Constants); err != nil {
			t.Fatalf("constants mismatch for %q: %s", tt.input, err)
		}
	}
}

func concatInstructions(s []code.Instructions) code.Instructions {
	out := code.Instructions{}
	for _, ins := range s {
		out = append(out, ins...)
	}
	return out
}

func checkConstants(expected []any, actual []object.Value) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("wrong number of constants. want=%d, got=%d", len(expected), len(actual))
	}
	for i, exp := range expected {
		switch exp := exp.(type) {
		case float64:
			num, ok := actual[i].(*object.Number)
			if !ok || num.Value != exp {
				return fmt.Errorf("constant %d: want Number(%v), got %v", i, exp, actual[i])
			}
		case string:
			s, ok := actual[i].(*object.String)
			if !ok || s.Value != exp {
				return fmt.Errorf("constant %d: want String(%v), got %v", i, exp, actual[i])
			}
		case []code.Instructions:
			fn, ok := actual[i].(*object.CompiledFunction)
			if !ok {
				return fmt.Errorf("constant %d is not a CompiledFunction, got %T", i, actual[i])
			}
			concatted := concatInstructions(exp)
			if fn.Instructions.String() != concatted.String() {
				return fmt.Errorf("constant %d instructions wrong.\nwant=\n%s\ngot=\n%s", i, concatted, fn.Instructions)
			}
		}
	}
	return nil
}

func TestArithmeticCompiles(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "1 + 2",
			expectedConstants: []any{1.0, 2.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpAdd),
				code.Make(code.OpPop),
			},
		},
		{
			input:             "1; 2",
			expectedConstants: []any{1.0, 2.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpPop),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestLessThanReordersOperands(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "1 < 2",
			expectedConstants: []any{2.0, 1.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpGreater),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestBooleanLiterals(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "true",
			expectedConstants: []any{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpPop),
			},
		},
		{
			input:             "false",
			expectedConstants: []any{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpFalse),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestIfExpressionLeavesOneValue(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "if (true) { 10 }; 3333;",
			expectedConstants: []any{10.0, 3333.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpJumpIfFalse, 10),
				code.Make(code.OpConstant, 0),
				code.Make(code.OpJump, 11),
				code.Make(code.OpNil),
				code.Make(code.OpPop),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpPop),
			},
		},
		{
			input:             "if (true) { 10 } else { 20 }; 3333;",
			expectedConstants: []any{10.0, 20.0, 3333.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpJumpIfFalse, 10),
				code.Make(code.OpConstant, 0),
				code.Make(code.OpJump, 13),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpPop),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestGlobalLetStatements(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "let one = 1; let two = 2;",
			expectedConstants: []any{1.0, 2.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpSetGlobal, 1),
			},
		},
		{
			input:             "let one = 1; one;",
			expectedConstants: []any{1.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpGetGlobal, 0),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestStringLiteralCompiles(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             `"ivory"`,
			expectedConstants: []any{"ivory"},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestArrayAndHashLiterals(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "[1, 2, 3]",
			expectedConstants: []any{1.0, 2.0, 3.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpArray, 3),
				code.Make(code.OpPop),
			},
		},
		{
			input:             `{1: 2}`,
			expectedConstants: []any{1.0, 2.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpMap, 2),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestIndexExpressionCompiles(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "[1, 2, 3][1 + 1]",
			expectedConstants: []any{1.0, 2.0, 3.0, 1.0, 1.0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpArray, 3),
				code.Make(code.OpConstant, 3),
				code.Make(code.OpConstant, 4),
				code.Make(code.OpAdd),
				code.Make(code.OpIndex),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestFunctionsCompile(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "fn() { return 5 + 10 }",
			expectedConstants: []any{5.0, 10.0, []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpAdd),
				code.Make(code.OpReturnValue),
			}},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 2, 0),
				code.Make(code.OpPop),
			},
		},
		{
			input: "fn() { 5 + 10 }",
			expectedConstants: []any{5.0, 10.0, []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpAdd),
				code.Make(code.OpReturnValue),
			}},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 2, 0),
				code.Make(code.OpPop),
			},
		},
		{
			input: "fn() { }",
			expectedConstants: []any{[]code.Instructions{
				code.Make(code.OpReturn),
			}},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 0, 0),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestFunctionCallsCompile(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "fn() { 24 }();",
			expectedConstants: []any{24.0, []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpReturnValue),
			}},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpCall, 0),
				code.Make(code.OpPop),
			},
		},
		{
			input: "let noArg = fn() { 24 }; noArg();",
			expectedConstants: []any{24.0, []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpReturnValue),
			}},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpGetGlobal, 0),
				code.Make(code.OpCall, 0),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestLetStatementScopes(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "let num = 55; fn() { num }",
			expectedConstants: []any{55.0, []code.Instructions{
				code.Make(code.OpGetGlobal, 0),
				code.Make(code.OpReturnValue),
			}},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpPop),
			},
		},
		{
			input: "fn() { let num = 55; num }",
			expectedConstants: []any{55.0, []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetLocal, 0),
				code.Make(code.OpGetLocal, 0),
				code.Make(code.OpReturnValue),
			}},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestBuiltinsResolveInCompiler(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "len([])",
			expectedConstants: []any{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpGetBuiltin, 0),
				code.Make(code.OpArray, 0),
				code.Make(code.OpCall, 1),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestClosuresCompileFreeVariables(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: `
			fn(a) {
				fn(b) {
					a + b
				}
			}
			`,
			expectedConstants: []any{
				[]code.Instructions{
					code.Make(code.OpGetFree, 0),
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpAdd),
					code.Make(code.OpReturnValue),
				},
				[]code.Instructions{
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpClosure, 0, 1),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpPop),
			},
		},
	})
}

func TestRecursiveFunctionUsesCurrClosure(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: `
			let countdown = fn(x) { countdown(x - 1) };
			countdown(1);
			`,
			expectedConstants: []any{
				1.0,
				[]code.Instructions{
					code.Make(code.OpCurrClosure),
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpConstant, 0),
					code.Make(code.OpSub),
					code.Make(code.OpCall, 1),
					code.Make(code.OpReturnValue),
				},
				1.0,
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpGetGlobal, 0),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpCall, 1),
				code.Make(code.OpPop),
			},
		},
	})
}
