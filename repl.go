package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"ivory/compiler"
	"ivory/interpreter"
	"ivory/lexer"
	"ivory/object"
	"ivory/parser"
	"ivory/vm"
)

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive Ivory session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive REPL. Bindings, the constants pool, and the
  globals array persist across lines within one session.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start REPL: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("Welcome to Ivory!")

	if astEvalSelected() {
		runEvalREPL(rl)
	} else {
		runVMREPL(rl)
	}
	return subcommands.ExitSuccess
}

func runEvalREPL(rl *readline.Instance) {
	interp := interpreter.Make()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if line == "" {
			continue
		}

		tokens, err := lexer.New(line).Scan()
		if err != nil {
			fmt.Println(err)
			continue
		}
		program, parseErrs := parser.Make(tokens).Parse()
		if len(parseErrs) > 0 {
			for _, pErr := range parseErrs {
				fmt.Fprintln(os.Stderr, pErr)
			}
			continue
		}

		result, err := interp.Interpret(program)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if result != nil {
			fmt.Println(result.Inspect())
		}
	}
}

func runVMREPL(rl *readline.Instance) {
	globals := make([]object.Value, vm.GlobalsSize)
	comp := compiler.New()
	trace := traceWriter()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if line == "" {
			continue
		}

		tokens, err := lexer.New(line).Scan()
		if err != nil {
			fmt.Println(err)
			continue
		}
		program, parseErrs := parser.Make(tokens).Parse()
		if len(parseErrs) > 0 {
			for _, pErr := range parseErrs {
				fmt.Fprintln(os.Stderr, pErr)
			}
			continue
		}

		comp = compiler.NewWithState(comp.SymbolTable(), comp.Constants())
		bytecode, err := comp.Compile(program)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		machine := vm.NewWithGlobals(bytecode, globals)
		machine.Trace = trace
		if err := machine.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if result := machine.LastPoppedStackElem(); result != nil {
			fmt.Println(result.Inspect())
		}
	}
}
