package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"ivory/compiler"
	"ivory/lexer"
	"ivory/parser"
)

type emitCmd struct {
	dumpAST bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "Emit the compiled bytecode for a source file" }
func (*emitCmd) Usage() string {
	return `emit <file>:
  Compile a file and print its disassembled bytecode to standard
  output.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpAST, "dumpAST", false, "also print the parsed AST as JSON")
	f.BoolVar(&cmd.dumpAST, "da", false, "shorthand for -dumpAST")
}

func (cmd *emitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return exitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	program, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) > 0 {
		for _, pErr := range parseErrs {
			fmt.Fprintln(os.Stderr, pErr)
		}
		return subcommands.ExitFailure
	}

	if cmd.dumpAST {
		if err := parser.PrintToTerminal(program); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to print AST: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	bytecode, err := compiler.New().Compile(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println(bytecode.Instructions.String())
	return subcommands.ExitSuccess
}
