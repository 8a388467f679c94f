// Package compiler walks the AST produced by the parser and emits
// bytecode for the VM: a constants pool, jump-patched control flow, and
// closure-construction for every function literal.
package compiler

import (
	"ivory/ast"
	"ivory/builtins"
	"ivory/code"
	"ivory/object"
	"ivory/symtable"
)

// emittedInstruction remembers one opcode emitted into the current
// scope, so that the compiler can inspect (and sometimes rewrite) the
// most recently emitted instruction.
type emittedInstruction struct {
	Opcode   code.Opcode
	Position int
}

// CompilationScope is one entry in the compiler's scope stack,
// corresponding one-to-one with an entered function scope (the
// outermost "main" scope is pushed at construction).
type CompilationScope struct {
	instructions code.Instructions
	lines        []int32

	lastInstruction     emittedInstruction
	previousInstruction emittedInstruction
}

// Bytecode is the compiler's output: the top-level instruction stream
// (the "main" scope's buffer) plus the constants pool it references.
type Bytecode struct {
	Instructions code.Instructions
	Lines        []int32
	Constants    []object.Value
}

// Compiler compiles a parsed program into Bytecode. Builtins must be
// pre-defined on symbols (in registry order) before compiling any
// program that references them.
type Compiler struct {
	constants []object.Value

	symbolTable  *symtable.SymbolTable
	outerSymbols []*symtable.SymbolTable

	scopes     []CompilationScope
	scopeIndex int
}

// New constructs a Compiler with an empty constants pool, a fresh
// symbol table, and the "main" scope pre-pushed. Callers that want a
// REPL-style shared session across iterations should instead use
// NewWithState.
func New() *Compiler {
	mainScope := CompilationScope{
		instructions: code.Instructions{},
		lines:        []int32{},
	}

	symbolTable := symtable.New()
	for i, b := range builtins.Builtins {
		symbolTable.DefineBuiltin(i, b.Name)
	}

	return &Compiler{
		constants:   []object.Value{},
		symbolTable: symbolTable,
		scopes:      []CompilationScope{mainScope},
		scopeIndex:  0,
	}
}

// NewWithState constructs a Compiler sharing an existing constants pool
// and symbol table, used by the REPL driver to persist bindings and
// constants across successive lines of input.
func NewWithState(symbolTable *symtable.SymbolTable, constants []object.Value) *Compiler {
	c := New()
	c.symbolTable = symbolTable
	c.constants = constants
	return c
}

// SymbolTable exposes the compiler's symbol table so a REPL driver can
// thread it into the next compilation.
func (c *Compiler) SymbolTable() *symtable.SymbolTable {
	return c.symbolTable
}

// Constants exposes the accumulated constants pool so a REPL driver can
// thread it into the next compilation.
func (c *Compiler) Constants() []object.Value {
	return c.constants
}

func (c *Compiler) currentScope() *CompilationScope {
	return &c.scopes[c.scopeIndex]
}

func (c *Compiler) currentInstructions() code.Instructions {
	return c.currentScope().instructions
}

// addConstant appends value to the pool and returns its (index-stable)
// index.
func (c *Compiler) addConstant(value object.Value) int {
	c.constants = append(c.constants, value)
	return len(c.constants) - 1
}

// emit encodes an instruction, appends it (with a line entry per byte)
// to the current scope's buffer, and records it as the new last
// instruction. Returns the instruction's starting byte offset.
func (c *Compiler) emit(line int32, op code.Opcode, operands ...int) int {
	instruction := code.Make(op, operands...)
	pos := len(c.currentInstructions())

	scope := c.currentScope()
	scope.instructions = append(scope.instructions, instruction...)
	for range instruction {
		scope.lines = append(scope.lines, line)
	}

	scope.previousInstruction = scope.lastInstruction
	scope.lastInstruction = emittedInstruction{Opcode: op, Position: pos}

	return pos
}

func (c *Compiler) lastInstructionIs(op code.Opcode) bool {
	if len(c.currentInstructions()) == 0 {
		return false
	}
	return c.currentScope().lastInstruction.Opcode == op
}

// removeLastPop deletes a trailing Pop from the current scope's buffer,
// used when an if-branch or function body must leave its final
// expression's value on the stack instead of discarding it.
func (c *Compiler) removeLastPop() {
	scope := c.currentScope()
	last := scope.lastInstruction
	scope.instructions = scope.instructions[:last.Position]
	scope.lines = scope.lines[:last.Position]
	scope.lastInstruction = scope.previousInstruction
}

// replaceInstruction overwrites the instruction at pos in place; newInstruction
// must have the same byte length as what it replaces.
func (c *Compiler) replaceInstruction(pos int, newInstruction []byte) {
	ins := c.currentInstructions()
	for i := 0; i < len(newInstruction); i++ {
		ins[pos+i] = newInstruction[i]
	}
}

// changeOperand re-encodes the instruction at pos with a new operand,
// used to back-patch jump targets once the jump destination is known.
func (c *Compiler) changeOperand(pos int, operand int) {
	op := code.Opcode(c.currentInstructions()[pos])
	newInstruction := code.Make(op, operand)
	c.replaceInstruction(pos, newInstruction)
}

// replaceLastPopWithReturn rewrites a trailing Pop to ReturnValue so a
// function body implicitly returns the value of its last expression.
func (c *Compiler) replaceLastPopWithReturn() {
	lastPos := c.currentScope().lastInstruction.Position
	newInstruction := code.Make(code.OpReturnValue)
	c.replaceInstruction(lastPos, newInstruction)
	c.currentScope().lastInstruction.Opcode = code.OpReturnValue
}

// enterScope pushes a new CompilationScope and a new enclosed symbol
// table, called on entry to a function literal's body.
func (c *Compiler) enterScope() {
	scope := CompilationScope{instructions: code.Instructions{}, lines: []int32{}}
	c.scopes = append(c.scopes, scope)
	c.scopeIndex++
	c.outerSymbols = append(c.outerSymbols, c.symbolTable)
	c.symbolTable = symtable.NewEnclosed(c.symbolTable)
}

// leaveScope pops the current scope and symbol table, returning the
// instructions and lines buffers of the scope just left.
func (c *Compiler) leaveScope() (code.Instructions, []int32) {
	instructions := c.currentInstructions()
	lines := c.currentScope().lines

	c.scopes = c.scopes[:len(c.scopes)-1]
	c.scopeIndex--
	c.symbolTable = c.outerSymbols[len(c.outerSymbols)-1]
	c.outerSymbols = c.outerSymbols[:len(c.outerSymbols)-1]

	return instructions, lines
}

// Compile compiles every statement of program in order and returns the
// resulting Bytecode, or the first CompileError/DeveloperError
// encountered.
func (c *Compiler) Compile(program ast.Program) (Bytecode, error) {
	for _, stmt := range program.Statements {
		if err := c.compileStmt(stmt); err != nil {
			return Bytecode{}, err
		}
	}
	return Bytecode{
		Instructions: c.currentInstructions(),
		Lines:        c.currentScope().lines,
		Constants:    c.constants,
	}, nil
}

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	result := stmt.Accept(&stmtCompiler{c})
	if err, ok := result.(error); ok {
		return err
	}
	return nil
}

func (c *Compiler) compileExpr(expr ast.Expression) error {
	result := expr.Accept(&exprCompiler{c})
	if err, ok := result.(error); ok {
		return err
	}
	return nil
}

// loadSymbol emits the scope-specific load instruction for a resolved
// symbol.
func (c *Compiler) loadSymbol(line int32, sym symtable.Symbol) {
	switch sym.Scope {
	case symtable.GlobalScope:
		c.emit(line, code.OpGetGlobal, sym.Index)
	case symtable.LocalScope:
		c.emit(line, code.OpGetLocal, sym.Index)
	case symtable.BuiltinScope:
		c.emit(line, code.OpGetBuiltin, sym.Index)
	case symtable.FreeScope:
		c.emit(line, code.OpGetFree, sym.Index)
	case symtable.FunctionScope:
		c.emit(line, code.OpCurrClosure)
	}
}
