package compiler

import (
	"fmt"

	"ivory/ast"
	"ivory/code"
	"ivory/object"
)

// exprCompiler implements ast.ExpressionVisitor, compiling one
// expression kind per method. Each Visit method returns an error (or
// nil) as `any`, unwrapped by Compiler.compileExpr.
type exprCompiler struct {
	c *Compiler
}

func (v *exprCompiler) VisitIdentifier(ident ast.Identifier) any {
	symbol, ok := v.c.symbolTable.Resolve(ident.Name)
	if !ok {
		return CompileError{Line: ident.Token.Line, Message: fmt.Sprintf("undefined identifier %q", ident.Name)}
	}
	v.c.loadSymbol(ident.Token.Line, symbol)
	return nil
}

func (v *exprCompiler) VisitNumberLiteral(num ast.NumberLiteral) any {
	idx := v.c.addConstant(&object.Number{Value: num.Value})
	v.c.emit(num.Token.Line, code.OpConstant, idx)
	return nil
}

func (v *exprCompiler) VisitStringLiteral(str ast.StringLiteral) any {
	idx := v.c.addConstant(&object.String{Value: str.Value})
	v.c.emit(str.Token.Line, code.OpConstant, idx)
	return nil
}

func (v *exprCompiler) VisitBoolean(b ast.Boolean) any {
	if b.Value {
		v.c.emit(b.Token.Line, code.OpTrue)
	} else {
		v.c.emit(b.Token.Line, code.OpFalse)
	}
	return nil
}

func (v *exprCompiler) VisitPrefixExpression(p ast.PrefixExpression) any {
	if err := v.c.compileExpr(p.Right); err != nil {
		return err
	}
	switch p.Operator {
	case "!":
		v.c.emit(p.Token.Line, code.OpBang)
	case "-":
		v.c.emit(p.Token.Line, code.OpMinus)
	default:
		return CompileError{Line: p.Token.Line, Message: fmt.Sprintf("unknown prefix operator %q", p.Operator)}
	}
	return nil
}

func (v *exprCompiler) VisitInfixExpression(i ast.InfixExpression) any {
	// "<" has no dedicated opcode: reorder operands and reuse Greater.
	if i.Operator == "<" {
		if err := v.c.compileExpr(i.Right); err != nil {
			return err
		}
		if err := v.c.compileExpr(i.Left); err != nil {
			return err
		}
		v.c.emit(i.Token.Line, code.OpGreater)
		return nil
	}

	if err := v.c.compileExpr(i.Left); err != nil {
		return err
	}
	if err := v.c.compileExpr(i.Right); err != nil {
		return err
	}

	switch i.Operator {
	case "+":
		v.c.emit(i.Token.Line, code.OpAdd)
	case "-":
		v.c.emit(i.Token.Line, code.OpSub)
	case "*":
		v.c.emit(i.Token.Line, code.OpMul)
	case "/":
		v.c.emit(i.Token.Line, code.OpDiv)
	case "==":
		v.c.emit(i.Token.Line, code.OpEqual)
	case "!=":
		v.c.emit(i.Token.Line, code.OpNotEqual)
	case ">":
		v.c.emit(i.Token.Line, code.OpGreater)
	default:
		return CompileError{Line: i.Token.Line, Message: fmt.Sprintf("unknown infix operator %q", i.Operator)}
	}
	return nil
}

func (v *exprCompiler) VisitIfExpression(ifExpr ast.IfExpression) any {
	if err := v.c.compileExpr(ifExpr.Condition); err != nil {
		return err
	}

	jumpIfFalsePos := v.c.emit(ifExpr.Token.Line, code.OpJumpIfFalse, 9999)

	if err := v.c.compileStmt(*ifExpr.Then); err != nil {
		return err
	}
	if v.c.lastInstructionIs(code.OpPop) {
		v.c.removeLastPop()
	}

	jumpPos := v.c.emit(ifExpr.Token.Line, code.OpJump, 9999)

	afterThenPos := len(v.c.currentInstructions())
	v.c.changeOperand(jumpIfFalsePos, afterThenPos)

	if ifExpr.Else != nil {
		if err := v.c.compileStmt(*ifExpr.Else); err != nil {
			return err
		}
		if v.c.lastInstructionIs(code.OpPop) {
			v.c.removeLastPop()
		}
	} else {
		v.c.emit(ifExpr.Token.Line, code.OpNil)
	}

	afterElsePos := len(v.c.currentInstructions())
	v.c.changeOperand(jumpPos, afterElsePos)

	return nil
}

func (v *exprCompiler) VisitFunctionLiteral(fn ast.FunctionLiteral) any {
	v.c.enterScope()

	if fn.Name != "" {
		v.c.symbolTable.DefineFunctionName(fn.Name)
	}
	for _, param := range fn.Parameters {
		v.c.symbolTable.Define(param.Name)
	}

	if err := v.c.compileStmt(*fn.Body); err != nil {
		return err
	}

	if v.c.lastInstructionIs(code.OpPop) {
		v.c.replaceLastPopWithReturn()
	} else if !v.c.lastInstructionIs(code.OpReturnValue) {
		v.c.emit(fn.Token.Line, code.OpReturn)
	}

	freeSymbols := v.c.symbolTable.FreeSymbols
	numLocals := v.c.symbolTable.NumDefinitions()
	instructions, lines := v.c.leaveScope()

	for _, sym := range freeSymbols {
		v.c.loadSymbol(fn.Token.Line, sym)
	}

	compiledFn := &object.CompiledFunction{
		Instructions: instructions,
		Lines:        lines,
		NumLocals:    numLocals,
		NumParams:    len(fn.Parameters),
		Name:         fn.Name,
	}
	fnIdx := v.c.addConstant(compiledFn)

	v.c.emit(fn.Token.Line, code.OpClosure, fnIdx, len(freeSymbols))
	return nil
}

func (v *exprCompiler) VisitCallExpression(call ast.CallExpression) any {
	if err := v.c.compileExpr(call.Function); err != nil {
		return err
	}
	for _, arg := range call.Arguments {
		if err := v.c.compileExpr(arg); err != nil {
			return err
		}
	}
	v.c.emit(call.Token.Line, code.OpCall, len(call.Arguments))
	return nil
}

func (v *exprCompiler) VisitArrayLiteral(arr ast.ArrayLiteral) any {
	for _, elem := range arr.Elements {
		if err := v.c.compileExpr(elem); err != nil {
			return err
		}
	}
	v.c.emit(arr.Token.Line, code.OpArray, len(arr.Elements))
	return nil
}

func (v *exprCompiler) VisitHashLiteral(hash ast.HashLiteral) any {
	for _, pair := range hash.Pairs {
		if err := v.c.compileExpr(pair.Key); err != nil {
			return err
		}
		if err := v.c.compileExpr(pair.Value); err != nil {
			return err
		}
	}
	v.c.emit(hash.Token.Line, code.OpMap, 2*len(hash.Pairs))
	return nil
}

func (v *exprCompiler) VisitIndexExpression(idx ast.IndexExpression) any {
	if err := v.c.compileExpr(idx.Left); err != nil {
		return err
	}
	if err := v.c.compileExpr(idx.Index); err != nil {
		return err
	}
	v.c.emit(idx.Token.Line, code.OpIndex)
	return nil
}
