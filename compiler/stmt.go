package compiler

import (
	"ivory/ast"
	"ivory/code"
	"ivory/symtable"
)

// stmtCompiler implements ast.StmtVisitor, compiling one statement kind
// per method. Each Visit method returns an error (or nil) as `any`,
// unwrapped by Compiler.compileStmt.
type stmtCompiler struct {
	c *Compiler
}

func (v *stmtCompiler) VisitLetStatement(let ast.LetStatement) any {
	if err := v.c.compileExpr(let.Value); err != nil {
		return err
	}

	symbol := v.c.symbolTable.Define(let.Name.Name)
	line := let.Token.Line
	switch symbol.Scope {
	case symtable.GlobalScope:
		v.c.emit(line, code.OpSetGlobal, symbol.Index)
	default:
		v.c.emit(line, code.OpSetLocal, symbol.Index)
	}
	return nil
}

func (v *stmtCompiler) VisitReturnStatement(ret ast.ReturnStatement) any {
	if ret.ReturnValue == nil {
		v.c.emit(ret.Token.Line, code.OpNil)
		v.c.emit(ret.Token.Line, code.OpReturnValue)
		return nil
	}
	if err := v.c.compileExpr(ret.ReturnValue); err != nil {
		return err
	}
	v.c.emit(ret.Token.Line, code.OpReturnValue)
	return nil
}

func (v *stmtCompiler) VisitExpressionStatement(expr ast.ExpressionStatement) any {
	if err := v.c.compileExpr(expr.Expression); err != nil {
		return err
	}
	v.c.emit(expr.Token.Line, code.OpPop)
	return nil
}

func (v *stmtCompiler) VisitBlockStatement(block ast.BlockStatement) any {
	for _, stmt := range block.Statements {
		if err := v.c.compileStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}
