// expressions.go contains all the expression AST nodes. An expression node
// always evaluates to a value.
package ast

import "ivory/token"

// Identifier represents a reference to a previously bound name.
type Identifier struct {
	Token token.Token // the IDENTIFIER token
	Name  string
}

func (i Identifier) Tok() token.Token           { return i.Token }
func (i Identifier) Accept(v ExpressionVisitor) any { return v.VisitIdentifier(i) }

// NumberLiteral represents a numeric literal (IEEE-754 double).
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n NumberLiteral) Tok() token.Token           { return n.Token }
func (n NumberLiteral) Accept(v ExpressionVisitor) any { return v.VisitNumberLiteral(n) }

// StringLiteral represents a "-delimited string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s StringLiteral) Tok() token.Token           { return s.Token }
func (s StringLiteral) Accept(v ExpressionVisitor) any { return v.VisitStringLiteral(s) }

// Boolean represents the literals true/false.
type Boolean struct {
	Token token.Token
	Value bool
}

func (b Boolean) Tok() token.Token           { return b.Token }
func (b Boolean) Accept(v ExpressionVisitor) any { return v.VisitBoolean(b) }

// PrefixExpression represents a unary operation (e.g. "!a" or "-b").
type PrefixExpression struct {
	Token    token.Token // the prefix token, e.g. !
	Operator string
	Right    Expression
}

func (p PrefixExpression) Tok() token.Token           { return p.Token }
func (p PrefixExpression) Accept(v ExpressionVisitor) any { return v.VisitPrefixExpression(p) }

// InfixExpression represents a binary operation (e.g. "a + b").
type InfixExpression struct {
	Token    token.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (i InfixExpression) Tok() token.Token           { return i.Token }
func (i InfixExpression) Accept(v ExpressionVisitor) any { return v.VisitInfixExpression(i) }

// IfExpression represents a conditional. Unlike the teacher's if-statement,
// an if in this language is an expression: it yields the value of whichever
// branch executes (or Nil if the condition is false and there is no else).
type IfExpression struct {
	Token     token.Token // the 'if' token
	Condition Expression
	Then      *BlockStatement
	Else      *BlockStatement
}

func (ie IfExpression) Tok() token.Token           { return ie.Token }
func (ie IfExpression) Accept(v ExpressionVisitor) any { return v.VisitIfExpression(ie) }

// FunctionLiteral represents a function literal: fn(params) { body }. Name
// is non-empty only when the literal is the right-hand side of a `let`,
// allowing the body to reference itself for recursion (spec.md §4.3/§4.4).
type FunctionLiteral struct {
	Token      token.Token // the 'fn' token
	Parameters []Identifier
	Body       *BlockStatement
	Name       string
}

func (f FunctionLiteral) Tok() token.Token           { return f.Token }
func (f FunctionLiteral) Accept(v ExpressionVisitor) any { return v.VisitFunctionLiteral(f) }

// CallExpression represents a function call: callee(args...).
type CallExpression struct {
	Token     token.Token // the '(' token
	Function  Expression
	Arguments []Expression
}

func (c CallExpression) Tok() token.Token           { return c.Token }
func (c CallExpression) Accept(v ExpressionVisitor) any { return v.VisitCallExpression(c) }

// ArrayLiteral represents an array literal: [e1, e2, ...].
type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (a ArrayLiteral) Tok() token.Token           { return a.Token }
func (a ArrayLiteral) Accept(v ExpressionVisitor) any { return v.VisitArrayLiteral(a) }

// HashPair is one key:value pair inside a HashLiteral, kept as an ordered
// list in source even though the runtime Hash is unordered.
type HashPair struct {
	Key   Expression
	Value Expression
}

// HashLiteral represents a hash literal: {k1: v1, k2: v2, ...}.
type HashLiteral struct {
	Token token.Token // the '{' token
	Pairs []HashPair
}

func (h HashLiteral) Tok() token.Token           { return h.Token }
func (h HashLiteral) Accept(v ExpressionVisitor) any { return v.VisitHashLiteral(h) }

// IndexExpression represents a collection index: collection[key].
type IndexExpression struct {
	Token token.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ix IndexExpression) Tok() token.Token           { return ix.Token }
func (ix IndexExpression) Accept(v ExpressionVisitor) any { return v.VisitIndexExpression(ix) }
