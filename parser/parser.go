// Pratt (operator-precedence) parser.
// https://en.wikipedia.org/wiki/Operator-precedence_parser
//
// Each token kind may register a prefix parse function (used when the
// token starts an expression), an infix parse function (used when the
// token follows a left-hand expression), and a binding precedence. The
// main loop repeatedly consumes infix operators whose precedence beats
// the precedence threshold it was called with, which is what gives the
// technique its name.
package parser

import (
	"fmt"
	"strconv"

	"ivory/ast"
	"ivory/token"
)

// Precedence levels, lowest to highest binding power. Assignment, Or and
// And are part of the ladder even though no token currently binds at
// those levels; they reserve room for the grammar to grow without a
// renumbering.
const (
	Lowest = iota
	Assignment
	Or
	And
	Equality
	Comparison
	Term
	Factor
	Unary
	Call
	Index
	Primary
)

var precedences = map[token.Type]int{
	token.EQUAL_EQUAL: Equality,
	token.NOT_EQUAL:   Equality,
	token.LESS:        Comparison,
	token.GREATER:     Comparison,
	token.PLUS:        Term,
	token.MINUS:       Term,
	token.SLASH:       Factor,
	token.ASTERISK:    Factor,
	token.LPAREN:      Call,
	token.LBRACKET:    Index,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser builds an AST from a token stream using Pratt parsing. It walks
// the token slice by index: peek returns the token at the current
// position and previous returns the token most recently consumed.
type Parser struct {
	tokens   []token.Token
	position int

	errors []error

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// Make initializes and returns a new Parser instance over tokens.
func Make(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens, position: 0}

	p.prefixFns = map[token.Type]prefixParseFn{
		token.IDENTIFIER: p.parseIdentifier,
		token.NUMBER:     p.parseNumberLiteral,
		token.STRING:     p.parseStringLiteral,
		token.TRUE:       p.parseBoolean,
		token.FALSE:      p.parseBoolean,
		token.BANG:       p.parsePrefixExpression,
		token.MINUS:      p.parsePrefixExpression,
		token.LPAREN:     p.parseGroupedExpression,
		token.IF:         p.parseIfExpression,
		token.FUNCTION:   p.parseFunctionLiteral,
		token.LBRACKET:   p.parseArrayLiteral,
		token.LBRACE:     p.parseHashLiteral,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:        p.parseInfixExpression,
		token.MINUS:       p.parseInfixExpression,
		token.SLASH:       p.parseInfixExpression,
		token.ASTERISK:    p.parseInfixExpression,
		token.EQUAL_EQUAL: p.parseInfixExpression,
		token.NOT_EQUAL:   p.parseInfixExpression,
		token.LESS:        p.parseInfixExpression,
		token.GREATER:     p.parseInfixExpression,
		token.LPAREN:      p.parseCallExpression,
		token.LBRACKET:    p.parseIndexExpression,
	}

	return p
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) checkType(tokenType token.Type) bool {
	if p.isFinished() {
		return false
	}
	return p.peek().Type == tokenType
}

func (p *Parser) isMatch(tokenType token.Type) bool {
	if p.checkType(tokenType) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(tokenType token.Type, errorMessage string) (token.Token, error) {
	if p.checkType(tokenType) {
		return p.advance(), nil
	}
	tok := p.peek()
	return token.Token{}, CreateSyntaxError(tok.Line, tok.Column, errorMessage)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek().Type]; ok {
		return prec
	}
	return Lowest
}

// Parse parses the entire token stream into a Program, continuing past
// faulty statements to collect as many errors as possible.
func (p *Parser) Parse() (ast.Program, []error) {
	statements := []ast.Stmt{}

	for !p.isFinished() {
		statement, err := p.parseStatement()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		statements = append(statements, statement)
	}

	return ast.Program{Statements: statements}, p.errors
}

// synchronize discards tokens up to the next statement boundary after a
// parse error, so that subsequent statements can still be attempted.
func (p *Parser) synchronize() {
	for !p.isFinished() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.LET, token.RETURN, token.IF, token.FUNCTION:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.peek().Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() (ast.Stmt, error) {
	letTok := p.advance()

	nameTok, err := p.consume(token.IDENTIFIER, "expected identifier after 'let'")
	if err != nil {
		return nil, err
	}
	name := ast.Identifier{Token: nameTok, Name: nameTok.Lexeme}

	if _, err := p.consume(token.ASSIGN, "expected '=' in let statement"); err != nil {
		return nil, err
	}

	value, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	// A function literal bound directly by a let carries its own name so
	// the compiler can let the body reference itself for recursion.
	if fn, ok := value.(ast.FunctionLiteral); ok {
		fn.Name = name.Name
		value = fn
	}

	p.isMatch(token.SEMICOLON)

	return ast.LetStatement{Token: letTok, Name: name, Value: value}, nil
}

func (p *Parser) parseReturnStatement() (ast.Stmt, error) {
	retTok := p.advance()

	var value ast.Expression
	if !p.checkType(token.SEMICOLON) {
		var err error
		value, err = p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
	}

	p.isMatch(token.SEMICOLON)

	return ast.ReturnStatement{Token: retTok, ReturnValue: value}, nil
}

func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	startTok := p.peek()

	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	p.isMatch(token.SEMICOLON)

	return ast.ExpressionStatement{Token: startTok, Expression: expr}, nil
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	braceTok, err := p.consume(token.LBRACE, "expected '{'")
	if err != nil {
		return nil, err
	}

	statements := []ast.Stmt{}
	for !p.checkType(token.RBRACE) && !p.isFinished() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := p.consume(token.RBRACE, "expected '}' to close block"); err != nil {
		return nil, err
	}

	return &ast.BlockStatement{Token: braceTok, Statements: statements}, nil
}

// parseExpression is the Pratt parsing entry point: apply the prefix
// rule for the current token, then keep folding in infix operators
// whose precedence exceeds prec.
func (p *Parser) parseExpression(prec int) (ast.Expression, error) {
	prefix, ok := p.prefixFns[p.peek().Type]
	if !ok {
		tok := p.peek()
		return nil, CreateSyntaxError(tok.Line, tok.Column, fmt.Sprintf("unexpected token %q, no prefix parse function", tok.Lexeme))
	}

	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.checkType(token.SEMICOLON) && prec < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek().Type]
		if !ok {
			return left, nil
		}
		p.advance()
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	tok := p.advance()
	return ast.Identifier{Token: tok, Name: tok.Lexeme}, nil
}

func (p *Parser) parseNumberLiteral() (ast.Expression, error) {
	tok := p.advance()
	value, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		return nil, CreateSyntaxError(tok.Line, tok.Column, fmt.Sprintf("could not parse %q as a number", tok.Lexeme))
	}
	return ast.NumberLiteral{Token: tok, Value: value}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	tok := p.advance()
	return ast.StringLiteral{Token: tok, Value: tok.Lexeme}, nil
}

func (p *Parser) parseBoolean() (ast.Expression, error) {
	tok := p.advance()
	return ast.Boolean{Token: tok, Value: tok.Type == token.TRUE}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.advance() // consume '('
	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' to close grouped expression"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	tok := p.advance()
	right, err := p.parseExpression(Unary)
	if err != nil {
		return nil, err
	}
	return ast.PrefixExpression{Token: tok, Operator: tok.Lexeme, Right: right}, nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	tok := p.previous()
	prec := p.peekPrecedenceOf(tok.Type)
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return ast.InfixExpression{Token: tok, Left: left, Operator: tok.Lexeme, Right: right}, nil
}

func (p *Parser) peekPrecedenceOf(t token.Type) int {
	if prec, ok := precedences[t]; ok {
		return prec
	}
	return Lowest
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	ifTok := p.advance()

	if _, err := p.consume(token.LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}

	then, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	var elseBlock *ast.BlockStatement
	if p.isMatch(token.ELSE) {
		elseBlock, err = p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
	}

	return ast.IfExpression{Token: ifTok, Condition: condition, Then: then, Else: elseBlock}, nil
}

func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	fnTok := p.advance()

	if _, err := p.consume(token.LPAREN, "expected '(' after 'fn'"); err != nil {
		return nil, err
	}
	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	return ast.FunctionLiteral{Token: fnTok, Parameters: params, Body: body}, nil
}

func (p *Parser) parseFunctionParameters() ([]ast.Identifier, error) {
	params := []ast.Identifier{}

	if p.isMatch(token.RPAREN) {
		return params, nil
	}

	tok, err := p.consume(token.IDENTIFIER, "expected parameter name")
	if err != nil {
		return nil, err
	}
	params = append(params, ast.Identifier{Token: tok, Name: tok.Lexeme})

	for p.isMatch(token.COMMA) {
		tok, err := p.consume(token.IDENTIFIER, "expected parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Identifier{Token: tok, Name: tok.Lexeme})
	}

	if _, err := p.consume(token.RPAREN, "expected ')' to close parameter list"); err != nil {
		return nil, err
	}

	return params, nil
}

func (p *Parser) parseCallExpression(function ast.Expression) (ast.Expression, error) {
	parenTok := p.previous()
	args, err := p.parseExpressionList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return ast.CallExpression{Token: parenTok, Function: function, Arguments: args}, nil
}

func (p *Parser) parseExpressionList(end token.Type) ([]ast.Expression, error) {
	list := []ast.Expression{}

	if p.isMatch(end) {
		return list, nil
	}

	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	list = append(list, expr)

	for p.isMatch(token.COMMA) {
		expr, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
	}

	if _, err := p.consume(end, fmt.Sprintf("expected %q to close list", string(end))); err != nil {
		return nil, err
	}

	return list, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	bracketTok := p.advance()
	elements, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return ast.ArrayLiteral{Token: bracketTok, Elements: elements}, nil
}

func (p *Parser) parseHashLiteral() (ast.Expression, error) {
	braceTok := p.advance()
	pairs := []ast.HashPair{}

	for !p.checkType(token.RBRACE) {
		key, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(token.COLON, "expected ':' after hash key"); err != nil {
			return nil, err
		}

		value, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, ast.HashPair{Key: key, Value: value})

		if !p.checkType(token.RBRACE) {
			if _, err := p.consume(token.COMMA, "expected ',' between hash pairs"); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.consume(token.RBRACE, "expected '}' to close hash literal"); err != nil {
		return nil, err
	}

	return ast.HashLiteral{Token: braceTok, Pairs: pairs}, nil
}

func (p *Parser) parseIndexExpression(left ast.Expression) (ast.Expression, error) {
	bracketTok := p.previous()
	index, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RBRACKET, "expected ']' to close index expression"); err != nil {
		return nil, err
	}
	return ast.IndexExpression{Token: bracketTok, Left: left, Index: index}, nil
}
