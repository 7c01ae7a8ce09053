package parser

import (
	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/lexer"
)

// =============================================================================
// Declaration Parsing
// =============================================================================

// parseDeclaration parses one declaration or statement. A syntax error
// inside it is caught here: the parser resynchronizes and nil is returned.
func (p *Parser) parseDeclaration() (stmt ast.Statement) {
	loopDepth, funcDepth := p.loopDepth, p.funcDepth

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.loopDepth, p.funcDepth = loopDepth, funcDepth
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(lexer.TokenVar):
		return p.parseVariableDeclaration()
	case p.currentTokenIs(lexer.TokenFunction) && p.peekTokenIs(lexer.TokenIdentifier):
		return p.parseFunctionDeclaration()
	}

	return p.parseStatement()
}

// parseVariableDeclaration parses the rest of `var name (= init)? ;`
func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	varToken := p.previous
	name := p.expect(lexer.TokenIdentifier, "Expected a variable name.")

	var initializer ast.Expression
	if p.match(lexer.TokenAssign) {
		initializer = p.parseExpression()
	}

	semi := p.expect(lexer.TokenSemicolon, "Expected ';' after variable declaration.")

	return &ast.VariableDeclaration{
		Span:        varToken.Span.Union(semi.Span),
		Name:        &ast.Identifier{Span: name.Span, Value: name.Lexeme},
		Initializer: initializer,
	}
}

// parseFunctionDeclaration parses `function name(...) {...}` as a variable
// bound to a function literal.
func (p *Parser) parseFunctionDeclaration() *ast.VariableDeclaration {
	p.nextToken() // 'function'
	fn := p.parseFunctionLiteral()

	return &ast.VariableDeclaration{
		Span:        fn.Span,
		Name:        fn.Name,
		Initializer: fn,
	}
}

// =============================================================================
// Statement Parsing
// =============================================================================

// parseStatement parses any non-declaration statement
func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.match(lexer.TokenIf):
		return p.parseIfStatement()
	case p.match(lexer.TokenWhile):
		return p.parseWhileStatement()
	case p.match(lexer.TokenFor):
		return p.parseForStatement()
	case p.match(lexer.TokenBreak):
		return p.parseBreakStatement()
	case p.match(lexer.TokenReturn):
		return p.parseReturnStatement()
	case p.match(lexer.TokenLBrace):
		return p.parseBlockStatement()
	}

	return p.parseExpressionStatement()
}

// parseExpressionStatement parses `expr ;`
func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	expr := p.parseExpression()
	semi := p.expect(lexer.TokenSemicolon, "Expected ';' after expression.")

	return &ast.ExpressionStatement{
		Span:       expr.GetSpan().Union(semi.Span),
		Expression: expr,
	}
}

// parseBlockStatement parses the rest of a block after its '{'
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	opening := p.previous
	var statements []ast.Statement

	for !p.currentTokenIs(lexer.TokenRBrace) && !p.currentTokenIs(lexer.TokenEOF) {
		if stmt := p.parseDeclaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}

	closing := p.expect(lexer.TokenRBrace, "Expected '}' after block.")

	return &ast.BlockStatement{
		Span:       opening.Span.Union(closing.Span),
		Statements: statements,
	}
}

// parseIfStatement parses an if statement with optional else
func (p *Parser) parseIfStatement() *ast.IfStatement {
	keyword := p.previous
	p.expect(lexer.TokenLParen, "Expected '(' after 'if'.")
	condition := p.parseExpression()
	p.expect(lexer.TokenRParen, "Expected ')' after condition.")

	stmt := &ast.IfStatement{
		Condition:  condition,
		ThenBranch: p.parseStatement(),
	}
	stmt.Span = keyword.Span.Union(stmt.ThenBranch.GetSpan())

	if p.match(lexer.TokenElse) {
		stmt.ElseBranch = p.parseStatement()
		stmt.Span = stmt.Span.Union(stmt.ElseBranch.GetSpan())
	}

	return stmt
}

// parseWhileStatement parses a while loop
func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	keyword := p.previous
	p.expect(lexer.TokenLParen, "Expected '(' after 'while'.")
	condition := p.parseExpression()
	p.expect(lexer.TokenRParen, "Expected ')' after condition.")

	body := p.parseLoopBody()

	return &ast.WhileStatement{
		Span:      keyword.Span.Union(body.GetSpan()),
		Condition: condition,
		Body:      body,
	}
}

// parseForStatement parses a for loop and rewrites it as
//
//	{ init; while (cond) { body; incr; } }
//
// The outer block only exists when there is an initializer, the inner one
// only when there is an increment. A missing condition is `true`.
func (p *Parser) parseForStatement() ast.Statement {
	keyword := p.previous
	p.expect(lexer.TokenLParen, "Expected '(' after 'for'.")

	var initializer ast.Statement
	switch {
	case p.match(lexer.TokenSemicolon):
	case p.match(lexer.TokenVar):
		initializer = p.parseVariableDeclaration()
	default:
		initializer = p.parseExpressionStatement()
	}

	var condition ast.Expression
	if !p.currentTokenIs(lexer.TokenSemicolon) {
		condition = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "Expected ';' after loop condition.")

	var increment ast.Expression
	if !p.currentTokenIs(lexer.TokenRParen) {
		increment = p.parseExpression()
	}
	p.expect(lexer.TokenRParen, "Expected ')' after for clauses.")

	body := p.parseLoopBody()
	span := keyword.Span.Union(body.GetSpan())

	if increment != nil {
		body = &ast.BlockStatement{
			Span: body.GetSpan().Union(increment.GetSpan()),
			Statements: []ast.Statement{
				body,
				&ast.ExpressionStatement{Span: increment.GetSpan(), Expression: increment},
			},
		}
	}

	if condition == nil {
		condition = &ast.Literal{Span: keyword.Span, Kind: ast.LiteralBoolean, Value: true}
	}

	var loop ast.Statement = &ast.WhileStatement{
		Span:      span,
		Condition: condition,
		Body:      body,
	}

	if initializer != nil {
		loop = &ast.BlockStatement{
			Span:       span,
			Statements: []ast.Statement{initializer, loop},
		}
	}

	return loop
}

// parseLoopBody parses the statement governed by a loop
func (p *Parser) parseLoopBody() ast.Statement {
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	return body
}

// parseBreakStatement parses `break ;`
func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	keyword := p.previous
	if p.loopDepth == 0 {
		p.addError(keyword.Span, "Can't break outside of a loop.")
	}
	semi := p.expect(lexer.TokenSemicolon, "Expected ';' after 'break'.")

	return &ast.BreakStatement{Span: keyword.Span.Union(semi.Span)}
}

// parseReturnStatement parses `return expr? ;`
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	keyword := p.previous
	if p.funcDepth == 0 {
		p.addError(keyword.Span, "Can't return from top-level code.")
	}

	var value ast.Expression
	if !p.currentTokenIs(lexer.TokenSemicolon) {
		value = p.parseExpression()
	}
	semi := p.expect(lexer.TokenSemicolon, "Expected ';' after return value.")

	return &ast.ReturnStatement{
		Span:  keyword.Span.Union(semi.Span),
		Value: value,
	}
}
