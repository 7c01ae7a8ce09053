package parser

import (
	"fmt"

	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/lexer"
)

// =============================================================================
// Expression Parsing
// =============================================================================

// binaryOperators maps operator tokens to AST operators
var binaryOperators = map[lexer.TokenType]ast.Operator{
	lexer.TokenPlus:  ast.OpAdd,
	lexer.TokenMinus: ast.OpSub,
	lexer.TokenMul:   ast.OpMul,
	lexer.TokenDiv:   ast.OpDiv,
	lexer.TokenMod:   ast.OpMod,
	lexer.TokenEq:    ast.OpEq,
	lexer.TokenNe:    ast.OpNe,
	lexer.TokenLt:    ast.OpLt,
	lexer.TokenLe:    ast.OpLe,
	lexer.TokenGt:    ast.OpGt,
	lexer.TokenGe:    ast.OpGe,
	lexer.TokenAnd:   ast.OpAnd,
	lexer.TokenOr:    ast.OpOr,
	lexer.TokenNot:   ast.OpNot,
}

// binaryLevel describes one left-associative precedence level
type binaryLevel struct {
	operators []lexer.TokenType
	// leading lists operators that are reported when they appear with no
	// left operand, and the message to report
	leading []lexer.TokenType
	message string
}

var (
	equalityLevel = binaryLevel{
		operators: []lexer.TokenType{lexer.TokenEq, lexer.TokenNe},
		leading:   []lexer.TokenType{lexer.TokenEq, lexer.TokenNe},
		message:   "Missing left side of the comparison.",
	}
	comparisonLevel = binaryLevel{
		operators: []lexer.TokenType{lexer.TokenGt, lexer.TokenGe, lexer.TokenLt, lexer.TokenLe},
		leading:   []lexer.TokenType{lexer.TokenGt, lexer.TokenGe, lexer.TokenLt, lexer.TokenLe},
		message:   "Missing left side of the comparison.",
	}
	termLevel = binaryLevel{
		operators: []lexer.TokenType{lexer.TokenPlus, lexer.TokenMinus},
		// '-' with no left side is negation
		leading: []lexer.TokenType{lexer.TokenPlus},
		message: "Missing left side of the operation.",
	}
	factorLevel = binaryLevel{
		operators: []lexer.TokenType{lexer.TokenMul, lexer.TokenDiv, lexer.TokenMod},
		leading:   []lexer.TokenType{lexer.TokenMul, lexer.TokenDiv, lexer.TokenMod},
		message:   "Missing left side of the operation.",
	}
)

// parseExpression parses an expression at the loosest precedence
func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment parses `name = value` (right associative) or falls
// through to a logical or.
func (p *Parser) parseAssignment() ast.Expression {
	expr := p.parseOr()

	if p.match(lexer.TokenAssign) {
		equals := p.previous
		value := p.parseAssignment()

		if name, ok := expr.(*ast.Identifier); ok {
			return &ast.AssignmentExpression{
				Span:  name.Span.Union(value.GetSpan()),
				Name:  name,
				Value: value,
			}
		}

		p.addError(equals.Span, "Invalid assignment target.")
		return value
	}

	return expr
}

// parseOr parses `a or b or ...`
func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()

	for p.match(lexer.TokenOr) {
		op := p.previous
		right := p.parseAnd()
		left = &ast.LogicalExpression{
			Span:         left.GetSpan().Union(right.GetSpan()),
			Left:         left,
			Operator:     ast.OpOr,
			OperatorSpan: op.Span,
			Right:        right,
		}
	}

	return left
}

// parseAnd parses `a and b and ...`
func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()

	for p.match(lexer.TokenAnd) {
		op := p.previous
		right := p.parseEquality()
		left = &ast.LogicalExpression{
			Span:         left.GetSpan().Union(right.GetSpan()),
			Left:         left,
			Operator:     ast.OpAnd,
			OperatorSpan: op.Span,
			Right:        right,
		}
	}

	return left
}

func (p *Parser) parseEquality() ast.Expression {
	return p.parseBinary(equalityLevel, p.parseComparison)
}

func (p *Parser) parseComparison() ast.Expression {
	return p.parseBinary(comparisonLevel, p.parseTerm)
}

func (p *Parser) parseTerm() ast.Expression {
	return p.parseBinary(termLevel, p.parseFactor)
}

func (p *Parser) parseFactor() ast.Expression {
	return p.parseBinary(factorLevel, p.parseUnary)
}

// parseBinary parses one left-associative level whose operands come from
// next. A leading operator with nothing on its left is reported and then
// ignored.
func (p *Parser) parseBinary(level binaryLevel, next func() ast.Expression) ast.Expression {
	if p.match(level.leading...) {
		p.addError(p.previous.Span, level.message)
	}

	left := next()

	for p.match(level.operators...) {
		op := p.previous
		right := next()
		left = &ast.BinaryExpression{
			Span:         left.GetSpan().Union(right.GetSpan()),
			Left:         left,
			Operator:     binaryOperators[op.Type],
			OperatorSpan: op.Span,
			Right:        right,
		}
	}

	return left
}

// parseUnary parses prefix `!` and `-` (right associative)
func (p *Parser) parseUnary() ast.Expression {
	if p.match(lexer.TokenNot, lexer.TokenMinus) {
		op := p.previous
		operand := p.parseUnary()

		operator := ast.OpNot
		if op.Type == lexer.TokenMinus {
			operator = ast.OpSub
		}

		return &ast.UnaryExpression{
			Span:         op.Span.Union(operand.GetSpan()),
			Operator:     operator,
			OperatorSpan: op.Span,
			Operand:      operand,
		}
	}

	return p.parseCall()
}

// parseCall parses a primary expression followed by any number of calls
func (p *Parser) parseCall() ast.Expression {
	expr := p.parsePrimary()

	for p.match(lexer.TokenLParen) {
		expr = p.parseCallArguments(expr)
	}

	return expr
}

// parseCallArguments parses the argument list after '('
func (p *Parser) parseCallArguments(callee ast.Expression) *ast.CallExpression {
	paren := p.previous
	var args []ast.Expression

	if !p.currentTokenIs(lexer.TokenRParen) {
		for {
			if len(args) >= MaxArguments {
				p.addError(p.current.Span, fmt.Sprintf("Can't have more than %d arguments.", MaxArguments))
			}
			args = append(args, p.parseExpression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}

	closing := p.expect(lexer.TokenRParen, "Expected ')' after arguments.")

	return &ast.CallExpression{
		Span:      callee.GetSpan().Union(closing.Span),
		Function:  callee,
		Paren:     paren.Span,
		Arguments: args,
	}
}

// parsePrimary parses literals, names, groups and function literals
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current

	switch tok.Type {
	case lexer.TokenNumber:
		p.nextToken()
		return &ast.Literal{Span: tok.Span, Kind: ast.LiteralNumber, Value: tok.Value}
	case lexer.TokenString:
		p.nextToken()
		return &ast.Literal{Span: tok.Span, Kind: ast.LiteralString, Value: tok.Value}
	case lexer.TokenTrue, lexer.TokenFalse:
		p.nextToken()
		return &ast.Literal{Span: tok.Span, Kind: ast.LiteralBoolean, Value: tok.Type == lexer.TokenTrue}
	case lexer.TokenNil:
		p.nextToken()
		return &ast.Literal{Span: tok.Span, Kind: ast.LiteralNil}
	case lexer.TokenIdentifier:
		p.nextToken()
		return &ast.Identifier{Span: tok.Span, Value: tok.Lexeme}
	case lexer.TokenLParen:
		p.nextToken()
		inner := p.parseExpression()
		closing := p.expect(lexer.TokenRParen, "Expected ')' after expression.")
		return &ast.GroupingExpression{
			Span:       tok.Span.Union(closing.Span),
			Expression: inner,
		}
	case lexer.TokenFunction:
		p.nextToken()
		return p.parseFunctionLiteral()
	case lexer.TokenClass, lexer.TokenNew, lexer.TokenThis, lexer.TokenSuper:
		panic(p.fail(tok.Span, fmt.Sprintf("'%s' is reserved and not supported.", tok.Lexeme)))
	}

	panic(p.fail(tok.Span, "Expected expression."))
}

// parseFunctionLiteral parses the rest of a function literal after the
// 'function' keyword: an optional name, parameters and a body.
func (p *Parser) parseFunctionLiteral() *ast.FunctionLiteral {
	keyword := p.previous
	fn := &ast.FunctionLiteral{}

	if p.match(lexer.TokenIdentifier) {
		fn.Name = &ast.Identifier{Span: p.previous.Span, Value: p.previous.Lexeme}
	}

	p.expect(lexer.TokenLParen, "Expected '(' after function name.")
	if !p.currentTokenIs(lexer.TokenRParen) {
		for {
			if len(fn.Parameters) >= MaxArguments {
				p.addError(p.current.Span, fmt.Sprintf("Can't have more than %d parameters.", MaxArguments))
			}
			param := p.expect(lexer.TokenIdentifier, "Expected a parameter name.")
			fn.Parameters = append(fn.Parameters, &ast.Identifier{Span: param.Span, Value: param.Lexeme})
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen, "Expected ')' after parameters.")
	p.expect(lexer.TokenLBrace, "Expected '{' before function body.")

	// A loop outside the function cannot be the target of a break inside it.
	loopDepth := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++
	fn.Body = p.parseBlockStatement()
	p.funcDepth--
	p.loopDepth = loopDepth

	fn.Span = keyword.Span.Union(fn.Body.Span)
	return fn
}
