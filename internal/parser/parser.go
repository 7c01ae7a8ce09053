// Package parser implements the Quill recursive descent parser.
//
// The parser reports problems to a diagnostics sink instead of stopping at
// the first one. A syntax error abandons the current declaration, skips to
// the next statement boundary and carries on, so one pass can surface
// several independent errors.
package parser

import (
	"github.com/orizon-lang/quill/internal/ast"
	"github.com/orizon-lang/quill/internal/diagnostics"
	"github.com/orizon-lang/quill/internal/lexer"
	"github.com/orizon-lang/quill/internal/position"
)

// MaxArguments caps the number of call arguments and function parameters.
const MaxArguments = 255

// Parser represents the recursive descent parser
type Parser struct {
	tokens   []lexer.Token
	pos      int
	current  lexer.Token // token under examination
	previous lexer.Token // most recently consumed token

	sink *diagnostics.Manager

	// Parser state
	loopDepth int // enclosing loops within the current function
	funcDepth int // enclosing function literals
}

// bailout is the panic value used to abandon a declaration after a syntax
// error has been reported.
type bailout struct{}

// NewParser creates a new parser over tokens, which must end with an EOF
// token as produced by lexer.ScanTokens.
func NewParser(tokens []lexer.Token, sink *diagnostics.Manager) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEOF {
		end := 0
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Span.End()
		}
		tokens = append(tokens, lexer.Token{Type: lexer.TokenEOF, Span: position.Span{Start: end}})
	}
	p := &Parser{
		tokens:  tokens,
		sink:    sink,
		current: tokens[0],
	}
	return p
}

// ParseSource lexes and parses src in one step.
func ParseSource(src string, sink *diagnostics.Manager) *ast.Program {
	return NewParser(lexer.Scan(src, sink), sink).Parse()
}

// Parse parses every declaration up to the end of input. Statements that
// failed to parse are left out of the program.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{
		Span: position.NewSpan(0, p.tokens[len(p.tokens)-1].Span.End()),
	}

	for !p.currentTokenIs(lexer.TokenEOF) {
		if stmt := p.parseDeclaration(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}

	return program
}

// nextToken consumes the current token and returns it. At the end of input
// it keeps returning the EOF token.
func (p *Parser) nextToken() lexer.Token {
	tok := p.current
	if tok.Type != lexer.TokenEOF {
		p.pos++
		p.current = p.tokens[p.pos]
	}
	p.previous = tok
	return tok
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

// peekTokenIs checks if the token after the current one is of the given type
func (p *Parser) peekTokenIs(tokenType lexer.TokenType) bool {
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos+1].Type == tokenType
}

// match consumes the current token if it has one of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.currentTokenIs(t) {
			p.nextToken()
			return true
		}
	}
	return false
}

// expect consumes a token of the given type or abandons the declaration
func (p *Parser) expect(tokenType lexer.TokenType, message string) lexer.Token {
	if p.currentTokenIs(tokenType) {
		return p.nextToken()
	}
	panic(p.fail(p.current.Span, message))
}

// addError reports a syntax error without interrupting the parse
func (p *Parser) addError(span position.Span, message string) {
	if p.sink != nil {
		p.sink.Report(diagnostics.Compile, span, message)
	}
}

// fail reports a syntax error. Callers panic with the result to unwind to
// the enclosing declaration.
func (p *Parser) fail(span position.Span, message string) bailout {
	p.addError(span, message)
	return bailout{}
}

// synchronize skips tokens until just past a ';' or up to a token that
// starts a new statement. It always consumes at least one token.
func (p *Parser) synchronize() {
	p.nextToken()

	for !p.currentTokenIs(lexer.TokenEOF) {
		if p.previous.Type == lexer.TokenSemicolon {
			return
		}

		switch p.current.Type {
		case lexer.TokenClass, lexer.TokenFunction, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenReturn, lexer.TokenBreak:
			return
		}

		p.nextToken()
	}
}
