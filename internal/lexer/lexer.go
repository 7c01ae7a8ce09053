// Package lexer implements the Quill lexical analyzer.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/orizon-lang/quill/internal/diagnostics"
	"github.com/orizon-lang/quill/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

const (
	TokenEOF TokenType = iota

	// Literals
	TokenIdentifier
	TokenNumber
	TokenString

	// Keywords
	TokenAnd
	TokenBreak
	TokenClass
	TokenElse
	TokenFalse
	TokenFor
	TokenFunction
	TokenIf
	TokenNew
	TokenNil
	TokenOr
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenNot
	TokenAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenDot
	TokenSemicolon
)

// Token represents a lexical token with position information
type Token struct {
	Type   TokenType
	Lexeme string        // exact source text
	Span   position.Span // Source code span for this token
	Value  interface{}   // float64 for numbers, string for strings, bool for true/false
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("{Type: %s, Lexeme: %q, Value: %v, Span: %s}", t.Type, t.Lexeme, t.Value, t.Span)
	}
	return fmt.Sprintf("{Type: %s, Lexeme: %q, Span: %s}", t.Type, t.Lexeme, t.Span)
}

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF: "EOF",

	TokenIdentifier: "IDENTIFIER",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",

	TokenAnd:      "AND",
	TokenBreak:    "BREAK",
	TokenClass:    "CLASS",
	TokenElse:     "ELSE",
	TokenFalse:    "FALSE",
	TokenFor:      "FOR",
	TokenFunction: "FUNCTION",
	TokenIf:       "IF",
	TokenNew:      "NEW",
	TokenNil:      "NIL",
	TokenOr:       "OR",
	TokenReturn:   "RETURN",
	TokenSuper:    "SUPER",
	TokenThis:     "THIS",
	TokenTrue:     "TRUE",
	TokenVar:      "VAR",
	TokenWhile:    "WHILE",

	TokenPlus:   "PLUS",
	TokenMinus:  "MINUS",
	TokenMul:    "MUL",
	TokenDiv:    "DIV",
	TokenMod:    "MOD",
	TokenNot:    "NOT",
	TokenAssign: "ASSIGN",
	TokenEq:     "EQ",
	TokenNe:     "NE",
	TokenLt:     "LT",
	TokenLe:     "LE",
	TokenGt:     "GT",
	TokenGe:     "GE",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenComma:     "COMMA",
	TokenDot:       "DOT",
	TokenSemicolon: "SEMICOLON",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"and":      TokenAnd,
	"break":    TokenBreak,
	"class":    TokenClass,
	"else":     TokenElse,
	"false":    TokenFalse,
	"for":      TokenFor,
	"function": TokenFunction,
	"if":       TokenIf,
	"new":      TokenNew,
	"nil":      TokenNil,
	"or":       TokenOr,
	"return":   TokenReturn,
	"super":    TokenSuper,
	"this":     TokenThis,
	"true":     TokenTrue,
	"var":      TokenVar,
	"while":    TokenWhile,
}

// escapes maps the character after a backslash to the byte it denotes
var escapes = map[byte]byte{
	'\\': '\\',
	'"':  '"',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'0':  0,
}

// Lexer turns source text into tokens. Problems are reported to the
// diagnostics sink and scanning always continues.
type Lexer struct {
	input        string
	position     int  // offset of ch
	readPosition int  // offset after ch
	ch           byte // current byte, 0 at end of input

	sink *diagnostics.Manager
}

// New creates a new lexer instance
func New(input string, sink *diagnostics.Manager) *Lexer {
	l := &Lexer{input: input, sink: sink}
	l.readChar()
	return l
}

// Scan lexes input completely.
func Scan(input string, sink *diagnostics.Manager) []Token {
	return New(input, sink).ScanTokens()
}

// ScanTokens returns every remaining token. The result always ends with
// exactly one EOF token.
func (l *Lexer) ScanTokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = min(l.readPosition, len(l.input))
	l.readPosition++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// atEnd reports whether all input has been consumed. A NUL byte inside the
// input is not the end.
func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// match consumes the current character and, if the next one is expected,
// that one too.
func (l *Lexer) match(expected byte) bool {
	l.readChar()
	if !l.atEnd() && l.ch == expected {
		l.readChar()
		return true
	}
	return false
}

// skipWhitespace skips blanks and comments
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment skips a non-nesting /* */ comment. An unterminated
// comment runs to the end of input.
func (l *Lexer) skipBlockComment() {
	l.readChar() // '/'
	l.readChar() // '*'
	for !l.atEnd() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		if l.atEnd() {
			return Token{Type: TokenEOF, Span: position.Span{Start: len(l.input)}}
		}

		start := l.position

		switch l.ch {
		case '(':
			l.readChar()
			return l.newToken(TokenLParen, start)
		case ')':
			l.readChar()
			return l.newToken(TokenRParen, start)
		case '{':
			l.readChar()
			return l.newToken(TokenLBrace, start)
		case '}':
			l.readChar()
			return l.newToken(TokenRBrace, start)
		case ',':
			l.readChar()
			return l.newToken(TokenComma, start)
		case '.':
			l.readChar()
			return l.newToken(TokenDot, start)
		case ';':
			l.readChar()
			return l.newToken(TokenSemicolon, start)
		case '+':
			l.readChar()
			return l.newToken(TokenPlus, start)
		case '-':
			l.readChar()
			return l.newToken(TokenMinus, start)
		case '*':
			l.readChar()
			return l.newToken(TokenMul, start)
		case '/':
			l.readChar()
			return l.newToken(TokenDiv, start)
		case '%':
			l.readChar()
			return l.newToken(TokenMod, start)
		case '!':
			if l.match('=') {
				return l.newToken(TokenNe, start)
			}
			return l.newToken(TokenNot, start)
		case '=':
			if l.match('=') {
				return l.newToken(TokenEq, start)
			}
			return l.newToken(TokenAssign, start)
		case '<':
			if l.match('=') {
				return l.newToken(TokenLe, start)
			}
			return l.newToken(TokenLt, start)
		case '>':
			if l.match('=') {
				return l.newToken(TokenGe, start)
			}
			return l.newToken(TokenGt, start)
		case '"':
			if tok, ok := l.readString(start); ok {
				return tok
			}
			continue
		}

		switch {
		case isDigit(l.ch):
			return l.readNumber(start)
		case isLetter(l.ch):
			return l.readIdentifier(start)
		}

		// Skip a whole UTF-8 sequence so one stray character yields one error.
		_, width := utf8.DecodeRuneInString(l.input[start:])
		for i := 0; i < width; i++ {
			l.readChar()
		}
		l.report(position.NewSpan(start, l.position), "Unexpected character.")
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier(start int) Token {
	for !l.atEnd() && isAlphaNumeric(l.ch) {
		l.readChar()
	}
	tok := l.newToken(lookupIdent(l.input[start:l.position]), start)
	switch tok.Type {
	case TokenTrue:
		tok.Value = true
	case TokenFalse:
		tok.Value = false
	}
	return tok
}

// readNumber reads digits with an optional fractional part
func (l *Lexer) readNumber(start int) Token {
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for !l.atEnd() && isDigit(l.ch) {
			l.readChar()
		}
	}

	tok := l.newToken(TokenNumber, start)
	// Digits with at most one interior dot always parse.
	tok.Value, _ = strconv.ParseFloat(tok.Lexeme, 64)
	return tok
}

// readString reads a string literal starting at the opening quote. It
// returns false when the literal is unterminated; the rest of the input is
// consumed in that case.
func (l *Lexer) readString(start int) (Token, bool) {
	var value strings.Builder

	l.readChar() // opening quote
	for {
		if l.atEnd() {
			l.report(position.NewSpan(start, len(l.input)), "Unterminated string.")
			return Token{}, false
		}

		switch l.ch {
		case '"':
			l.readChar()
			tok := l.newToken(TokenString, start)
			tok.Value = value.String()
			return tok, true
		case '\\':
			escStart := l.position
			l.readChar()
			if l.atEnd() {
				continue
			}
			if b, ok := escapes[l.ch]; ok {
				value.WriteByte(b)
				l.readChar()
				continue
			}
			_, width := utf8.DecodeRuneInString(l.input[l.position:])
			for i := 0; i < width; i++ {
				l.readChar()
			}
			l.report(position.NewSpan(escStart, l.position), "Unrecognized escape sequence.")
		default:
			value.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) report(span position.Span, message string) {
	if l.sink != nil {
		l.sink.Report(diagnostics.Compile, span, message)
	}
}

// newToken creates a token covering input[start:l.position]
func (l *Lexer) newToken(tokenType TokenType, start int) Token {
	return Token{
		Type:   tokenType,
		Lexeme: l.input[start:l.position],
		Span:   position.NewSpan(start, l.position),
	}
}

// isLetter checks if character may start an identifier
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isAlphaNumeric checks if character may continue an identifier
func isAlphaNumeric(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

// lookupIdent checks if identifier is keyword
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}
