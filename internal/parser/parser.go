package parser

import (
	"strings"

	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/lexer"
	"github.com/funvibe/tiny/internal/pipeline"
	"github.com/funvibe/tiny/internal/token"
)

// MaxRecursionDepth bounds expression nesting so pathological input cannot
// exhaust the Go stack.
const MaxRecursionDepth = 1000

const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	LOGICAL     // && ||
	EQUALS      // == !=
	LESSGREATER // < > <= >= in
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x typeof x
	CALL        // f(x)
	INDEX       // a[i] a.b a <- k a ?? b
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:        ASSIGN,
	token.AND:           LOGICAL,
	token.OR:            LOGICAL,
	token.EQ:            EQUALS,
	token.NOT_EQ:        EQUALS,
	token.LT:            LESSGREATER,
	token.GT:            LESSGREATER,
	token.LTE:           LESSGREATER,
	token.GTE:           LESSGREATER,
	token.IN:            LESSGREATER,
	token.PLUS:          SUM,
	token.MINUS:         SUM,
	token.ASTERISK:      PRODUCT,
	token.SLASH:         PRODUCT,
	token.PERCENT:       PRODUCT,
	token.LPAREN:        CALL,
	token.LBRACKET:      INDEX,
	token.DOT:           INDEX,
	token.L_ARROW:       INDEX,
	token.NULL_COALESCE: INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream pipeline.TokenStream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth int
}

func New(stream pipeline.TokenStream, ctx *pipeline.PipelineContext) *Parser {
	if ctx == nil {
		ctx = &pipeline.PipelineContext{}
	}
	p := &Parser{
		stream:         stream,
		ctx:            ctx,
		prefixParseFns: make(map[token.TokenType]prefixParseFn),
		infixParseFns:  make(map[token.TokenType]infixParseFn),
	}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.UNDEFINED, p.parseUndefinedLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FUNC, p.parseFunctionLiteral)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.TYPEOF, p.parseTypeofExpression)
	p.registerPrefix(token.THROW, p.parseThrowExpression)
	p.registerPrefix(token.DELETE, p.parseDeleteExpression)
	p.registerPrefix(token.USE, p.parseUseExpression)
	p.registerPrefix(token.VOID, p.parseVoidExpression)
	p.registerPrefix(token.EXPR, p.parseExprExpression)

	for _, op := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR, token.IN, token.NULL_COALESCE,
	} {
		p.registerInfix(op, p.parseInfixExpression)
	}
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.L_ARROW, p.parseDynamicMemberExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// ParseString lexes and parses input in one go. Lexical errors are passed to
// report as they occur; syntax errors are returned.
func ParseString(input, file string, report lexer.Reporter) (*ast.Program, []*diagnostics.DiagnosticError, []*diagnostics.DiagnosticError) {
	ctx := pipeline.NewPipelineContext(input)
	ctx.FilePath = file
	ctx.OnLexicalError = report
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&ParserProcessor{}).Process(ctx)
	return ctx.AstRoot, ctx.LexicalErrors, ctx.Errors
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// Errors returns the syntax errors collected so far.
func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.ctx.Errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	// a halted lexer ends the stream early; that EOF is not a second error
	if tok.Type == token.EOF && len(p.ctx.LexicalErrors) > 0 {
		return
	}
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = p.ctx.FilePath
	p.ctx.Errors = append(p.ctx.Errors, err)
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.ErrP003, p.peekToken, "expected %s, got %s", describe(t), describeToken(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		p.addError(diagnostics.ErrP001, tok, "illegal character %q", tok.Lexeme)
		return
	}
	p.addError(diagnostics.ErrP001, tok, "unexpected %s", describeToken(tok))
}

// synchronize skips the rest of a broken statement. It stops on ';', on a
// closing brace (current or next) or at EOF so the enclosing block survives.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.SEMICOLON) &&
		!p.curTokenIs(token.RBRACE) &&
		!p.curTokenIs(token.EOF) &&
		!p.peekTokenIs(token.RBRACE) {
		p.nextToken()
	}
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT, token.NUMBER, token.STRING:
		return string(t)
	case token.EOF:
		return "end of input"
	case token.EXPR:
		return "'Expr'"
	}
	return "'" + strings.ToLower(string(t)) + "'"
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.STRING:
		return string(tok.Type) + " " + tok.Lexeme
	}
	return "'" + tok.Lexeme + "'"
}
