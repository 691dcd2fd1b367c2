package parser

import (
	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/token"
)

// ParseProgram parses statements until EOF. Broken statements are dropped
// after their error is recorded and parsing resumes at the next boundary.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else if !p.curTokenIs(token.SEMICOLON) {
			p.synchronize()
		}
		p.nextToken()
	}
	return program
}

// parseStatement leaves curToken on the last token of the statement.
// A nil result means "nothing to add": an empty statement or an error.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.SEMICOLON:
		return nil
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.AT:
		return p.parseDecoratorStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	if !p.peekTokenIs(token.SEMICOLON) {
		p.addError(diagnostics.ErrP002, p.peekToken, "expected ';' after let statement, got %s", describeToken(p.peekToken))
		return stmt
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	switch p.peekToken.Type {
	case token.SEMICOLON:
		p.nextToken()
		return stmt
	case token.RBRACE, token.EOF:
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()

	stmt.Body = p.parseBody()
	if stmt.Body == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseDecoratorStatement handles `@expr [;] func ...`.
func (p *Parser) parseDecoratorStatement() ast.Statement {
	stmt := &ast.DecoratorStatement{Token: p.curToken}
	p.nextToken()

	stmt.Decorator = p.parseExpression(LOWEST)
	if stmt.Decorator == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	if !p.peekTokenIs(token.FUNC) {
		p.addError(diagnostics.ErrP004, p.peekToken, "decorator must be followed by a function literal, got %s", describeToken(p.peekToken))
		return nil
	}
	p.nextToken()

	target := p.parseExpression(LOWEST)
	if target == nil {
		return nil
	}
	fn, ok := target.(*ast.FunctionLiteral)
	if !ok {
		p.addError(diagnostics.ErrP004, target.GetToken(), "decorator must be followed by a function literal")
		return nil
	}
	stmt.Function = fn
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Terminated = true
		return stmt
	}

	switch stmt.Expression.(type) {
	case *ast.IfExpression, *ast.FunctionLiteral:
		return stmt
	}
	// tail of a block or of the program
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}

	p.addError(diagnostics.ErrP002, p.peekToken, "expected ';' after expression, got %s", describeToken(p.peekToken))
	return stmt
}

// parseBlockExpression parses `{ statements }` with curToken on '{' and
// leaves curToken on '}'.
func (p *Parser) parseBlockExpression() *ast.BlockExpression {
	block := &ast.BlockExpression{Token: p.curToken, Braced: true}
	block.Statements = []ast.Statement{}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else if !p.curTokenIs(token.SEMICOLON) {
			p.synchronize()
			if p.curTokenIs(token.RBRACE) {
				continue
			}
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.addError(diagnostics.ErrP003, p.curToken, "expected '}' to close block opened at %s", block.Token.Position())
		return nil
	}

	if n := len(block.Statements); n > 0 {
		if es, ok := block.Statements[n-1].(*ast.ExpressionStatement); ok && !es.Terminated {
			block.ReturnFinal = true
		}
	}
	return block
}

// parseBody parses the body of if/else, while and func: a braced block or a
// single shorthand expression whose value is the body's value.
func (p *Parser) parseBody() *ast.BlockExpression {
	if p.curTokenIs(token.LBRACE) {
		return p.parseBlockExpression()
	}

	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.BlockExpression{
		Token:       tok,
		Statements:  []ast.Statement{&ast.ExpressionStatement{Token: tok, Expression: expr}},
		ReturnFinal: true,
	}
}
