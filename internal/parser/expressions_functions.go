package parser

import (
	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/token"
)

// parseFunctionLiteral: func [name](a, b) body
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken}

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		lit.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params
	p.nextToken()

	lit.Body = p.parseBody()
	if lit.Body == nil {
		return nil
	}
	return lit
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers, true
	}

	seen := make(map[string]bool)
	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		if seen[ident.Value] {
			p.addError(diagnostics.ErrP001, p.curToken, "duplicate parameter %q", ident.Value)
			return nil, false
		}
		seen[ident.Value] = true
		identifiers = append(identifiers, ident)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return identifiers, true
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	if exp.Arguments == nil {
		return nil
	}
	return exp
}
