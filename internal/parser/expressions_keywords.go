package parser

import (
	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/token"
)

func (p *Parser) parseOperand(precedence int) (token.Token, ast.Expression) {
	tok := p.curToken
	p.nextToken()
	return tok, p.parseExpression(precedence)
}

func (p *Parser) parseTypeofExpression() ast.Expression {
	tok, operand := p.parseOperand(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.TypeofExpression{Token: tok, Operand: operand}
}

func (p *Parser) parseDeleteExpression() ast.Expression {
	tok, operand := p.parseOperand(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.DeleteExpression{Token: tok, Operand: operand}
}

func (p *Parser) parseVoidExpression() ast.Expression {
	tok, operand := p.parseOperand(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.VoidExpression{Token: tok, Operand: operand}
}

// throw and use take a whole expression: throw "bad " + x
func (p *Parser) parseThrowExpression() ast.Expression {
	tok, operand := p.parseOperand(LOWEST)
	if operand == nil {
		return nil
	}
	return &ast.ThrowExpression{Token: tok, Operand: operand}
}

func (p *Parser) parseUseExpression() ast.Expression {
	tok, path := p.parseOperand(LOWEST)
	if path == nil {
		return nil
	}
	return &ast.UseExpression{Token: tok, Path: path}
}

// parseExprExpression: Expr(x)
func (p *Parser) parseExprExpression() ast.Expression {
	exp := &ast.ExprExpression{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	exp.Operand = p.parseExpression(LOWEST)
	if exp.Operand == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}
