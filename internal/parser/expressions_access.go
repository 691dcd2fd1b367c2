package parser

import (
	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/token"
)

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left, Kind: ast.IndexBracket}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if exp.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

// parseMemberExpression handles `a.name`. Keywords are accepted as member
// names so objects can carry keys such as `delete` or `in`.
func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left, Kind: ast.IndexMember}

	if !p.peekTokenIs(token.IDENT) && !token.IsKeyword(p.peekToken.Lexeme) {
		p.addError(diagnostics.ErrP005, p.peekToken, "expected member name after '.', got %s", describeToken(p.peekToken))
		return nil
	}
	p.nextToken()
	exp.Index = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}
	return exp
}

// parseDynamicMemberExpression handles `a <- key`; the key is evaluated.
func (p *Parser) parseDynamicMemberExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left, Kind: ast.IndexDynamic}

	p.nextToken()
	exp.Index = p.parseExpression(INDEX)
	if exp.Index == nil {
		return nil
	}
	return exp
}
