package ast

import (
	"github.com/funvibe/tiny/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Visitor walks every concrete node type.
type Visitor interface {
	VisitProgram(n *Program)
	VisitExpressionStatement(n *ExpressionStatement)
	VisitLetStatement(n *LetStatement)
	VisitReturnStatement(n *ReturnStatement)
	VisitWhileStatement(n *WhileStatement)
	VisitDecoratorStatement(n *DecoratorStatement)

	VisitIdentifier(n *Identifier)
	VisitNumberLiteral(n *NumberLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitBooleanLiteral(n *BooleanLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitUndefinedLiteral(n *UndefinedLiteral)
	VisitPrefixExpression(n *PrefixExpression)
	VisitInfixExpression(n *InfixExpression)
	VisitBlockExpression(n *BlockExpression)
	VisitIfExpression(n *IfExpression)
	VisitFunctionLiteral(n *FunctionLiteral)
	VisitCallExpression(n *CallExpression)
	VisitArrayLiteral(n *ArrayLiteral)
	VisitIndexExpression(n *IndexExpression)
	VisitObjectLiteral(n *ObjectLiteral)
	VisitTypeofExpression(n *TypeofExpression)
	VisitThrowExpression(n *ThrowExpression)
	VisitDeleteExpression(n *DeleteExpression)
	VisitUseExpression(n *UseExpression)
	VisitVoidExpression(n *VoidExpression)
	VisitExprExpression(n *ExprExpression)
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// ExpressionStatement is a statement that consists of a single expression.
// Terminated records whether a ';' followed it; an unterminated expression
// at the end of a braced block is that block's value.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
	Terminated bool
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

// LetStatement binds a name in the current scope.
// let name = value;
type LetStatement struct {
	Token token.Token // the 'let' token
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) Accept(v Visitor)      { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()        {}
func (ls *LetStatement) TokenLiteral() string  { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token { return ls.Token }

// ReturnStatement unwinds to the enclosing function call.
// return; / return value;
type ReturnStatement struct {
	Token       token.Token // the 'return' token
	ReturnValue Expression  // nil for a bare return
}

func (rs *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// WhileStatement loops while Condition is truthy.
// while (cond) body
type WhileStatement struct {
	Token     token.Token // the 'while' token
	Condition Expression
	Body      *BlockExpression
}

func (ws *WhileStatement) Accept(v Visitor)      { v.VisitWhileStatement(ws) }
func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

// DecoratorStatement attaches metadata to the function literal that follows it.
// @{skipCheckArguments: true}; func f(a) { ... }
type DecoratorStatement struct {
	Token     token.Token // the '@' token
	Decorator Expression
	Function  *FunctionLiteral
}

func (ds *DecoratorStatement) Accept(v Visitor)      { v.VisitDecoratorStatement(ds) }
func (ds *DecoratorStatement) statementNode()        {}
func (ds *DecoratorStatement) TokenLiteral() string  { return ds.Token.Lexeme }
func (ds *DecoratorStatement) GetToken() token.Token { return ds.Token }
