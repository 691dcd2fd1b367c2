package ast

import (
	"github.com/funvibe/tiny/internal/token"
)

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) Accept(v Visitor)      { v.VisitNumberLiteral(nl) }
func (nl *NumberLiteral) expressionNode()       {}
func (nl *NumberLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NumberLiteral) GetToken() token.Token { return nl.Token }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(bl) }
func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) Accept(v Visitor)      { v.VisitNullLiteral(nl) }
func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }

type UndefinedLiteral struct {
	Token token.Token
}

func (ul *UndefinedLiteral) Accept(v Visitor)      { v.VisitUndefinedLiteral(ul) }
func (ul *UndefinedLiteral) expressionNode()       {}
func (ul *UndefinedLiteral) TokenLiteral() string  { return ul.Token.Lexeme }
func (ul *UndefinedLiteral) GetToken() token.Token { return ul.Token }

// PrefixExpression is !x or -x.
type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)      { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// InfixExpression covers binary operators, `in`, `??` and assignment.
type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)      { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// BlockExpression is a body. ReturnFinal is set for shorthand bodies and for
// braced blocks ending in an unterminated expression; the block then
// evaluates to that expression instead of undefined.
type BlockExpression struct {
	Token       token.Token // { or the first token of a shorthand body
	Statements  []Statement
	ReturnFinal bool
	Braced      bool
}

func (be *BlockExpression) Accept(v Visitor)      { v.VisitBlockExpression(be) }
func (be *BlockExpression) expressionNode()       {}
func (be *BlockExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BlockExpression) GetToken() token.Token { return be.Token }

// IfExpression: if (cond) consequence [else alternative]
type IfExpression struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence *BlockExpression
	Alternative *BlockExpression // nil without else
}

func (ie *IfExpression) Accept(v Visitor)      { v.VisitIfExpression(ie) }
func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }

// FunctionLiteral: func [name](a, b) body
type FunctionLiteral struct {
	Token      token.Token // The 'func' token
	Name       *Identifier // nil for anonymous functions
	Parameters []*Identifier
	Body       *BlockExpression
}

func (fl *FunctionLiteral) Accept(v Visitor)      { v.VisitFunctionLiteral(fl) }
func (fl *FunctionLiteral) expressionNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FunctionLiteral) GetToken() token.Token { return fl.Token }

type CallExpression struct {
	Token     token.Token // The '(' token
	Function  Expression  // Identifier, FunctionLiteral, IndexExpression (method call) ...
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (al *ArrayLiteral) Accept(v Visitor)      { v.VisitArrayLiteral(al) }
func (al *ArrayLiteral) expressionNode()       {}
func (al *ArrayLiteral) TokenLiteral() string  { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token { return al.Token }

// IndexKind tells the three element-access spellings apart.
type IndexKind int

const (
	IndexBracket IndexKind = iota // a[k]
	IndexMember                   // a.k   (k is an identifier used as a string key)
	IndexDynamic                  // a <- k (k is evaluated)
)

// IndexExpression represents element or member access.
type IndexExpression struct {
	Token token.Token // The '[', '.' or '<-' token
	Left  Expression
	Index Expression
	Kind  IndexKind
}

func (ie *IndexExpression) Accept(v Visitor)      { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// ObjectPair is one key: value entry. Bare identifier keys are stored as
// StringLiteral.
type ObjectPair struct {
	Key   Expression
	Value Expression
}

type ObjectLiteral struct {
	Token token.Token // the '{' token
	Pairs []ObjectPair
}

func (ol *ObjectLiteral) Accept(v Visitor)      { v.VisitObjectLiteral(ol) }
func (ol *ObjectLiteral) expressionNode()       {}
func (ol *ObjectLiteral) TokenLiteral() string  { return ol.Token.Lexeme }
func (ol *ObjectLiteral) GetToken() token.Token { return ol.Token }

type TypeofExpression struct {
	Token   token.Token // 'typeof'
	Operand Expression
}

func (te *TypeofExpression) Accept(v Visitor)      { v.VisitTypeofExpression(te) }
func (te *TypeofExpression) expressionNode()       {}
func (te *TypeofExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TypeofExpression) GetToken() token.Token { return te.Token }

type ThrowExpression struct {
	Token   token.Token // 'throw'
	Operand Expression
}

func (te *ThrowExpression) Accept(v Visitor)      { v.VisitThrowExpression(te) }
func (te *ThrowExpression) expressionNode()       {}
func (te *ThrowExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *ThrowExpression) GetToken() token.Token { return te.Token }

type DeleteExpression struct {
	Token   token.Token // 'delete'
	Operand Expression
}

func (de *DeleteExpression) Accept(v Visitor)      { v.VisitDeleteExpression(de) }
func (de *DeleteExpression) expressionNode()       {}
func (de *DeleteExpression) TokenLiteral() string  { return de.Token.Lexeme }
func (de *DeleteExpression) GetToken() token.Token { return de.Token }

// UseExpression imports a file into the current environment.
type UseExpression struct {
	Token token.Token // 'use'
	Path  Expression
}

func (ue *UseExpression) Accept(v Visitor)      { v.VisitUseExpression(ue) }
func (ue *UseExpression) expressionNode()       {}
func (ue *UseExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UseExpression) GetToken() token.Token { return ue.Token }

type VoidExpression struct {
	Token   token.Token // 'void'
	Operand Expression
}

func (ve *VoidExpression) Accept(v Visitor)      { v.VisitVoidExpression(ve) }
func (ve *VoidExpression) expressionNode()       {}
func (ve *VoidExpression) TokenLiteral() string  { return ve.Token.Lexeme }
func (ve *VoidExpression) GetToken() token.Token { return ve.Token }

// ExprExpression captures an error raised by its operand as a value.
// Expr(risky())
type ExprExpression struct {
	Token   token.Token // 'Expr'
	Operand Expression
}

func (ee *ExprExpression) Accept(v Visitor)      { v.VisitExprExpression(ee) }
func (ee *ExprExpression) expressionNode()       {}
func (ee *ExprExpression) TokenLiteral() string  { return ee.Token.Lexeme }
func (ee *ExprExpression) GetToken() token.Token { return ee.Token }
