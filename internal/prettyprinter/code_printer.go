package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter), mirrors the parser.
var operatorPrecedence = map[string]int{
	"=":  1,
	"&&": 2,
	"||": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"in": 4,
	"+":  5,
	"-":  5,
	"*":  6,
	"/":  6,
	"%":  6,
	"??": 9,
}

const (
	prefixPrecedence  = 7
	postfixPrecedence = 9
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

// Right-associative operators
var rightAssoc = map[string]bool{
	"=": true,
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
	// Explicit wraps every operator application in parentheses, making the
	// parsed grouping visible.
	Explicit bool
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// NewExplicitPrinter returns a printer in Explicit mode.
func NewExplicitPrinter() *CodePrinter {
	return &CodePrinter{Explicit: true}
}

// Format renders a node as source text.
func Format(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

// Explain renders a node with explicit grouping.
func Explain(node ast.Node) string {
	p := NewExplicitPrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) accept(n ast.Node) {
	if n == nil {
		p.write("<???>")
		return
	}
	n.Accept(p)
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		needParens := p.Explicit || prec < parentPrec
		// For same precedence, check associativity
		if prec == parentPrec {
			if isRight && !rightAssoc[e.Operator] {
				needParens = true
			} else if !isRight && rightAssoc[e.Operator] {
				needParens = true
			}
		}
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.PrefixExpression:
		needParens := p.Explicit || prefixPrecedence < parentPrec
		if needParens {
			p.write("(")
		}
		p.write(e.Operator)
		p.printExpr(e.Right, prefixPrecedence, false)
		if needParens {
			p.write(")")
		}
	case *ast.IfExpression, *ast.FunctionLiteral:
		// a shorthand body would swallow whatever follows it
		if parentPrec > 0 {
			p.write("(")
			expr.Accept(p)
			p.write(")")
			return
		}
		expr.Accept(p)
	case *ast.TypeofExpression, *ast.DeleteExpression, *ast.VoidExpression, *ast.ThrowExpression, *ast.UseExpression:
		if p.Explicit || prefixPrecedence < parentPrec {
			p.write("(")
			expr.Accept(p)
			p.write(")")
			return
		}
		expr.Accept(p)
	default:
		expr.Accept(p)
	}
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		p.accept(stmt)
		p.write("\n")
	}
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, 0, false)
	if n.Terminated {
		p.write(";")
	}
}

func (p *CodePrinter) VisitLetStatement(n *ast.LetStatement) {
	p.write("let ")
	p.accept(n.Name)
	p.write(" = ")
	p.printExpr(n.Value, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.write("return")
	if n.ReturnValue != nil {
		p.write(" ")
		p.printExpr(n.ReturnValue, 0, false)
	}
	p.write(";")
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while (")
	p.printExpr(n.Condition, 0, false)
	p.write(") ")
	p.accept(n.Body)
	if n.Body != nil && !n.Body.Braced {
		p.write(";")
	}
}

func (p *CodePrinter) VisitDecoratorStatement(n *ast.DecoratorStatement) {
	p.write("@")
	p.printExpr(n.Decorator, 0, false)
	p.write("\n")
	p.writeIndent()
	p.accept(n.Function)
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitNumberLiteral(n *ast.NumberLiteral) {
	p.write(strconv.FormatFloat(n.Value, 'f', -1, 64))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(QuoteString(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitNullLiteral(n *ast.NullLiteral) { p.write("null") }

func (p *CodePrinter) VisitUndefinedLiteral(n *ast.UndefinedLiteral) { p.write("undefined") }

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitBlockExpression(n *ast.BlockExpression) {
	if !n.Braced {
		if len(n.Statements) == 1 {
			if es, ok := n.Statements[0].(*ast.ExpressionStatement); ok {
				p.printExpr(es.Expression, 0, false)
				return
			}
		}
	}
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	for _, stmt := range n.Statements {
		p.writeIndent()
		p.accept(stmt)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitIfExpression(n *ast.IfExpression) {
	p.write("if (")
	p.printExpr(n.Condition, 0, false)
	p.write(") ")
	p.accept(n.Consequence)
	if n.Alternative != nil {
		p.write(" else ")
		p.accept(n.Alternative)
	}
}

func (p *CodePrinter) VisitFunctionLiteral(n *ast.FunctionLiteral) {
	p.write("func")
	if n.Name != nil {
		p.write(" " + n.Name.Value)
	}
	p.write("(")
	for i, param := range n.Parameters {
		if i > 0 {
			p.write(", ")
		}
		p.accept(param)
	}
	p.write(") ")
	p.accept(n.Body)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Function, postfixPrecedence, false)
	p.write("(")
	p.printList(n.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitArrayLiteral(n *ast.ArrayLiteral) {
	p.write("[")
	p.printList(n.Elements)
	p.write("]")
}

func (p *CodePrinter) printList(items []ast.Expression) {
	for i, item := range items {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(item, 0, false)
	}
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printExpr(n.Left, postfixPrecedence, false)
	switch n.Kind {
	case ast.IndexMember:
		p.write(".")
		if s, ok := n.Index.(*ast.StringLiteral); ok {
			p.write(s.Value)
		} else {
			p.accept(n.Index)
		}
	case ast.IndexDynamic:
		p.write(" <- ")
		p.printExpr(n.Index, postfixPrecedence+1, true)
	default:
		p.write("[")
		p.printExpr(n.Index, 0, false)
		p.write("]")
	}
}

func (p *CodePrinter) VisitObjectLiteral(n *ast.ObjectLiteral) {
	if len(n.Pairs) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	for i, pair := range n.Pairs {
		if i > 0 {
			p.write(", ")
		}
		if s, ok := pair.Key.(*ast.StringLiteral); ok && isBareKey(s.Value) {
			p.write(s.Value)
		} else {
			p.printExpr(pair.Key, 0, false)
		}
		p.write(": ")
		p.printExpr(pair.Value, 0, false)
	}
	p.write("}")
}

func (p *CodePrinter) keywordOperand(keyword string, operand ast.Expression, prec int) {
	p.write(keyword + " ")
	p.printExpr(operand, prec, false)
}

func (p *CodePrinter) VisitTypeofExpression(n *ast.TypeofExpression) {
	p.keywordOperand("typeof", n.Operand, prefixPrecedence)
}

func (p *CodePrinter) VisitThrowExpression(n *ast.ThrowExpression) {
	p.keywordOperand("throw", n.Operand, 0)
}

func (p *CodePrinter) VisitDeleteExpression(n *ast.DeleteExpression) {
	p.keywordOperand("delete", n.Operand, prefixPrecedence)
}

func (p *CodePrinter) VisitUseExpression(n *ast.UseExpression) {
	p.keywordOperand("use", n.Path, 0)
}

func (p *CodePrinter) VisitVoidExpression(n *ast.VoidExpression) {
	p.keywordOperand("void", n.Operand, prefixPrecedence)
}

func (p *CodePrinter) VisitExprExpression(n *ast.ExprExpression) {
	p.write("Expr(")
	p.printExpr(n.Operand, 0, false)
	p.write(")")
}

func isBareKey(s string) bool {
	if s == "" || token.IsKeyword(s) {
		return false
	}
	for i, r := range s {
		letter := r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// QuoteString renders s as a double-quoted literal using only the escapes
// the lexer understands.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
