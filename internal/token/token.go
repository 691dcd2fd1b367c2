package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"

	EQ            TokenType = "=="
	NOT_EQ        TokenType = "!="
	LT            TokenType = "<"
	GT            TokenType = ">"
	LTE           TokenType = "<="
	GTE           TokenType = ">="
	AND           TokenType = "&&"
	OR            TokenType = "||"
	NULL_COALESCE TokenType = "??"
	L_ARROW       TokenType = "<-"
	DOT           TokenType = "."

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	AT        TokenType = "@"

	// Keywords
	LET       TokenType = "LET"
	FUNC      TokenType = "FUNC"
	IF        TokenType = "IF"
	ELSE      TokenType = "ELSE"
	RETURN    TokenType = "RETURN"
	WHILE     TokenType = "WHILE"
	TYPEOF    TokenType = "TYPEOF"
	DELETE    TokenType = "DELETE"
	USE       TokenType = "USE"
	THROW     TokenType = "THROW"
	IN        TokenType = "IN"
	VOID      TokenType = "VOID"
	EXPR      TokenType = "EXPR"
	TRUE      TokenType = "TRUE"
	FALSE     TokenType = "FALSE"
	NULL      TokenType = "NULL"
	UNDEFINED TokenType = "UNDEFINED"
)

var keywords = map[string]TokenType{
	"let":       LET,
	"func":      FUNC,
	"if":        IF,
	"else":      ELSE,
	"return":    RETURN,
	"while":     WHILE,
	"typeof":    TYPEOF,
	"delete":    DELETE,
	"use":       USE,
	"throw":     THROW,
	"in":        IN,
	"void":      VOID,
	"Expr":      EXPR,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"undefined": UNDEFINED,
}

// LookupIdent classifies an identifier lexeme as a keyword or a plain IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the word is reserved.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// Token is a single lexical unit. Literal holds the decoded value:
// float64 for NUMBER, the unescaped text for STRING, the lexeme otherwise.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

func (t Token) Position() Position {
	return Position{Line: t.Line, Column: t.Column}
}

func (t Token) String() string {
	switch t.Type {
	case IDENT, NUMBER, STRING, ILLEGAL:
		return fmt.Sprintf("%s(%s)", t.Type, t.Lexeme)
	}
	return string(t.Type)
}

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
