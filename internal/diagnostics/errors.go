package diagnostics

import (
	"fmt"

	"github.com/funvibe/tiny/internal/token"
)

type ErrorCode string

// Lexical errors
const (
	ErrL001 ErrorCode = "L001" // invalid identifier
	ErrL002 ErrorCode = "L002" // malformed number
	ErrL003 ErrorCode = "L003" // unterminated string
)

// Syntax errors
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // missing semicolon
	ErrP003 ErrorCode = "P003" // expected token
	ErrP004 ErrorCode = "P004" // decorator without function literal
	ErrP005 ErrorCode = "P005" // invalid member access
	ErrP006 ErrorCode = "P006" // nesting too deep
)

// Pipeline errors
const (
	ErrI001 ErrorCode = "I001" // internal / io failure outside the language
)

// DiagnosticError is a compile-time error (lexical or syntax) anchored to a token.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func (e *DiagnosticError) Line() int   { return e.Token.Line }
func (e *DiagnosticError) Column() int { return e.Token.Column }

func (e *DiagnosticError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	return fmt.Sprintf("%s: [%s] %s", loc, e.Code, e.Message)
}
