package evaluator

import (
	"fmt"
)

// ReturnValue unwinds a `return` to the nearest call boundary.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
func (rv *ReturnValue) object()          {}

type ErrorKind string

const (
	KindTypeMismatch       ErrorKind = "type_mismatch"
	KindUnknownOperator    ErrorKind = "unknown_operator"
	KindIdentifierNotFound ErrorKind = "identifier_not_found"
	KindArityMismatch      ErrorKind = "arity_mismatch"
	KindIndexOutOfRange    ErrorKind = "index_out_of_range"
	KindInvalidArgument    ErrorKind = "invalid_argument"
	KindNotCallable        ErrorKind = "not_callable"
	KindPermissionDenied   ErrorKind = "permission_denied"
	KindImportFailed       ErrorKind = "import_failed"
	KindRedeclaration      ErrorKind = "redeclaration"
	KindThrown             ErrorKind = "thrown"
	KindRecursionLimit     ErrorKind = "recursion_limit"
	KindUnsupported        ErrorKind = "unsupported"
)

// Error is a runtime error value. It short-circuits evaluation until it
// reaches the caller or an Expr(...) wrapper.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
	File    string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) object()          {}
func (e *Error) Inspect() string {
	loc := ""
	if e.Line > 0 {
		loc = fmt.Sprintf("%d:%d: ", e.Line, e.Column)
		if e.File != "" {
			loc = e.File + ":" + loc
		}
	}
	return fmt.Sprintf("%s%s: %s", loc, e.Kind, e.Message)
}

// Error lets runtime errors travel through Go error returns (embedding API).
func (e *Error) Error() string { return e.Inspect() }

// ErrorWire is the transport shape of a runtime error.
type ErrorWire struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (e *Error) Wire() ErrorWire {
	return ErrorWire{Message: e.Message, Line: e.Line, Column: e.Column}
}

// Reify turns the error into the map produced by Expr(...).
func (e *Error) Reify() *Map {
	m := NewMap()
	m.SetString("message", &String{Value: e.Message})
	m.SetString("line", &Number{Value: float64(e.Line)})
	m.SetString("column", &Number{Value: float64(e.Column)})
	m.SetString("filename", &String{Value: e.File})
	m.SetString("kind", &String{Value: string(e.Kind)})
	m.SetString("error", TRUE)
	return m
}
