package evaluator

import (
	"fmt"
	"math"

	"github.com/funvibe/tiny/internal/token"
)

func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func newErrorAt(pos token.Position, kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
		Line:    pos.Line,
		Column:  pos.Column,
	}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

// isAbrupt reports values that must stop the enclosing construct: errors and
// pending returns.
func isAbrupt(obj Object) bool {
	if obj == nil {
		return false
	}
	t := obj.Type()
	return t == ERROR_OBJ || t == RETURN_VALUE_OBJ
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

func isTruthy(obj Object) bool {
	switch o := obj.(type) {
	case *Boolean:
		return o.Value
	case *Number:
		return o.Value != 0
	case *Null, *Undefined:
		return false
	case nil:
		return false
	}
	return true
}

func isNullish(obj Object) bool {
	switch obj.(type) {
	case *Null, *Undefined, nil:
		return true
	}
	return false
}

// toIndex converts an integral Number to an int index.
func toIndex(obj Object) (int, bool) {
	n, ok := obj.(*Number)
	if !ok || !n.IsInt() || math.Abs(n.Value) > math.MaxInt32 {
		return 0, false
	}
	return int(n.Value), true
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// checkArgCount validates the argument count of a builtin. max < 0 means
// variadic.
func checkArgCount(name string, pos token.Position, args []Object, min, max int) *Error {
	if len(args) >= min && (max < 0 || len(args) <= max) {
		return nil
	}
	switch {
	case min == max:
		return newErrorAt(pos, KindInvalidArgument, "%s expects %s, got %d", name, plural(min, "argument"), len(args))
	case max < 0:
		return newErrorAt(pos, KindInvalidArgument, "%s expects at least %s, got %d", name, plural(min, "argument"), len(args))
	}
	return newErrorAt(pos, KindInvalidArgument, "%s expects %d to %d arguments, got %d", name, min, max, len(args))
}

func stringArg(name string, pos token.Position, args []Object, i int) (string, *Error) {
	s, ok := args[i].(*String)
	if !ok {
		return "", newErrorAt(pos, KindInvalidArgument, "%s: argument %d must be a string, got %s", name, i+1, args[i].Type())
	}
	return s.Value, nil
}

func numberArg(name string, pos token.Position, args []Object, i int) (float64, *Error) {
	n, ok := args[i].(*Number)
	if !ok {
		return 0, newErrorAt(pos, KindInvalidArgument, "%s: argument %d must be a number, got %s", name, i+1, args[i].Type())
	}
	return n.Value, nil
}

func arrayArg(name string, pos token.Position, args []Object, i int) (*Array, *Error) {
	a, ok := args[i].(*Array)
	if !ok {
		return nil, newErrorAt(pos, KindInvalidArgument, "%s: argument %d must be an array, got %s", name, i+1, args[i].Type())
	}
	return a, nil
}

func mapArg(name string, pos token.Position, args []Object, i int) (*Map, *Error) {
	m, ok := args[i].(*Map)
	if !ok {
		return nil, newErrorAt(pos, KindInvalidArgument, "%s: argument %d must be an object, got %s", name, i+1, args[i].Type())
	}
	return m, nil
}

func isCallable(obj Object) bool {
	switch obj.(type) {
	case *Function, *Builtin:
		return true
	}
	return false
}

// toDisplayString renders a value the way print and string concatenation
// in builtins show it: strings raw, everything else inspected.
func toDisplayString(obj Object) string {
	if s, ok := obj.(*String); ok {
		return s.Value
	}
	return obj.Inspect()
}
