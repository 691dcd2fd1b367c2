package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/token"
)

type Function struct {
	Name       string // empty for anonymous functions
	Parameters []*ast.Identifier
	Body       *ast.BlockExpression
	Env        *Environment // captured at creation
	Decorator  *Decorator   // nil when undecorated
	File       string       // file the literal was evaluated in
	Line       int
	Column     int
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) object()          {}
func (f *Function) Inspect() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Value
	}
	name := ""
	if f.Name != "" {
		name = " " + f.Name
	}
	return fmt.Sprintf("func%s(%s) { ... }", name, strings.Join(params, ", "))
}

// displayName is used in error messages.
func (f *Function) displayName() string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

// Decorator is the call-time configuration attached by `@{...}; func ...`.
// It never changes after the function is created.
type Decorator struct {
	SkipCheckArguments bool
	NoCapture          bool
	Meta               *Map
}

// NewDecorator reads the well-known keys of a decorator map.
func NewDecorator(meta *Map) *Decorator {
	d := &Decorator{Meta: meta}
	if v, ok := meta.GetString(config.SkipCheckArgumentsKey); ok {
		d.SkipCheckArguments = isTruthy(v)
	}
	if v, ok := meta.GetString(config.NoCaptureKey); ok {
		d.NoCapture = isTruthy(v)
	}
	return d
}

// BuiltinFunction receives the calling environment and the call position so
// it can re-enter the evaluator and report errors where the call happened.
type BuiltinFunction func(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) object()          {}
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }
