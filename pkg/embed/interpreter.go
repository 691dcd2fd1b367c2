// Package tiny embeds the interpreter in Go programs.
//
//	it := tiny.New(tiny.DefaultOptions())
//	it.Bind("double", func(x int) int { return x * 2 })
//	v, err := it.Eval("double(21)") // 42.0
package tiny

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/evaluator"
	"github.com/funvibe/tiny/internal/modules"
	"github.com/funvibe/tiny/internal/parser"
	"github.com/funvibe/tiny/internal/token"
)

// Options configures an Interpreter. See config.Options for the fields.
type Options = config.Options

// Stdio carries the console collaborators scripts print and read through.
type Stdio = evaluator.Stdio

// Error is a runtime error raised by a script. Eval, LoadFile and Call
// return it unwrapped, so errors.As works on their results.
type Error = evaluator.Error

// DefaultOptions returns options with every gate closed.
func DefaultOptions() Options {
	return config.Default()
}

// SourceError lists the lexical and syntax errors that stopped a script from
// running.
type SourceError struct {
	Diagnostics []*diagnostics.DiagnosticError
}

func (e *SourceError) Error() string {
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// Interpreter is a persistent session: every Eval and LoadFile runs in the
// same global environment.
type Interpreter struct {
	eval       *evaluator.Evaluator
	env        *evaluator.Environment
	loader     *modules.Loader
	marshaller *Marshaller
	preludeErr error
}

// New creates an interpreter rooted at the working directory. When
// opts.UseStdLibAutomatically is set, @std/prelude is imported first.
func New(opts Options) *Interpreter {
	e := evaluator.New(opts, evaluator.DefaultStdio())
	loader := modules.NewLoader(".", opts.StdLibRoot)
	e.Loader = loader

	it := &Interpreter{
		eval:       e,
		env:        evaluator.NewEnvironment(),
		loader:     loader,
		marshaller: NewMarshaller(),
	}
	if opts.UseStdLibAutomatically {
		if res, failed := e.LoadPrelude(it.env).(*evaluator.Error); failed {
			it.preludeErr = fmt.Errorf("load prelude: %w", res)
		}
	}
	return it
}

// SetStdio replaces the console collaborators.
func (it *Interpreter) SetStdio(stdio Stdio) {
	it.eval.Stdio = stdio
}

// SetRoot sets the directory plain import paths resolve against.
func (it *Interpreter) SetRoot(dir string) {
	it.eval.Root = dir
	it.loader.Root = dir
}

// SetLogger routes the interpreter's debug logging.
func (it *Interpreter) SetLogger(logger *slog.Logger) {
	it.eval.Logger = logger
	it.loader.Logger = logger
}

// Eval runs code in the session and returns its value converted to Go.
func (it *Interpreter) Eval(code string) (interface{}, error) {
	obj, err := it.run(code, "<eval>")
	if err != nil {
		return nil, err
	}
	return it.marshaller.FromValue(obj, nil)
}

// LoadFile runs a script file in the session. Relative imports in the file
// resolve against its directory.
func (it *Interpreter) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	_, err = it.run(string(content), filepath.Clean(path))
	return err
}

func (it *Interpreter) run(code, file string) (evaluator.Object, error) {
	if it.preludeErr != nil {
		return nil, it.preludeErr
	}
	program, lexErrs, parseErrs := parser.ParseString(code, file, nil)
	if len(lexErrs) > 0 || len(parseErrs) > 0 {
		return nil, &SourceError{Diagnostics: append(lexErrs, parseErrs...)}
	}

	it.eval.SetFile(file)
	result := it.eval.Eval(program, it.env)
	if scriptErr, ok := result.(*evaluator.Error); ok {
		return nil, scriptErr
	}
	return result, nil
}

// Set defines a global variable holding the converted Go value.
func (it *Interpreter) Set(name string, val interface{}) error {
	obj, err := it.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	it.env.Set(name, obj)
	return nil
}

// Get returns a global variable converted to Go.
func (it *Interpreter) Get(name string) (interface{}, error) {
	obj, ok := it.env.Get(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return it.marshaller.FromValue(obj, nil)
}

// GetAs converts a global variable into target, which must be a non-nil
// pointer.
func (it *Interpreter) GetAs(name string, target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("get %s: target must be a non-nil pointer, got %T", name, target)
	}
	obj, ok := it.env.Get(name)
	if !ok {
		return fmt.Errorf("variable '%s' not found", name)
	}
	val, err := it.marshaller.fromValue(obj, rv.Type().Elem(), 0)
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	rv.Elem().Set(val)
	return nil
}

// Bind registers a Go function under name. Arguments are converted to the
// function's parameter types; a non-nil trailing error is raised in the
// script as a thrown error. Values that are not functions are Set.
func (it *Interpreter) Bind(name string, fn interface{}) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return it.Set(name, fn)
	}
	if rv.IsNil() {
		return fmt.Errorf("bind %s: nil function", name)
	}
	it.env.Set(name, it.marshaller.wrapFunc(name, rv))
	return nil
}

// Call calls a script function (or a bound or builtin one) by name.
func (it *Interpreter) Call(funcName string, args ...interface{}) (interface{}, error) {
	fnObj, ok := it.env.Get(funcName)
	if !ok {
		builtin, found := evaluator.LookupBuiltin(funcName)
		if !found {
			return nil, fmt.Errorf("function '%s' not found", funcName)
		}
		fnObj = builtin
	}

	scriptArgs := make([]evaluator.Object, len(args))
	for i, arg := range args {
		obj, err := it.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("call %s: argument %d: %w", funcName, i+1, err)
		}
		scriptArgs[i] = obj
	}

	result := it.eval.ApplyFunction(fnObj, scriptArgs, nil, it.env, token.Position{})
	if scriptErr, ok := result.(*evaluator.Error); ok {
		return nil, scriptErr
	}
	return it.marshaller.FromValue(result, nil)
}
