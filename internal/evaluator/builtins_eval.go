package evaluator

import (
	"strings"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/parser"
	"github.com/funvibe/tiny/internal/token"
)

// evalSourceName labels code evaluated through eval().
const evalSourceName = "<eval>"

// EvalBuiltins returns the builtins that run other code.
func EvalBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		config.EvalFuncName:   {Name: config.EvalFuncName, Fn: builtinEval},
		config.JSFuncName:     {Name: config.JSFuncName, Fn: builtinJS},
		config.ImportFuncName: {Name: config.ImportFuncName, Fn: builtinImport},
	}
}

// builtinEval runs source text in the caller's environment and returns its
// value.
func builtinEval(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if !e.Options.AllowEval {
		e.logger().Debug("builtin disabled", "name", config.EvalFuncName, "option", "allowEval")
		return newErrorAt(pos, KindPermissionDenied, "eval is disabled (set allowEval to enable it)")
	}
	if err := checkArgCount(config.EvalFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	src, err := stringArg(config.EvalFuncName, pos, args, 0)
	if err != nil {
		return err
	}

	program, lexErrs, parseErrs := parser.ParseString(src, evalSourceName, nil)
	if len(lexErrs) > 0 || len(parseErrs) > 0 {
		var lines []string
		for _, diag := range lexErrs {
			lines = append(lines, diag.Error())
		}
		for _, diag := range parseErrs {
			lines = append(lines, diag.Error())
		}
		return newErrorAt(pos, KindInvalidArgument, "eval: %s", strings.Join(lines, "; "))
	}

	savedFile := e.File
	e.File = evalSourceName
	defer func() { e.File = savedFile }()
	return e.Eval(program, env)
}

// builtinJS exists for scripts written against hosts that embed a JavaScript
// engine. This one has none.
func builtinJS(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if !e.Options.AllowJavaScript {
		e.logger().Debug("builtin disabled", "name", config.JSFuncName, "option", "allowJavaScript")
		return newErrorAt(pos, KindPermissionDenied, "js is disabled (set allowJavaScript to enable it)")
	}
	if err := checkArgCount(config.JSFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	return newErrorAt(pos, KindUnsupported, "js: no JavaScript engine is available in this host")
}

func builtinImport(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.ImportFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	return e.ImportFile(args[0], env)
}
