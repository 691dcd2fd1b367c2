package evaluator

import (
	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/token"
)

// ApplyFunction calls a Function or Builtin. this is nil for plain calls.
// env is the caller's environment: builtins receive it and NoCapture
// functions close over it.
func (e *Evaluator) ApplyFunction(fn Object, args []Object, this Object, env *Environment, pos token.Position) Object {
	switch fn := fn.(type) {
	case *Function:
		return e.applyUserFunction(fn, args, this, env, pos)

	case *Builtin:
		result := fn.Fn(e, env, pos, args...)
		if result == nil {
			return NULL
		}
		if err, ok := result.(*Error); ok && err.Line == 0 {
			err.Line, err.Column = pos.Line, pos.Column
		}
		return result
	}

	if fn == nil {
		return newErrorAt(pos, KindNotCallable, "not a function: %s", UNDEFINED_OBJ)
	}
	return newErrorAt(pos, KindNotCallable, "not a function: %s", fn.Type())
}

func (e *Evaluator) applyUserFunction(fn *Function, args []Object, this Object, callerEnv *Environment, pos token.Position) Object {
	decorator := fn.Decorator
	if decorator == nil || !decorator.SkipCheckArguments {
		if len(args) != len(fn.Parameters) {
			return newErrorAt(pos, KindArityMismatch, "function %s expects %s, got %d",
				fn.displayName(), plural(len(fn.Parameters), "argument"), len(args))
		}
	}

	outer := fn.Env
	if decorator != nil && decorator.NoCapture {
		outer = callerEnv
	}
	callEnv := NewEnclosedEnvironment(outer)

	for i, param := range fn.Parameters {
		if i < len(args) {
			callEnv.Set(param.Value, args[i])
		} else {
			callEnv.Set(param.Value, UNDEFINED)
		}
	}
	callEnv.Set(config.ArgumentsName, &Array{Elements: append([]Object(nil), args...)})
	if decorator != nil {
		callEnv.Set(config.DecoratorName, decorator.Meta)
	} else {
		callEnv.Set(config.DecoratorName, NULL)
	}
	if this != nil {
		callEnv.Set(config.ThisName, this)
	}

	if fn.File != "" && fn.File != e.File {
		savedFile, savedDir := e.File, e.dir
		e.SetFile(fn.File)
		defer func() { e.File, e.dir = savedFile, savedDir }()
	}

	result := unwrapReturnValue(e.Eval(fn.Body, callEnv))
	if result == nil || result.Type() == UNDEFINED_OBJ {
		return NULL
	}
	return result
}
