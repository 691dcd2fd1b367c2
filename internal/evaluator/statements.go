package evaluator

import (
	"strings"

	"github.com/funvibe/tiny/internal/ast"
)

func (e *Evaluator) evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = UNDEFINED

	for _, statement := range program.Statements {
		result = e.Eval(statement, env)

		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		}
	}

	return result
}

// evalBlockExpression runs a body in the current frame. Only function calls
// open a new scope.
func (e *Evaluator) evalBlockExpression(block *ast.BlockExpression, env *Environment) Object {
	var result Object = UNDEFINED

	for _, statement := range block.Statements {
		result = e.Eval(statement, env)
		if isAbrupt(result) {
			return result
		}
	}

	if !block.ReturnFinal {
		return UNDEFINED
	}
	return result
}

func (e *Evaluator) evalLetStatement(node *ast.LetStatement, env *Environment) Object {
	name := node.Name.Value
	if e.Options.StrictMode && !strings.HasPrefix(name, "_") && env.Has(name) {
		return newError(KindRedeclaration, "identifier %s has already been declared", name)
	}

	var val Object
	if fn, ok := node.Value.(*ast.FunctionLiteral); ok && fn.Name == nil {
		f := e.newFunction(fn, env, nil)
		f.Name = name
		val = f
	} else {
		val = e.Eval(node.Value, env)
		if isAbrupt(val) {
			return val
		}
	}

	env.Set(name, val)
	return UNDEFINED
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.ReturnValue == nil {
		return &ReturnValue{Value: UNDEFINED}
	}
	val := e.Eval(node.ReturnValue, env)
	if isAbrupt(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isAbrupt(cond) {
			return cond
		}
		if !isTruthy(cond) {
			return UNDEFINED
		}

		result := e.Eval(node.Body, env)
		if isAbrupt(result) {
			return result
		}
	}
}

func (e *Evaluator) evalDecoratorStatement(node *ast.DecoratorStatement, env *Environment) Object {
	meta := e.Eval(node.Decorator, env)
	if isAbrupt(meta) {
		return meta
	}
	m, ok := meta.(*Map)
	if !ok {
		return newError(KindTypeMismatch, "decorator must be an object, got %s", meta.Type())
	}
	return e.evalFunctionLiteral(node.Function, env, NewDecorator(m))
}
