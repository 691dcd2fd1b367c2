package evaluator

import (
	"github.com/funvibe/tiny/internal/ast"
)

func (e *Evaluator) evalArrayLiteral(node *ast.ArrayLiteral, env *Environment) Object {
	elements := e.evalExpressions(node.Elements, env)
	if len(elements) == 1 && isAbrupt(elements[0]) {
		return elements[0]
	}
	return &Array{Elements: elements}
}

func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral, env *Environment) Object {
	m := NewMap()

	for _, pair := range node.Pairs {
		key := e.Eval(pair.Key, env)
		if isAbrupt(key) {
			return key
		}
		if _, ok := HashKey(key); !ok {
			return e.locate(invalidKeyError(key), pair.Key)
		}

		value := e.Eval(pair.Value, env)
		if isAbrupt(value) {
			return value
		}
		if fn, ok := value.(*Function); ok && fn.Name == "" {
			if s, ok := key.(*String); ok {
				fn.Name = s.Value
			}
		}
		m.Set(key, value)
	}

	return m
}

// evalFunctionLiteral creates the closure and binds a named literal in env.
func (e *Evaluator) evalFunctionLiteral(node *ast.FunctionLiteral, env *Environment, decorator *Decorator) Object {
	fn := e.newFunction(node, env, decorator)
	if node.Name != nil {
		env.Set(node.Name.Value, fn)
	}
	return fn
}

func (e *Evaluator) newFunction(node *ast.FunctionLiteral, env *Environment, decorator *Decorator) *Function {
	fn := &Function{
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        env,
		Decorator:  decorator,
		File:       e.File,
		Line:       node.Token.Line,
		Column:     node.Token.Column,
	}
	if node.Name != nil {
		fn.Name = node.Name.Value
	}
	return fn
}

// evalExpressions evaluates left to right. On failure the result is a
// single-element slice holding the error (or pending return).
func (e *Evaluator) evalExpressions(exps []ast.Expression, env *Environment) []Object {
	result := make([]Object, 0, len(exps))

	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isAbrupt(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}
