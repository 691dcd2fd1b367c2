package evaluator

import (
	"github.com/funvibe/tiny/internal/ast"
)

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, env *Environment) Object {
	condition := e.Eval(node.Condition, env)
	if isAbrupt(condition) {
		return condition
	}

	if isTruthy(condition) {
		return e.Eval(node.Consequence, env)
	} else if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return UNDEFINED
}

func (e *Evaluator) evalTypeofExpression(node *ast.TypeofExpression, env *Environment) Object {
	// an unbound name is "undefined", not an error
	if ident, ok := node.Operand.(*ast.Identifier); ok {
		if _, found := env.Get(ident.Value); !found {
			if _, isBuiltin := LookupBuiltin(ident.Value); !isBuiltin {
				return &String{Value: "undefined"}
			}
		}
	}

	val := e.Eval(node.Operand, env)
	if isAbrupt(val) {
		return val
	}
	return &String{Value: TypeName(val)}
}

func (e *Evaluator) evalThrowExpression(node *ast.ThrowExpression, env *Environment) Object {
	val := e.Eval(node.Operand, env)
	if isAbrupt(val) {
		return val
	}
	if m, ok := val.(*Map); ok {
		if err := errorFromMap(m); err != nil {
			return err
		}
	}
	return newError(KindThrown, "%s", toDisplayString(val))
}

// errorFromMap rebuilds an error captured by Expr(...) so it can be
// rethrown with its original kind and position.
func errorFromMap(m *Map) *Error {
	flag, ok := m.GetString("error")
	if b, isBool := flag.(*Boolean); !ok || !isBool || !b.Value {
		return nil
	}
	err := &Error{Kind: KindThrown}
	if v, ok := m.GetString("message"); ok {
		err.Message = toDisplayString(v)
	}
	if v, ok := m.GetString("kind"); ok {
		if s, ok := v.(*String); ok && s.Value != "" {
			err.Kind = ErrorKind(s.Value)
		}
	}
	if v, ok := m.GetString("line"); ok {
		if n, ok := toIndex(v); ok {
			err.Line = n
		}
	}
	if v, ok := m.GetString("column"); ok {
		if n, ok := toIndex(v); ok {
			err.Column = n
		}
	}
	if v, ok := m.GetString("filename"); ok {
		if s, ok := v.(*String); ok {
			err.File = s.Value
		}
	}
	return err
}

func (e *Evaluator) evalDeleteExpression(node *ast.DeleteExpression, env *Environment) Object {
	switch target := node.Operand.(type) {
	case *ast.Identifier:
		return nativeBoolToBooleanObject(env.Delete(target.Value))

	case *ast.IndexExpression:
		container := e.Eval(target.Left, env)
		if isAbrupt(container) {
			return container
		}
		key := e.Eval(target.Index, env)
		if isAbrupt(key) {
			return key
		}
		m, ok := container.(*Map)
		if !ok {
			return e.locate(newError(KindTypeMismatch, "cannot delete a key of %s", container.Type()), target)
		}
		return nativeBoolToBooleanObject(m.Delete(key))
	}

	return newError(KindTypeMismatch, "delete expects a name or a member expression")
}

func (e *Evaluator) evalExprExpression(node *ast.ExprExpression, env *Environment) Object {
	val := e.Eval(node.Operand, env)
	if err, ok := val.(*Error); ok {
		return err.Reify()
	}
	return val
}
