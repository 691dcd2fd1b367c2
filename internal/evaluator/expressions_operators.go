package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/tiny/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(operator string, right Object) Object {
	switch operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		n, ok := right.(*Number)
		if !ok {
			return newError(KindTypeMismatch, "type mismatch: -%s", right.Type())
		}
		return &Number{Value: -n.Value}
	}
	return newError(KindUnknownOperator, "unknown operator: %s%s", operator, right.Type())
}

// evalInfix handles the operators that control evaluation of their operands
// before falling back to plain binary dispatch.
func (e *Evaluator) evalInfix(node *ast.InfixExpression, env *Environment) Object {
	switch node.Operator {
	case "=":
		return e.evalAssignExpression(node, env)
	case "&&", "||":
		return e.evalLogicalExpression(node, env)
	case "??":
		left := e.Eval(node.Left, env)
		if isAbrupt(left) {
			return left
		}
		if !isNullish(left) {
			return left
		}
		return e.Eval(node.Right, env)
	}

	left := e.Eval(node.Left, env)
	if isAbrupt(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isAbrupt(right) {
		return right
	}
	return e.evalInfixExpression(node.Operator, left, right)
}

func (e *Evaluator) evalLogicalExpression(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isAbrupt(left) {
		return left
	}
	if b, ok := left.(*Boolean); ok {
		if node.Operator == "&&" && !b.Value {
			return FALSE
		}
		if node.Operator == "||" && b.Value {
			return TRUE
		}
	}
	right := e.Eval(node.Right, env)
	if isAbrupt(right) {
		return right
	}
	return e.evalInfixExpression(node.Operator, left, right)
}

func (e *Evaluator) evalInfixExpression(operator string, left, right Object) Object {
	if operator == "in" {
		return evalInExpression(left, right)
	}
	if left.Type() != right.Type() {
		return newError(KindTypeMismatch, "type mismatch: %s %s %s", left.Type(), operator, right.Type())
	}

	switch l := left.(type) {
	case *Number:
		return evalNumberInfixExpression(operator, l.Value, right.(*Number).Value)
	case *String:
		r := right.(*String)
		switch operator {
		case "+":
			return &String{Value: l.Value + r.Value}
		case "==":
			return nativeBoolToBooleanObject(l.Value == r.Value)
		case "!=":
			return nativeBoolToBooleanObject(l.Value != r.Value)
		}
	case *Boolean:
		r := right.(*Boolean)
		switch operator {
		case "==":
			return nativeBoolToBooleanObject(l.Value == r.Value)
		case "!=":
			return nativeBoolToBooleanObject(l.Value != r.Value)
		case "&&":
			return nativeBoolToBooleanObject(l.Value && r.Value)
		case "||":
			return nativeBoolToBooleanObject(l.Value || r.Value)
		}
	case *Map:
		switch operator {
		case "+":
			return l.Merge(right.(*Map))
		case "==":
			return nativeBoolToBooleanObject(objectsEqual(l, right))
		case "!=":
			return nativeBoolToBooleanObject(!objectsEqual(l, right))
		}
	case *Array:
		switch operator {
		case "+":
			r := right.(*Array)
			elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			return &Array{Elements: elements}
		case "==":
			return nativeBoolToBooleanObject(objectsEqual(l, right))
		case "!=":
			return nativeBoolToBooleanObject(!objectsEqual(l, right))
		}
	case *Null, *Undefined:
		switch operator {
		case "==":
			return TRUE
		case "!=":
			return FALSE
		}
	}

	return newError(KindUnknownOperator, "unknown operator: %s %s %s", left.Type(), operator, right.Type())
}

func evalNumberInfixExpression(operator string, l, r float64) Object {
	switch operator {
	case "+":
		return &Number{Value: l + r}
	case "-":
		return &Number{Value: l - r}
	case "*":
		return &Number{Value: l * r}
	case "/":
		return &Number{Value: l / r}
	case "%":
		return &Number{Value: math.Mod(l, r)}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	case "==":
		return nativeBoolToBooleanObject(l == r)
	case "!=":
		return nativeBoolToBooleanObject(l != r)
	}
	return newError(KindUnknownOperator, "unknown operator: NUMBER %s NUMBER", operator)
}

// evalInExpression implements membership. Object keys are tested for a
// String needle and values for a Number needle.
func evalInExpression(left, right Object) Object {
	switch r := right.(type) {
	case *Array:
		for _, el := range r.Elements {
			if objectsEqual(left, el) {
				return TRUE
			}
		}
		return FALSE
	case *Map:
		switch left.(type) {
		case *String:
			_, ok := r.Get(left)
			return nativeBoolToBooleanObject(ok)
		case *Number:
			for _, pair := range r.Pairs() {
				if objectsEqual(left, pair.Value) {
					return TRUE
				}
			}
			return FALSE
		}
	case *String:
		if l, ok := left.(*String); ok {
			return nativeBoolToBooleanObject(strings.Contains(r.Value, l.Value))
		}
	}
	return newError(KindTypeMismatch, "type mismatch: %s in %s", left.Type(), right.Type())
}

func (e *Evaluator) evalAssignExpression(node *ast.InfixExpression, env *Environment) Object {
	switch target := node.Left.(type) {
	case *ast.Identifier:
		val := e.Eval(node.Right, env)
		if isAbrupt(val) {
			return val
		}
		if !env.Update(target.Value, val) {
			return e.locate(newError(KindIdentifierNotFound, "identifier not found: %s", target.Value), target)
		}
		return val

	case *ast.IndexExpression:
		container := e.Eval(target.Left, env)
		if isAbrupt(container) {
			return container
		}
		key := e.Eval(target.Index, env)
		if isAbrupt(key) {
			return key
		}
		val := e.Eval(node.Right, env)
		if isAbrupt(val) {
			return val
		}
		if err := assignIndex(container, key, val); err != nil {
			return e.locate(err, target)
		}
		return val
	}

	return newError(KindTypeMismatch, "invalid assignment target")
}

func assignIndex(container, key, val Object) *Error {
	switch c := container.(type) {
	case *Array:
		idx, ok := toIndex(key)
		if !ok {
			return newError(KindTypeMismatch, "array index must be an integer, got %s", key.Inspect())
		}
		if idx < 0 || idx >= len(c.Elements) {
			return newError(KindIndexOutOfRange, "index %d out of range [0, %d)", idx, len(c.Elements))
		}
		c.Elements[idx] = val
		return nil
	case *Map:
		if !c.Set(key, val) {
			return invalidKeyError(key)
		}
		return nil
	}
	return newError(KindTypeMismatch, "cannot assign to an index of %s", container.Type())
}
