package evaluator

import (
	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/token"
)

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	pos := callPosition(node)

	var function, this Object
	var receiverArg Object
	if member, ok := node.Function.(*ast.IndexExpression); ok {
		receiver := e.Eval(member.Left, env)
		if isAbrupt(receiver) {
			return receiver
		}
		key := e.Eval(member.Index, env)
		if isAbrupt(key) {
			return key
		}
		function, this, receiverArg = resolveMethod(receiver, key)
		if isError(function) {
			return e.locate(function.(*Error), member)
		}
	} else {
		function = e.Eval(node.Function, env)
		if isAbrupt(function) {
			return function
		}
	}

	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isAbrupt(args[0]) {
		return args[0]
	}
	if receiverArg != nil {
		args = append([]Object{receiverArg}, args...)
	}

	return e.ApplyFunction(function, args, this, env, pos)
}

// resolveMethod finds the callee of receiver.key(...). An Object's own entry
// wins and is called with this bound to the receiver. Otherwise a builtin of
// that name is called with the receiver as its first argument, so
// arr.push(1) is push(arr, 1).
func resolveMethod(receiver, key Object) (fn, this, receiverArg Object) {
	if m, ok := receiver.(*Map); ok {
		if v, found := m.Get(key); found {
			if !isCallable(v) {
				return newError(KindNotCallable, "%s is not a function (%s)", key.Inspect(), v.Type()), nil, nil
			}
			return v, receiver, nil
		}
	}

	if name, ok := key.(*String); ok && !isNullish(receiver) {
		if builtin, found := LookupBuiltin(name.Value); found {
			return builtin, nil, receiver
		}
	}

	v := indexValue(receiver, key)
	if isError(v) {
		return v, nil, nil
	}
	if !isCallable(v) {
		return newError(KindNotCallable, "%s is not a function (%s)", key.Inspect(), v.Type()), nil, nil
	}
	return v, receiver, nil
}

// callPosition is where call errors are reported: the callee name for
// plain and method calls.
func callPosition(node *ast.CallExpression) token.Position {
	if member, ok := node.Function.(*ast.IndexExpression); ok {
		if provider, ok := member.Index.(ast.TokenProvider); ok {
			return provider.GetToken().Position()
		}
	}
	if provider, ok := node.Function.(ast.TokenProvider); ok {
		return provider.GetToken().Position()
	}
	return node.Token.Position()
}
