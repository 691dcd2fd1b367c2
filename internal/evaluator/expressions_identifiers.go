package evaluator

import (
	"github.com/funvibe/tiny/internal/ast"
)

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}

	if builtin, ok := LookupBuiltin(node.Value); ok {
		return builtin
	}

	return newError(KindIdentifierNotFound, "identifier not found: %s", node.Value)
}
