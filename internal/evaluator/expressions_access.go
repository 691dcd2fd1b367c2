package evaluator

import (
	"github.com/funvibe/tiny/internal/ast"
)

// lengthMember is the pseudo-key answered by arrays and strings.
const lengthMember = "length"

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isAbrupt(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isAbrupt(index) {
		return index
	}
	return indexValue(left, index)
}

// indexValue reads container[key]. Missing entries read as UNDEFINED; a key
// of the wrong kind is a type mismatch.
func indexValue(container, key Object) Object {
	if s, ok := key.(*String); ok && s.Value == lengthMember {
		switch c := container.(type) {
		case *Array:
			return &Number{Value: float64(len(c.Elements))}
		case *String:
			return &Number{Value: float64(c.Len())}
		}
	}

	switch c := container.(type) {
	case *Array:
		idx, ok := toIndex(key)
		if !ok {
			return newError(KindTypeMismatch, "array index must be an integer, got %s", key.Inspect())
		}
		if idx < 0 || idx >= len(c.Elements) {
			return UNDEFINED
		}
		return c.Elements[idx]
	case *Map:
		if _, ok := HashKey(key); !ok {
			return invalidKeyError(key)
		}
		if v, ok := c.Get(key); ok {
			return v
		}
		return UNDEFINED
	case *String:
		idx, ok := toIndex(key)
		if !ok {
			return newError(KindTypeMismatch, "string index must be an integer, got %s", key.Inspect())
		}
		runes := []rune(c.Value)
		if idx < 0 || idx >= len(runes) {
			return UNDEFINED
		}
		return &String{Value: string(runes[idx])}
	case *Null, *Undefined:
		return newError(KindTypeMismatch, "cannot read %s of %s", key.Inspect(), container.Inspect())
	}
	return newError(KindTypeMismatch, "index operator not supported: %s[%s]", container.Type(), key.Type())
}
