package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/tiny/internal/prettyprinter"
)

// Array is a mutable sequence shared by every binding that refers to it.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) object()          {}
func (a *Array) Inspect() string  { return inspect(a, map[Object]bool{}) }

// MapKey identifies an entry by kind and scalar value, so "1" and 1 are
// different keys while two String objects with equal text are the same.
type MapKey struct {
	Kind ObjectType
	Num  float64
	Str  string
}

// HashKey returns the key for a String or Number; other kinds cannot be keys.
// NaN is rejected since it never equals itself.
func HashKey(obj Object) (MapKey, bool) {
	switch o := obj.(type) {
	case *String:
		return MapKey{Kind: STRING_OBJ, Str: o.Value}, true
	case *Number:
		if math.IsNaN(o.Value) {
			return MapKey{}, false
		}
		return MapKey{Kind: NUMBER_OBJ, Num: o.Value}, true
	}
	return MapKey{}, false
}

func invalidKeyError(key Object) *Error {
	if n, ok := key.(*Number); ok && math.IsNaN(n.Value) {
		return newError(KindTypeMismatch, "object key cannot be NaN")
	}
	return newError(KindTypeMismatch, "object key must be a string or number, got %s", key.Type())
}

type MapPair struct {
	Key   Object
	Value Object
}

// Map is the OBJECT kind: a mutable dictionary keyed by String or Number.
// Iteration follows insertion order.
type Map struct {
	pairs map[MapKey]*MapPair
	order []MapKey
}

func NewMap() *Map {
	return &Map{pairs: make(map[MapKey]*MapPair)}
}

func (m *Map) Type() ObjectType { return OBJECT_OBJ }
func (m *Map) object()          {}
func (m *Map) Inspect() string  { return inspect(m, map[Object]bool{}) }

func (m *Map) Len() int { return len(m.order) }

func (m *Map) Get(key Object) (Object, bool) {
	hk, ok := HashKey(key)
	if !ok {
		return nil, false
	}
	p, ok := m.pairs[hk]
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// GetString is Get for a string key.
func (m *Map) GetString(key string) (Object, bool) {
	p, ok := m.pairs[MapKey{Kind: STRING_OBJ, Str: key}]
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// Set stores value under key and reports false when the key kind is invalid.
func (m *Map) Set(key, value Object) bool {
	hk, ok := HashKey(key)
	if !ok {
		return false
	}
	if p, exists := m.pairs[hk]; exists {
		p.Value = value
		return true
	}
	m.pairs[hk] = &MapPair{Key: key, Value: value}
	m.order = append(m.order, hk)
	return true
}

func (m *Map) SetString(key string, value Object) {
	m.Set(&String{Value: key}, value)
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key Object) bool {
	hk, ok := HashKey(key)
	if !ok {
		return false
	}
	if _, exists := m.pairs[hk]; !exists {
		return false
	}
	delete(m.pairs, hk)
	for i, k := range m.order {
		if k == hk {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Pairs returns the entries in insertion order.
func (m *Map) Pairs() []*MapPair {
	out := make([]*MapPair, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.pairs[k])
	}
	return out
}

// Merge returns a new map holding m's entries overwritten by other's.
func (m *Map) Merge(other *Map) *Map {
	out := NewMap()
	for _, p := range m.Pairs() {
		out.Set(p.Key, p.Value)
	}
	for _, p := range other.Pairs() {
		out.Set(p.Key, p.Value)
	}
	return out
}

// inspect renders containers. Nested strings are quoted so ["a"] and [a]
// print differently; a container reached again through itself prints as
// [...] or {...}.
func inspect(obj Object, seen map[Object]bool) string {
	switch o := obj.(type) {
	case *String:
		return prettyprinter.QuoteString(o.Value)
	case *Array:
		if seen[o] {
			return "[...]"
		}
		seen[o] = true
		defer delete(seen, o)

		var out strings.Builder
		out.WriteString("[")
		for i, el := range o.Elements {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(inspect(el, seen))
		}
		out.WriteString("]")
		return out.String()
	case *Map:
		if seen[o] {
			return "{...}"
		}
		seen[o] = true
		defer delete(seen, o)

		var out strings.Builder
		out.WriteString("{")
		for i, p := range o.Pairs() {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(inspect(p.Key, seen))
			out.WriteString(": ")
			out.WriteString(inspect(p.Value, seen))
		}
		out.WriteString("}")
		return out.String()
	}
	return obj.Inspect()
}
