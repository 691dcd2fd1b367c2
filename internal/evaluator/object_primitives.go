package evaluator

import (
	"math"
	"strconv"
	"unicode/utf8"
)

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return formatNumber(n.Value) }
func (n *Number) object()          {}

// IsInt reports whether the number has no fractional part.
func (n *Number) IsInt() bool {
	return !math.IsInf(n.Value, 0) && n.Value == math.Trunc(n.Value)
}

// formatNumber prints integral values without a fraction and everything else
// in the shortest form that round-trips.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == math.Trunc(v) && math.Abs(v) < 1e21:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) object()          {}

// Len counts characters, not bytes.
func (s *String) Len() int { return utf8.RuneCountInString(s.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) object()          {}

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }
func (n *Null) object()          {}

// Undefined is what statements, missing keys and out-of-range reads produce.
type Undefined struct{}

func (u *Undefined) Type() ObjectType { return UNDEFINED_OBJ }
func (u *Undefined) Inspect() string  { return "undefined" }
func (u *Undefined) object()          {}
