package evaluator

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/funvibe/tiny/internal/token"
)

// StringBuiltins returns the string builtins. Case mapping is Unicode aware.
func StringBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		"split":      {Name: "split", Fn: builtinSplit},
		"trim":       {Name: "trim", Fn: builtinTrim},
		"upper":      {Name: "upper", Fn: caseBuiltin("upper", func() cases.Caser { return cases.Upper(language.Und) })},
		"lower":      {Name: "lower", Fn: caseBuiltin("lower", func() cases.Caser { return cases.Lower(language.Und) })},
		"title":      {Name: "title", Fn: caseBuiltin("title", func() cases.Caser { return cases.Title(language.Und) })},
		"replace":    {Name: "replace", Fn: builtinReplace},
		"indexOf":    {Name: "indexOf", Fn: builtinIndexOf},
		"startsWith": {Name: "startsWith", Fn: builtinStartsWith},
		"endsWith":   {Name: "endsWith", Fn: builtinEndsWith},
		"format":     {Name: "format", Fn: builtinFormat},
	}
}

// caseBuiltin builds a fresh Caser per call: a Caser keeps state and the
// registry is shared by every evaluator.
func caseBuiltin(name string, newCaser func() cases.Caser) BuiltinFunction {
	return func(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
		if err := checkArgCount(name, pos, args, 1, 1); err != nil {
			return err
		}
		s, err := stringArg(name, pos, args, 0)
		if err != nil {
			return err
		}
		return &String{Value: newCaser().String(s)}
	}
}

func builtinSplit(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("split", pos, args, 2, 2); err != nil {
		return err
	}
	s, err := stringArg("split", pos, args, 0)
	if err != nil {
		return err
	}
	sep, err := stringArg("split", pos, args, 1)
	if err != nil {
		return err
	}
	parts := strings.Split(s, sep)
	out := make([]Object, len(parts))
	for i, p := range parts {
		out[i] = &String{Value: p}
	}
	return &Array{Elements: out}
}

func builtinTrim(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("trim", pos, args, 1, 1); err != nil {
		return err
	}
	s, err := stringArg("trim", pos, args, 0)
	if err != nil {
		return err
	}
	return &String{Value: strings.TrimSpace(s)}
}

func builtinReplace(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("replace", pos, args, 3, 3); err != nil {
		return err
	}
	strs := make([]string, 3)
	for i := range strs {
		s, err := stringArg("replace", pos, args, i)
		if err != nil {
			return err
		}
		strs[i] = s
	}
	return &String{Value: strings.ReplaceAll(strs[0], strs[1], strs[2])}
}

// builtinIndexOf finds a substring (rune offset) or an array element;
// -1 when absent.
func builtinIndexOf(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("indexOf", pos, args, 2, 2); err != nil {
		return err
	}
	switch x := args[0].(type) {
	case *String:
		sub, err := stringArg("indexOf", pos, args, 1)
		if err != nil {
			return err
		}
		i := strings.Index(x.Value, sub)
		if i < 0 {
			return &Number{Value: -1}
		}
		return &Number{Value: float64(utf8.RuneCountInString(x.Value[:i]))}
	case *Array:
		for i, el := range x.Elements {
			if objectsEqual(el, args[1]) {
				return &Number{Value: float64(i)}
			}
		}
		return &Number{Value: -1}
	}
	return newErrorAt(pos, KindInvalidArgument, "indexOf: argument 1 must be a string or array, got %s", args[0].Type())
}

func builtinStartsWith(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	return stringPredicate("startsWith", strings.HasPrefix, pos, args)
}

func builtinEndsWith(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	return stringPredicate("endsWith", strings.HasSuffix, pos, args)
}

func stringPredicate(name string, pred func(s, p string) bool, pos token.Position, args []Object) Object {
	if err := checkArgCount(name, pos, args, 2, 2); err != nil {
		return err
	}
	s, err := stringArg(name, pos, args, 0)
	if err != nil {
		return err
	}
	p, err := stringArg(name, pos, args, 1)
	if err != nil {
		return err
	}
	return nativeBoolToBooleanObject(pred(s, p))
}

// builtinFormat substitutes each {} in the template with the next argument.
// {{ and }} stand for literal braces.
func builtinFormat(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("format", pos, args, 1, -1); err != nil {
		return err
	}
	tmpl, err := stringArg("format", pos, args, 0)
	if err != nil {
		return err
	}

	var b strings.Builder
	next := 1
	for i := 0; i < len(tmpl); i++ {
		switch {
		case strings.HasPrefix(tmpl[i:], "{{"):
			b.WriteByte('{')
			i++
		case strings.HasPrefix(tmpl[i:], "}}"):
			b.WriteByte('}')
			i++
		case strings.HasPrefix(tmpl[i:], "{}"):
			if next >= len(args) {
				return newErrorAt(pos, KindInvalidArgument, "format: not enough arguments for template %q", tmpl)
			}
			b.WriteString(toDisplayString(args[next]))
			next++
			i++
		default:
			b.WriteByte(tmpl[i])
		}
	}
	return &String{Value: b.String()}
}
