package evaluator

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/funvibe/tiny/internal/token"
)

// regexTimeout bounds a single match so a pathological pattern cannot hang
// the script.
const regexTimeout = 2 * time.Second

// RegexBuiltins returns the regular-expression builtins. Patterns use the
// .NET/JavaScript-compatible regexp2 syntax (lookaround, backreferences).
func RegexBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		"match":        {Name: "match", Fn: builtinMatch},
		"findAll":      {Name: "findAll", Fn: builtinFindAll},
		"regexReplace": {Name: "regexReplace", Fn: builtinRegexReplace},
	}
}

func compilePattern(name string, pos token.Position, args []Object) (*regexp2.Regexp, string, *Error) {
	pattern, err := stringArg(name, pos, args, 0)
	if err != nil {
		return nil, "", err
	}
	input, err := stringArg(name, pos, args, 1)
	if err != nil {
		return nil, "", err
	}
	re, compileErr := regexp2.Compile(pattern, regexp2.None)
	if compileErr != nil {
		return nil, "", newErrorAt(pos, KindInvalidArgument, "%s: invalid pattern %q: %v", name, pattern, compileErr)
	}
	re.MatchTimeout = regexTimeout
	return re, input, nil
}

// builtinMatch reports whether the pattern matches anywhere in s.
func builtinMatch(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("match", pos, args, 2, 2); err != nil {
		return err
	}
	re, input, err := compilePattern("match", pos, args)
	if err != nil {
		return err
	}
	ok, matchErr := re.MatchString(input)
	if matchErr != nil {
		return newErrorAt(pos, KindInvalidArgument, "match: %v", matchErr)
	}
	return nativeBoolToBooleanObject(ok)
}

// builtinFindAll returns every non-overlapping match as an array of strings.
func builtinFindAll(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("findAll", pos, args, 2, 2); err != nil {
		return err
	}
	re, input, err := compilePattern("findAll", pos, args)
	if err != nil {
		return err
	}

	var out []Object
	m, matchErr := re.FindStringMatch(input)
	for m != nil && matchErr == nil {
		out = append(out, &String{Value: m.String()})
		m, matchErr = re.FindNextMatch(m)
	}
	if matchErr != nil {
		return newErrorAt(pos, KindInvalidArgument, "findAll: %v", matchErr)
	}
	return &Array{Elements: out}
}

// builtinRegexReplace replaces every match; $1 and ${name} refer to groups.
func builtinRegexReplace(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("regexReplace", pos, args, 3, 3); err != nil {
		return err
	}
	re, input, err := compilePattern("regexReplace", pos, args)
	if err != nil {
		return err
	}
	repl, err := stringArg("regexReplace", pos, args, 2)
	if err != nil {
		return err
	}
	out, replaceErr := re.Replace(input, repl, -1, -1)
	if replaceErr != nil {
		return newErrorAt(pos, KindInvalidArgument, "regexReplace: %v", replaceErr)
	}
	return &String{Value: out}
}
