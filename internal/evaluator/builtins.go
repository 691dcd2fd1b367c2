package evaluator

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/token"
)

// Builtins is consulted after the environment chain misses. It is filled in
// init so builtins that re-enter the evaluator do not form an
// initialization cycle with it.
var Builtins map[string]*Builtin

func init() {
	Builtins = make(map[string]*Builtin)
	groups := []map[string]*Builtin{
		CoreBuiltins(),
		CollectionBuiltins(),
		StringBuiltins(),
		RegexBuiltins(),
		DataBuiltins(),
		DatabaseBuiltins(),
		EvalBuiltins(),
	}
	for _, group := range groups {
		for name, b := range group {
			Builtins[name] = b
		}
	}
}

func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := Builtins[name]
	return b, ok
}

// BuiltinNames returns the registered names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(Builtins))
	for name := range Builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CoreBuiltins returns I/O, conversion and value-inspection builtins.
func CoreBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		config.PrintFuncName:    {Name: config.PrintFuncName, Fn: builtinPrint},
		config.WriteFuncName:    {Name: config.WriteFuncName, Fn: builtinWrite},
		config.ReadlineFuncName: {Name: config.ReadlineFuncName, Fn: builtinReadline},
		config.LenFuncName:      {Name: config.LenFuncName, Fn: builtinLen},
		config.StrFuncName:      {Name: config.StrFuncName, Fn: builtinStr},
		config.NumFuncName:      {Name: config.NumFuncName, Fn: builtinNum},
		config.BoolFuncName:     {Name: config.BoolFuncName, Fn: builtinBool},
		config.TypeFuncName:     {Name: config.TypeFuncName, Fn: builtinType},
		config.ErrorFuncName:    {Name: config.ErrorFuncName, Fn: builtinError},
		config.NowFuncName:      {Name: config.NowFuncName, Fn: builtinNow},
		config.UUIDFuncName:     {Name: config.UUIDFuncName, Fn: builtinUUID},
	}
}

func joinDisplay(args []Object, sep string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = toDisplayString(arg)
	}
	return strings.Join(parts, sep)
}

func builtinPrint(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	e.Stdio.write(joinDisplay(args, " ") + "\n")
	return UNDEFINED
}

func builtinWrite(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	e.Stdio.write(joinDisplay(args, ""))
	return UNDEFINED
}

func builtinReadline(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.ReadlineFuncName, pos, args, 0, 1); err != nil {
		return err
	}
	prompt := ""
	if len(args) == 1 {
		prompt = toDisplayString(args[0])
	}
	return &String{Value: e.Stdio.read(prompt)}
}

func builtinLen(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.LenFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	switch arg := args[0].(type) {
	case *String:
		return &Number{Value: float64(arg.Len())}
	case *Array:
		return &Number{Value: float64(len(arg.Elements))}
	case *Map:
		return &Number{Value: float64(arg.Len())}
	}
	return newErrorAt(pos, KindInvalidArgument, "len: argument must be a string, array or object, got %s", args[0].Type())
}

func builtinStr(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.StrFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	return &String{Value: toDisplayString(args[0])}
}

func builtinNum(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.NumFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	switch arg := args[0].(type) {
	case *Number:
		return arg
	case *Boolean:
		if arg.Value {
			return &Number{Value: 1}
		}
		return &Number{Value: 0}
	case *String:
		v, err := strconv.ParseFloat(strings.TrimSpace(arg.Value), 64)
		if err != nil {
			return newErrorAt(pos, KindInvalidArgument, "num: cannot convert %q to a number", arg.Value)
		}
		return &Number{Value: v}
	}
	return newErrorAt(pos, KindInvalidArgument, "num: cannot convert %s to a number", args[0].Type())
}

func builtinBool(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.BoolFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	return nativeBoolToBooleanObject(isTruthy(args[0]))
}

func builtinType(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.TypeFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	return &String{Value: TypeName(args[0])}
}

// builtinError builds an error value. Returning it raises it like throw.
func builtinError(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.ErrorFuncName, pos, args, 1, 1); err != nil {
		return err
	}
	return newErrorAt(pos, KindThrown, "%s", toDisplayString(args[0]))
}

func builtinNow(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	return &Number{Value: float64(time.Now().UnixMilli())}
}

func builtinUUID(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount(config.UUIDFuncName, pos, args, 0, 0); err != nil {
		return err
	}
	return &String{Value: uuid.NewString()}
}
