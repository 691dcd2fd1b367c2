package evaluator

import (
	"math"
	"sort"
	"strings"

	"github.com/funvibe/tiny/internal/token"
)

// maxRangeLen caps the arrays range() builds.
const maxRangeLen = 10_000_000

// CollectionBuiltins returns the array and object builtins.
func CollectionBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		"push":    {Name: "push", Fn: builtinPush},
		"pop":     {Name: "pop", Fn: builtinPop},
		"slice":   {Name: "slice", Fn: builtinSlice},
		"join":    {Name: "join", Fn: builtinJoin},
		"keys":    {Name: "keys", Fn: builtinKeys},
		"values":  {Name: "values", Fn: builtinValues},
		"range":   {Name: "range", Fn: builtinRange},
		"reverse": {Name: "reverse", Fn: builtinReverse},
		"sort":    {Name: "sort", Fn: builtinSort},
		"map":     {Name: "map", Fn: builtinMap},
		"filter":  {Name: "filter", Fn: builtinFilter},
		"reduce":  {Name: "reduce", Fn: builtinReduce},
	}
}

func builtinPush(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("push", pos, args, 1, -1); err != nil {
		return err
	}
	arr, err := arrayArg("push", pos, args, 0)
	if err != nil {
		return err
	}
	arr.Elements = append(arr.Elements, args[1:]...)
	return arr
}

func builtinPop(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("pop", pos, args, 1, 1); err != nil {
		return err
	}
	arr, err := arrayArg("pop", pos, args, 0)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return UNDEFINED
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last
}

// sliceBounds normalises [start, end) against length n. Negative indices
// count from the end. Bounds are clamped before conversion so huge values
// cannot overflow int.
func sliceBounds(start, end float64, n int) (int, int) {
	clamp := func(v float64) int {
		v = math.Trunc(v)
		if v < 0 {
			v += float64(n)
		}
		if v < 0 {
			return 0
		}
		if v > float64(n) {
			return n
		}
		return int(v)
	}
	s, t := clamp(start), clamp(end)
	if t < s {
		t = s
	}
	return s, t
}

func builtinSlice(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("slice", pos, args, 2, 3); err != nil {
		return err
	}
	bounds := make([]float64, 0, 2)
	for i := 1; i < len(args); i++ {
		v, err := numberArg("slice", pos, args, i)
		if err != nil {
			return err
		}
		if math.IsNaN(v) {
			return newErrorAt(pos, KindInvalidArgument, "slice: argument %d must not be NaN", i+1)
		}
		bounds = append(bounds, v)
	}

	var n int
	var runes []rune
	switch x := args[0].(type) {
	case *Array:
		n = len(x.Elements)
	case *String:
		runes = []rune(x.Value)
		n = len(runes)
	default:
		return newErrorAt(pos, KindInvalidArgument, "slice: argument 1 must be an array or string, got %s", args[0].Type())
	}
	if len(bounds) == 1 {
		bounds = append(bounds, float64(n))
	}
	s, t := sliceBounds(bounds[0], bounds[1], n)

	if arr, ok := args[0].(*Array); ok {
		return &Array{Elements: append([]Object(nil), arr.Elements[s:t]...)}
	}
	return &String{Value: string(runes[s:t])}
}

func builtinJoin(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("join", pos, args, 1, 2); err != nil {
		return err
	}
	arr, err := arrayArg("join", pos, args, 0)
	if err != nil {
		return err
	}
	sep := ","
	if len(args) == 2 {
		if sep, err = stringArg("join", pos, args, 1); err != nil {
			return err
		}
	}
	return &String{Value: joinDisplay(arr.Elements, sep)}
}

func builtinKeys(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("keys", pos, args, 1, 1); err != nil {
		return err
	}
	m, err := mapArg("keys", pos, args, 0)
	if err != nil {
		return err
	}
	pairs := m.Pairs()
	keys := make([]Object, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return &Array{Elements: keys}
}

func builtinValues(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("values", pos, args, 1, 1); err != nil {
		return err
	}
	m, err := mapArg("values", pos, args, 0)
	if err != nil {
		return err
	}
	pairs := m.Pairs()
	values := make([]Object, len(pairs))
	for i, p := range pairs {
		values[i] = p.Value
	}
	return &Array{Elements: values}
}

// builtinRange: range(n) is 0..n-1, range(a, b) is a..b-1, and an optional
// third argument sets the step.
func builtinRange(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("range", pos, args, 1, 3); err != nil {
		return err
	}
	nums := make([]float64, len(args))
	for i := range args {
		n, err := numberArg("range", pos, args, i)
		if err != nil {
			return err
		}
		nums[i] = n
	}

	start, stop, step := 0.0, nums[0], 1.0
	if len(nums) >= 2 {
		start, stop = nums[0], nums[1]
	}
	if len(nums) == 3 {
		step = nums[2]
	}
	if step == 0 {
		return newErrorAt(pos, KindInvalidArgument, "range: step must not be zero")
	}
	if (stop-start)/step > maxRangeLen {
		return newErrorAt(pos, KindInvalidArgument, "range: too many elements")
	}

	var elements []Object
	for v := start; (step > 0 && v < stop) || (step < 0 && v > stop); v += step {
		elements = append(elements, &Number{Value: v})
	}
	return &Array{Elements: elements}
}

func builtinReverse(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("reverse", pos, args, 1, 1); err != nil {
		return err
	}
	switch x := args[0].(type) {
	case *Array:
		out := make([]Object, len(x.Elements))
		for i, el := range x.Elements {
			out[len(out)-1-i] = el
		}
		return &Array{Elements: out}
	case *String:
		runes := []rune(x.Value)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return &String{Value: string(runes)}
	}
	return newErrorAt(pos, KindInvalidArgument, "reverse: argument 1 must be an array or string, got %s", args[0].Type())
}

// builtinSort returns a sorted copy. Without a comparator the elements must
// be all numbers or all strings; cmp(a, b) < 0 puts a first.
func builtinSort(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("sort", pos, args, 1, 2); err != nil {
		return err
	}
	arr, err := arrayArg("sort", pos, args, 0)
	if err != nil {
		return err
	}
	out := append([]Object(nil), arr.Elements...)

	if len(args) == 2 {
		cmp := args[1]
		if !isCallable(cmp) {
			return newErrorAt(pos, KindInvalidArgument, "sort: argument 2 must be a function, got %s", cmp.Type())
		}
		var failure Object
		sort.SliceStable(out, func(i, j int) bool {
			if failure != nil {
				return false
			}
			res := e.ApplyFunction(cmp, []Object{out[i], out[j]}, nil, env, pos)
			if isError(res) {
				failure = res
				return false
			}
			n, ok := res.(*Number)
			if !ok {
				failure = newErrorAt(pos, KindInvalidArgument, "sort: comparator must return a number, got %s", res.Type())
				return false
			}
			return n.Value < 0
		})
		if failure != nil {
			return failure
		}
		return &Array{Elements: out}
	}

	allNumbers, allStrings := true, true
	for _, el := range out {
		switch el.(type) {
		case *Number:
			allStrings = false
		case *String:
			allNumbers = false
		default:
			allNumbers, allStrings = false, false
		}
	}
	switch {
	case allNumbers:
		sort.SliceStable(out, func(i, j int) bool { return out[i].(*Number).Value < out[j].(*Number).Value })
	case allStrings:
		sort.SliceStable(out, func(i, j int) bool { return strings.Compare(out[i].(*String).Value, out[j].(*String).Value) < 0 })
	default:
		return newErrorAt(pos, KindInvalidArgument, "sort: elements must be all numbers or all strings")
	}
	return &Array{Elements: out}
}

func callbackArgs(name string, pos token.Position, args []Object) (*Array, Object, *Error) {
	arr, err := arrayArg(name, pos, args, 0)
	if err != nil {
		return nil, nil, err
	}
	if !isCallable(args[1]) {
		return nil, nil, newErrorAt(pos, KindInvalidArgument, "%s: argument 2 must be a function, got %s", name, args[1].Type())
	}
	return arr, args[1], nil
}

func builtinMap(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("map", pos, args, 2, 2); err != nil {
		return err
	}
	arr, fn, err := callbackArgs("map", pos, args)
	if err != nil {
		return err
	}
	out := make([]Object, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		res := e.ApplyFunction(fn, []Object{el}, nil, env, pos)
		if isError(res) {
			return res
		}
		out = append(out, res)
	}
	return &Array{Elements: out}
}

func builtinFilter(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("filter", pos, args, 2, 2); err != nil {
		return err
	}
	arr, fn, err := callbackArgs("filter", pos, args)
	if err != nil {
		return err
	}
	var out []Object
	for _, el := range arr.Elements {
		res := e.ApplyFunction(fn, []Object{el}, nil, env, pos)
		if isError(res) {
			return res
		}
		if isTruthy(res) {
			out = append(out, el)
		}
	}
	return &Array{Elements: out}
}

func builtinReduce(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("reduce", pos, args, 3, 3); err != nil {
		return err
	}
	arr, fn, err := callbackArgs("reduce", pos, args)
	if err != nil {
		return err
	}
	acc := args[2]
	for _, el := range arr.Elements {
		acc = e.ApplyFunction(fn, []Object{acc, el}, nil, env, pos)
		if isError(acc) {
			return acc
		}
	}
	return acc
}
