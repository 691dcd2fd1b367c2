package tiny

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/funvibe/tiny/internal/evaluator"
	"github.com/funvibe/tiny/internal/token"
)

var (
	objectType    = reflect.TypeOf((*evaluator.Object)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
)

// Marshaller handles conversion between Go and script values.
//
// Go to script: numeric kinds become numbers, strings and []byte become
// strings, slices and arrays become arrays, maps and structs become objects
// (struct fields honour a `tiny:"name"` tag, "-" skips), pointers are
// followed and functions become builtins.
//
// Script to Go without a target type: numbers are float64, arrays are
// []interface{}, objects are map[string]interface{}, null and undefined are
// nil, and functions stay evaluator.Object so they can be passed back.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a script Object.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NULL, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}
	return m.toValue(reflect.ValueOf(val), 0)
}

func (m *Marshaller) toValue(v reflect.Value, depth int) (evaluator.Object, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("value is nested too deeply")
	}
	if !v.IsValid() {
		return evaluator.NULL, nil
	}
	if v.Type().Implements(objectType) && v.CanInterface() {
		if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return evaluator.NULL, nil
			}
		}
		return v.Interface().(evaluator.Object), nil
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.toValue(v.Elem(), depth+1)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Number{Value: float64(v.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &evaluator.Number{Value: float64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Number{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Slice:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return &evaluator.String{Value: string(v.Bytes())}, nil
		}
		return m.sliceToArray(v, depth)
	case reflect.Array:
		return m.sliceToArray(v, depth)
	case reflect.Map:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.mapToObject(v, depth)
	case reflect.Struct:
		return m.structToObject(v, depth)
	case reflect.Func:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.wrapFunc("<host>", v), nil
	}
	return nil, fmt.Errorf("cannot convert %s to a script value", v.Type())
}

// maxDepth bounds conversion of self-referencing Go values.
const maxDepth = 256

func (m *Marshaller) sliceToArray(v reflect.Value, depth int) (*evaluator.Array, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.toValue(v.Index(i), depth+1)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		elements[i] = val
	}
	return &evaluator.Array{Elements: elements}, nil
}

// mapToObject sorts the keys so the resulting object has a stable order.
func (m *Marshaller) mapToObject(v reflect.Value, depth int) (*evaluator.Map, error) {
	type entry struct {
		key   evaluator.Object
		value reflect.Value
		text  string
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := m.toValue(iter.Key(), depth+1)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		if _, ok := evaluator.HashKey(key); !ok {
			return nil, fmt.Errorf("map key %s must be a string or number", key.Inspect())
		}
		entries = append(entries, entry{key: key, value: iter.Value(), text: key.Inspect()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].text < entries[j].text })

	result := evaluator.NewMap()
	for _, e := range entries {
		val, err := m.toValue(e.value, depth+1)
		if err != nil {
			return nil, fmt.Errorf("map value %s: %w", e.text, err)
		}
		result.Set(e.key, val)
	}
	return result, nil
}

func (m *Marshaller) structToObject(v reflect.Value, depth int) (*evaluator.Map, error) {
	result := evaluator.NewMap()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		name, ok := fieldName(field)
		if !ok {
			continue
		}
		val, err := m.toValue(v.Field(i), depth+1)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		result.SetString(name, val)
	}
	return result, nil
}

// fieldName returns the object key for an exported struct field.
func fieldName(field reflect.StructField) (string, bool) {
	if field.PkgPath != "" {
		return "", false
	}
	tag := field.Tag.Get("tiny")
	switch tag {
	case "-":
		return "", false
	case "":
		return field.Name, true
	}
	return tag, true
}

// FromValue converts a script Object to a Go value. targetType is optional;
// if provided, the result has that type.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if targetType == nil {
		targetType = interfaceType
	}
	rv, err := m.fromValue(obj, targetType, 0)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

func (m *Marshaller) fromValue(obj evaluator.Object, t reflect.Type, depth int) (reflect.Value, error) {
	if depth > maxDepth {
		return reflect.Value{}, fmt.Errorf("value is nested too deeply")
	}
	if obj == nil {
		obj = evaluator.NULL
	}
	if reflect.TypeOf(obj).AssignableTo(t) && t != interfaceType {
		out := reflect.New(t).Elem()
		out.Set(reflect.ValueOf(obj))
		return out, nil
	}

	mismatch := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", obj.Type(), t)
	}

	switch t.Kind() {
	case reflect.Interface:
		natural, err := m.natural(obj, depth)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if natural == nil {
			return out, nil
		}
		nv := reflect.ValueOf(natural)
		if !nv.Type().AssignableTo(t) {
			return mismatch()
		}
		out.Set(nv)
		return out, nil

	case reflect.Ptr:
		if isNullish(obj) {
			return reflect.Zero(t), nil
		}
		elem, err := m.fromValue(obj, t.Elem(), depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil

	case reflect.Bool:
		b, ok := obj.(*evaluator.Boolean)
		if !ok {
			return mismatch()
		}
		return reflect.ValueOf(b.Value).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := obj.(*evaluator.Number)
		if !ok || !n.IsInt() {
			return mismatch()
		}
		out := reflect.New(t).Elem()
		if n.Value < math.MinInt64 || n.Value >= math.MaxInt64 || out.OverflowInt(int64(n.Value)) {
			return reflect.Value{}, fmt.Errorf("%s overflows %s", n.Inspect(), t)
		}
		out.SetInt(int64(n.Value))
		return out, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := obj.(*evaluator.Number)
		if !ok || !n.IsInt() {
			return mismatch()
		}
		out := reflect.New(t).Elem()
		if n.Value < 0 || n.Value >= math.MaxUint64 || out.OverflowUint(uint64(n.Value)) {
			return reflect.Value{}, fmt.Errorf("%s overflows %s", n.Inspect(), t)
		}
		out.SetUint(uint64(n.Value))
		return out, nil

	case reflect.Float32, reflect.Float64:
		n, ok := obj.(*evaluator.Number)
		if !ok {
			return mismatch()
		}
		return reflect.ValueOf(n.Value).Convert(t), nil

	case reflect.String:
		s, ok := obj.(*evaluator.String)
		if !ok {
			return mismatch()
		}
		return reflect.ValueOf(s.Value).Convert(t), nil

	case reflect.Slice:
		if isNullish(obj) {
			return reflect.Zero(t), nil
		}
		if s, ok := obj.(*evaluator.String); ok && t.Elem().Kind() == reflect.Uint8 {
			return reflect.ValueOf([]byte(s.Value)).Convert(t), nil
		}
		arr, ok := obj.(*evaluator.Array)
		if !ok {
			return mismatch()
		}
		out := reflect.MakeSlice(t, len(arr.Elements), len(arr.Elements))
		for i, el := range arr.Elements {
			ev, err := m.fromValue(el, t.Elem(), depth+1)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil

	case reflect.Map:
		if isNullish(obj) {
			return reflect.Zero(t), nil
		}
		om, ok := obj.(*evaluator.Map)
		if !ok {
			return mismatch()
		}
		out := reflect.MakeMapWithSize(t, om.Len())
		for _, pair := range om.Pairs() {
			kv, err := m.fromValue(pair.Key, t.Key(), depth+1)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("map key: %w", err)
			}
			vv, err := m.fromValue(pair.Value, t.Elem(), depth+1)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("map value %s: %w", pair.Key.Inspect(), err)
			}
			out.SetMapIndex(kv, vv)
		}
		return out, nil

	case reflect.Struct:
		om, ok := obj.(*evaluator.Map)
		if !ok {
			return mismatch()
		}
		out := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name, ok := fieldName(field)
			if !ok {
				continue
			}
			val, found := om.GetString(name)
			if !found {
				continue
			}
			fv, err := m.fromValue(val, field.Type, depth+1)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("field %s: %w", field.Name, err)
			}
			out.Field(i).Set(fv)
		}
		return out, nil
	}
	return mismatch()
}

// natural converts obj to the Go type it maps to without a target type.
func (m *Marshaller) natural(obj evaluator.Object, depth int) (interface{}, error) {
	switch o := obj.(type) {
	case *evaluator.Null, *evaluator.Undefined:
		return nil, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.Number:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Array:
		out := make([]interface{}, len(o.Elements))
		for i, el := range o.Elements {
			rv, err := m.fromValue(el, interfaceType, depth+1)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = rv.Interface()
		}
		return out, nil
	case *evaluator.Map:
		out := make(map[string]interface{}, o.Len())
		for _, pair := range o.Pairs() {
			rv, err := m.fromValue(pair.Value, interfaceType, depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", pair.Key.Inspect(), err)
			}
			key := pair.Key.Inspect()
			if s, ok := pair.Key.(*evaluator.String); ok {
				key = s.Value
			}
			out[key] = rv.Interface()
		}
		return out, nil
	case *evaluator.Error:
		return nil, o
	}
	return obj, nil
}

func isNullish(obj evaluator.Object) bool {
	switch obj.(type) {
	case *evaluator.Null, *evaluator.Undefined:
		return true
	}
	return false
}

// wrapFunc exposes a Go function as a builtin. Arguments are converted to
// the parameter types; a trailing error result that is non-nil raises a
// thrown error, and several remaining results are returned as an array.
func (m *Marshaller) wrapFunc(name string, fn reflect.Value) *evaluator.Builtin {
	return &evaluator.Builtin{
		Name: name,
		Fn: func(e *evaluator.Evaluator, env *evaluator.Environment, pos token.Position, args ...evaluator.Object) evaluator.Object {
			res, err := m.callHost(name, fn, args)
			if err != nil {
				if scriptErr, ok := err.(*evaluator.Error); ok {
					return scriptErr
				}
				return &evaluator.Error{Kind: evaluator.KindThrown, Message: err.Error(), Line: pos.Line, Column: pos.Column}
			}
			return res
		},
	}
}

func (m *Marshaller) callHost(name string, fn reflect.Value, args []evaluator.Object) (evaluator.Object, error) {
	fnType := fn.Type()
	numIn := fnType.NumIn()

	if fnType.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, &evaluator.Error{
				Kind:    evaluator.KindArityMismatch,
				Message: fmt.Sprintf("function %s expects at least %d arguments, got %d", name, numIn-1, len(args)),
			}
		}
	} else if len(args) != numIn {
		return nil, &evaluator.Error{
			Kind:    evaluator.KindArityMismatch,
			Message: fmt.Sprintf("function %s expects %d arguments, got %d", name, numIn, len(args)),
		}
	}

	goArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		var target reflect.Type
		if fnType.IsVariadic() && i >= numIn-1 {
			target = fnType.In(numIn - 1).Elem()
		} else {
			target = fnType.In(i)
		}
		rv, err := m.fromValue(arg, target, 0)
		if err != nil {
			return nil, &evaluator.Error{
				Kind:    evaluator.KindInvalidArgument,
				Message: fmt.Sprintf("%s: argument %d: %v", name, i+1, err),
			}
		}
		goArgs[i] = rv
	}

	results := fn.Call(goArgs)
	if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
		if errVal := results[n-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return evaluator.UNDEFINED, nil
	case 1:
		return m.toValue(results[0], 0)
	}
	elements := make([]evaluator.Object, len(results))
	for i, res := range results {
		val, err := m.toValue(res, 0)
		if err != nil {
			return nil, err
		}
		elements[i] = val
	}
	return &evaluator.Array{Elements: elements}, nil
}
