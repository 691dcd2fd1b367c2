package evaluator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/tiny/internal/token"
)

// maxEncodeDepth stops encoding of self-referencing containers.
const maxEncodeDepth = 256

var errEncodeDepth = errors.New("value is nested too deeply (cyclic?)")

// DataBuiltins returns the JSON and YAML codecs. Object key order survives a
// round trip in both directions.
func DataBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		"jsonEncode": {Name: "jsonEncode", Fn: builtinJSONEncode},
		"jsonDecode": {Name: "jsonDecode", Fn: builtinJSONDecode},
		"yamlEncode": {Name: "yamlEncode", Fn: builtinYAMLEncode},
		"yamlDecode": {Name: "yamlDecode", Fn: builtinYAMLDecode},
	}
}

// jsonEncode(value[, pretty])
func builtinJSONEncode(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("jsonEncode", pos, args, 1, 2); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, args[0], 0); err != nil {
		return newErrorAt(pos, KindInvalidArgument, "jsonEncode: %v", err)
	}
	if len(args) == 2 && isTruthy(args[1]) {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, buf.Bytes(), "", "  "); err != nil {
			return newErrorAt(pos, KindInvalidArgument, "jsonEncode: %v", err)
		}
		return &String{Value: pretty.String()}
	}
	return &String{Value: buf.String()}
}

func writeJSON(buf *bytes.Buffer, obj Object, depth int) error {
	if depth > maxEncodeDepth {
		return errEncodeDepth
	}
	switch o := obj.(type) {
	case *Null, *Undefined:
		buf.WriteString("null")
	case *Boolean:
		buf.WriteString(strconv.FormatBool(o.Value))
	case *Number:
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			return fmt.Errorf("cannot encode %s", o.Inspect())
		}
		buf.WriteString(strconv.FormatFloat(o.Value, 'f', -1, 64))
	case *String:
		data, err := json.Marshal(o.Value)
		if err != nil {
			return err
		}
		buf.Write(data)
	case *Array:
		buf.WriteByte('[')
		for i, el := range o.Elements {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, el, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		buf.WriteByte('{')
		for i, pair := range o.Pairs() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(toDisplayString(pair.Key))
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, pair.Value, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %s", obj.Type())
	}
	return nil
}

func builtinJSONDecode(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("jsonDecode", pos, args, 1, 1); err != nil {
		return err
	}
	s, argErr := stringArg("jsonDecode", pos, args, 0)
	if argErr != nil {
		return argErr
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	val, err := readJSON(dec)
	if err == nil {
		// trailing garbage after the first value
		if _, extra := dec.Token(); extra != io.EOF {
			err = errors.New("unexpected data after top-level value")
		}
	}
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "jsonDecode: %v", err)
	}
	return val
}

// readJSON decodes one value token by token so object keys keep their order.
func readJSON(dec *json.Decoder) (Object, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return NULL, nil
	case bool:
		return nativeBoolToBooleanObject(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return &Number{Value: f}, nil
	case string:
		return &String{Value: t}, nil
	case json.Delim:
		switch t {
		case '[':
			arr := &Array{}
			for dec.More() {
				el, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				arr.Elements = append(arr.Elements, el)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key %v", keyTok)
				}
				val, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				m.SetString(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func builtinYAMLEncode(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("yamlEncode", pos, args, 1, 1); err != nil {
		return err
	}
	node, err := toYAMLNode(args[0], 0)
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "yamlEncode: %v", err)
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "yamlEncode: %v", err)
	}
	return &String{Value: string(out)}
}

func toYAMLNode(obj Object, depth int) (*yaml.Node, error) {
	if depth > maxEncodeDepth {
		return nil, errEncodeDepth
	}
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}
	switch o := obj.(type) {
	case *Null, *Undefined:
		return scalar("!!null", "null"), nil
	case *Boolean:
		return scalar("!!bool", strconv.FormatBool(o.Value)), nil
	case *Number:
		if o.IsInt() {
			return scalar("!!int", strconv.FormatFloat(o.Value, 'f', -1, 64)), nil
		}
		switch {
		case math.IsNaN(o.Value):
			return scalar("!!float", ".nan"), nil
		case math.IsInf(o.Value, 1):
			return scalar("!!float", ".inf"), nil
		case math.IsInf(o.Value, -1):
			return scalar("!!float", "-.inf"), nil
		}
		return scalar("!!float", strconv.FormatFloat(o.Value, 'g', -1, 64)), nil
	case *String:
		return scalar("!!str", o.Value), nil
	case *Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, el := range o.Elements {
			child, err := toYAMLNode(el, depth+1)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, pair := range o.Pairs() {
			value, err := toYAMLNode(pair.Value, depth+1)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalar("!!str", toDisplayString(pair.Key)), value)
		}
		return node, nil
	}
	return nil, fmt.Errorf("cannot encode %s", obj.Type())
}

func builtinYAMLDecode(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := checkArgCount("yamlDecode", pos, args, 1, 1); err != nil {
		return err
	}
	s, argErr := stringArg("yamlDecode", pos, args, 0)
	if argErr != nil {
		return argErr
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return newErrorAt(pos, KindInvalidArgument, "yamlDecode: %v", err)
	}
	val, err := fromYAMLNode(&doc, 0)
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "yamlDecode: %v", err)
	}
	return val
}

func fromYAMLNode(node *yaml.Node, depth int) (Object, error) {
	if depth > maxEncodeDepth {
		return nil, errEncodeDepth
	}
	switch node.Kind {
	case 0:
		// empty document
		return NULL, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NULL, nil
		}
		return fromYAMLNode(node.Content[0], depth+1)
	case yaml.AliasNode:
		return fromYAMLNode(node.Alias, depth+1)
	case yaml.SequenceNode:
		arr := &Array{}
		for _, child := range node.Content {
			el, err := fromYAMLNode(child, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, el)
		}
		return arr, nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			val, err := fromYAMLNode(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			m.SetString(node.Content[i].Value, val)
		}
		return m, nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return NULL, nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, err
			}
			return nativeBoolToBooleanObject(b), nil
		case "!!int", "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return nil, err
			}
			return &Number{Value: f}, nil
		}
		return &String{Value: node.Value}, nil
	}
	return nil, fmt.Errorf("unsupported YAML node at line %d", node.Line)
}
